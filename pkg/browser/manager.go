package browser

import (
	"context"
	"sync"
	"time"

	"github.com/entrhq/browsecore/pkg/logging"
	"github.com/google/uuid"
)

// Manager owns the set of open pages and their browsing history. Pages are
// keyed by an opaque ID so other components can hold references without
// ownership cycles; closing a page notifies the registered close hook so
// per-page state elsewhere can cascade.
type Manager struct {
	mu           sync.RWMutex
	driver       Driver
	pages        map[string]*Page
	history      []HistoryEntry
	snapshots    map[string]snapshotEntry
	maxPages     int
	historyLimit int
	navTimeout   time.Duration
	snapshotTTL  time.Duration
	log          *logging.Logger

	// onNavigated fires after any successful navigation bookkeeping,
	// including click-triggered navigation. Used for cache invalidation.
	onNavigated func(pageID string)

	// onClosed fires after a page has been removed from the registry.
	onClosed func(pageID string)
}

// ManagerOptions configures a Manager. Zero values fall back to defaults.
type ManagerOptions struct {
	MaxPages          int
	HistoryLimit      int
	NavigationTimeout time.Duration
	SnapshotTTL       time.Duration
}

// NewManager creates a page registry on top of the given browser driver.
func NewManager(driver Driver, opts ManagerOptions) *Manager {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = DefaultSnapshotTTL
	}

	return &Manager{
		driver:       driver,
		pages:        make(map[string]*Page),
		snapshots:    make(map[string]snapshotEntry),
		maxPages:     opts.MaxPages,
		historyLimit: opts.HistoryLimit,
		navTimeout:   opts.NavigationTimeout,
		snapshotTTL:  opts.SnapshotTTL,
		log:          logging.New("browser"),
	}
}

// SetNavigationHook registers a callback invoked after every successful
// navigation (direct or click-triggered). Must be set before pages are used.
func (m *Manager) SetNavigationHook(fn func(pageID string)) {
	m.onNavigated = fn
}

// SetCloseHook registers a callback invoked after a page is closed.
// Must be set before pages are used.
func (m *Manager) SetCloseHook(fn func(pageID string)) {
	m.onClosed = fn
}

// CreatePage allocates a new page context and returns its ID.
func (m *Manager) CreatePage(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pages) >= m.maxPages {
		return "", &ResourceExhaustedError{Limit: m.maxPages}
	}

	handle, err := m.driver.NewPage(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now()
	page := &Page{
		ID:         uuid.New().String(),
		URL:        "about:blank",
		CreatedAt:  now,
		LastUsedAt: now,
		handle:     handle,
	}
	m.pages[page.ID] = page

	m.log.Infof("created page %s (%d open)", page.ID, len(m.pages))
	return page.ID, nil
}

// NavigateTo loads url into the page, appends a history entry, and invalidates
// cached derived state for the page. On failure the page stays at its prior URL.
func (m *Manager) NavigateTo(ctx context.Context, pageID, url string) error {
	page, err := m.page(pageID)
	if err != nil {
		return err
	}

	if !page.opMu.TryLock() {
		return &ConcurrentOperationError{PageID: pageID, Op: "navigate"}
	}
	defer page.opMu.Unlock()

	navCtx, cancel := context.WithTimeout(ctx, m.navTimeout)
	defer cancel()

	if err := page.handle.Navigate(navCtx, url); err != nil {
		m.log.Warnf("navigation to %s failed for page %s: %v", url, pageID, err)
		return &NavigationError{PageID: pageID, URL: url, Cause: err}
	}

	m.recordNavigation(page)
	m.log.Infof("page %s navigated to %s", pageID, url)
	return nil
}

// recordNavigation updates page metadata, appends a history entry, and drops
// the page's cached snapshot. The caller must hold the page's op lock.
func (m *Manager) recordNavigation(page *Page) {
	title, err := page.handle.Title()
	if err != nil {
		title = ""
	}

	m.mu.Lock()
	page.URL = page.handle.URL()
	page.Title = title
	page.LastUsedAt = time.Now()

	m.history = append(m.history, HistoryEntry{
		ID:        uuid.New().String(),
		PageID:    page.ID,
		URL:       page.URL,
		Title:     title,
		Timestamp: time.Now(),
	})
	if len(m.history) > m.historyLimit {
		m.history = m.history[len(m.history)-m.historyLimit:]
	}

	delete(m.snapshots, page.ID)
	m.mu.Unlock()

	if m.onNavigated != nil {
		m.onNavigated(page.ID)
	}
}

// ClosePage releases the page context. A second close returns NotFoundError.
func (m *Manager) ClosePage(pageID string) error {
	m.mu.Lock()
	page, exists := m.pages[pageID]
	if !exists {
		m.mu.Unlock()
		return &NotFoundError{PageID: pageID}
	}
	delete(m.pages, pageID)
	delete(m.snapshots, pageID)
	m.mu.Unlock()

	if err := page.handle.Close(); err != nil {
		m.log.Warnf("error closing page %s: %v", pageID, err)
	}

	if m.onClosed != nil {
		m.onClosed(pageID)
	}
	m.log.Infof("closed page %s", pageID)
	return nil
}

// GetBrowsingHistory returns all history entries in navigation order,
// oldest first.
func (m *Manager) GetBrowsingHistory() []HistoryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]HistoryEntry, len(m.history))
	copy(out, m.history)
	return out
}

// GetPageInfo returns metadata for an open page.
func (m *Manager) GetPageInfo(pageID string) (PageInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, exists := m.pages[pageID]
	if !exists {
		return PageInfo{}, &NotFoundError{PageID: pageID}
	}
	return PageInfo{
		ID:         page.ID,
		URL:        page.URL,
		Title:      page.Title,
		CreatedAt:  page.CreatedAt,
		LastUsedAt: page.LastUsedAt,
	}, nil
}

// ListPages returns metadata for all open pages.
func (m *Manager) ListPages() []PageInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]PageInfo, 0, len(m.pages))
	for _, page := range m.pages {
		infos = append(infos, PageInfo{
			ID:         page.ID,
			URL:        page.URL,
			Title:      page.Title,
			CreatedAt:  page.CreatedAt,
			LastUsedAt: page.LastUsedAt,
		})
	}
	return infos
}

// CloseIdle closes every page idle for longer than the given duration.
// Returns the IDs of closed pages.
func (m *Manager) CloseIdle(idleFor time.Duration) []string {
	m.mu.RLock()
	now := time.Now()
	var idle []string
	for id, page := range m.pages {
		if now.Sub(page.LastUsedAt) > idleFor {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	closed := make([]string, 0, len(idle))
	for _, id := range idle {
		if err := m.ClosePage(id); err == nil {
			closed = append(closed, id)
		}
	}
	return closed
}

// Shutdown closes all pages and releases the browser driver.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	pages := make([]*Page, 0, len(m.pages))
	for id, page := range m.pages {
		pages = append(pages, page)
		delete(m.pages, id)
		delete(m.snapshots, id)
	}
	m.mu.Unlock()

	for _, page := range pages {
		_ = page.handle.Close()
		if m.onClosed != nil {
			m.onClosed(page.ID)
		}
	}

	return m.driver.Shutdown()
}

// page looks up an open page by ID.
func (m *Manager) page(pageID string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, exists := m.pages[pageID]
	if !exists {
		return nil, &NotFoundError{PageID: pageID}
	}
	return page, nil
}

// touch updates a page's last-used timestamp.
func (m *Manager) touch(page *Page) {
	m.mu.Lock()
	page.LastUsedAt = time.Now()
	m.mu.Unlock()
}
