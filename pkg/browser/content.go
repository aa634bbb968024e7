package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
)

type snapshotEntry struct {
	snap *ContentSnapshot
	at   time.Time
}

// GetPageContent re-derives a normalized snapshot of the page's current
// rendered state. Snapshots are cached briefly so a burst of reads within one
// request reuses the same capture; navigation drops the cache.
func (m *Manager) GetPageContent(ctx context.Context, pageID string) (*ContentSnapshot, error) {
	page, err := m.page(pageID)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if entry, ok := m.snapshots[pageID]; ok && time.Since(entry.at) < m.snapshotTTL {
		snap := entry.snap
		m.mu.RUnlock()
		return snap, nil
	}
	m.mu.RUnlock()

	if !page.opMu.TryLock() {
		return nil, &ConcurrentOperationError{PageID: pageID, Op: "extract"}
	}
	defer page.opMu.Unlock()

	snap, err := m.buildSnapshot(page)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.snapshots[pageID] = snapshotEntry{snap: snap, at: time.Now()}
	page.LastUsedAt = time.Now()
	m.mu.Unlock()

	return snap, nil
}

func (m *Manager) buildSnapshot(page *Page) (*ContentSnapshot, error) {
	raw, err := page.handle.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}

	doc := parseDocument(raw)

	title := doc.Title
	if t, err := page.handle.Title(); err == nil && t != "" {
		title = t
	}

	screenshot := ""
	if data, err := page.handle.Screenshot(); err == nil {
		screenshot = base64.StdEncoding.EncodeToString(data)
	} else {
		m.log.Warnf("screenshot failed for page %s: %v", page.ID, err)
	}

	return &ContentSnapshot{
		URL:         page.handle.URL(),
		Title:       title,
		TextContent: doc.Text,
		HTMLContent: raw,
		Links:       doc.Links,
		Images:      doc.Images,
		Headings:    doc.Headings,
		MainContent: doc.MainContent,
		Screenshot:  screenshot,
		CapturedAt:  time.Now(),
	}, nil
}

// TakeScreenshot captures the page on demand, independent of any snapshot.
// Returns the image as a base64 string.
func (m *Manager) TakeScreenshot(ctx context.Context, pageID string) (string, error) {
	page, err := m.page(pageID)
	if err != nil {
		return "", err
	}

	if !page.opMu.TryLock() {
		return "", &ConcurrentOperationError{PageID: pageID, Op: "screenshot"}
	}
	defer page.opMu.Unlock()

	data, err := page.handle.Screenshot()
	if err != nil {
		return "", fmt.Errorf("screenshot failed for page %q: %w", pageID, err)
	}
	m.touch(page)
	return base64.StdEncoding.EncodeToString(data), nil
}

// ExecuteJavaScript evaluates a script expression in the page context and
// returns its result. Side effects are the caller's responsibility.
func (m *Manager) ExecuteJavaScript(ctx context.Context, pageID, script string) (interface{}, error) {
	page, err := m.page(pageID)
	if err != nil {
		return nil, err
	}

	if !page.opMu.TryLock() {
		return nil, &ConcurrentOperationError{PageID: pageID, Op: "evaluate"}
	}
	defer page.opMu.Unlock()

	result, err := page.handle.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("javascript execution failed for page %q: %w", pageID, err)
	}
	m.touch(page)
	return result, nil
}

// ClickElement dispatches a user-style click. If the click navigated the page,
// the same bookkeeping as NavigateTo applies: history append, caches dropped.
func (m *Manager) ClickElement(ctx context.Context, pageID, selector string) error {
	page, err := m.page(pageID)
	if err != nil {
		return err
	}

	if !page.opMu.TryLock() {
		return &ConcurrentOperationError{PageID: pageID, Op: "click"}
	}
	defer page.opMu.Unlock()

	before := page.handle.URL()
	if err := page.handle.Click(selector); err != nil {
		return fmt.Errorf("click on %q failed for page %q: %w", selector, pageID, err)
	}

	if page.handle.URL() != before {
		m.recordNavigation(page)
		m.log.Infof("click on %q navigated page %s to %s", selector, pageID, page.handle.URL())
	} else {
		m.touch(page)
	}
	return nil
}
