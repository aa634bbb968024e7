// Package core assembles the browsing subsystem: page lifecycle and content
// extraction, insight analysis, visual memory, suggestions, and interaction
// logging behind one facade. All per-page state is keyed by page ID, so
// closing a page is a single cascading delete across the stores.
package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/entrhq/browsecore/pkg/analysis"
	"github.com/entrhq/browsecore/pkg/browser"
	"github.com/entrhq/browsecore/pkg/config"
	"github.com/entrhq/browsecore/pkg/interaction"
	"github.com/entrhq/browsecore/pkg/llm"
	"github.com/entrhq/browsecore/pkg/logging"
	"github.com/entrhq/browsecore/pkg/suggest"
	"github.com/entrhq/browsecore/pkg/visualmem"
)

type insightEntry struct {
	contentHash string
	insights    *analysis.Insights
}

// Core is the top-level browsing facade.
type Core struct {
	cfg      *config.Settings
	manager  *browser.Manager
	analyzer *analysis.Analyzer
	visual   *visualmem.Store
	engine   *suggest.Engine
	recorder *interaction.Recorder
	log      *logging.Logger

	mu       sync.Mutex
	insights map[string]insightEntry
}

// New wires the subsystem together. provider may be nil, in which case
// insight generation runs heuristic-only.
func New(driver browser.Driver, cfg *config.Settings, provider llm.Provider) *Core {
	if cfg == nil {
		cfg = config.Default()
	}
	manager := browser.NewManager(driver, browser.ManagerOptions{
		MaxPages:          cfg.MaxPages,
		HistoryLimit:      cfg.HistoryLimit,
		NavigationTimeout: cfg.NavigationTimeout.Std(),
		SnapshotTTL:       cfg.SnapshotTTL.Std(),
	})

	c := &Core{
		cfg:     cfg,
		manager: manager,
		analyzer: analysis.New(analysis.Config{
			SentimentPositive: cfg.SentimentPositive,
			SentimentNegative: cfg.SentimentNegative,
			KeywordLimit:      cfg.KeywordLimit,
			SummarySentences:  cfg.SummarySentences,
		}, provider),
		visual:   visualmem.NewStore(cfg.ThumbnailWidth),
		engine:   suggest.NewEngine(cfg.SuggestionTTL.Std()),
		recorder: interaction.NewRecorder(),
		log:      logging.New("core"),
		insights: make(map[string]insightEntry),
	}

	// Navigation changes the document, so derived state for the page is
	// stale the moment it succeeds.
	manager.SetNavigationHook(func(pageID string) {
		c.mu.Lock()
		delete(c.insights, pageID)
		c.mu.Unlock()
		c.engine.Invalidate(pageID)
	})
	manager.SetCloseHook(func(pageID string) {
		c.mu.Lock()
		delete(c.insights, pageID)
		c.mu.Unlock()
		c.visual.Delete(pageID)
		c.engine.Delete(pageID)
		c.recorder.Drop(pageID)
		c.log.Debugf("cascaded delete of derived state for page %s", pageID)
	})

	return c
}

// CreatePage opens a fresh page and returns its ID.
func (c *Core) CreatePage(ctx context.Context) (string, error) {
	return c.manager.CreatePage(ctx)
}

// NavigateTo loads url into the page.
func (c *Core) NavigateTo(ctx context.Context, pageID, url string) error {
	return c.manager.NavigateTo(ctx, pageID, url)
}

// ClosePage releases the page and cascades deletion of its visual memory,
// suggestion cache, and interaction log.
func (c *Core) ClosePage(pageID string) error {
	return c.manager.ClosePage(pageID)
}

// GetBrowsingHistory returns all navigation history, oldest first.
func (c *Core) GetBrowsingHistory() []browser.HistoryEntry {
	return c.manager.GetBrowsingHistory()
}

// ListPages returns metadata for all open pages.
func (c *Core) ListPages() []browser.PageInfo {
	return c.manager.ListPages()
}

// GetPageContent extracts the page's current rendered state.
func (c *Core) GetPageContent(ctx context.Context, pageID string) (*browser.ContentSnapshot, error) {
	return c.manager.GetPageContent(ctx, pageID)
}

// TakeScreenshot captures the page's viewport on demand.
func (c *Core) TakeScreenshot(ctx context.Context, pageID string) (string, error) {
	return c.manager.TakeScreenshot(ctx, pageID)
}

// ExecuteJavaScript evaluates script in the page context.
func (c *Core) ExecuteJavaScript(ctx context.Context, pageID, script string) (interface{}, error) {
	return c.manager.ExecuteJavaScript(ctx, pageID, script)
}

// ClickElement dispatches a click; click-triggered navigation flows through
// the same history and invalidation bookkeeping as NavigateTo.
func (c *Core) ClickElement(ctx context.Context, pageID, selector string) error {
	return c.manager.ClickElement(ctx, pageID, selector)
}

// GetPageInsights analyzes the page's current content and, as a side effect,
// captures the page's visual memory entry. Results are memoized by content
// hash, so repeated calls without an intervening navigation return equal
// insight values without re-running analysis.
func (c *Core) GetPageInsights(ctx context.Context, pageID string) (*analysis.Insights, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.InsightTimeout.Std())
	defer cancel()

	snap, err := c.manager.GetPageContent(ctx, pageID)
	if err != nil {
		return nil, err
	}

	hash := contentHash(snap)

	c.mu.Lock()
	if entry, ok := c.insights[pageID]; ok && entry.contentHash == hash {
		c.mu.Unlock()
		c.log.Debugf("serving memoized insights for page %s", pageID)
		return entry.insights, nil
	}
	c.mu.Unlock()

	insights := c.analyzer.Analyze(ctx, snap)
	c.visual.Capture(pageID, snap.Screenshot, insights)

	c.mu.Lock()
	c.insights[pageID] = insightEntry{contentHash: hash, insights: insights}
	c.mu.Unlock()

	return insights, nil
}

// GetPageSuggestions returns cached suggestions if still fresh, otherwise
// regenerates them from the page's current insights and context.
func (c *Core) GetPageSuggestions(ctx context.Context, pageID string) ([]suggest.Suggestion, error) {
	if _, err := c.manager.GetPageInfo(pageID); err != nil {
		return nil, err
	}
	if cached, ok := c.engine.Cached(pageID); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SuggestionTimeout.Std())
	defer cancel()

	insights, err := c.GetPageInsights(ctx, pageID)
	if err != nil {
		return nil, err
	}
	snap, err := c.manager.GetPageContent(ctx, pageID)
	if err != nil {
		return nil, err
	}

	pageCtx := &suggest.Context{
		URL:                snap.URL,
		Links:              snap.Links,
		RecentInteractions: c.recorder.Types(pageID),
	}
	return c.engine.Generate(ctx, pageID, insights, pageCtx)
}

// GetPageScreenshot returns the stored full screenshot from visual memory.
func (c *Core) GetPageScreenshot(pageID string) (string, error) {
	return c.visual.Screenshot(pageID)
}

// GetPageThumbnail returns the stored thumbnail from visual memory.
func (c *Core) GetPageThumbnail(pageID string) (string, error) {
	return c.visual.Thumbnail(pageID)
}

// DeletePageMemory removes the page's visual memory entry. Idempotent.
func (c *Core) DeletePageMemory(pageID string) {
	c.visual.Delete(pageID)
}

// RecordInteraction logs an action against an open page.
func (c *Core) RecordInteraction(pageID, interactionType, target, value string) error {
	if _, err := c.manager.GetPageInfo(pageID); err != nil {
		return err
	}
	c.recorder.Record(pageID, interactionType, target, value)
	return nil
}

// GetPageInteractions returns the open page's interaction log, oldest first.
func (c *Core) GetPageInteractions(pageID string) ([]interaction.Record, error) {
	if _, err := c.manager.GetPageInfo(pageID); err != nil {
		return nil, err
	}
	return c.recorder.Get(pageID), nil
}

// ClearPageInteractions empties the open page's interaction log.
func (c *Core) ClearPageInteractions(pageID string) error {
	if _, err := c.manager.GetPageInfo(pageID); err != nil {
		return err
	}
	c.recorder.Clear(pageID)
	return nil
}

// CloseIdlePages closes pages unused for the configured idle timeout and
// returns their IDs.
func (c *Core) CloseIdlePages() []string {
	return c.manager.CloseIdle(c.cfg.IdleTimeout.Std())
}

// Shutdown closes all pages and the underlying browser driver.
func (c *Core) Shutdown() error {
	return c.manager.Shutdown()
}

func contentHash(snap *browser.ContentSnapshot) string {
	h := sha256.New()
	h.Write([]byte(snap.URL))
	h.Write([]byte{0})
	h.Write([]byte(snap.TextContent))
	return hex.EncodeToString(h.Sum(nil))
}
