// Package suggest derives prioritized suggestions from page insights and
// browsing context. Each generation runs three sub-generators, content,
// action, and navigation, and any of them may legally produce nothing.
// Results are cached per page with a generation timestamp so callers can
// reuse fresh suggestions without re-deriving them.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/browsecore/pkg/analysis"
	"github.com/entrhq/browsecore/pkg/browser"
	"github.com/entrhq/browsecore/pkg/logging"
)

// Suggestion types.
const (
	TypeContent    = "content"
	TypeAction     = "action"
	TypeNavigation = "navigation"
)

// Action operations a caller can invoke in response to a suggestion.
const (
	OpNavigateTo = "navigateTo"
	OpClick      = "clickElement"
	OpRecord     = "recordInteraction"
)

// Action describes an invokable operation. It names the operation and its
// arguments; it never holds a live reference to page state.
type Action struct {
	Op     string `json:"op"`
	Target string `json:"target"`
	Value  string `json:"value,omitempty"`
}

// Suggestion is one prioritized recommendation for a page. Callers sort by
// Priority descending; equal priorities keep generation order.
type Suggestion struct {
	Type        string  `json:"type"`
	Subtype     string  `json:"subtype"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    float64 `json:"priority"`
	Action      *Action `json:"action,omitempty"`
}

// Context carries optional page and browsing state into generation. A nil
// Context disables the generators that need it.
type Context struct {
	URL                string
	Links              []browser.Link
	RecentInteractions []string
}

type cacheEntry struct {
	suggestions []Suggestion
	generatedAt time.Time
}

// Engine generates and caches suggestions per page.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
	log   *logging.Logger
}

// NewEngine creates a suggestion engine whose cache entries stay fresh for
// ttl after generation.
func NewEngine(ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Engine{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		log:   logging.New("suggest"),
	}
}

// Generate derives suggestions for the page and overwrites its cache slot.
// It honors ctx cancellation between sub-generators.
func (e *Engine) Generate(ctx context.Context, pageID string, insights *analysis.Insights, pageCtx *Context) ([]Suggestion, error) {
	if insights == nil {
		insights = &analysis.Insights{PageType: analysis.PageTypeGeneric}
	}

	suggestions := make([]Suggestion, 0, 8)
	generators := []func(*analysis.Insights, *Context) []Suggestion{
		contentSuggestions,
		actionSuggestions,
		navigationSuggestions,
	}
	for _, gen := range generators {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("suggestion generation for page %s interrupted: %w", pageID, err)
		}
		suggestions = append(suggestions, gen(insights, pageCtx)...)
	}

	stored := make([]Suggestion, len(suggestions))
	copy(stored, suggestions)

	e.mu.Lock()
	e.cache[pageID] = cacheEntry{suggestions: stored, generatedAt: e.now()}
	e.mu.Unlock()

	e.log.Debugf("generated %d suggestions for page %s", len(suggestions), pageID)
	return suggestions, nil
}

// Cached returns the page's cached suggestions if they are still within the
// TTL. The second return reports whether a fresh entry was found.
func (e *Engine) Cached(pageID string) ([]Suggestion, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entry, exists := e.cache[pageID]
	if !exists || e.now().Sub(entry.generatedAt) > e.ttl {
		return nil, false
	}
	out := make([]Suggestion, len(entry.suggestions))
	copy(out, entry.suggestions)
	return out, true
}

// Invalidate drops the page's cache slot so the next read regenerates.
func (e *Engine) Invalidate(pageID string) {
	e.mu.Lock()
	delete(e.cache, pageID)
	e.mu.Unlock()
}

// Delete removes all cached state for the page. Alias of Invalidate kept for
// symmetry with the other per-page stores.
func (e *Engine) Delete(pageID string) {
	e.Invalidate(pageID)
}

// contentSuggestions derives reading recommendations purely from insights.
func contentSuggestions(insights *analysis.Insights, _ *Context) []Suggestion {
	var out []Suggestion

	for i, topic := range insights.Topics {
		if i >= 3 {
			break
		}
		out = append(out, Suggestion{
			Type:        TypeContent,
			Subtype:     "related-topic",
			Title:       fmt.Sprintf("Explore %q", topic),
			Description: fmt.Sprintf("The page centers on %q; searching for related coverage may surface more depth.", topic),
			Priority:    0.8 - float64(i)*0.1,
		})
	}

	if insights.PageType == analysis.PageTypeArticle && insights.Summary != "" {
		out = append(out, Suggestion{
			Type:        TypeContent,
			Subtype:     "summary-review",
			Title:       "Review the article summary",
			Description: insights.Summary,
			Priority:    0.7,
		})
	}

	if insights.Readability.Level == analysis.LevelAdvanced {
		out = append(out, Suggestion{
			Type:        TypeContent,
			Subtype:     "dense-content",
			Title:       "Dense content detected",
			Description: "This page reads at an advanced level; a summary pass may be faster than a full read.",
			Priority:    0.5,
		})
	}

	return out
}

// actionSuggestions proposes invokable operations based on page type and
// recent interactions. It may return nothing when no affordance stands out.
func actionSuggestions(insights *analysis.Insights, pageCtx *Context) []Suggestion {
	var out []Suggestion

	switch insights.PageType {
	case analysis.PageTypeLogin:
		out = append(out, Suggestion{
			Type:        TypeAction,
			Subtype:     "fill-credentials",
			Title:       "Sign in",
			Description: "This looks like a login page; fill in credentials to proceed.",
			Priority:    0.9,
			Action:      &Action{Op: OpClick, Target: "input[type=password]"},
		})
	case analysis.PageTypeSearch:
		out = append(out, Suggestion{
			Type:        TypeAction,
			Subtype:     "refine-search",
			Title:       "Refine the search",
			Description: "Narrow the query to cut down the result set.",
			Priority:    0.6,
			Action:      &Action{Op: OpClick, Target: "input[type=search]"},
		})
	case analysis.PageTypeProduct, analysis.PageTypeCheckout:
		out = append(out, Suggestion{
			Type:        TypeAction,
			Subtype:     "verify-details",
			Title:       "Verify item details",
			Description: "Check price and options before committing to this transaction.",
			Priority:    0.7,
		})
	}

	if pageCtx != nil && len(pageCtx.RecentInteractions) >= 5 {
		out = append(out, Suggestion{
			Type:        TypeAction,
			Subtype:     "capture-state",
			Title:       "Capture the current state",
			Description: "Several interactions have changed the page; a fresh screenshot preserves the result.",
			Priority:    0.4,
			Action:      &Action{Op: OpRecord, Target: "screenshot"},
		})
	}

	return out
}

// navigationSuggestions proposes outbound links. Non-empty whenever the
// context carries links.
func navigationSuggestions(insights *analysis.Insights, pageCtx *Context) []Suggestion {
	if pageCtx == nil || len(pageCtx.Links) == 0 {
		return nil
	}

	var out []Suggestion
	seen := make(map[string]bool)
	for _, link := range pageCtx.Links {
		if len(out) >= 5 {
			break
		}
		href := strings.TrimSpace(link.Href)
		if href == "" || seen[href] {
			continue
		}
		seen[href] = true

		title := strings.TrimSpace(link.Text)
		if title == "" {
			title = href
		}
		out = append(out, Suggestion{
			Type:        TypeNavigation,
			Subtype:     "outbound-link",
			Title:       fmt.Sprintf("Visit %s", title),
			Description: fmt.Sprintf("Follow the link to %s.", href),
			Priority:    priorityForLink(insights, link),
			Action:      &Action{Op: OpNavigateTo, Target: href},
		})
	}
	return out
}

// priorityForLink scores an outbound link higher when its text overlaps the
// page's keywords.
func priorityForLink(insights *analysis.Insights, link browser.Link) float64 {
	text := strings.ToLower(link.Text)
	for _, kw := range insights.Keywords {
		if kw.Term != "" && strings.Contains(text, kw.Term) {
			return 0.6
		}
	}
	return 0.3
}
