// Package visualmem stores per-page visual memory: the screenshot, a derived
// thumbnail, and the insight bundle captured together. Entries are replaced
// whole on recapture so a screenshot never pairs with stale insights.
package visualmem

import (
	"sync"
	"time"

	"github.com/entrhq/browsecore/pkg/analysis"
	"github.com/entrhq/browsecore/pkg/browser"
	"github.com/entrhq/browsecore/pkg/logging"
)

// Entry is one page's captured visual memory.
type Entry struct {
	PageID     string
	Screenshot string // base64 encoded image
	Thumbnail  string // base64 encoded scaled-down image
	Insights   *analysis.Insights
	Timestamp  time.Time
}

// Store holds one entry per page, keyed by page ID.
// Concurrency: protected by RWMutex; reads return the stored entry values,
// which are never mutated after capture.
type Store struct {
	mu             sync.RWMutex
	entries        map[string]*Entry
	thumbnailWidth int
	log            *logging.Logger
}

// NewStore creates an empty visual memory store. thumbnailWidth is the target
// thumbnail width in pixels; height preserves the aspect ratio.
func NewStore(thumbnailWidth int) *Store {
	if thumbnailWidth <= 0 {
		thumbnailWidth = 160
	}
	return &Store{
		entries:        make(map[string]*Entry),
		thumbnailWidth: thumbnailWidth,
		log:            logging.New("visualmem"),
	}
}

// Capture stores a whole new entry for the page, replacing any prior one.
// The thumbnail is derived from the screenshot; if the screenshot cannot be
// decoded the full image doubles as the thumbnail.
func (s *Store) Capture(pageID, screenshot string, insights *analysis.Insights) {
	thumbnail, err := makeThumbnail(screenshot, s.thumbnailWidth)
	if err != nil {
		s.log.Warnf("thumbnail generation failed for page %s: %v", pageID, err)
		thumbnail = screenshot
	}

	entry := &Entry{
		PageID:     pageID,
		Screenshot: screenshot,
		Thumbnail:  thumbnail,
		Insights:   insights,
		Timestamp:  time.Now(),
	}

	s.mu.Lock()
	s.entries[pageID] = entry
	s.mu.Unlock()
}

// Screenshot returns the stored full screenshot for the page.
func (s *Store) Screenshot(pageID string) (string, error) {
	entry, err := s.entry(pageID)
	if err != nil {
		return "", err
	}
	return entry.Screenshot, nil
}

// Thumbnail returns the stored thumbnail for the page.
func (s *Store) Thumbnail(pageID string) (string, error) {
	entry, err := s.entry(pageID)
	if err != nil {
		return "", err
	}
	return entry.Thumbnail, nil
}

// Get returns the full entry for the page.
func (s *Store) Get(pageID string) (*Entry, error) {
	return s.entry(pageID)
}

// Delete removes the page's entry. Idempotent: deleting an absent entry is
// not an error.
func (s *Store) Delete(pageID string) {
	s.mu.Lock()
	delete(s.entries, pageID)
	s.mu.Unlock()
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) entry(pageID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[pageID]
	if !exists {
		return nil, &browser.NotFoundError{PageID: pageID}
	}
	return entry, nil
}
