// Package interaction keeps an append-only log of user and agent actions
// per page. The recorder is deliberately passive: it never triggers other
// components, consumers pull records when they want context.
package interaction

import (
	"sync"
	"time"
)

// Interaction types. The set is open; these are the common ones.
const (
	TypeClick  = "click"
	TypeInput  = "input"
	TypeScroll = "scroll"
	TypeHover  = "hover"
	TypeSubmit = "submit"
)

// Record is one logged action against a page.
type Record struct {
	Type      string    `json:"type"`
	Target    string    `json:"target"`
	Value     string    `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder stores per-page interaction logs keyed by page ID.
type Recorder struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{records: make(map[string][]Record)}
}

// Record appends an interaction to the page's log.
func (r *Recorder) Record(pageID, interactionType, target, value string) {
	entry := Record{
		Type:      interactionType,
		Target:    target,
		Value:     value,
		Timestamp: time.Now(),
	}

	r.mu.Lock()
	r.records[pageID] = append(r.records[pageID], entry)
	r.mu.Unlock()
}

// Get returns the page's records oldest first. The returned slice is a copy.
func (r *Recorder) Get(pageID string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.records[pageID]
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Clear empties the page's log without touching any other per-page state.
func (r *Recorder) Clear(pageID string) {
	r.mu.Lock()
	delete(r.records, pageID)
	r.mu.Unlock()
}

// Drop removes the page's log entirely. Used when the page closes.
func (r *Recorder) Drop(pageID string) {
	r.Clear(pageID)
}

// Types returns the distinct interaction types recorded for the page, in
// first-seen order. Handy as suggestion context.
func (r *Recorder) Types(pageID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	seen := make(map[string]bool)
	for _, rec := range r.records[pageID] {
		if !seen[rec.Type] {
			seen[rec.Type] = true
			out = append(out, rec.Type)
		}
	}
	return out
}
