package browser

import (
	"sync"
	"time"
)

// Page represents a single tracked browser tab. It is owned exclusively by the
// Manager; callers refer to it by its opaque ID.
type Page struct {
	// ID is the opaque unique identifier for this page
	ID string

	// URL is the page's current URL ("about:blank" until first navigation)
	URL string

	// Title is the page's current document title
	Title string

	// CreatedAt is the timestamp when the page was opened
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this page
	LastUsedAt time.Time

	handle PageHandle

	// opMu serializes mutating operations (navigation, extraction, click)
	// on this page. Distinct pages never contend.
	opMu sync.Mutex
}

// ContentSnapshot is the normalized extracted representation of a page's
// rendered state at the moment of capture. Array fields are always non-nil.
type ContentSnapshot struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	TextContent string    `json:"text_content"`
	HTMLContent string    `json:"html_content"`
	Links       []Link    `json:"links"`
	Images      []Image   `json:"images"`
	Headings    []string  `json:"headings"`
	MainContent string    `json:"main_content"`
	Screenshot  string    `json:"screenshot"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Link represents a hyperlink with text and URL.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Image represents an image reference with source and alt text.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// HistoryEntry records one successful navigation. Entries are append-only and
// returned oldest first.
type HistoryEntry struct {
	ID        string    `json:"id"`
	PageID    string    `json:"page_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// PageInfo contains metadata about an open page.
type PageInfo struct {
	ID         string
	URL        string
	Title      string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Default tunables, overridable through pkg/config.
const (
	DefaultMaxPages          = 10
	DefaultHistoryLimit      = 200
	DefaultNavigationTimeout = 5 * time.Second
	DefaultSnapshotTTL       = 2 * time.Second
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 720
)
