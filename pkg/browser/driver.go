package browser

import "context"

// Driver abstracts the headless-browser primitive the core is layered on.
// The production implementation is backed by Playwright; tests substitute a
// fake so registry and extraction logic can run without a browser install.
type Driver interface {
	// NewPage opens a fresh, isolated renderable page.
	NewPage(ctx context.Context) (PageHandle, error)

	// Shutdown releases the underlying browser runtime. All handles opened
	// through this driver become invalid.
	Shutdown() error
}

// PageHandle is the narrow per-page surface consumed by the Manager: load a
// URL, read rendered state, capture pixels, evaluate script, dispatch a click.
type PageHandle interface {
	// Navigate loads the URL and waits for the page to settle. The context
	// deadline bounds the load.
	Navigate(ctx context.Context, url string) error

	// URL returns the page's current URL.
	URL() string

	// Title returns the current document title.
	Title() (string, error)

	// HTML returns the full serialized DOM of the current document.
	HTML() (string, error)

	// Screenshot captures the current viewport as encoded image bytes.
	Screenshot() ([]byte, error)

	// Evaluate runs a JavaScript expression in the page context and returns
	// its result.
	Evaluate(script string) (interface{}, error)

	// Click dispatches a user-style click on the first element matching the
	// CSS selector. A click may itself trigger navigation.
	Click(selector string) error

	// Close releases the page and its browser resources.
	Close() error
}
