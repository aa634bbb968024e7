package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeDoc is a canned document served by the fake driver.
type fakeDoc struct {
	title string
	html  string
}

// fakeDriver implements Driver with canned documents keyed by URL. Navigating
// to a URL with no document fails like a DNS error.
type fakeDriver struct {
	mu       sync.Mutex
	docs     map[string]fakeDoc
	opened   int
	shutdown bool

	// navDelay makes every navigation take this long (cancellable via ctx)
	navDelay time.Duration

	// navStarted/navRelease, when set, let a test hold a navigation in
	// flight: Navigate signals navStarted then blocks on navRelease.
	navStarted chan struct{}
	navRelease chan struct{}

	// clicks maps selector -> destination URL for click-triggered navigation
	clicks map[string]string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		docs: map[string]fakeDoc{
			"https://example.com": {
				title: "Example Domain",
				html: `<html><head><title>Example Domain</title></head><body>
					<h1>Example Domain</h1>
					<p>This domain is for use in illustrative examples in documents.</p>
					<a href="https://www.iana.org/domains/example">More information</a>
				</body></html>`,
			},
			"https://example.com/other": {
				title: "Other Page",
				html:  `<html><head><title>Other Page</title></head><body><p>Something else entirely.</p></body></html>`,
			},
		},
		clicks: map[string]string{},
	}
}

func (d *fakeDriver) NewPage(ctx context.Context) (PageHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened++
	return &fakeHandle{driver: d, url: "about:blank"}, nil
}

func (d *fakeDriver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shutdown = true
	return nil
}

type fakeHandle struct {
	driver *fakeDriver
	mu     sync.Mutex
	url    string
	doc    fakeDoc
	closed bool
}

func (h *fakeHandle) Navigate(ctx context.Context, url string) error {
	if h.driver.navStarted != nil {
		h.driver.navStarted <- struct{}{}
		<-h.driver.navRelease
	}
	if h.driver.navDelay > 0 {
		select {
		case <-time.After(h.driver.navDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	h.driver.mu.Lock()
	doc, ok := h.driver.docs[url]
	h.driver.mu.Unlock()
	if !ok {
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", url)
	}

	h.mu.Lock()
	h.url = url
	h.doc = doc
	h.mu.Unlock()
	return nil
}

func (h *fakeHandle) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.url
}

func (h *fakeHandle) Title() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc.title, nil
}

func (h *fakeHandle) HTML() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc.html, nil
}

func (h *fakeHandle) Screenshot() ([]byte, error) {
	return []byte("fake-screenshot-bytes"), nil
}

func (h *fakeHandle) Evaluate(script string) (interface{}, error) {
	if script == "document.title" {
		title, _ := h.Title()
		return title, nil
	}
	return nil, nil
}

func (h *fakeHandle) Click(selector string) error {
	h.driver.mu.Lock()
	dest, ok := h.driver.clicks[selector]
	h.driver.mu.Unlock()
	if !ok {
		return fmt.Errorf("no element found matching selector: %s", selector)
	}
	return h.Navigate(context.Background(), dest)
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Compile-time interface checks
var (
	_ Driver     = (*fakeDriver)(nil)
	_ PageHandle = (*fakeHandle)(nil)
)

func newTestManager(t *testing.T, opts ManagerOptions) (*Manager, *fakeDriver) {
	t.Helper()
	driver := newFakeDriver()
	mgr := NewManager(driver, opts)
	t.Cleanup(func() { mgr.Shutdown() })
	return mgr, driver
}

func TestCreatePageAndInfo(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{})

	id, err := mgr.CreatePage(context.Background())
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty page ID")
	}

	info, err := mgr.GetPageInfo(id)
	if err != nil {
		t.Fatalf("GetPageInfo failed: %v", err)
	}
	if info.URL != "about:blank" {
		t.Errorf("new page URL = %q, want about:blank", info.URL)
	}
}

func TestCreatePageLimitExhausted(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{MaxPages: 2})

	for i := 0; i < 2; i++ {
		if _, err := mgr.CreatePage(context.Background()); err != nil {
			t.Fatalf("CreatePage %d failed: %v", i, err)
		}
	}

	_, err := mgr.CreatePage(context.Background())
	var exhausted *ResourceExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ResourceExhaustedError, got %v", err)
	}
	if exhausted.Limit != 2 {
		t.Errorf("Limit = %d, want 2", exhausted.Limit)
	}
}

func TestNavigateUpdatesPageAndHistory(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{})
	id, _ := mgr.CreatePage(context.Background())

	if err := mgr.NavigateTo(context.Background(), id, "https://example.com"); err != nil {
		t.Fatalf("NavigateTo failed: %v", err)
	}
	if err := mgr.NavigateTo(context.Background(), id, "https://example.com/other"); err != nil {
		t.Fatalf("second NavigateTo failed: %v", err)
	}

	info, _ := mgr.GetPageInfo(id)
	if info.URL != "https://example.com/other" {
		t.Errorf("page URL = %q, want the second destination", info.URL)
	}
	if info.Title != "Other Page" {
		t.Errorf("page title = %q, want %q", info.Title, "Other Page")
	}

	history := mgr.GetBrowsingHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].URL != "https://example.com" || history[1].URL != "https://example.com/other" {
		t.Errorf("history out of order: %#v", history)
	}
	for _, entry := range history {
		if entry.PageID != id {
			t.Errorf("history entry for wrong page: %#v", entry)
		}
		if entry.ID == "" {
			t.Error("history entry missing ID")
		}
	}
	if !history[1].Timestamp.Before(time.Now().Add(time.Second)) {
		t.Error("implausible history timestamp")
	}
}

func TestNavigateFailureLeavesPriorURL(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{})
	id, _ := mgr.CreatePage(context.Background())
	if err := mgr.NavigateTo(context.Background(), id, "https://example.com"); err != nil {
		t.Fatalf("NavigateTo failed: %v", err)
	}

	err := mgr.NavigateTo(context.Background(), id, "https://unreachable.invalid")
	var navErr *NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("expected NavigationError, got %v", err)
	}
	if navErr.PageID != id || navErr.URL != "https://unreachable.invalid" {
		t.Errorf("error context incomplete: %#v", navErr)
	}

	info, _ := mgr.GetPageInfo(id)
	if info.URL != "https://example.com" {
		t.Errorf("page URL = %q, want pre-navigation value", info.URL)
	}
	if len(mgr.GetBrowsingHistory()) != 1 {
		t.Error("failed navigation must not append history")
	}
}

func TestNavigateTimeout(t *testing.T) {
	driver := newFakeDriver()
	driver.navDelay = 100 * time.Millisecond
	mgr := NewManager(driver, ManagerOptions{NavigationTimeout: 10 * time.Millisecond})
	defer mgr.Shutdown()

	id, _ := mgr.CreatePage(context.Background())
	err := mgr.NavigateTo(context.Background(), id, "https://example.com")

	var navErr *NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("expected NavigationError on timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected cause to be deadline exceeded, got %v", navErr.Cause)
	}

	info, _ := mgr.GetPageInfo(id)
	if info.URL != "about:blank" {
		t.Errorf("page URL = %q, want about:blank after timed-out navigation", info.URL)
	}
}

func TestConcurrentNavigationRejected(t *testing.T) {
	driver := newFakeDriver()
	driver.navStarted = make(chan struct{})
	driver.navRelease = make(chan struct{})
	mgr := NewManager(driver, ManagerOptions{})
	defer mgr.Shutdown()

	id, _ := mgr.CreatePage(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- mgr.NavigateTo(context.Background(), id, "https://example.com")
	}()
	<-driver.navStarted // first navigation is now in flight

	err := mgr.NavigateTo(context.Background(), id, "https://example.com/other")
	var concurrent *ConcurrentOperationError
	if !errors.As(err, &concurrent) {
		t.Fatalf("expected ConcurrentOperationError, got %v", err)
	}

	close(driver.navRelease)
	if err := <-done; err != nil {
		t.Fatalf("first navigation failed: %v", err)
	}
}

func TestDistinctPagesDoNotContend(t *testing.T) {
	driver := newFakeDriver()
	driver.navStarted = make(chan struct{}, 1)
	driver.navRelease = make(chan struct{})
	mgr := NewManager(driver, ManagerOptions{})
	defer mgr.Shutdown()

	first, _ := mgr.CreatePage(context.Background())
	second, _ := mgr.CreatePage(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- mgr.NavigateTo(context.Background(), first, "https://example.com")
	}()
	<-driver.navStarted

	// The second page's navigation must not be blocked by the first page's.
	go func() { <-driver.navStarted }()
	otherDone := make(chan error, 1)
	go func() {
		otherDone <- mgr.NavigateTo(context.Background(), second, "https://example.com/other")
	}()

	close(driver.navRelease)
	if err := <-done; err != nil {
		t.Fatalf("first page navigation failed: %v", err)
	}
	if err := <-otherDone; err != nil {
		t.Fatalf("second page navigation failed: %v", err)
	}
}

func TestHistoryBounded(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{HistoryLimit: 3})
	id, _ := mgr.CreatePage(context.Background())

	urls := []string{"https://example.com", "https://example.com/other"}
	for i := 0; i < 5; i++ {
		if err := mgr.NavigateTo(context.Background(), id, urls[i%2]); err != nil {
			t.Fatalf("navigation %d failed: %v", i, err)
		}
	}

	history := mgr.GetBrowsingHistory()
	if len(history) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(history))
	}
	// The three newest entries survive: other, example, other
	if history[len(history)-1].URL != urls[0] {
		t.Errorf("newest entry = %q, want %q", history[len(history)-1].URL, urls[0])
	}
}

func TestClosePageIdempotentSafe(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{})
	id, _ := mgr.CreatePage(context.Background())

	if err := mgr.ClosePage(id); err != nil {
		t.Fatalf("ClosePage failed: %v", err)
	}

	var notFound *NotFoundError
	if err := mgr.ClosePage(id); !errors.As(err, &notFound) {
		t.Errorf("second close: expected NotFoundError, got %v", err)
	}
	if _, err := mgr.GetPageInfo(id); !errors.As(err, &notFound) {
		t.Errorf("read after close: expected NotFoundError, got %v", err)
	}
	if _, err := mgr.GetPageContent(context.Background(), id); !errors.As(err, &notFound) {
		t.Errorf("content after close: expected NotFoundError, got %v", err)
	}
	if err := mgr.NavigateTo(context.Background(), id, "https://example.com"); !errors.As(err, &notFound) {
		t.Errorf("navigate after close: expected NotFoundError, got %v", err)
	}
}

func TestUnknownPageOperations(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{})

	var notFound *NotFoundError
	if _, err := mgr.TakeScreenshot(context.Background(), "nope"); !errors.As(err, &notFound) {
		t.Errorf("TakeScreenshot: expected NotFoundError, got %v", err)
	}
	if _, err := mgr.ExecuteJavaScript(context.Background(), "nope", "1+1"); !errors.As(err, &notFound) {
		t.Errorf("ExecuteJavaScript: expected NotFoundError, got %v", err)
	}
	if err := mgr.ClickElement(context.Background(), "nope", "a"); !errors.As(err, &notFound) {
		t.Errorf("ClickElement: expected NotFoundError, got %v", err)
	}
}

func TestGetPageContentSnapshot(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{})
	id, _ := mgr.CreatePage(context.Background())
	if err := mgr.NavigateTo(context.Background(), id, "https://example.com"); err != nil {
		t.Fatalf("NavigateTo failed: %v", err)
	}

	snap, err := mgr.GetPageContent(context.Background(), id)
	if err != nil {
		t.Fatalf("GetPageContent failed: %v", err)
	}
	if !strings.Contains(snap.URL, "example.com") {
		t.Errorf("snapshot URL = %q, want to contain example.com", snap.URL)
	}
	if snap.Title == "" {
		t.Error("expected non-empty title")
	}
	if snap.Links == nil || snap.Images == nil || snap.Headings == nil {
		t.Error("array fields must be non-nil")
	}
	if len(snap.Links) != 1 {
		t.Errorf("expected 1 link, got %d", len(snap.Links))
	}
	if snap.Screenshot == "" {
		t.Error("expected embedded screenshot")
	}

	// Within the TTL the same snapshot is reused
	again, err := mgr.GetPageContent(context.Background(), id)
	if err != nil {
		t.Fatalf("second GetPageContent failed: %v", err)
	}
	if again != snap {
		t.Error("expected cached snapshot inside TTL window")
	}

	// Navigation invalidates the cached snapshot
	if err := mgr.NavigateTo(context.Background(), id, "https://example.com/other"); err != nil {
		t.Fatalf("NavigateTo failed: %v", err)
	}
	fresh, err := mgr.GetPageContent(context.Background(), id)
	if err != nil {
		t.Fatalf("GetPageContent after navigation failed: %v", err)
	}
	if fresh.URL != "https://example.com/other" {
		t.Errorf("snapshot URL = %q, want the new document", fresh.URL)
	}
}

func TestClickTriggeredNavigationBookkeeping(t *testing.T) {
	mgr, driver := newTestManager(t, ManagerOptions{})
	driver.clicks["#next"] = "https://example.com/other"

	var navigated []string
	mgr.SetNavigationHook(func(pageID string) { navigated = append(navigated, pageID) })

	id, _ := mgr.CreatePage(context.Background())
	if err := mgr.NavigateTo(context.Background(), id, "https://example.com"); err != nil {
		t.Fatalf("NavigateTo failed: %v", err)
	}
	if err := mgr.ClickElement(context.Background(), id, "#next"); err != nil {
		t.Fatalf("ClickElement failed: %v", err)
	}

	history := mgr.GetBrowsingHistory()
	if len(history) != 2 {
		t.Fatalf("expected click navigation in history, got %d entries", len(history))
	}
	if history[1].URL != "https://example.com/other" {
		t.Errorf("history[1].URL = %q", history[1].URL)
	}
	if len(navigated) != 2 {
		t.Errorf("navigation hook fired %d times, want 2", len(navigated))
	}

	info, _ := mgr.GetPageInfo(id)
	if info.URL != "https://example.com/other" {
		t.Errorf("page URL = %q after click navigation", info.URL)
	}
}

func TestCloseHookAndShutdown(t *testing.T) {
	driver := newFakeDriver()
	mgr := NewManager(driver, ManagerOptions{})

	var closed []string
	mgr.SetCloseHook(func(pageID string) { closed = append(closed, pageID) })

	first, _ := mgr.CreatePage(context.Background())
	second, _ := mgr.CreatePage(context.Background())

	if err := mgr.ClosePage(first); err != nil {
		t.Fatalf("ClosePage failed: %v", err)
	}
	if err := mgr.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if len(closed) != 2 {
		t.Fatalf("close hook fired %d times, want 2", len(closed))
	}
	if closed[0] != first || closed[1] != second {
		t.Errorf("close hook order = %v", closed)
	}
	if !driver.shutdown {
		t.Error("driver was not shut down")
	}
}

func TestCloseIdle(t *testing.T) {
	mgr, _ := newTestManager(t, ManagerOptions{})
	id, _ := mgr.CreatePage(context.Background())

	time.Sleep(5 * time.Millisecond)
	closed := mgr.CloseIdle(time.Millisecond)
	if len(closed) != 1 || closed[0] != id {
		t.Fatalf("CloseIdle = %v, want [%s]", closed, id)
	}

	var notFound *NotFoundError
	if _, err := mgr.GetPageInfo(id); !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError after idle close, got %v", err)
	}
}
