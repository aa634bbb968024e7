package browser

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver implements Driver on top of a shared Playwright runtime.
// Each page gets its own browser and context so pages are fully isolated.
type PlaywrightDriver struct {
	pw       *playwright.Playwright
	headless bool
	viewport *playwright.Size
}

// PlaywrightOptions configures the Playwright-backed driver.
type PlaywrightOptions struct {
	// Headless controls whether browsers run without a visible window
	Headless bool

	// ViewportWidth and ViewportHeight set the initial viewport size
	ViewportWidth  int
	ViewportHeight int
}

// NewPlaywrightDriver installs (if needed) and starts the Playwright runtime.
func NewPlaywrightDriver(opts PlaywrightOptions) (*PlaywrightDriver, error) {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}

	// Install and run Playwright with verbose=false and discard output so the
	// driver stays quiet inside host processes
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	return &PlaywrightDriver{
		pw:       pw,
		headless: opts.Headless,
		viewport: &playwright.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight},
	}, nil
}

// NewPage launches a browser, creates an isolated context, and opens a page.
func (d *PlaywrightDriver) NewPage(ctx context.Context) (PageHandle, error) {
	browser, err := d.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &d.headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: d.viewport,
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &playwrightPage{browser: browser, context: browserCtx, page: page}, nil
}

// Shutdown stops the Playwright runtime.
func (d *PlaywrightDriver) Shutdown() error {
	if err := d.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// playwrightPage adapts a Playwright page to the PageHandle interface.
type playwrightPage struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func (p *playwrightPage) Navigate(ctx context.Context, url string) error {
	opts := playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad}

	if deadline, ok := ctx.Deadline(); ok {
		ms := float64(time.Until(deadline).Milliseconds())
		if ms <= 0 {
			return context.DeadlineExceeded
		}
		opts.Timeout = &ms
	}

	if _, err := p.page.Goto(url, opts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *playwrightPage) HTML() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
}

func (p *playwrightPage) Evaluate(script string) (interface{}, error) {
	return p.page.Evaluate(script)
}

func (p *playwrightPage) Click(selector string) error {
	return p.page.Click(selector)
}

func (p *playwrightPage) Close() error {
	// Ignore per-resource errors, continue cleanup
	_ = p.page.Close()
	_ = p.context.Close()
	return p.browser.Close()
}

// Compile-time interface checks
var (
	_ Driver     = (*PlaywrightDriver)(nil)
	_ PageHandle = (*playwrightPage)(nil)
)
