// internal/scraper/platforms/browser.go
//
// Shared headless Chromium for the JavaScript-rendered platforms.  One
// browser per process, launched on first use; each scrape gets its own
// page bound to the caller's context.  The concurrency gate keeps these
// platforms at one scrape at a time, so page pressure stays low.

package platforms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// idleWait bounds how long we wait for a page's network to go quiet.
const idleWait = 10 * time.Second

var (
	browserOnce sync.Once
	browser     *rod.Browser
	browserErr  error
)

func sharedBrowser() (*rod.Browser, error) {
	browserOnce.Do(func() {
		u, err := launcher.New().Headless(true).Launch()
		if err != nil {
			browserErr = fmt.Errorf("launch chromium: %w", err)
			return
		}
		b := rod.New().ControlURL(u)
		if err := b.Connect(); err != nil {
			browserErr = fmt.Errorf("connect chromium: %w", err)
			return
		}
		browser = b
	})
	return browser, browserErr
}

// renderedPage opens url in a fresh page and blocks until the load event
// plus an idle network, which is when availability widgets have painted.
// The caller must Close() the page.
func renderedPage(ctx context.Context, url string) (*rod.Page, error) {
	b, err := sharedBrowser()
	if err != nil {
		return nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", url, err)
	}
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	if err := page.WaitIdle(idleWait); err != nil {
		page.Close()
		return nil, fmt.Errorf("settle %s: %w", url, err)
	}
	return page, nil
}

// elementText extracts the trimmed text of the first match under el, or "".
func elementText(el *rod.Element, selector string) string {
	child, err := el.Element(selector)
	if err != nil {
		return ""
	}
	s, err := child.Text()
	if err != nil {
		return ""
	}
	return s
}
