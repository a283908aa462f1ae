package extract

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Browser fetches pages through headless Chrome so client-rendered markup
// can be extracted. Launched lazily on first use; Close releases the
// process (no zombie browsers).
type Browser struct {
	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowser creates an unstarted Browser.
func NewBrowser() *Browser {
	return &Browser{}
}

var _ RenderedFetcher = (*Browser)(nil)

// FetchRendered navigates to url, waits for the page to settle and returns
// the rendered HTML.
func (b *Browser) FetchRendered(ctx context.Context, url string) (string, error) {
	br, err := b.ensure()
	if err != nil {
		return "", err
	}

	page, err := br.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	// Give client-side rendering a moment to fill the shell.
	page.WaitRequestIdle(2*time.Second, nil, nil, nil)()

	return page.HTML()
}

func (b *Browser) ensure() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	path, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, err
	}
	br := rod.New().ControlURL(path)
	if err := br.Connect(); err != nil {
		return nil, err
	}
	b.browser = br
	return br, nil
}

// Close shuts the browser down if it was started.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}
