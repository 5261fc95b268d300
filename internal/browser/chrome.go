// Package browser drives a headless Chrome through the DevTools protocol.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/f4ah6o/devshot/internal/capture"
)

// Chrome launches a fresh headless Chrome for every capture.
type Chrome struct {
	execPath  string
	userAgent string
	log       *slog.Logger
}

// Options configures Chrome.
type Options struct {
	// ExecPath overrides Chrome discovery.
	ExecPath string
	// UserAgent overrides the browser's user agent string. Empty keeps Chrome's.
	UserAgent string
	Logger    *slog.Logger
}

// NewChrome returns a capture.Browser backed by chromedp.
func NewChrome(opts Options) *Chrome {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Chrome{execPath: opts.ExecPath, userAgent: opts.UserAgent, log: log}
}

// UserAgent returns the override sent to Chrome, or "" for Chrome's own.
func (c *Chrome) UserAgent() string { return c.userAgent }

// Capture loads req.URL, waits for the network to settle and returns a
// full-page PNG with the rendered HTML. The browser process is shut down before
// Capture returns.
func (c *Chrome) Capture(ctx context.Context, req capture.Request) (*capture.Page, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(req.Width, req.Height),
	)
	if c.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.execPath))
	}
	if c.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(c.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			c.log.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer cancelTab()

	lifecycle := usesLifecycle(req)
	tracker := NewIdleTracker(req.MaxInflight)
	waiter := NewLifecycleWaiter()
	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *page.EventLifecycleEvent:
			waiter.Observe(string(e.LoaderID), e.Name)
		case *network.EventRequestWillBeSent:
			tracker.Started(string(e.RequestID))
		case *network.EventLoadingFinished:
			tracker.Finished(string(e.RequestID))
		case *network.EventLoadingFailed:
			tracker.Finished(string(e.RequestID))
		}
	})

	// The first Run starts the browser and must use the long-lived tab context.
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		page.SetLifecycleEventsEnabled(true),
		chromedp.EmulateViewport(int64(req.Width), int64(req.Height)),
	); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	c.log.Debug("browser.started", "width", req.Width, "height", req.Height, "lifecycle_idle", lifecycle, "user_agent", c.UserAgent())

	navCtx, cancelNav := context.WithTimeout(tabCtx, req.Timeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(req.URL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if !lifecycle {
				return tracker.Wait(ctx, req.Quiet)
			}
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return waiter.Wait(ctx, string(tree.Frame.LoaderID), NetworkAlmostIdle)
		}),
	); err != nil {
		return nil, fmt.Errorf("navigate %s (timeout %s): %w", req.URL, req.Timeout, err)
	}
	c.log.Debug("browser.network_idle", "url", req.URL, "inflight", tracker.Inflight())

	shot := &capture.Page{}
	if err := chromedp.Run(tabCtx,
		chromedp.FullScreenshot(&shot.PNG, 100),
		chromedp.OuterHTML("html", &shot.HTML, chromedp.ByQuery),
		chromedp.Location(&shot.FinalURL),
	); err != nil {
		return nil, fmt.Errorf("failed to capture page: %w", err)
	}

	if err := chromedp.Cancel(tabCtx); err != nil {
		c.log.Warn("browser.close_failed", "error", err)
	}
	return shot, nil
}
