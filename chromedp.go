package urlpdf

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

type chromedpDriver struct{}

// ChromeDP returns the default [Driver], built on chromedp's exec allocator.
func ChromeDP() Driver { return chromedpDriver{} }

func (chromedpDriver) Name() string { return "chromedp" }

func (chromedpDriver) Launch(ctx context.Context, cfg LaunchConfig) (Session, error) {
	var headless any = false
	if cfg.Headless {
		headless = "new"
	}
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", cfg.DisableGPU),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", headless),
	)
	if cfg.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	if cfg.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	if cfg.Viewport.Width > 0 && cfg.Viewport.Height > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(int(cfg.Viewport.Width), int(cfg.Viewport.Height)))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &chromedpSession{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		idle:        make(map[cdp.LoaderID]bool),
		notify:      make(chan struct{}, 1),
	}
	chromedp.ListenTarget(tabCtx, s.onEvent)

	// The first Run starts the browser, so launch errors surface here.
	actions := []chromedp.Action{page.SetLifecycleEventsEnabled(true)}
	if cfg.DownloadDir != "" {
		actions = append(actions, browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(cfg.DownloadDir))
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

type chromedpSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once

	mu     sync.Mutex
	loader cdp.LoaderID
	idle   map[cdp.LoaderID]bool
	notify chan struct{}
}

// onEvent runs on chromedp's event goroutine and must not block.
func (s *chromedpSession) onEvent(ev any) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.Name != "networkIdle" {
		return
	}
	s.mu.Lock()
	s.idle[e.LoaderID] = true
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// bind derives a context from the tab that is also cancelled with ctx.
func (s *chromedpSession) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var loader cdp.LoaderID
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			loader = tree.Frame.LoaderID
			return nil
		}),
	)
	if err != nil {
		return callerErr(ctx, err)
	}

	s.mu.Lock()
	s.loader = loader
	s.mu.Unlock()
	return nil
}

func (s *chromedpSession) Settle(ctx context.Context, w WaitStrategy, timeout, delay time.Duration) (bool, error) {
	switch w {
	case WaitFixed:
		if err := sleepCtx(ctx, delay); err != nil {
			return false, err
		}
		return true, nil
	case WaitDOMReady:
		runCtx, cancel := s.bind(ctx)
		defer cancel()
		tctx, tcancel := context.WithTimeout(runCtx, timeout)
		defer tcancel()

		err := chromedp.Run(tctx, chromedp.WaitReady("body", chromedp.ByQuery))
		switch {
		case err == nil:
			return true, nil
		case ctx.Err() != nil:
			return false, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return false, nil
		}
		return false, err
	}
	return s.waitNetworkIdle(ctx, timeout)
}

func (s *chromedpSession) waitNetworkIdle(ctx context.Context, timeout time.Duration) (bool, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	for {
		s.mu.Lock()
		done := s.loader != "" && s.idle[s.loader]
		s.mu.Unlock()
		if done {
			return true, nil
		}
		select {
		case <-s.notify:
		case <-t.C:
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		case <-s.ctx.Done():
			return false, s.ctx.Err()
		}
	}
}

func (s *chromedpSession) SetViewport(ctx context.Context, v Viewport) error {
	runCtx, cancel := s.bind(ctx)
	defer cancel()
	return callerErr(ctx, chromedp.Run(runCtx, chromedp.EmulateViewport(v.Width, v.Height)))
}

func (s *chromedpSession) PrintToPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	r := opts.resolved()
	width, height := r.paperInches()
	marginTop, marginRight, marginBottom, marginLeft := r.marginInches()

	var buf []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = page.PrintToPDF().
			WithLandscape(r.Landscape).
			WithDisplayHeaderFooter(r.DisplayHeaderFooter).
			WithPrintBackground(r.PrintBackground).
			WithPreferCSSPageSize(r.PreferCSSPageSize).
			WithPaperWidth(width).
			WithPaperHeight(height).
			WithMarginTop(marginTop).
			WithMarginRight(marginRight).
			WithMarginBottom(marginBottom).
			WithMarginLeft(marginLeft).
			WithScale(r.Scale).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, callerErr(ctx, err)
	}
	return buf, nil
}

func (s *chromedpSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = chromedp.Cancel(s.ctx)
		s.cancel()
		// Cancelling the allocator waits for the browser process to exit.
		s.allocCancel()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
	})
	return err
}

// callerErr prefers the caller's context error over the one chromedp
// reports for a cancelled run.
func callerErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
