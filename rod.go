package urlpdf

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type rodDriver struct{}

// Rod returns a [Driver] built on go-rod. The browser is started through
// rod's leakless launcher, so it dies with the parent process.
func Rod() Driver { return rodDriver{} }

func (rodDriver) Name() string { return "rod" }

func (rodDriver) Launch(ctx context.Context, cfg LaunchConfig) (Session, error) {
	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Leakless(true).
		Set("disable-dev-shm-usage").
		Set("no-first-run")
	if cfg.ExecPath != "" {
		l = l.Bin(cfg.ExecPath)
	}
	if cfg.DisableGPU {
		l = l.Set("disable-gpu")
	}
	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}
	if cfg.Viewport.Width > 0 && cfg.Viewport.Height > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", cfg.Viewport.Width, cfg.Viewport.Height))
	}

	u, err := l.Launch()
	if err != nil {
		return nil, err
	}

	s := &rodSession{ctx: ctx, launcher: l}
	s.browser = rod.New().ControlURL(u).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		s.Close()
		return nil, err
	}
	if cfg.DownloadDir != "" {
		err := proto.BrowserSetDownloadBehavior{
			Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
			DownloadPath: cfg.DownloadDir,
		}.Call(s.browser)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	s.page, err = s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

type rodSession struct {
	ctx      context.Context
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	idleWait   func()
	idleCancel context.CancelFunc

	closeOnce sync.Once
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	// Subscribe before navigating so a fast page cannot go idle unseen.
	wctx, wcancel := context.WithCancel(s.ctx)
	s.idleWait = s.page.Context(wctx).WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	s.idleCancel = wcancel

	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (s *rodSession) Settle(ctx context.Context, w WaitStrategy, timeout, delay time.Duration) (bool, error) {
	switch w {
	case WaitFixed:
		if err := sleepCtx(ctx, delay); err != nil {
			return false, err
		}
		return true, nil
	case WaitDOMReady:
		p := s.page.Context(ctx).Timeout(timeout)
		defer p.CancelTimeout()
		if _, err := p.Element("body"); err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, nil
		}
		return true, nil
	}

	if s.idleWait == nil {
		return true, nil
	}
	done := make(chan struct{})
	go func() {
		s.idleWait()
		close(done)
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
		return true, nil
	case <-t.C:
		s.idleCancel()
		<-done
		return false, nil
	case <-ctx.Done():
		s.idleCancel()
		<-done
		return false, ctx.Err()
	}
}

func (s *rodSession) SetViewport(ctx context.Context, v Viewport) error {
	return s.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(v.Width),
		Height:            int(v.Height),
		DeviceScaleFactor: 1,
	})
}

func (s *rodSession) PrintToPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	r := opts.resolved()
	width, height := r.paperInches()
	marginTop, marginRight, marginBottom, marginLeft := r.marginInches()
	scale := r.Scale

	stream, err := s.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		Landscape:           r.Landscape,
		DisplayHeaderFooter: r.DisplayHeaderFooter,
		PrintBackground:     r.PrintBackground,
		PreferCSSPageSize:   r.PreferCSSPageSize,
		Scale:               &scale,
		PaperWidth:          &width,
		PaperHeight:         &height,
		MarginTop:           &marginTop,
		MarginRight:         &marginRight,
		MarginBottom:        &marginBottom,
		MarginLeft:          &marginLeft,
	})
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return io.ReadAll(stream)
}

func (s *rodSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.idleCancel != nil {
			s.idleCancel()
		}
		if s.browser != nil {
			err = s.browser.Close()
		}
		s.launcher.Kill()
		// Cleanup blocks until the process has exited.
		s.launcher.Cleanup()
	})
	return err
}
