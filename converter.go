package urlpdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/porticus-lab/go-url-pdf/pdf"
)

// Converter renders web pages to PDF files.
//
// Every call to [Converter.Convert] launches its own browser process and
// terminates it before returning, so a Converter holds no browser state
// and is safe for concurrent use.
type Converter struct {
	cfg converterConfig
}

// NewConverter creates a Converter with the given options.
func NewConverter(opts ...Option) *Converter {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Converter{cfg: cfg}
}

// Convert renders req.URL and writes the PDF to req.OutputPath.
//
// Both fields are normalized first (see [Request.Normalize]). progress, if
// non-nil, receives each milestone in order; 100% is only reported once the
// file is in place. The output file is replaced atomically, so on failure
// it is either absent or keeps its previous content. The browser is
// terminated before Convert returns, whatever the outcome.
//
// Errors are of type [*Error]; use [KindOf] to classify them.
func (c *Converter) Convert(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(Progress) {}
	}
	report := func(s Stage) {
		progress(Progress{Stage: s, Percent: s.Percent()})
	}

	log := c.cfg.logger.With("url", req.URL, "output", req.OutputPath, "driver", c.cfg.driver.Name())
	fail := func(kind Kind, op string, err error) error {
		log.Debug("conversion failed", "kind", kind, "op", op, "err", err)
		return newError(kind, op, err)
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	outDir, err := filepath.Abs(filepath.Dir(req.OutputPath))
	if err != nil {
		return nil, fail(KindIO, "resolve output directory", err)
	}
	if fi, err := os.Stat(outDir); err != nil {
		return nil, fail(KindIO, "resolve output directory", err)
	} else if !fi.IsDir() {
		return nil, fail(KindIO, "resolve output directory", fmt.Errorf("%s is not a directory", outDir))
	}

	execPath, err := resolveBrowser(c.cfg)
	if err != nil {
		return nil, fail(KindLaunch, "resolve browser", err)
	}
	profile, err := newProfile(outDir)
	if err != nil {
		return nil, fail(KindLaunch, "prepare profile", err)
	}
	defer os.RemoveAll(profile)

	log.Info("launching browser", "exec", execPath)
	sess, err := c.cfg.driver.Launch(ctx, LaunchConfig{
		ExecPath:    execPath,
		Headless:    c.cfg.headless,
		NoSandbox:   c.cfg.noSandbox,
		DisableGPU:  true,
		UserDataDir: profile,
		DownloadDir: outDir,
		Viewport:    c.cfg.viewport,
	})
	if err != nil {
		return nil, fail(KindLaunch, "launch browser", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("closing browser", "err", err)
		}
		log.Debug("browser terminated")
	}()
	report(StageLaunched)

	if err := sess.Navigate(ctx, req.URL); err != nil {
		return nil, fail(KindNavigation, "navigate", err)
	}
	report(StageNavigated)

	settled, err := sess.Settle(ctx, c.cfg.wait, c.cfg.settleTimeout, c.cfg.fixedDelay)
	if err != nil {
		return nil, fail(KindNavigation, "wait for page", err)
	}
	if !settled {
		log.Warn("page did not settle in time, printing anyway",
			"wait", c.cfg.wait.String(), "timeout", c.cfg.settleTimeout)
	}
	report(StageSettled)

	if err := sess.SetViewport(ctx, c.cfg.viewport); err != nil {
		return nil, fail(KindProtocol, "set viewport", err)
	}

	data, err := sess.PrintToPDF(ctx, c.cfg.print)
	if err != nil {
		return nil, fail(KindProtocol, "print to pdf", err)
	}
	pages := 0
	doc, err := pdf.Load(data)
	switch {
	case errors.Is(err, pdf.ErrNoPages):
		// Page objects packed into object streams are invisible to the scanner.
		log.Warn("printed pdf has no readable page objects, writing it anyway", slog.Int("bytes", len(data)))
	case err != nil:
		return nil, fail(KindProtocol, "verify pdf", fmt.Errorf("%w: %v", ErrNotPDF, err))
	default:
		pages = doc.NumPages()
	}
	report(StagePrinted)

	if err := writeFileAtomic(req.OutputPath, data, 0o644); err != nil {
		return nil, fail(KindIO, "write pdf", err)
	}
	report(StageWritten)

	log.Info("pdf written", slog.Int("bytes", len(data)), slog.Int("pages", pages))
	return &Result{data: data, path: req.OutputPath, pages: pages}, nil
}

// Convert renders rawURL to a PDF at output using a temporary [Converter].
func Convert(ctx context.Context, rawURL, output string, opts ...Option) (*Result, error) {
	return NewConverter(opts...).Convert(ctx, Request{URL: rawURL, OutputPath: output}, nil)
}
