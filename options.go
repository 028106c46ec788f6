package urlpdf

import (
	"log/slog"
	"time"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	driver        Driver
	chromePath    string
	autoDownload  bool
	timeout       time.Duration
	noSandbox     bool
	headless      bool
	viewport      Viewport
	print         PrintOptions
	wait          WaitStrategy
	settleTimeout time.Duration
	fixedDelay    time.Duration
	logger        *slog.Logger
}

func defaultConfig() converterConfig {
	return converterConfig{
		driver:        ChromeDP(),
		timeout:       60 * time.Second,
		noSandbox:     true,
		headless:      true,
		viewport:      DefaultViewport,
		print:         DefaultPrintOptions(),
		wait:          WaitNetworkIdle,
		settleTimeout: 10 * time.Second,
		fixedDelay:    3 * time.Second,
		logger:        slog.New(slog.DiscardHandler),
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithDriver selects the browser automation binding. Defaults to [ChromeDP].
func WithDriver(d Driver) Option {
	return func(c *converterConfig) {
		if d != nil {
			c.driver = d
		}
	}
}

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the executable is looked up in PATH.
func WithChromePath(path string) Option {
	return func(c *converterConfig) {
		c.chromePath = path
	}
}

// WithAutoDownload fetches a managed Chromium build into the rod cache when
// no browser is found in PATH and no explicit path is set.
func WithAutoDownload() Option {
	return func(c *converterConfig) {
		c.autoDownload = true
	}
}

// WithTimeout bounds a whole conversion, browser launch included.
// Defaults to 60 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithSandbox re-enables the Chrome sandbox. The sandbox is disabled by
// default because it cannot start as root or inside most containers;
// running without it weakens process isolation of the rendered page.
func WithSandbox() Option {
	return func(c *converterConfig) {
		c.noSandbox = false
	}
}

// WithHeadful shows the browser window, mostly useful for debugging.
func WithHeadful() Option {
	return func(c *converterConfig) {
		c.headless = false
	}
}

// WithViewport overrides the 1920x1080 rendering viewport.
func WithViewport(v Viewport) Option {
	return func(c *converterConfig) {
		if v.Width > 0 && v.Height > 0 {
			c.viewport = v
		}
	}
}

// WithPrintOptions overrides the Page.printToPDF parameters.
func WithPrintOptions(p PrintOptions) Option {
	return func(c *converterConfig) {
		c.print = p
	}
}

// WithWait sets how the page is judged settled and how long to wait for it.
// A non-positive timeout keeps the default of 10 seconds.
func WithWait(w WaitStrategy, timeout time.Duration) Option {
	return func(c *converterConfig) {
		c.wait = w
		if timeout > 0 {
			c.settleTimeout = timeout
		}
	}
}

// WithFixedDelay sets the sleep used by [WaitFixed]. Defaults to 3 seconds.
func WithFixedDelay(d time.Duration) Option {
	return func(c *converterConfig) {
		if d >= 0 {
			c.fixedDelay = d
		}
	}
}

// WithLogger sets the structured logger. Conversions log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *converterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
