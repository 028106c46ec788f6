// Package fakebrowser provides an in-memory urlpdf.Driver for tests. It
// records what the converter asks of the browser and can fail at any step.
package fakebrowser

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	urlpdf "github.com/porticus-lab/go-url-pdf"
	"github.com/porticus-lab/go-url-pdf/internal/pdftest"
)

// Driver is a configurable fake. The zero value launches sessions that
// succeed and print a two-page Letter document.
type Driver struct {
	LaunchErr   error
	NavigateErr error
	PrintErr    error
	Unsettled   bool

	// Output replaces the printed bytes when non-nil.
	Output []byte

	// Gate, when non-nil, blocks Navigate until it is closed or the
	// context ends.
	Gate chan struct{}

	mu       sync.Mutex
	sessions []*Session
}

func (d *Driver) Name() string { return "fake" }

func (d *Driver) Launch(ctx context.Context, cfg urlpdf.LaunchConfig) (urlpdf.Session, error) {
	if d.LaunchErr != nil {
		return nil, d.LaunchErr
	}
	_, err := os.Stat(cfg.UserDataDir)
	s := &Session{d: d, Config: cfg, ProfileExisted: err == nil}
	d.mu.Lock()
	d.sessions = append(d.sessions, s)
	d.mu.Unlock()
	return s, nil
}

// Sessions returns every session launched so far.
func (d *Driver) Sessions() []*Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Session(nil), d.sessions...)
}

// Session is one fake browser.
type Session struct {
	d *Driver

	Config         urlpdf.LaunchConfig
	ProfileExisted bool

	mu       sync.Mutex
	url      string
	wait     urlpdf.WaitStrategy
	viewport urlpdf.Viewport
	print    urlpdf.PrintOptions
	calls    []string
	closes   int
}

func (s *Session) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.record("navigate")
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	if s.d.Gate != nil {
		select {
		case <-s.d.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.d.NavigateErr
}

func (s *Session) Settle(ctx context.Context, w urlpdf.WaitStrategy, timeout, delay time.Duration) (bool, error) {
	s.record("settle")
	s.mu.Lock()
	s.wait = w
	s.mu.Unlock()
	return !s.d.Unsettled, nil
}

func (s *Session) SetViewport(ctx context.Context, v urlpdf.Viewport) error {
	s.record("viewport")
	s.mu.Lock()
	s.viewport = v
	s.mu.Unlock()
	return nil
}

func (s *Session) PrintToPDF(ctx context.Context, opts urlpdf.PrintOptions) ([]byte, error) {
	s.record("print")
	s.mu.Lock()
	s.print = opts
	s.mu.Unlock()
	if s.d.PrintErr != nil {
		return nil, s.d.PrintErr
	}
	if s.d.Output != nil {
		return s.d.Output, nil
	}
	return pdftest.Build(pdftest.Letter, pdftest.Letter), nil
}

func (s *Session) Close() error {
	s.record("close")
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	return nil
}

// Calls returns the session methods invoked, in order.
func (s *Session) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Closes reports how many times Close was called.
func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

func (s *Session) Wait() urlpdf.WaitStrategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wait
}

func (s *Session) Viewport() urlpdf.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Session) PrintOptions() urlpdf.PrintOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.print
}

// Executable creates an empty file that stands in for the browser binary,
// so converters built on a fake driver skip the PATH lookup.
func Executable(t testing.TB) string {
	t.Helper()
	exe := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(exe, nil, 0o755); err != nil {
		t.Fatal(err)
	}
	return exe
}

// Converter returns a urlpdf.Converter wired to d.
func Converter(t testing.TB, d *Driver, opts ...urlpdf.Option) *urlpdf.Converter {
	t.Helper()
	base := []urlpdf.Option{urlpdf.WithDriver(d), urlpdf.WithChromePath(Executable(t))}
	return urlpdf.NewConverter(append(base, opts...)...)
}
