// Package shell is the interactive front end of url2pdf: a terminal form
// with a URL field, a "save as" field, a progress bar, a status line and
// modal result notices. Conversions run on a worker goroutine; the form
// only consumes its events.
package shell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	urlpdf "github.com/porticus-lab/go-url-pdf"
	"github.com/porticus-lab/go-url-pdf/internal/worker"
)

// ErrBusy is returned by [Shell.Submit] while a conversion is running.
var ErrBusy = errors.New("shell: a conversion is already running")

// Phase is the shell's coarse state, mirrored by the status line.
type Phase int

const (
	Idle Phase = iota
	Running
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "idle"
}

const (
	statusIdle    = "Ready"
	statusSuccess = "PDF created"
	statusError   = "PDF conversion failed"

	defaultBarWidth = 40
)

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger handed to every worker job.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBarWidth sets the width of the progress bar in cells.
func WithBarWidth(n int) Option {
	return func(s *Shell) {
		if n > 0 {
			s.barWidth = n
		}
	}
}

// Shell drives one conversion at a time.
type Shell struct {
	runner   worker.Runner
	in       io.Reader
	out      io.Writer
	logger   *slog.Logger
	barWidth int

	mu     sync.Mutex
	phase  Phase
	status string
	busy   bool
}

// New returns a Shell reading keys from in and drawing on out.
func New(r worker.Runner, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		runner:   r,
		in:       in,
		out:      out,
		logger:   slog.New(slog.DiscardHandler),
		barWidth: defaultBarWidth,
		status:   statusIdle,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Phase returns the current phase.
func (s *Shell) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Status returns the single-line status message.
func (s *Shell) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit validates rawURL and path and starts a conversion job. Rejected
// input leaves the phase untouched and starts nothing.
func (s *Shell) Submit(ctx context.Context, rawURL, path string) (*worker.Job, error) {
	req, err := urlpdf.Request{URL: rawURL, OutputPath: path}.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, ErrBusy
	}
	s.busy = true
	s.phase = Running
	s.status = "Converting " + req.URL + "..."
	return worker.Start(ctx, s.runner, req, s.logger), nil
}

// Follow drains job without rendering it and returns the final event.
// Submission is possible again once Follow returns.
func (s *Shell) Follow(job *worker.Job) worker.Event {
	var done worker.Event
	for ev := range job.Events() {
		if ev.Type == worker.EventDone {
			done = ev
		}
	}
	s.complete(done)
	return done
}

// complete records the outcome of the running job and re-enables Submit.
func (s *Shell) complete(done worker.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if done.Success {
		s.phase, s.status = Success, statusSuccess
	} else {
		s.phase, s.status = Error, statusError
	}
}

// Run shows the form until the user quits or ctx is cancelled. A
// conversion still running at that point is cancelled and waited for, so
// no browser outlives Run.
func (s *Shell) Run(ctx context.Context) error {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if f, ok := s.in.(*os.File); !ok || f != os.Stdin {
		opts = append(opts, tea.WithInput(s.in))
	}
	if f, ok := s.out.(*os.File); !ok || f != os.Stdout {
		opts = append(opts, tea.WithOutput(s.out))
	}

	final, err := tea.NewProgram(newModel(ctx, s), opts...).Run()
	if m, ok := final.(model); ok && m.job != nil {
		cancel()
		s.Follow(m.job)
	}
	if err != nil && parent.Err() != nil {
		return parent.Err()
	}
	return err
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, urlpdf.ErrEmptyURL):
		return "Please enter a URL."
	case errors.Is(err, urlpdf.ErrEmptyOutput):
		return "Please choose where to save the PDF."
	case errors.Is(err, urlpdf.ErrInvalidURL):
		return "That does not look like a web address."
	}
	return err.Error()
}

// guidance suggests what the user can do about a failure of kind k.
func guidance(k urlpdf.Kind) string {
	switch k {
	case urlpdf.KindLaunch:
		return "Is Chrome or Chromium installed? Set chrome_path or enable auto_download."
	case urlpdf.KindNavigation:
		return "Check the address and your network connection."
	case urlpdf.KindProtocol:
		return "The browser could not print this page."
	case urlpdf.KindIO:
		return "Check that the destination folder exists and is writable."
	}
	return ""
}
