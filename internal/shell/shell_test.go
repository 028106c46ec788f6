package shell

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	urlpdf "github.com/porticus-lab/go-url-pdf"
	"github.com/porticus-lab/go-url-pdf/internal/fakebrowser"
)

func newShell(t *testing.T, d *fakebrowser.Driver) *Shell {
	t.Helper()
	return New(fakebrowser.Converter(t, d), strings.NewReader(""), &bytes.Buffer{})
}

func newForm(t *testing.T, d *fakebrowser.Driver) model {
	t.Helper()
	return newModel(context.Background(), newShell(t, d))
}

func update(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func typeText(m model, s string) model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	return update(m, tea.KeyMsg{Type: k})
}

// drain feeds the running job's events into m until the form is enabled
// again.
func drain(t *testing.T, m model) model {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for m.job != nil {
		select {
		case ev, ok := <-m.job.Events():
			m, _ = update(m, eventMsg{ev: ev, ok: ok})
		case <-deadline:
			t.Fatal("conversion did not finish")
		}
	}
	return m
}

// fill types rawURL, moves to the save field, types path and submits.
func fill(m model, rawURL, path string) (model, tea.Cmd) {
	m = typeText(m, rawURL)
	m, _ = press(m, tea.KeyEnter)
	if path != "" {
		m = typeText(m, path)
	}
	return press(m, tea.KeyEnter)
}

func TestNew_StartsIdle(t *testing.T) {
	m := newForm(t, &fakebrowser.Driver{})
	assert.Equal(t, Idle, m.sh.Phase())
	assert.Equal(t, "Ready", m.sh.Status())
	assert.Equal(t, fieldURL, m.focus)
	assert.True(t, m.url.Focused())
	assert.Contains(t, m.View(), "Ready")
}

func TestSubmit_RejectsInputWithoutStartingWork(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		path    string
		want    error
		message string
	}{
		{"empty url", "", "out.pdf", urlpdf.ErrEmptyURL, "Please enter a URL."},
		{"blank url", "   ", "out.pdf", urlpdf.ErrEmptyURL, "Please enter a URL."},
		{"empty path", "example.com", "", urlpdf.ErrEmptyOutput, "Please choose where to save the PDF."},
		{"bad scheme", "ftp://example.com", "out.pdf", urlpdf.ErrInvalidURL, "That does not look like a web address."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakebrowser.Driver{}
			s := newShell(t, d)

			job, err := s.Submit(context.Background(), tt.url, tt.path)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, urlpdf.KindValidation, urlpdf.KindOf(err))
			assert.Nil(t, job)
			assert.Equal(t, tt.message, validationMessage(err))
			assert.Equal(t, Idle, s.Phase())
			assert.Empty(t, d.Sessions(), "no browser may be launched")
		})
	}
}

func TestForm_EmptyURLShowsWarning(t *testing.T) {
	d := &fakebrowser.Driver{}
	m := newForm(t, d)

	m, _ = press(m, tea.KeyEnter)
	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	require.NotNil(t, m.notice)
	assert.Equal(t, "warning", m.notice.level)
	assert.Equal(t, "Please enter a URL.", m.notice.text)
	assert.Contains(t, m.View(), "[warning] Please enter a URL.")
	assert.Equal(t, Idle, m.sh.Phase())
	assert.Empty(t, d.Sessions())

	// The notice is modal: typing does nothing until it is dismissed.
	m = typeText(m, "x")
	assert.Empty(t, m.path.Value())
	m, _ = press(m, tea.KeyEnter)
	assert.Nil(t, m.notice)
}

func TestForm_SuggestsSaveName(t *testing.T) {
	m := newForm(t, &fakebrowser.Driver{})
	assert.Equal(t, "page.pdf", m.path.Placeholder)

	m = typeText(m, "docs.example.com/guide")
	assert.Equal(t, "docs.example.com.pdf", m.path.Placeholder)
}

func TestForm_ConvertSuccess(t *testing.T) {
	d := &fakebrowser.Driver{}
	m := newForm(t, d)
	dest := filepath.Join(t.TempDir(), "page")

	m, cmd := fill(m, "example.com", dest)
	require.NotNil(t, cmd)
	require.NotNil(t, m.job)
	assert.Equal(t, Running, m.sh.Phase())
	assert.Equal(t, "Converting https://example.com...", m.sh.Status())
	assert.Equal(t, "https://example.com", m.url.Value(), "normalized URL is echoed")
	assert.Equal(t, dest+".pdf", m.path.Value())
	assert.False(t, m.url.Focused() || m.path.Focused(), "controls are disabled while running")

	m = typeText(m, "ignored")
	assert.Equal(t, dest+".pdf", m.path.Value())

	m = drain(t, m)
	assert.Equal(t, Success, m.sh.Phase())
	assert.Equal(t, "PDF created", m.sh.Status())
	assert.Equal(t, 100, m.percent)
	assert.Equal(t, urlpdf.StageWritten, m.stage)
	require.NotNil(t, m.notice)
	assert.Equal(t, "ok", m.notice.level)
	assert.Equal(t, "PDF saved to "+dest+".pdf", m.notice.text)
	assert.FileExists(t, dest+".pdf")

	view := m.View()
	assert.Contains(t, view, "100% file written")
	assert.Contains(t, view, "PDF created")
}

func TestForm_ConvertFailure(t *testing.T) {
	d := &fakebrowser.Driver{NavigateErr: errors.New("net::ERR_CONNECTION_REFUSED")}
	m := newForm(t, d)

	m, _ = fill(m, "localhost:1", filepath.Join(t.TempDir(), "x"))
	m = drain(t, m)

	assert.Equal(t, Error, m.sh.Phase())
	assert.Equal(t, "PDF conversion failed", m.sh.Status())
	require.NotNil(t, m.notice)
	assert.Equal(t, "error", m.notice.level)
	assert.Contains(t, m.notice.text, "net::ERR_CONNECTION_REFUSED")
	assert.Contains(t, m.notice.text, "Check the address and your network connection.")
	assert.Less(t, m.percent, 100)
	require.Len(t, d.Sessions(), 1)
	assert.Equal(t, 1, d.Sessions()[0].Closes())

	// Dismissing the notice re-enables the form.
	m, _ = press(m, tea.KeyEnter)
	assert.Nil(t, m.notice)
	assert.True(t, m.path.Focused())
	m = typeText(m, "-y")
	assert.Contains(t, m.path.Value(), "-y")
}

func TestForm_EmptySaveAnswerTakesSuggestion(t *testing.T) {
	d := &fakebrowser.Driver{}
	t.Chdir(t.TempDir())
	m := newForm(t, d)

	m, _ = fill(m, "example.com", "")
	m = drain(t, m)

	assert.Equal(t, "PDF saved to example.com.pdf", m.notice.text)
	assert.FileExists(t, "example.com.pdf")
	assert.Equal(t, "https://example.com", d.Sessions()[0].URL())
}

func TestForm_DirectoryReceivesSuggestedName(t *testing.T) {
	dir := t.TempDir()
	m := newForm(t, &fakebrowser.Driver{})

	m, _ = fill(m, "example.org", dir)
	m = drain(t, m)

	assert.FileExists(t, filepath.Join(dir, "example.org.pdf"))
}

func TestForm_TabSwitchesField(t *testing.T) {
	m := newForm(t, &fakebrowser.Driver{})
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, fieldPath, m.focus)
	assert.True(t, m.path.Focused())
	assert.False(t, m.url.Focused())

	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, fieldURL, m.focus)
}

func TestForm_Quit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newForm(t, &fakebrowser.Driver{})
		m, cmd := press(m, k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}
}

func TestSubmit_BusyWhileRunning(t *testing.T) {
	gate := make(chan struct{})
	s := newShell(t, &fakebrowser.Driver{Gate: gate})
	dir := t.TempDir()

	job, err := s.Submit(context.Background(), "example.com", filepath.Join(dir, "a"))
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "example.org", filepath.Join(dir, "b"))
	assert.ErrorIs(t, err, ErrBusy)

	close(gate)
	ev := s.Follow(job)
	assert.True(t, ev.Success)
	assert.Equal(t, Success, s.Phase())

	job, err = s.Submit(context.Background(), "example.org", filepath.Join(dir, "b"))
	require.NoError(t, err, "submission is re-enabled after a job finishes")
	s.Follow(job)
}

func TestRun_CtrlCQuits(t *testing.T) {
	d := &fakebrowser.Driver{}
	var out bytes.Buffer
	s := New(fakebrowser.Converter(t, d), strings.NewReader("\x03"), &out)

	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, d.Sessions())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(fakebrowser.Converter(t, &fakebrowser.Driver{}), strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}

func TestGuidance(t *testing.T) {
	for _, k := range []urlpdf.Kind{urlpdf.KindLaunch, urlpdf.KindNavigation, urlpdf.KindProtocol, urlpdf.KindIO} {
		assert.NotEmpty(t, guidance(k), "kind %s", k)
	}
	assert.Empty(t, guidance(""))
}
