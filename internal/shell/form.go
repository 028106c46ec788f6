package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	urlpdf "github.com/porticus-lab/go-url-pdf"
	"github.com/porticus-lab/go-url-pdf/internal/worker"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(9)
	activeStyle = labelStyle.Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Faint(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	noticeStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	noticeColors = map[string]lipgloss.Color{
		"ok":      lipgloss.Color("10"),
		"warning": lipgloss.Color("11"),
		"error":   lipgloss.Color("9"),
	}
)

type field int

const (
	fieldURL field = iota
	fieldPath
)

// notice is a modal message; it swallows keys until dismissed.
type notice struct {
	level string
	text  string
}

// eventMsg carries one worker event into the update loop.
type eventMsg struct {
	ev worker.Event
	ok bool
}

func waitForEvent(job *worker.Job) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-job.Events()
		return eventMsg{ev: ev, ok: ok}
	}
}

type model struct {
	ctx context.Context
	sh  *Shell

	url   textinput.Model
	path  textinput.Model
	bar   progress.Model
	focus field

	job     *worker.Job
	percent int
	stage   urlpdf.Stage
	notice  *notice
	quit    bool
}

func newModel(ctx context.Context, sh *Shell) model {
	u := textinput.New()
	u.Prompt = ""
	u.Placeholder = "example.com"
	u.CharLimit = 2048
	u.Width = sh.barWidth
	u.Focus()

	p := textinput.New()
	p.Prompt = ""
	p.Placeholder = urlpdf.SuggestOutputPath("")
	p.Width = sh.barWidth

	return model{
		ctx:  ctx,
		sh:   sh,
		url:  u,
		path: p,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(sh.barWidth), progress.WithoutPercentage()),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m.handleEvent(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateInputs(msg)
}

func (m model) handleEvent(msg eventMsg) (tea.Model, tea.Cmd) {
	if m.job == nil {
		return m, nil
	}
	if !msg.ok {
		m.job = nil
		return m, m.setFocus(m.focus)
	}

	switch msg.ev.Type {
	case worker.EventProgress:
		if msg.ev.Percent >= m.percent {
			m.percent, m.stage = msg.ev.Percent, msg.ev.Stage
		}
	case worker.EventDone:
		m.sh.complete(msg.ev)
		m.notice = outcome(msg.ev)
		m.job = nil
		return m, m.setFocus(m.focus)
	}
	return m, waitForEvent(m.job)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quit = true
		return m, tea.Quit
	}

	if m.notice != nil {
		switch key {
		case "enter", "esc", " ":
			m.notice = nil
		}
		return m, nil
	}

	if key == "esc" {
		m.quit = true
		return m, tea.Quit
	}
	// The form is disabled while a conversion runs.
	if m.job != nil {
		return m, nil
	}

	switch key {
	case "tab", "shift+tab", "up", "down":
		return m, m.setFocus(1 - m.focus)
	case "enter":
		if m.focus == fieldURL {
			return m, m.setFocus(fieldPath)
		}
		return m.submit()
	}
	return m.updateInputs(msg)
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldURL {
		m.url, cmd = m.url.Update(msg)
		m.path.Placeholder = urlpdf.SuggestOutputPath(m.url.Value())
	} else {
		m.path, cmd = m.path.Update(msg)
	}
	return m, cmd
}

func (m *model) setFocus(f field) tea.Cmd {
	m.focus = f
	if f == fieldURL {
		m.path.Blur()
		return m.url.Focus()
	}
	m.url.Blur()
	return m.path.Focus()
}

func (m model) submit() (tea.Model, tea.Cmd) {
	job, err := m.sh.Submit(m.ctx, m.url.Value(), m.savePath())
	switch {
	case errors.Is(err, ErrBusy):
		return m, nil
	case err != nil:
		m.notice = &notice{level: "warning", text: validationMessage(err)}
		return m, nil
	}

	m.job = job
	m.percent, m.stage = 0, 0
	m.url.SetValue(job.Request.URL)
	m.path.SetValue(job.Request.OutputPath)
	m.url.Blur()
	m.path.Blur()
	return m, waitForEvent(job)
}

// savePath behaves like a save dialog: an empty answer takes the suggested
// name, and a directory receives the suggested name inside it.
func (m model) savePath() string {
	path := strings.TrimSpace(m.path.Value())
	if strings.TrimSpace(m.url.Value()) == "" {
		return path
	}
	suggestion := urlpdf.SuggestOutputPath(m.url.Value())
	if path == "" {
		return suggestion
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return filepath.Join(path, suggestion)
	}
	return path
}

func outcome(done worker.Event) *notice {
	if done.Success {
		return &notice{level: "ok", text: done.Message}
	}
	text := done.Message
	if hint := guidance(urlpdf.KindOf(done.Err)); hint != "" {
		text += "\n" + hint
	}
	return &notice{level: "error", text: text}
}

func (m model) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("url2pdf") + "  render web pages to PDF\n\n")
	b.WriteString(m.label("URL:", fieldURL) + m.url.View() + "\n")
	b.WriteString(m.label("Save as:", fieldPath) + m.path.View() + "\n\n")

	if m.sh.Phase() != Idle {
		fmt.Fprintf(&b, "%s %3d%% %s\n\n", m.bar.ViewAs(float64(m.percent)/100), m.percent, m.stage)
	}
	b.WriteString(statusStyle.Render(m.sh.Status()) + "\n")

	if m.notice != nil {
		style := noticeStyle.BorderForeground(noticeColors[m.notice.level])
		b.WriteString("\n" + style.Render(fmt.Sprintf("[%s] %s", m.notice.level, m.notice.text)) + "\n")
		b.WriteString(helpStyle.Render("enter: dismiss") + "\n")
		return b.String()
	}
	if m.job != nil {
		b.WriteString(helpStyle.Render("converting... esc: cancel and quit") + "\n")
		return b.String()
	}
	b.WriteString(helpStyle.Render("enter: next field / convert  tab: switch field  esc: quit") + "\n")
	return b.String()
}

func (m model) label(text string, f field) string {
	if m.job == nil && m.notice == nil && m.focus == f {
		return activeStyle.Render(text)
	}
	return labelStyle.Render(text)
}
