// Package tui is a terminal rendition of the contact form.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zachkp/zach-dev/internal/contact"
	"github.com/Zachkp/zach-dev/internal/presenter"
)

// ViewChangedMsg tells the model the presenter changed outside of Update,
// usually because a banner or confirmation timer fired.
type ViewChangedMsg struct{}

// SubmitDoneMsg carries the result of a submission back into the model.
type SubmitDoneMsg struct {
	Outcome contact.Outcome
	Err     error
}

// Model is the Bubble Tea model for the contact form.
type Model struct {
	ctx       context.Context
	presenter *presenter.Presenter
	changes   <-chan struct{}

	inputs  []textinput.Model // name, email, subject
	message textarea.Model
	focus   int
	spinner spinner.Model
	view    presenter.View
	width   int
	done    bool
}

// Notifier returns a presenter notify callback and the channel it signals.
// Signals are coalesced: the model always reads the latest View itself.
func Notifier() (func(presenter.View), <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return func(presenter.View) {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, ch
}

// NewModel builds the form around p. changes should be the channel returned
// by Notifier, wired into p with presenter.WithNotify.
func NewModel(ctx context.Context, p *presenter.Presenter, changes <-chan struct{}) Model {
	inputs := make([]textinput.Model, len(inputFields))
	for i, f := range inputFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = charLimit(f)
		ti.Placeholder = placeholder(f)
		inputs[i] = ti
	}
	ta := textarea.New()
	ta.Placeholder = placeholder(contact.FieldMessage)
	ta.CharLimit = contact.MessageMaxLen
	ta.ShowLineNumbers = false
	ta.SetHeight(5)

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		presenter: p,
		changes:   changes,
		inputs:    inputs,
		message:   ta,
		spinner:   s,
		view:      p.View(),
	}
	// Values loaded before the program starts, such as command-line flags,
	// must show in the widgets or the first keystroke replaces them.
	return m.syncInputs()
}

// Init starts the cursor blink and listens for presenter changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ViewChangedMsg{}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.message.SetWidth(max(20, msg.Width-4))
		for i := range m.inputs {
			m.inputs[i].Width = max(20, msg.Width-4)
		}
		return m, nil

	case ViewChangedMsg:
		m = m.refresh()
		return m, waitForChange(m.changes)

	case SubmitDoneMsg:
		m = m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.view.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

// refresh pulls the latest View and, when the confirmation has reverted,
// blanks the inputs to match.
func (m Model) refresh() Model {
	prev := m.view.State
	m.view = m.presenter.View()
	if prev == presenter.Confirmed && m.view.State == presenter.Editing {
		m = m.syncInputs()
	}
	return m
}

func (m Model) syncInputs() Model {
	for i, f := range inputFields {
		m.inputs[i].SetValue(m.view.Input.Value(f))
		m.inputs[i].CursorEnd()
	}
	m.message.SetValue(m.view.Input.Message)
	return m.setFocus(0)
}

var inputFields = []contact.Field{contact.FieldName, contact.FieldEmail, contact.FieldSubject}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.done = true
		m.presenter.Dispose()
		return m, tea.Quit
	case "tab", "down":
		if msg.String() == "down" && m.focus == len(inputFields) {
			break
		}
		return m.setFocus((m.focus + 1) % len(contact.Fields)), nil
	case "shift+tab", "up":
		if msg.String() == "up" && m.focus == len(inputFields) {
			break
		}
		return m.setFocus((m.focus + len(contact.Fields) - 1) % len(contact.Fields)), nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.focus < len(inputFields) {
			if m.focus == len(inputFields)-1 {
				return m.setFocus(len(inputFields)), nil
			}
			return m.setFocus(m.focus + 1), nil
		}
	}

	if m.view.State == presenter.Confirmed {
		return m, nil
	}
	return m.updateFocused(msg)
}

// submit starts a submission unless one is already running.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.view.State != presenter.Editing {
		return m, nil
	}
	p, ctx := m.presenter, m.ctx
	run := func() tea.Msg {
		out, err := p.Submit(ctx)
		return SubmitDoneMsg{Outcome: out, Err: err}
	}
	m.view = presenter.View{State: presenter.Submitting, Input: m.view.Input, Errors: m.view.Errors}
	return m, tea.Batch(run, m.spinner.Tick)
}

// updateFocused forwards msg to the focused input and mirrors edits into
// the presenter.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	field := contact.Fields[m.focus]
	before := m.presenter.View().Input.Value(field)

	var after string
	if m.focus < len(inputFields) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		after = m.inputs[m.focus].Value()
	} else {
		m.message, cmd = m.message.Update(msg)
		after = m.message.Value()
	}

	if after != before {
		m.presenter.Edit(field, after)
		m.view = m.presenter.View()
	}
	return m, cmd
}

func (m Model) setFocus(i int) Model {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	if i == len(inputFields) {
		m.message.Focus()
	} else {
		m.message.Blur()
	}
	return m
}

// View renders the form, the confirmation, or the progress state.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Contact me"))
	b.WriteString("\n")

	if banner := renderBanner(m.view.Banner); banner != "" {
		b.WriteString(banner + "\n\n")
	}

	if m.view.State == presenter.Confirmed {
		b.WriteString("Message sent! The form resets in a few seconds.\n")
		b.WriteString(helpStyle.Render("esc quit"))
		return b.String()
	}

	for i, f := range contact.Fields {
		label := labelStyle.Render(fieldLabel(f))
		if i == m.focus {
			label = focusStyle.Render("› " + fieldLabel(f))
		}
		b.WriteString(label + "\n")
		if i < len(inputFields) {
			b.WriteString(m.inputs[i].View())
		} else {
			b.WriteString(m.message.View())
		}
		b.WriteString("\n")
		if msg := m.view.Errors.Get(f); msg != "" {
			b.WriteString(errorStyle.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}

	if m.view.Busy() {
		b.WriteString(m.spinner.View() + " Sending…\n")
	}
	b.WriteString(helpStyle.Render("tab next • shift+tab back • ctrl+s send • esc quit"))
	return b.String()
}

func renderBanner(banner presenter.Banner) string {
	switch banner.Tone {
	case presenter.ToneSuccess:
		return successBanner.Render(banner.Text)
	case presenter.ToneError:
		return errorBanner.Render(banner.Text)
	}
	return ""
}

func fieldLabel(f contact.Field) string {
	switch f {
	case contact.FieldName:
		return "Name"
	case contact.FieldEmail:
		return "Email"
	case contact.FieldSubject:
		return "Subject"
	}
	return "Message"
}

func placeholder(f contact.Field) string {
	switch f {
	case contact.FieldName:
		return "Your name"
	case contact.FieldEmail:
		return "you@example.com"
	case contact.FieldSubject:
		return "What is this about?"
	}
	return "Your message"
}

func charLimit(f contact.Field) int {
	switch f {
	case contact.FieldName:
		return contact.NameMaxLen
	case contact.FieldEmail:
		return contact.EmailMaxLen
	}
	return contact.SubjectMaxLen
}
