package tui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/Zachkp/zach-dev/internal/contact"
	"github.com/Zachkp/zach-dev/internal/presenter"
)

type stubSubmitter struct {
	mu      sync.Mutex
	outcome contact.Outcome
	got     []contact.Input
}

func (s *stubSubmitter) Send(_ context.Context, in contact.Input) contact.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, in)
	return s.outcome
}

func newTestModel(t *testing.T, out contact.Outcome) (Model, *stubSubmitter) {
	t.Helper()
	sub := &stubSubmitter{outcome: out}
	notify, changes := Notifier()
	p := presenter.New(sub, presenter.WithNotify(notify), presenter.WithDelay(time.Minute))
	t.Cleanup(p.Dispose)
	return NewModel(context.Background(), p, changes), sub
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// fillForm types each value and tabs to the next field.
func fillForm(m Model, in contact.Input) Model {
	for _, f := range contact.Fields {
		m = typeText(m, in.Value(f))
		m, _ = press(m, tea.KeyTab)
	}
	return m
}

var goodInput = contact.Input{
	Name:    "Jo Smith",
	Email:   "jo@example.com",
	Subject: "Hello there",
	Message: "This is a long enough message.",
}

func TestModel_TypingMirrorsIntoPresenter(t *testing.T) {
	m, _ := newTestModel(t, contact.Success{})
	m = fillForm(m, goodInput)

	got := m.presenter.View().Input
	if got != goodInput {
		t.Errorf("presenter input = %+v, want %+v", got, goodInput)
	}
	if m.focus != 0 {
		t.Errorf("focus = %d after cycling, want 0", m.focus)
	}
}

func TestModel_ShowsPreloadedInput(t *testing.T) {
	sub := &stubSubmitter{outcome: contact.Success{}}
	p := presenter.New(sub, presenter.WithDelay(time.Minute))
	t.Cleanup(p.Dispose)
	p.Load(goodInput)

	m := NewModel(context.Background(), p, nil)
	for i, f := range inputFields {
		if got := m.inputs[i].Value(); got != goodInput.Value(f) {
			t.Errorf("%s widget = %q, want %q", f, got, goodInput.Value(f))
		}
	}
	if got := m.message.Value(); got != goodInput.Message {
		t.Errorf("message widget = %q, want %q", got, goodInput.Message)
	}
	if !strings.Contains(m.View(), goodInput.Name) {
		t.Errorf("view does not show the loaded name:\n%s", m.View())
	}

	m = typeText(m, "X")
	if got := p.View().Input.Name; got != goodInput.Name+"X" {
		t.Errorf("name after typing = %q, want %q", got, goodInput.Name+"X")
	}
}

func TestModel_ShiftTabWraps(t *testing.T) {
	m, _ := newTestModel(t, contact.Success{})
	m, _ = press(m, tea.KeyShiftTab)
	if m.focus != len(contact.Fields)-1 {
		t.Errorf("focus = %d, want message field", m.focus)
	}
}

func TestModel_SubmitInvalidShowsErrors(t *testing.T) {
	m, sub := newTestModel(t, contact.Success{})
	m, cmd := press(m, tea.KeyCtrlS)
	if cmd == nil {
		t.Fatal("ctrl+s returned no command")
	}
	if !m.view.Busy() {
		t.Error("model should show progress until the submission finishes")
	}

	out, err := m.presenter.Submit(context.Background())
	next, _ := m.Update(SubmitDoneMsg{Outcome: out, Err: err})
	m = next.(Model)

	if len(sub.got) != 0 {
		t.Errorf("submitter called %d times for an empty form", len(sub.got))
	}
	if m.view.Errors.Get(contact.FieldName) != "Name is required" {
		t.Errorf("name error = %q", m.view.Errors.Get(contact.FieldName))
	}
	view := m.View()
	if !strings.Contains(view, "Name is required") || !strings.Contains(view, contact.InvalidFormMessage) {
		t.Errorf("view is missing errors:\n%s", view)
	}
}

func TestModel_EditClearsFieldError(t *testing.T) {
	m, _ := newTestModel(t, contact.Success{})
	_, _ = m.presenter.Submit(context.Background())
	next, _ := m.Update(ViewChangedMsg{})
	m = next.(Model)
	if m.view.Errors.Get(contact.FieldName) == "" {
		t.Fatal("expected a name error")
	}

	m = typeText(m, "J")
	if msg := m.view.Errors.Get(contact.FieldName); msg != "" {
		t.Errorf("name error after edit = %q", msg)
	}
	if m.view.Errors.Get(contact.FieldEmail) == "" {
		t.Error("email error should survive an edit to name")
	}
}

func TestModel_ConfirmedIgnoresTyping(t *testing.T) {
	m, sub := newTestModel(t, contact.Success{Message: "Thanks!"})
	m = fillForm(m, goodInput)
	_, _ = m.presenter.Submit(context.Background())
	next, _ := m.Update(ViewChangedMsg{})
	m = next.(Model)

	if m.view.State != presenter.Confirmed {
		t.Fatalf("state = %s, want confirmed", m.view.State)
	}
	if len(sub.got) != 1 || sub.got[0] != goodInput {
		t.Errorf("submitter got %+v", sub.got)
	}
	m = typeText(m, "x")
	if m.presenter.View().Input != goodInput {
		t.Error("typing while confirmed changed the input")
	}
	if !strings.Contains(m.View(), "Thanks!") {
		t.Errorf("view missing success banner:\n%s", m.View())
	}
}

func TestModel_RevertBlanksInputs(t *testing.T) {
	m, _ := newTestModel(t, contact.Success{})
	m = fillForm(m, goodInput)
	_, _ = m.presenter.Submit(context.Background())
	next, _ := m.Update(ViewChangedMsg{})
	m = next.(Model)

	m.presenter.Reset()
	next, _ = m.Update(ViewChangedMsg{})
	m = next.(Model)

	if m.view.State != presenter.Editing {
		t.Fatalf("state = %s", m.view.State)
	}
	for i := range m.inputs {
		if v := m.inputs[i].Value(); v != "" {
			t.Errorf("input %d = %q after revert", i, v)
		}
	}
	if m.message.Value() != "" {
		t.Errorf("message = %q after revert", m.message.Value())
	}
}

func TestModel_QuitDisposes(t *testing.T) {
	m, _ := newTestModel(t, contact.Success{})
	m, cmd := press(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
	if _, err := m.presenter.Submit(context.Background()); err != presenter.ErrDisposed {
		t.Errorf("Submit after quit error = %v, want ErrDisposed", err)
	}
}

func TestModel_Program(t *testing.T) {
	m, sub := newTestModel(t, contact.Success{Message: "Thanks for reaching out!"})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 40))

	for i, f := range contact.Fields {
		tm.Type(goodInput.Value(f))
		if i < len(contact.Fields)-1 {
			tm.Send(tea.KeyMsg{Type: tea.KeyTab})
		}
	}
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Thanks for reaching out!"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if final.view.State != presenter.Confirmed {
		t.Errorf("final state = %s, want confirmed", final.view.State)
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.got) != 1 || sub.got[0] != goodInput {
		t.Errorf("submitter got %+v, want one %+v", sub.got, goodInput)
	}
}
