package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/Zachkp/zach-dev/internal/contact"
	"github.com/Zachkp/zach-dev/internal/logger"
	"github.com/Zachkp/zach-dev/internal/presenter"
	"github.com/Zachkp/zach-dev/internal/tui"
)

// ContactCmd sends a message to the contact API, interactively when stdout
// is a terminal.
type ContactCmd struct {
	Name    string `help:"Your name."`
	Email   string `help:"Your email address."`
	Subject string `help:"Message subject."`
	Message string `help:"Message body."`
	NoTUI   bool   `help:"Force plain text output even if stdout is a TTY." default:"false"`
}

// errNotSent is returned when the message was not accepted.
var errNotSent = errors.New("message not sent")

func (c *ContactCmd) input() contact.Input {
	return contact.Input{Name: c.Name, Email: c.Email, Subject: c.Subject, Message: c.Message}
}

func (c *ContactCmd) Run() error {
	useTUI := !c.NoTUI && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	var logOut io.Writer
	if useTUI {
		logOut = io.Discard
	}
	cfg, log, err := bootstrap("contact", logOut)
	if err != nil {
		return err
	}
	client, err := newSender(cfg, log)
	if err != nil {
		return err
	}
	log = logger.Component(log, "presenter")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !useTUI {
		p := presenter.New(client, presenter.WithLogger(log), presenter.WithDelay(cfg.Contact.FeedbackDelay))
		defer p.Dispose()
		return sendPlain(ctx, os.Stdout, p, c.input())
	}

	notify, changes := tui.Notifier()
	p := presenter.New(client,
		presenter.WithLogger(log),
		presenter.WithDelay(cfg.Contact.FeedbackDelay),
		presenter.WithNotify(notify),
	)
	defer p.Dispose()
	p.Load(c.input())

	prog := tea.NewProgram(tui.NewModel(ctx, p, changes), tea.WithContext(ctx))
	_, err = prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// sendPlain submits in once and reports the result as text.
func sendPlain(ctx context.Context, w io.Writer, p *presenter.Presenter, in contact.Input) error {
	p.Load(in)
	_, err := p.Submit(ctx)
	v := p.View()

	for _, f := range contact.Fields {
		if msg := v.Errors.Get(f); msg != "" {
			fmt.Fprintf(w, "  %s: %s\n", f, msg)
		}
	}
	if v.Banner.Text != "" {
		fmt.Fprintln(w, v.Banner.Text)
	}

	switch {
	case err != nil:
		return fmt.Errorf("%w: %w", errNotSent, err)
	case v.State != presenter.Confirmed:
		return errNotSent
	}
	return nil
}
