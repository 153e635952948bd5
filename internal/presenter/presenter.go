// Package presenter drives the contact form through its Editing, Submitting
// and Confirmed states and owns the timers that clear banners and revert the
// confirmation view.
package presenter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/Zachkp/zach-dev/internal/contact"
)

// DefaultDelay is how long banners and the confirmation view stay visible.
const DefaultDelay = 5 * time.Second

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("presenter: submission already in flight")
	// ErrInvalid is returned when local validation rejects the form.
	ErrInvalid = errors.New("presenter: form is invalid")
	// ErrNotEditing is returned when submit is attempted outside Editing.
	ErrNotEditing = errors.New("presenter: form is not being edited")
	// ErrDisposed is returned once the presenter has been disposed.
	ErrDisposed = errors.New("presenter: disposed")
)

// State is the view the visitor currently sees.
type State string

const (
	Editing    State = "editing"
	Submitting State = "submitting"
	Confirmed  State = "confirmed"
)

// Tone colours a banner.
type Tone string

const (
	ToneNone    Tone = ""
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// Banner is the transient message shown above the form.
type Banner struct {
	Text string
	Tone Tone
}

// View is an immutable snapshot of the presenter.
type View struct {
	State  State
	Input  contact.Input
	Errors contact.FieldErrors
	Banner Banner
}

// Busy reports whether the submit action should be disabled.
func (v View) Busy() bool { return v.State == Submitting }

// Submitter sends a form and classifies the result.
type Submitter interface {
	Send(ctx context.Context, in contact.Input) contact.Outcome
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, in contact.Input) contact.Outcome

// Send calls f.
func (f SubmitterFunc) Send(ctx context.Context, in contact.Input) contact.Outcome {
	return f(ctx, in)
}

// Option customises a Presenter.
type Option func(*Presenter)

// WithScheduler overrides the timer source.
func WithScheduler(s Scheduler) Option {
	return func(p *Presenter) {
		if s != nil {
			p.scheduler = s
		}
	}
}

// WithNotify registers a callback invoked with a fresh View after every change,
// including changes made by timers.
func WithNotify(fn func(View)) Option {
	return func(p *Presenter) {
		p.notify = fn
	}
}

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(p *Presenter) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// Presenter is safe for concurrent use. At most one submission runs at a time.
type Presenter struct {
	submitter Submitter
	scheduler Scheduler
	notify    func(View)
	logger    zerolog.Logger
	delay     time.Duration
	inflight  *semaphore.Weighted

	mu          sync.Mutex
	state       State
	input       contact.Input
	errs        contact.FieldErrors
	banner      Banner
	bannerTimer Timer
	bannerGen   uint64
	revertTimer Timer
	revertGen   uint64
	disposed    bool
}

// New creates a Presenter in the Editing state with a blank form.
func New(submitter Submitter, opts ...Option) *Presenter {
	p := &Presenter{
		submitter: submitter,
		scheduler: realScheduler{},
		logger:    zerolog.Nop(),
		delay:     DefaultDelay,
		inflight:  semaphore.NewWeighted(1),
		state:     Editing,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// View returns the current snapshot.
func (p *Presenter) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Edit sets field to value, clearing that field's error and any banner.
// Edits are ignored while the confirmation view is shown.
func (p *Presenter) Edit(field contact.Field, value string) {
	p.mu.Lock()
	if p.disposed || p.state == Confirmed {
		p.mu.Unlock()
		return
	}
	p.input = p.input.With(field, value)
	p.errs.Clear(field)
	p.clearBanner()
	v := p.snapshot()
	p.mu.Unlock()

	p.emit(v)
}

// Load replaces every field at once, as when a whole form is posted.
func (p *Presenter) Load(in contact.Input) {
	for _, f := range contact.Fields {
		p.Edit(f, in.Value(f))
	}
}

// Submit validates the form and, when it is valid, sends it once. Local
// validation failures return ErrInvalid and never reach the submitter.
func (p *Presenter) Submit(ctx context.Context) (contact.Outcome, error) {
	if !p.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer p.inflight.Release(1)

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return nil, ErrDisposed
	}
	if p.state != Editing {
		p.mu.Unlock()
		return nil, ErrNotEditing
	}

	res := contact.Validate(p.input)
	if !res.Valid {
		p.errs = res.Errors
		p.showBanner(contact.InvalidFormMessage, ToneError)
		v := p.snapshot()
		p.mu.Unlock()

		p.logger.Debug().Msg("contact form rejected locally")
		p.emit(v)
		return nil, ErrInvalid
	}

	p.state = Submitting
	p.errs = contact.FieldErrors{}
	p.clearBanner()
	in := p.input
	v := p.snapshot()
	p.mu.Unlock()
	p.emit(v)

	outcome := p.submitter.Send(ctx, in)

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return outcome, ErrDisposed
	}
	p.apply(outcome)
	v = p.snapshot()
	p.mu.Unlock()

	p.logger.Debug().Str("outcome", string(outcome.Kind())).Str("state", string(v.State)).Msg("contact form outcome applied")
	p.emit(v)
	return outcome, nil
}

// Reset returns to a blank Editing state immediately.
func (p *Presenter) Reset() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.revert()
	p.clearBanner()
	v := p.snapshot()
	p.mu.Unlock()

	p.emit(v)
}

// Dispose cancels all timers. Later outcomes, timers and edits are no-ops.
func (p *Presenter) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.disposed = true
	p.stopBannerTimer()
	p.stopRevertTimer()
}

// apply must be called with mu held.
func (p *Presenter) apply(outcome contact.Outcome) {
	switch o := outcome.(type) {
	case contact.Success:
		p.state = Confirmed
		p.showBanner(o.Banner(), ToneSuccess)
		p.scheduleRevert()
	case contact.ValidationRejected:
		p.state = Editing
		p.errs = o.Fields
		p.showBanner(o.Banner(), ToneError)
	default:
		p.state = Editing
		p.showBanner(outcome.Banner(), ToneError)
	}
}

func (p *Presenter) showBanner(text string, tone Tone) {
	p.stopBannerTimer()
	p.banner = Banner{Text: text, Tone: tone}
	gen := p.bannerGen
	p.bannerTimer = p.scheduler.AfterFunc(p.delay, func() {
		p.mu.Lock()
		if p.disposed || gen != p.bannerGen {
			p.mu.Unlock()
			return
		}
		p.banner = Banner{}
		p.bannerTimer = nil
		v := p.snapshot()
		p.mu.Unlock()
		p.emit(v)
	})
}

func (p *Presenter) clearBanner() {
	p.stopBannerTimer()
	p.banner = Banner{}
}

func (p *Presenter) scheduleRevert() {
	p.stopRevertTimer()
	gen := p.revertGen
	p.revertTimer = p.scheduler.AfterFunc(p.delay, func() {
		p.mu.Lock()
		if p.disposed || gen != p.revertGen {
			p.mu.Unlock()
			return
		}
		p.revertTimer = nil
		p.revert()
		v := p.snapshot()
		p.mu.Unlock()
		p.emit(v)
	})
}

func (p *Presenter) revert() {
	p.stopRevertTimer()
	p.state = Editing
	p.input = contact.Input{}
	p.errs = contact.FieldErrors{}
}

// The generation counters invalidate callbacks that already fired but have
// not yet acquired mu.
func (p *Presenter) stopBannerTimer() {
	p.bannerGen++
	if p.bannerTimer != nil {
		p.bannerTimer.Stop()
		p.bannerTimer = nil
	}
}

func (p *Presenter) stopRevertTimer() {
	p.revertGen++
	if p.revertTimer != nil {
		p.revertTimer.Stop()
		p.revertTimer = nil
	}
}

func (p *Presenter) snapshot() View {
	return View{State: p.state, Input: p.input, Errors: p.errs, Banner: p.banner}
}

func (p *Presenter) emit(v View) {
	if p.notify != nil {
		p.notify(v)
	}
}
