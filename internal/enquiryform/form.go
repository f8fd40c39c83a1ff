package enquiryform

import (
	"context"
	"sync"
	"time"

	"github.com/relentron/website/internal/api/validation"
	"github.com/relentron/website/internal/models"
)

// DefaultCloseDelay is how long the success message stays up before a
// floating form closes itself
const DefaultCloseDelay = 1500 * time.Millisecond

// Option configures a Form
type Option func(*Form)

// WithMode selects floating or embedded behavior
func WithMode(mode Mode) Option {
	return func(f *Form) { f.mode = mode }
}

// WithCloseDelay overrides DefaultCloseDelay
func WithCloseDelay(d time.Duration) Option {
	return func(f *Form) { f.closeDelay = d }
}

// Form is one enquiry form instance. It is safe for concurrent use: a UI
// goroutine may keep feeding SetField and OnToken while Submit blocks.
type Form struct {
	mu         sync.Mutex
	transport  Transport
	mode       Mode
	closeDelay time.Duration

	state       State
	widgetReady bool
	values      Values
	token       string
	errors      map[string]string
	status      string

	// generation changes on every Open and Close so late callbacks can
	// tell they belong to a discarded instance
	generation uint64
	closeTimer *time.Timer
	observers  []func(Snapshot)
}

// New creates a form. Floating forms start closed; embedded forms start
// in editing with the widget pending.
func New(transport Transport, opts ...Option) *Form {
	f := &Form{
		transport:  transport,
		mode:       ModeFloating,
		closeDelay: DefaultCloseDelay,
		errors:     map[string]string{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.mode == ModeEmbedded {
		f.state = StateEditing
	}
	return f
}

// OnChange registers an observer called after every state change. Observers
// run on the goroutine that caused the change, outside the form's lock.
func (f *Form) OnChange(fn func(Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

// Snapshot returns a copy of the current state
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Open shows a floating form with empty fields. The captcha widget is mounted
// now, so it is pending until OnLoad.
func (f *Form) Open() {
	f.mu.Lock()
	if f.state != StateClosed {
		f.mu.Unlock()
		return
	}
	f.resetLocked()
	f.generation++
	f.state = StateEditing
	f.widgetReady = false
	f.commit()
}

// Close discards all in-progress state. A response still in flight is
// ignored when it arrives. Embedded forms cannot be closed.
func (f *Form) Close() {
	f.mu.Lock()
	if f.mode == ModeEmbedded || f.state == StateClosed {
		f.mu.Unlock()
		return
	}
	f.closeLocked()
	f.commit()
}

// OnLoad is called by the captcha widget once it has rendered
func (f *Form) OnLoad() {
	f.mu.Lock()
	if f.state == StateClosed || f.widgetReady {
		f.mu.Unlock()
		return
	}
	f.widgetReady = true
	if f.status == StatusWidgetLoading {
		f.status = ""
	}
	f.commit()
}

// OnToken is called by the captcha widget on completion. An empty token
// means the previous one expired.
func (f *Form) OnToken(token string) {
	f.mu.Lock()
	if f.state == StateClosed {
		f.mu.Unlock()
		return
	}
	f.token = token
	if token != "" {
		delete(f.errors, FieldRecaptcha)
	}
	f.commit()
}

// SetField applies a keystroke-level edit and reports whether it was accepted.
// Rejected input, unknown fields and edits outside editing leave state unchanged.
func (f *Form) SetField(field, value string) bool {
	switch field {
	case FieldName:
		if !validation.AcceptName(value) {
			return false
		}
	case FieldPhone:
		if !validation.AcceptPhone(value) {
			return false
		}
	case FieldEmail, FieldService, FieldMessage:
	default:
		return false
	}

	f.mu.Lock()
	if f.state != StateEditing {
		f.mu.Unlock()
		return false
	}
	switch field {
	case FieldName:
		f.values.Name = value
	case FieldEmail:
		f.values.Email = value
	case FieldPhone:
		f.values.Phone = value
	case FieldService:
		f.values.Service = value
	case FieldMessage:
		f.values.Message = value
	}
	f.commit()
	return true
}

// Submit validates the form and, only if everything passes, sends it.
// It blocks until the transport answers or ctx ends.
func (f *Form) Submit(ctx context.Context) (*Result, error) {
	f.mu.Lock()
	switch f.state {
	case StateClosed:
		f.mu.Unlock()
		return nil, ErrClosed
	case StateSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	if !f.widgetReady {
		f.status = StatusWidgetLoading
		f.commit()
		return nil, ErrWidgetNotReady
	}

	req := f.requestLocked()
	errs := validation.ValidateEnquiry(req)
	if f.token == "" {
		errs[FieldRecaptcha] = MessageCompleteRecaptcha
	}
	if !errs.Empty() {
		f.errors = errs
		f.status = StatusFixErrors
		f.commit()
		return nil, ErrInvalid
	}

	f.errors = map[string]string{}
	f.status = StatusSubmitting
	f.state = StateSubmitting
	gen := f.generation
	f.commit()

	result, err := f.transport.Submit(ctx, req)

	f.mu.Lock()
	if f.generation != gen {
		// Closed while in flight
		f.mu.Unlock()
		return result, err
	}

	// The token was spent on this attempt
	f.token = ""

	switch {
	case err != nil:
		f.state = StateEditing
		f.status = StatusNetworkError
	case !result.Success:
		f.state = StateEditing
		f.status = result.Message
		if f.status == "" {
			f.status = StatusUnknownError
		}
		for field, msg := range result.Errors {
			f.errors[field] = msg
		}
	default:
		f.state = StateEditing
		f.status = StatusSuccess
		f.values = Values{}
		if f.mode == ModeFloating {
			f.scheduleCloseLocked(gen)
		}
	}
	f.commit()
	return result, err
}

func (f *Form) scheduleCloseLocked(gen uint64) {
	f.closeTimer = time.AfterFunc(f.closeDelay, func() {
		f.mu.Lock()
		if f.generation != gen || f.state == StateClosed {
			f.mu.Unlock()
			return
		}
		f.closeLocked()
		f.commit()
	})
}

func (f *Form) closeLocked() {
	f.resetLocked()
	f.generation++
	f.state = StateClosed
	f.widgetReady = false
}

func (f *Form) resetLocked() {
	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
	}
	f.values = Values{}
	f.token = ""
	f.errors = map[string]string{}
	f.status = ""
}

func (f *Form) requestLocked() *models.EnquiryRequest {
	return &models.EnquiryRequest{
		Name:         f.values.Name,
		Email:        f.values.Email,
		Phone:        f.values.Phone,
		Service:      f.values.Service,
		Message:      f.values.Message,
		CaptchaToken: f.token,
	}
}

func (f *Form) snapshotLocked() Snapshot {
	errs := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	return Snapshot{
		State:       f.state,
		Mode:        f.mode,
		WidgetReady: f.widgetReady,
		HasToken:    f.token != "",
		Values:      f.values,
		Errors:      errs,
		Status:      f.status,
	}
}

// commit releases the lock and notifies observers. Caller must hold f.mu.
func (f *Form) commit() {
	snap := f.snapshotLocked()
	observers := append([]func(Snapshot){}, f.observers...)
	f.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
