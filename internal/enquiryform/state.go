package enquiryform

import (
	"errors"

	"github.com/relentron/website/internal/api/validation"
)

// State is where a form instance is in its open/submit cycle
type State int

const (
	StateClosed State = iota
	StateEditing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Mode selects between the floating popup and the inline form
type Mode int

const (
	// ModeFloating opens on demand and closes itself after a successful submit
	ModeFloating Mode = iota
	// ModeEmbedded is always open
	ModeEmbedded
)

// Field names, shared with the server's error map
const (
	FieldName      = validation.FieldName
	FieldEmail     = validation.FieldEmail
	FieldPhone     = validation.FieldPhone
	FieldService   = validation.FieldService
	FieldMessage   = validation.FieldMessage
	FieldRecaptcha = validation.FieldRecaptcha
)

// Status lines shown under the form
const (
	StatusSubmitting    = "Submitting..."
	StatusSuccess       = "Enquiry submitted successfully!"
	StatusFixErrors     = "Please fix the highlighted errors!"
	StatusNetworkError  = "Network or server error!"
	StatusUnknownError  = "Something went wrong!"
	StatusWidgetLoading = "reCAPTCHA is still loading, please wait"

	MessageCompleteRecaptcha = "Please complete reCAPTCHA"
)

var (
	ErrClosed         = errors.New("enquiry form is closed")
	ErrSubmitInFlight = errors.New("enquiry submission already in flight")
	ErrWidgetNotReady = errors.New("reCAPTCHA widget not ready")
	ErrInvalid        = errors.New("enquiry form has invalid fields")
)

// Values are the five user-editable fields
type Values struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
}

// Snapshot is a copy of the observable form state
type Snapshot struct {
	State       State
	Mode        Mode
	WidgetReady bool
	HasToken    bool
	Values      Values
	Errors      map[string]string
	Status      string
}

// CanSubmit reports whether the submit control should be enabled
func (s Snapshot) CanSubmit() bool {
	return s.State == StateEditing && s.WidgetReady
}
