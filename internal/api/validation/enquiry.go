package validation

import (
	"strings"

	"github.com/relentron/website/internal/models"
)

// FieldErrors maps a form field key to the message shown next to it
type FieldErrors map[string]string

// Empty reports whether no field failed
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

type enquiryFields struct {
	Name    string `json:"name" validate:"notblank,min=2,max=100,personname"`
	Email   string `json:"email" validate:"notblank,max=254,basicemail"`
	Phone   string `json:"phone" validate:"notblank,phone10"`
	Service string `json:"service" validate:"notblank,service"`
	Message string `json:"message" validate:"notblank,max=5000"`
}

var messages = map[string]map[string]string{
	FieldName: {
		"notblank":   "Name is required",
		"min":        "Name must be at least 2 characters",
		"max":        "Name must be at most 100 characters",
		"personname": "Name may only contain letters and spaces",
	},
	FieldEmail: {
		"notblank":   "Email is required",
		"max":        "Email is too long",
		"basicemail": "Invalid email format",
	},
	FieldPhone: {
		"notblank": "Phone is required",
		"phone10":  "Enter a valid 10-digit number",
	},
	FieldService: {
		"notblank": "Please select a service",
		"service":  "Please select a valid service",
	},
	FieldMessage: {
		"notblank": "Message is required",
		"max":      "Message must be at most 5000 characters",
	},
}

// ValidateEnquiry applies the full format rules to the five user fields.
// The captcha token is not checked here.
func ValidateEnquiry(req *models.EnquiryRequest) FieldErrors {
	fields := enquiryFields{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
	}

	errs := FieldErrors{}
	for _, ve := range FormatValidationError(Default().Struct(fields)) {
		if _, seen := errs[ve.Field]; seen {
			continue
		}
		msg, ok := messages[ve.Field][ve.Tag]
		if !ok {
			msg = "Invalid value"
		}
		errs[ve.Field] = msg
	}
	return errs
}

// RequireFields only checks that every user field is present after trimming
func RequireFields(req *models.EnquiryRequest) FieldErrors {
	errs := FieldErrors{}
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = messages[field]["notblank"]
		}
	}
	check(FieldName, req.Name)
	check(FieldEmail, req.Email)
	check(FieldPhone, req.Phone)
	check(FieldService, req.Service)
	check(FieldMessage, req.Message)
	return errs
}

// AcceptName reports whether a typed name value may enter form state
func AcceptName(value string) bool {
	return nameRegex.MatchString(value)
}

// AcceptPhone reports whether a typed phone value may enter form state
func AcceptPhone(value string) bool {
	return len(value) <= PhoneLength && digitsRegex.MatchString(value)
}
