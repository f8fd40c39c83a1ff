package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnquiryCollection is the Mongo collection holding accepted enquiries
const EnquiryCollection = "enquiries"

// EnquiryRequest is the payload submitted by the enquiry form
type EnquiryRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Service      string `json:"service"`
	Message      string `json:"message"`
	CaptchaToken string `json:"recaptchaToken"`
}

// EnquiryRecord is the persisted form of an accepted enquiry.
// Records are append-only: created once per successful intake, never updated.
type EnquiryRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Service   string             `bson:"service" json:"service"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewEnquiryRecord builds a record from a request, dropping the captcha token
func NewEnquiryRecord(req *EnquiryRequest, createdAt time.Time) *EnquiryRecord {
	return &EnquiryRecord{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		Message:   req.Message,
		CreatedAt: createdAt,
	}
}

// ServiceLabel returns the human readable label of the record's service
func (r *EnquiryRecord) ServiceLabel() string {
	return Service(r.Service).Label()
}

// VerificationResult is the outcome of a captcha verification call. Never persisted.
type VerificationResult struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score,omitempty"`
	Action      string   `json:"action,omitempty"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// SubmissionOutcome is what the intake service reports back to the form
type SubmissionOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
