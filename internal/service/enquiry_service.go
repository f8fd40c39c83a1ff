package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/relentron/website/internal/api/sanitization"
	"github.com/relentron/website/internal/api/validation"
	"github.com/relentron/website/internal/logging"
	"github.com/relentron/website/internal/metrics"
	"github.com/relentron/website/internal/models"
	"github.com/relentron/website/internal/repository"
	"github.com/relentron/website/internal/telemetry"
)

// SuccessMessage is returned for every stored enquiry, whether or not the
// operator notification went out
const SuccessMessage = "Enquiry submitted successfully!"

// EnquiryService is the server-side intake pipeline:
// token check, verification, field check, persistence, notification.
// Each step gates the next.
type EnquiryService struct {
	verifier Verifier
	repo     repository.EnquiryRepository
	notifier Notifier
	logger   *logging.Logger
	strict   bool
	now      func() time.Time
}

// EnquiryServiceOption customizes an EnquiryService
type EnquiryServiceOption func(*EnquiryService)

// WithStrictValidation enables format checks on top of the presence check
func WithStrictValidation(strict bool) EnquiryServiceOption {
	return func(s *EnquiryService) { s.strict = strict }
}

// WithClock overrides the clock used for createdAt
func WithClock(now func() time.Time) EnquiryServiceOption {
	return func(s *EnquiryService) { s.now = now }
}

// NewEnquiryService creates a new intake service. notifier may be nil.
func NewEnquiryService(verifier Verifier, repo repository.EnquiryRepository, notifier Notifier, logger *logging.Logger, opts ...EnquiryServiceOption) *EnquiryService {
	s := &EnquiryService{
		verifier: verifier,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		strict:   true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one submission through the pipeline. Rejections are returned
// as *EnquiryError. Notification problems are logged and never returned.
func (s *EnquiryService) Submit(ctx context.Context, req *models.EnquiryRequest, remoteIP string) (*models.SubmissionOutcome, error) {
	// The pipeline runs to completion even if the client goes away
	ctx = context.WithoutCancel(ctx)

	ctx, span := telemetry.Tracer().Start(ctx, "enquiry.submit")
	defer span.End()

	token := strings.TrimSpace(req.CaptchaToken)
	if token == "" {
		return nil, s.fail(span, &EnquiryError{Kind: KindMissingVerification, Message: "reCAPTCHA token missing"})
	}

	if err := s.verify(ctx, token, remoteIP); err != nil {
		return nil, s.fail(span, err)
	}

	clean := normalize(req)
	if err := s.checkFields(clean); err != nil {
		return nil, s.fail(span, err)
	}

	record := models.NewEnquiryRecord(clean, s.now().UTC())
	id, err := s.persist(ctx, record)
	if err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.String("enquiry.id", id), attribute.String("enquiry.service", record.Service))

	s.notify(ctx, id, record)

	s.logger.Info("Enquiry %s stored (service=%s)", id, record.Service)
	metrics.RecordSubmission("success")

	return &models.SubmissionOutcome{Success: true, Message: SuccessMessage}, nil
}

func (s *EnquiryService) verify(ctx context.Context, token, remoteIP string) error {
	ctx, span := telemetry.Tracer().Start(ctx, "enquiry.verify")
	defer span.End()

	start := time.Now()
	result, err := s.verifier.Verify(ctx, token, remoteIP)
	ok := err == nil && result != nil && result.Success
	if !ok && err == nil {
		err = ErrVerificationFault
	}
	metrics.ObserveStep(metrics.StepVerify, start, err)

	if ok {
		return nil
	}

	var codes []string
	if result != nil {
		codes = result.ErrorCodes
	}
	s.logger.Warn("reCAPTCHA verification failed: %v (error-codes=%v)", err, codes)
	telemetry.RecordError(span, err)

	return &EnquiryError{Kind: KindVerificationFailed, Message: "reCAPTCHA verification failed", Err: err}
}

func (s *EnquiryService) checkFields(req *models.EnquiryRequest) error {
	if missing := validation.RequireFields(req); !missing.Empty() {
		return &EnquiryError{Kind: KindInvalidFields, Message: "All fields are required", Fields: missing, Err: ErrValidation}
	}

	if !s.strict {
		return nil
	}

	if invalid := validation.ValidateEnquiry(req); !invalid.Empty() {
		return &EnquiryError{Kind: KindInvalidFields, Message: "Please correct the highlighted fields", Fields: invalid, Err: ErrValidation}
	}
	return nil
}

func (s *EnquiryService) persist(ctx context.Context, record *models.EnquiryRecord) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "enquiry.persist")
	defer span.End()

	start := time.Now()
	id, err := s.repo.Insert(ctx, record)
	metrics.ObserveStep(metrics.StepPersist, start, err)

	if err != nil {
		s.logger.Error("Failed to store enquiry from %s: %v", record.Name, err)
		telemetry.RecordError(span, err)
		return "", &EnquiryError{Kind: KindStorageFailure, Message: "Internal Server Error", Err: err}
	}
	return id, nil
}

// notify is best-effort: the record is already stored and is the source of truth
func (s *EnquiryService) notify(ctx context.Context, id string, record *models.EnquiryRecord) {
	if s.notifier == nil {
		s.logger.Warn("No notification channel configured, enquiry %s not announced", id)
		return
	}

	ctx, span := telemetry.Tracer().Start(ctx, "enquiry.notify")
	defer span.End()

	start := time.Now()
	err := s.notifier.Notify(ctx, record)
	metrics.ObserveStep(metrics.StepNotify, start, err)

	if err != nil {
		notifyErr := &EnquiryError{Kind: KindNotificationFailure, Message: "Failed to notify operator", Err: err}
		s.logger.Error("Enquiry %s stored but %v", id, notifyErr)
		telemetry.RecordError(span, notifyErr)
		metrics.RecordNotificationFailure()
	}
}

func (s *EnquiryService) fail(span interface {
	SetAttributes(kv ...attribute.KeyValue)
}, err error) error {
	kind := KindOf(err)
	span.SetAttributes(attribute.String("enquiry.failure", string(kind)))
	metrics.RecordSubmission(string(kind))
	return err
}

// normalize trims every field before checks and storage
func normalize(req *models.EnquiryRequest) *models.EnquiryRequest {
	return &models.EnquiryRequest{
		Name:         sanitization.SanitizeString(req.Name),
		Email:        sanitization.SanitizeEmail(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Service:      strings.TrimSpace(req.Service),
		Message:      sanitization.SanitizeMessage(req.Message),
		CaptchaToken: req.CaptchaToken,
	}
}
