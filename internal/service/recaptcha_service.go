package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/models"
)

// Verifier confirms a captcha token was produced by a human
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*models.VerificationResult, error)
}

// RecaptchaService handles reCAPTCHA verification
type RecaptchaService struct {
	secretKey string
	verifyURL string
	minScore  float64
	timeout   time.Duration
	client    *http.Client
}

// NewRecaptchaService creates a new reCAPTCHA service
func NewRecaptchaService(cfg config.RecaptchaConfig) *RecaptchaService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RecaptchaService{
		secretKey: cfg.SecretKey,
		verifyURL: cfg.VerifyURL,
		minScore:  cfg.MinScore,
		timeout:   timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Verify verifies a reCAPTCHA token. The returned result is never nil; any
// transport or decoding problem yields Success=false together with the cause.
func (s *RecaptchaService) Verify(ctx context.Context, token, remoteIP string) (*models.VerificationResult, error) {
	failed := &models.VerificationResult{Success: false}

	if s.secretKey == "" {
		return failed, fmt.Errorf("reCAPTCHA secret key: %w", ErrNotConfigured)
	}

	if token == "" {
		return failed, fmt.Errorf("reCAPTCHA token is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data := url.Values{}
	data.Set("secret", s.secretKey)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return failed, fmt.Errorf("failed to create reCAPTCHA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return failed, fmt.Errorf("%w: failed to verify reCAPTCHA: %v", ErrVerificationFault, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return failed, fmt.Errorf("%w: reCAPTCHA API returned status %d", ErrVerificationFault, resp.StatusCode)
	}

	var result models.VerificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return failed, fmt.Errorf("%w: failed to parse reCAPTCHA response: %v", ErrVerificationFault, err)
	}

	if !result.Success {
		return &result, fmt.Errorf("reCAPTCHA verification failed: %v", result.ErrorCodes)
	}

	// Check score (for reCAPTCHA v3)
	if s.minScore > 0 && result.Score < s.minScore {
		result.Success = false
		return &result, fmt.Errorf("reCAPTCHA score too low: %.2f < %.2f", result.Score, s.minScore)
	}

	return &result, nil
}
