package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/logging"
	"github.com/relentron/website/internal/models"
	"github.com/relentron/website/internal/service"
	"github.com/relentron/website/internal/version"
)

type stubVerifier struct {
	mu     sync.Mutex
	accept map[string]bool
	calls  int
}

func (v *stubVerifier) Verify(ctx context.Context, token, remoteIP string) (*models.VerificationResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.accept[token] {
		return &models.VerificationResult{Success: true}, nil
	}
	return &models.VerificationResult{Success: false, ErrorCodes: []string{"invalid-input-response"}}, nil
}

type memoryRepo struct {
	mu      sync.Mutex
	records []models.EnquiryRecord
	err     error
}

func (r *memoryRepo) Insert(ctx context.Context, record *models.EnquiryRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.records = append(r.records, *record)
	return fmt.Sprintf("rec-%d", len(r.records)), nil
}

func (r *memoryRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memoryRepo) all() []models.EnquiryRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.EnquiryRecord(nil), r.records...)
}

type countingNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *countingNotifier) Name() string { return "counting" }

func (n *countingNotifier) Notify(ctx context.Context, record *models.EnquiryRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type harness struct {
	handler  http.Handler
	verifier *stubVerifier
	repo     *memoryRepo
	notifier *countingNotifier
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "0",
		RateRPS:     100,
		RateBurst:   100,
		Recaptcha:   config.RecaptchaConfig{SiteKey: "site-key-123"},
	}
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		verifier: &stubVerifier{accept: map[string]bool{"tok1": true, "tok2": true}},
		repo:     &memoryRepo{},
		notifier: &countingNotifier{},
	}
	svc := service.NewEnquiryService(h.verifier, h.repo, h.notifier,
		logging.NewWriterLogger(io.Discard, "error"))
	h.handler = NewServer(cfg, Dependencies{Enquiry: svc, DB: stubPinger{}}).Handler()
	return h
}

type apiResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

func (h *harness) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func enquiryJSON(t *testing.T, overrides map[string]string) string {
	t.Helper()
	body := map[string]string{
		"name":           "Jane Doe",
		"email":          "jane@x.com",
		"phone":          "9876543210",
		"service":        "Website",
		"message":        "hi",
		"recaptchaToken": "tok1",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return string(raw)
}

func TestSubmitEnquiry_Success(t *testing.T) {
	h := newHarness(t, testConfig())

	before := time.Now().UTC()
	w, resp := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil))
	after := time.Now().UTC()

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, resp.Success)
	assert.Equal(t, "Enquiry submitted successfully!", resp.Message)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	records := h.repo.all()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "jane@x.com", rec.Email)
	assert.Equal(t, "9876543210", rec.Phone)
	assert.Equal(t, "Website", rec.Service)
	assert.Equal(t, "hi", rec.Message)
	assert.False(t, rec.CreatedAt.Before(before))
	assert.False(t, rec.CreatedAt.After(after))
	assert.Equal(t, 1, h.notifier.calls)
}

func TestSubmitEnquiry_MissingToken(t *testing.T) {
	h := newHarness(t, testConfig())

	w, resp := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, map[string]string{"recaptchaToken": ""}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "reCAPTCHA token missing", resp.Message)
	assert.Equal(t, "MissingVerification", resp.Code)
	assert.Empty(t, h.repo.all())
	assert.Zero(t, h.verifier.calls)
	assert.Zero(t, h.notifier.calls)
}

func TestSubmitEnquiry_VerificationFailed(t *testing.T) {
	h := newHarness(t, testConfig())

	w, resp := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, map[string]string{"recaptchaToken": "forged"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "reCAPTCHA verification failed", resp.Message)
	assert.Equal(t, "VerificationFailed", resp.Code)
	assert.Empty(t, resp.Error, "details are only exposed for server errors")
	assert.Empty(t, h.repo.all())
	assert.Zero(t, h.notifier.calls)
}

func TestSubmitEnquiry_InvalidFields(t *testing.T) {
	h := newHarness(t, testConfig())

	w, resp := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, map[string]string{"email": ""}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", resp.Message)
	assert.Equal(t, "InvalidFields", resp.Code)
	assert.Contains(t, resp.Errors, "email")

	w, resp = h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, map[string]string{"phone": "12ab"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Enter a valid 10-digit number", resp.Errors["phone"])

	assert.Empty(t, h.repo.all())
}

func TestSubmitEnquiry_StorageFailure(t *testing.T) {
	h := newHarness(t, testConfig())
	h.repo.err = errors.New("server selection timeout")

	w, resp := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "StorageFailure", resp.Code)
	assert.Equal(t, "Internal Server Error", resp.Message)
	assert.Contains(t, resp.Error, "server selection timeout")
	assert.Zero(t, h.notifier.calls)
}

func TestSubmitEnquiry_NotificationFailureStillSucceeds(t *testing.T) {
	h := newHarness(t, testConfig())
	h.notifier.err = errors.New("smtp down")

	w, resp := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Len(t, h.repo.all(), 1)
}

func TestSubmitEnquiry_DoubleSubmitStoresTwice(t *testing.T) {
	h := newHarness(t, testConfig())

	w1, _ := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil))
	w2, _ := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, map[string]string{"recaptchaToken": "tok2"}))

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Len(t, h.repo.all(), 2)
}

func TestSubmitEnquiry_MalformedBody(t *testing.T) {
	h := newHarness(t, testConfig())

	for _, body := range []string{`{"name": "Jane"`, `not json`, `{"phone": 9876543210}`} {
		w, resp := h.do(t, http.MethodPost, "/api/enquiry", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Invalid request body", resp.Message, body)
	}

	w, resp := h.do(t, http.MethodPost, "/api/enquiry", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", resp.Message)
	assert.Empty(t, h.repo.all())
}

func TestSubmitEnquiry_BodyTooLarge(t *testing.T) {
	h := newHarness(t, testConfig())

	body := enquiryJSON(t, map[string]string{"message": strings.Repeat("a", 70*1024)})
	w, resp := h.do(t, http.MethodPost, "/api/enquiry", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "RequestTooLarge", resp.Code)
	assert.Empty(t, h.repo.all())
}

func TestEnquiry_MethodNotAllowed(t *testing.T) {
	h := newHarness(t, testConfig())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w, resp := h.do(t, method, "/api/enquiry", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
		assert.False(t, resp.Success)
		assert.Equal(t, fmt.Sprintf("Method %s Not Allowed", method), resp.Message)
	}
}

func TestEnquiry_Config(t *testing.T) {
	h := newHarness(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/enquiry/config", nil)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cfg struct {
		SiteKey  string `json:"siteKey"`
		Services []struct {
			Code  string `json:"code"`
			Label string `json:"label"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "site-key-123", cfg.SiteKey)
	require.Len(t, cfg.Services, 5)
	assert.Equal(t, "Website", cfg.Services[0].Code)
	assert.Equal(t, "Website Development", cfg.Services[0].Label)
	assert.Equal(t, "Others", cfg.Services[4].Code)
}

func TestHealth(t *testing.T) {
	h := newHarness(t, testConfig())
	w, resp := h.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	svc := service.NewEnquiryService(&stubVerifier{}, &memoryRepo{}, nil, logging.NewWriterLogger(io.Discard, "error"))
	down := NewServer(testConfig(), Dependencies{Enquiry: svc, DB: stubPinger{err: errors.New("no reachable servers")}}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVersionEndpoint(t *testing.T) {
	h := newHarness(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, version.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, testConfig())
	h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "enquiry_submissions_total")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRateLimitPerClient(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS = 1
	cfg.RateBurst = 2
	h := newHarness(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w, _ := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil), "X-Real-IP", "203.0.113.7")
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket
	w, _ := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil), "X-Real-IP", "198.51.100.9")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "production"
	cfg.AllowedOrigins = "https://relentron.com, https://www.relentron.com"
	h := newHarness(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/enquiry", nil)
	req.Header.Set("Origin", "https://relentron.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://relentron.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	req = httptest.NewRequest(http.MethodPost, "/api/enquiry", bytes.NewBufferString(enquiryJSON(t, nil)))
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, h.repo.all())

	// Release mode hides error details
	h.repo.err = errors.New("secret driver detail")
	w2, resp := h.do(t, http.MethodPost, "/api/enquiry", enquiryJSON(t, nil), "Origin", "https://www.relentron.com")
	assert.Equal(t, http.StatusInternalServerError, w2.Code)
	assert.Empty(t, resp.Error)
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, testConfig())
	w, resp := h.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", resp.Code)
}
