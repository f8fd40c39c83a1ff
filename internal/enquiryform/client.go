package enquiryform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/relentron/website/internal/models"
)

// Result is the server's answer to a submission
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Transport delivers an enquiry to the intake endpoint. A non-nil error
// means no usable answer came back; a rejected enquiry is a Result with
// Success false.
type Transport interface {
	Submit(ctx context.Context, req *models.EnquiryRequest) (*Result, error)
}

// NetworkError is returned when the server could not be reached or its
// reply could not be understood
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "enquiry transport: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPClient posts enquiries as JSON
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a transport for baseURL, e.g. https://relentron.com
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/enquiry",
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) Submit(ctx context.Context, req *models.EnquiryRequest) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enquiry: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create enquiry request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("status %d: unreadable response: %w", resp.StatusCode, err)}
	}

	// The status code is authoritative
	result.Success = result.Success && resp.StatusCode >= 200 && resp.StatusCode < 300
	return &result, nil
}
