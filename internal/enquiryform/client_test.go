package enquiryform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relentron/website/internal/models"
)

func sampleRequest() *models.EnquiryRequest {
	return &models.EnquiryRequest{
		Name:         "Jane Doe",
		Email:        "jane@x.com",
		Phone:        "9876543210",
		Service:      "Website",
		Message:      "hi",
		CaptchaToken: "tok1",
	}
}

func TestHTTPClient_Success(t *testing.T) {
	var got models.EnquiryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/enquiry", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Enquiry submitted successfully!"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", time.Second)
	result, err := c.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Enquiry submitted successfully!", result.Message)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "tok1", got.CaptchaToken)
}

func TestHTTPClient_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Please correct the highlighted fields","code":"InvalidFields","errors":{"phone":"Enter a valid 10-digit number"}}`))
	}))
	defer srv.Close()

	result, err := NewHTTPClient(srv.URL, time.Second).Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "InvalidFields", result.Code)
	assert.Equal(t, "Enter a valid 10-digit number", result.Errors["phone"])
}

func TestHTTPClient_StatusOverridesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":true,"message":"confused proxy"}`))
	}))
	defer srv.Close()

	result, err := NewHTTPClient(srv.URL, time.Second).Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestHTTPClient_NonJSONIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, time.Second).Submit(context.Background(), sampleRequest())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, err.Error(), "status 502")
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, time.Second).Submit(context.Background(), sampleRequest())
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestHTTPClient_DrivesForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"reCAPTCHA verification failed","code":"VerificationFailed"}`))
	}))
	defer srv.Close()

	f := New(NewHTTPClient(srv.URL, time.Second))
	f.Open()
	f.OnLoad()
	fillAll(t, f)
	f.OnToken("stale")

	_, err := f.Submit(context.Background())
	require.NoError(t, err)

	snap := f.Snapshot()
	assert.Equal(t, "reCAPTCHA verification failed", snap.Status)
	assert.False(t, snap.HasToken)
	assert.Equal(t, "Jane Doe", snap.Values.Name)
}
