package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/relentron/website/internal/config"
)

func newTestRecaptcha(url string, timeout time.Duration, minScore float64) *RecaptchaService {
	return NewRecaptchaService(config.RecaptchaConfig{
		SecretKey: "shh",
		VerifyURL: url,
		Timeout:   timeout,
		MinScore:  minScore,
	})
}

func TestRecaptchaService_Verify(t *testing.T) {
	var gotSecret, gotResponse, gotRemoteIP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotSecret = r.PostForm.Get("secret")
		gotResponse = r.PostForm.Get("response")
		gotRemoteIP = r.PostForm.Get("remoteip")

		w.Header().Set("Content-Type", "application/json")
		switch gotResponse {
		case "tok1":
			w.Write([]byte(`{"success": true, "hostname": "relentron.com", "challenge_ts": "2026-10-14T10:00:00Z"}`))
		case "low":
			w.Write([]byte(`{"success": true, "score": 0.1}`))
		default:
			w.Write([]byte(`{"success": false, "error-codes": ["timeout-or-duplicate"]}`))
		}
	}))
	defer srv.Close()

	svc := newTestRecaptcha(srv.URL, time.Second, 0)

	result, err := svc.Verify(context.Background(), "tok1", "10.0.0.1")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !result.Success || result.Hostname != "relentron.com" {
		t.Errorf("unexpected result %+v", result)
	}
	if gotSecret != "shh" || gotResponse != "tok1" || gotRemoteIP != "10.0.0.1" {
		t.Errorf("form = secret:%q response:%q remoteip:%q", gotSecret, gotResponse, gotRemoteIP)
	}

	result, err = svc.Verify(context.Background(), "replayed", "")
	if err == nil || result.Success {
		t.Errorf("expected rejected token, got %+v err=%v", result, err)
	}
	if len(result.ErrorCodes) != 1 || result.ErrorCodes[0] != "timeout-or-duplicate" {
		t.Errorf("expected provider diagnostics to be kept, got %v", result.ErrorCodes)
	}

	// Score floor only applies when configured
	result, err = svc.Verify(context.Background(), "low", "")
	if err != nil || !result.Success {
		t.Errorf("score floor disabled: got %+v err=%v", result, err)
	}
	strict := newTestRecaptcha(srv.URL, time.Second, 0.5)
	result, err = strict.Verify(context.Background(), "low", "")
	if err == nil || result.Success {
		t.Errorf("score floor enabled: got %+v err=%v", result, err)
	}
}

func TestRecaptchaService_FailuresMapToUnsuccessful(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		fault   bool
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			fault: true,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
			fault: true,
		},
		{
			name: "slow gateway",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			fault: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			svc := newTestRecaptcha(srv.URL, 100*time.Millisecond, 0)
			start := time.Now()
			result, err := svc.Verify(context.Background(), "tok", "")
			if result == nil || result.Success {
				t.Fatalf("expected unsuccessful result, got %+v", result)
			}
			if tt.fault != errors.Is(err, ErrVerificationFault) {
				t.Errorf("errors.Is(err, ErrVerificationFault) = %v, want %v (err=%v)", !tt.fault, tt.fault, err)
			}
			if time.Since(start) > time.Second {
				t.Errorf("verification was not bounded by its timeout")
			}
		})
	}
}

func TestRecaptchaService_NotConfigured(t *testing.T) {
	svc := NewRecaptchaService(config.RecaptchaConfig{VerifyURL: "http://127.0.0.1:0"})
	result, err := svc.Verify(context.Background(), "tok", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if result.Success {
		t.Error("expected unsuccessful result")
	}
}
