package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthJWT(t *testing.T) {
	const secret = "test-secret"

	validToken := func(t *testing.T, claims TokenClaims) string {
		t.Helper()
		token, err := SignJWT(secret, claims)
		if err != nil {
			t.Fatalf("SignJWT() error = %v", err)
		}
		return token
	}

	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		authHeader func(t *testing.T) string
		wantStatus int
		wantUser   string
	}{
		{
			name: "valid token",
			authHeader: func(t *testing.T) string {
				return "Bearer " + validToken(t, TokenClaims{Sub: "user-1", Exp: future, Issuer: "admaker", Audience: "admaker"})
			},
			wantStatus: http.StatusOK,
			wantUser:   "user-1",
		},
		{
			name:       "missing header",
			authHeader: func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: func(t *testing.T) string { return "Basic abc" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			authHeader: func(t *testing.T) string {
				return "Bearer " + validToken(t, TokenClaims{Sub: "user-1", Exp: time.Now().Add(-time.Minute).Unix()})
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong issuer",
			authHeader: func(t *testing.T) string {
				return "Bearer " + validToken(t, TokenClaims{Sub: "user-1", Exp: future, Issuer: "someone-else"})
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "tampered signature",
			authHeader: func(t *testing.T) string {
				return "Bearer " + validToken(t, TokenClaims{Sub: "user-1", Exp: future}) + "x"
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser string
			handler := AuthJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header := tc.authHeader(t); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantUser != "" && gotUser != tc.wantUser {
				t.Errorf("user = %q, want %q", gotUser, tc.wantUser)
			}
		})
	}
}

func TestRateLimitWindow(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	status := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := status("203.0.113.1:1000"); got != http.StatusOK {
		t.Fatalf("first request = %d", got)
	}
	if got := status("203.0.113.1:1001"); got != http.StatusOK {
		t.Fatalf("second request = %d", got)
	}
	if got := status("203.0.113.1:1002"); got != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", got)
	}
	// A different caller has its own window.
	if got := status("203.0.113.9:1000"); got != http.StatusOK {
		t.Fatalf("other caller = %d, want 200", got)
	}
}
