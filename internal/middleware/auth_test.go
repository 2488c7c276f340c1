package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/friendloop/backend/internal/auth"
)

type stubAuthenticator struct {
	userID string
	err    error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if token != "valid-token" {
		return "", auth.ErrSessionNotFound
	}
	return s.userID, nil
}

func TestAuthenticatePassesUserID(t *testing.T) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	handler := Authenticate(stubAuthenticator{userID: "user-1"})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d got %d", http.StatusNoContent, rec.Code)
	}
	if gotUserID != "user-1" {
		t.Fatalf("expected user-1 got %q", gotUserID)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	cases := []struct {
		name          string
		authenticator TokenAuthenticator
		header        string
	}{
		{"missingHeader", stubAuthenticator{userID: "user-1"}, ""},
		{"malformedHeader", stubAuthenticator{userID: "user-1"}, "Token valid-token"},
		{"unknownToken", stubAuthenticator{userID: "user-1"}, "Bearer nope"},
		{"expiredToken", stubAuthenticator{err: auth.ErrAccessTokenExpired}, "Bearer valid-token"},
		{"storeError", stubAuthenticator{err: errors.New("store down")}, "Bearer valid-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Authenticate(tc.authenticator)(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
			}
		})
	}
}
