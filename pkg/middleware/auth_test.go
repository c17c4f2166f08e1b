package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"safarivista/pkg/auth"
	"safarivista/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

func TestAuthenticator(t *testing.T) {
	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	userToken, _ := tokens.Generate("u1", auth.RoleUser)
	adminToken, _ := tokens.Generate("a1", auth.RoleAdmin)

	authn := NewAuthenticator(tokens, logger.Discard())

	var gotIdentity auth.Identity
	target := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotIdentity, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	router := httprouter.New()
	router.GET("/me", authn.Require(target))
	router.GET("/admin", authn.RequireRole(target, auth.RoleAdmin, auth.RoleLeadGuide))

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"no token", "/me", "", http.StatusUnauthorized, ""},
		{"malformed header", "/me", "Token " + userToken, http.StatusUnauthorized, ""},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid user", "/me", "Bearer " + userToken, http.StatusOK, "u1"},
		{"user on admin route", "/admin", "Bearer " + userToken, http.StatusForbidden, ""},
		{"admin on admin route", "/admin", "Bearer " + adminToken, http.StatusOK, "a1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIdentity = auth.Identity{}
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotIdentity.UserID != tt.wantUser {
				t.Errorf("identity = %+v, want user %q", gotIdentity, tt.wantUser)
			}
		})
	}
}

func TestClientKeyExtractor(t *testing.T) {
	tokens, _ := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	token, _ := tokens.Generate("u42", auth.RoleUser)
	extract := NewClientKeyExtractor(tokens)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:80"
	if got := extract(req); got != "ip:10.1.1.1" {
		t.Errorf("anonymous key = %s", got)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if got := extract(req); got != "user:u42" {
		t.Errorf("authenticated key = %s", got)
	}
}
