package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"fabricai/internal/session"
)

func requestWithSession(data *session.Data) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/fabrics", nil)
	if data != nil {
		req = req.WithContext(context.WithValue(req.Context(), SessionKey, data))
	}
	return req
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireAuth(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		inner, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, requestWithSession(nil))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if *called {
			t.Error("next handler must not run without a session")
		}
	})

	t.Run("with session", func(t *testing.T) {
		inner, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, requestWithSession(&session.Data{UserID: uuid.New()}))

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
		if !*called {
			t.Error("next handler should have been called")
		}
	})
}

func TestRequire2FA(t *testing.T) {
	t.Run("pending verification", func(t *testing.T) {
		inner, called := okHandler()
		rr := httptest.NewRecorder()
		Require2FA(inner).ServeHTTP(rr, requestWithSession(&session.Data{TwoFADone: false}))

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
		if *called {
			t.Error("next handler must not run before 2FA completes")
		}
	})

	t.Run("verified", func(t *testing.T) {
		inner, _ := okHandler()
		rr := httptest.NewRecorder()
		Require2FA(inner).ServeHTTP(rr, requestWithSession(&session.Data{TwoFADone: true}))

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		sess *session.Data
		want int
	}{
		{"no session", nil, http.StatusForbidden},
		{"non-admin role", &session.Data{Role: "venditore"}, http.StatusForbidden},
		{"admin role", &session.Data{Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, _ := okHandler()
			rr := httptest.NewRecorder()
			RequireAdmin(inner).ServeHTTP(rr, requestWithSession(tt.sess))

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestSessionFromCtx(t *testing.T) {
	if SessionFromCtx(context.Background()) != nil {
		t.Error("empty context should yield nil session")
	}

	data := &session.Data{Email: "admin@fabricai.local"}
	ctx := context.WithValue(context.Background(), SessionKey, data)
	if got := SessionFromCtx(ctx); got != data {
		t.Error("session should round-trip through the context")
	}
}
