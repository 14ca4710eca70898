package authenticate

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"LineBridge/entity"
	"LineBridge/internal/lib/api/cont"
)

type keyAuth struct{}

func (keyAuth) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token != "secret-key" {
		return nil, errors.New("api key not found")
	}
	return &entity.UserAuth{Username: "hub", Token: token}, nil
}

func TestAuthenticate(t *testing.T) {
	var seen *entity.UserAuth
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = cont.GetUser(r.Context())
	})
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), keyAuth{})(next)

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer", http.StatusUnauthorized},
		{"Basic secret-key", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
		{"Bearer secret-key", http.StatusOK},
	}
	for _, tt := range tests {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chats", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%q: status = %d, want %d", tt.header, rec.Code, tt.want)
		}
		if tt.want == http.StatusOK && (seen == nil || seen.Username != "hub") {
			t.Errorf("%q: user = %+v", tt.header, seen)
		}
	}
}
