package setup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"LineBridge/entity"
)

type fakeCore struct {
	err     error
	token   string
	reloads int
}

func (f *fakeCore) Setup(_ context.Context, accessToken, _ string) error {
	f.token = accessToken
	return f.err
}

func (f *fakeCore) Reload(_ context.Context) error {
	f.reloads++
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSetup(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"ok", `{"access_token":"t","channel_secret":"s"}`, nil, http.StatusOK},
		{"missing secret", `{"access_token":"t"}`, nil, http.StatusBadRequest},
		{"invalid auth", `{"access_token":"t","channel_secret":"s"}`, fmt.Errorf("%w: 401", entity.ErrInvalidAuth), http.StatusBadRequest},
		{"store failure", `{"access_token":"t","channel_secret":"s"}`, fmt.Errorf("disk"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			Setup(discard, &fakeCore{err: tt.err})(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestReload(t *testing.T) {
	core := &fakeCore{}
	rec := httptest.NewRecorder()
	Reload(discard, core)(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusOK || core.reloads != 1 {
		t.Errorf("status = %d, reloads = %d", rec.Code, core.reloads)
	}
}
