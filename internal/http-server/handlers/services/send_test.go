package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"LineBridge/entity"
	"LineBridge/internal/lib/api/response"
)

type fakeCore struct {
	err     error
	message *entity.SendMessageRequest
	buttons *entity.ButtonMessageRequest
	confirm *entity.ConfirmMessageRequest
}

func (f *fakeCore) SendMessage(_ context.Context, req *entity.SendMessageRequest) error {
	f.message = req
	return f.err
}

func (f *fakeCore) SendButtonMessage(_ context.Context, req *entity.ButtonMessageRequest) error {
	f.buttons = req
	return f.err
}

func (f *fakeCore) SendConfirmMessage(_ context.Context, req *entity.ConfirmMessageRequest) error {
	f.confirm = req
	return f.err
}

func (f *fakeCore) Quota(_ context.Context) (int64, error) {
	return 7, f.err
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func post(h http.HandlerFunc, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	var resp response.Response
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestSendMessageStatus(t *testing.T) {
	const body = `{"to":"Alice","message":{"type":"text","text":"hi"}}`

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"unknown name", &entity.ChatIdNotFound{Name: "Alice", AllowedNames: []string{"Bob"}}, http.StatusNotFound},
		{"unsupported", entity.ErrUnsupportedMessage, http.StatusBadRequest},
		{"not configured", entity.ErrNotConfigured, http.StatusServiceUnavailable},
		{"provider", errors.New("line: 500"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := &fakeCore{err: tt.err}
			rec, resp := post(SendMessage(discard, core), body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
			if resp.Success != (tt.err == nil) {
				t.Errorf("success = %v", resp.Success)
			}
			if core.message == nil || core.message.To != "Alice" {
				t.Errorf("request = %+v", core.message)
			}
		})
	}
}

func TestChatIdNotFoundListsNames(t *testing.T) {
	core := &fakeCore{err: &entity.ChatIdNotFound{Name: "Alice", AllowedNames: []string{"Bob"}}}
	_, resp := post(SendMessage(discard, core), `{"to":"Alice","message":{"type":"text","text":"hi"}}`)

	if !strings.Contains(resp.Message, "Bob") {
		t.Errorf("message = %q", resp.Message)
	}
	names, _ := resp.Data.([]any)
	if len(names) != 1 || names[0] != "Bob" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestSendMessageValidation(t *testing.T) {
	bodies := []string{
		`{"message":{"type":"text","text":"hi"}}`,
		`{"to":"Alice","message":{"type":"text"}}`,
		`{"to":"Alice","message":{"type":"video"}}`,
		`not json`,
	}
	for _, body := range bodies {
		core := &fakeCore{}
		rec, _ := post(SendMessage(discard, core), body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, rec.Code)
		}
		if core.message != nil {
			t.Errorf("%s: core called", body)
		}
	}
}

func TestButtonAltTextDefaults(t *testing.T) {
	core := &fakeCore{}
	rec, _ := post(SendButtonMessage(discard, core),
		`{"to":"Alice","text":"Pick","buttons":[{"text":"Yes","data":"a=1"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if core.buttons.AltText != "Pick" {
		t.Errorf("alt text = %q", core.buttons.AltText)
	}
}

func TestConfirmNeedsTwoButtons(t *testing.T) {
	core := &fakeCore{}
	rec, _ := post(SendConfirmMessage(discard, core),
		`{"reply_token":"rt","text":"Sure?","buttons":[{"text":"Yes"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}

	rec, _ = post(SendConfirmMessage(discard, core),
		`{"reply_token":"rt","text":"Sure?","altText":"confirm","buttons":[{"text":"Yes"},{"text":"No"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if core.confirm.AltText != "confirm" {
		t.Errorf("alt text = %q", core.confirm.AltText)
	}
}

func TestQuota(t *testing.T) {
	rec := httptest.NewRecorder()
	Quota(discard, &fakeCore{})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total_usage":7`) {
		t.Errorf("%d %s", rec.Code, rec.Body)
	}
}
