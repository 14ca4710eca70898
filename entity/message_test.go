package entity

import (
	"encoding/json"
	"testing"
)

func TestSendMessageRequestBind(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"text to name", `{"to":"Bob","message":{"type":"text","text":"hi"}}`, false},
		{"reply token only", `{"reply_token":"rt","message":{"type":"text","text":"hi"}}`, false},
		{"no target", `{"message":{"type":"text","text":"hi"}}`, true},
		{"text without text", `{"to":"Bob","message":{"type":"text"}}`, true},
		{"unknown type", `{"to":"Bob","message":{"type":"video"}}`, true},
		{"image", `{"to":"Bob","message":{"type":"image","originalContentUrl":"https://x/a.jpg","previewImageUrl":"https://x/p.jpg"}}`, false},
		{"image without preview", `{"to":"Bob","message":{"type":"image","originalContentUrl":"https://x/a.jpg"}}`, true},
		{"sticker", `{"to":"Bob","message":{"type":"sticker","packageId":"446","stickerId":"1988"}}`, false},
		{"audio without duration", `{"to":"Bob","message":{"type":"audio","originalContentUrl":"https://x/a.m4a"}}`, true},
		{"template", `{"to":"Bob","message":{"type":"template","altText":"alt","template":{"type":"confirm","text":"ok?","actions":[{"text":"yes"},{"text":"no"}]}}}`, false},
		{"template without template", `{"to":"Bob","message":{"type":"template","altText":"alt"}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req SendMessageRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatal(err)
			}
			err := req.Bind(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Bind() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestButtonMessageRequestDefaultsAltText(t *testing.T) {
	req := ButtonMessageRequest{To: "Bob", Text: "Pick", Buttons: []Button{{Text: "A", Data: "a=1"}}}
	if err := req.Bind(nil); err != nil {
		t.Fatal(err)
	}
	if req.AltText != "Pick" {
		t.Errorf("AltText = %q", req.AltText)
	}
}

func TestConfirmMessageRequestNeedsTwoButtons(t *testing.T) {
	req := ConfirmMessageRequest{To: "Bob", Text: "Sure?", Buttons: []Button{{Text: "yes"}}}
	if err := req.Bind(nil); err == nil {
		t.Error("expected error for a single confirm button")
	}
	req.Buttons = append(req.Buttons, Button{Label: "No", Data: "answer=no"})
	if err := req.Bind(nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if req.AltText != "Sure?" {
		t.Errorf("AltText = %q", req.AltText)
	}
}
