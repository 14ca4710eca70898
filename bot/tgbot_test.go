package bot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"LineBridge/entity"
)

type fakeCore struct {
	chats    []entity.ChatEntry
	pending  []entity.PendingChat
	approved map[string]string
	removed  []string
}

func (f *fakeCore) ListChats() []entity.ChatEntry { return f.chats }
func (f *fakeCore) ListPending() []entity.PendingChat { return f.pending }

func (f *fakeCore) ApproveChat(_ context.Context, chatID, name string) error {
	if name == "Taken" {
		return entity.ErrDuplicateName
	}
	if chatID != "U1" {
		return entity.ErrNotPending
	}
	f.approved[chatID] = name
	return nil
}

func (f *fakeCore) RemoveChats(_ context.Context, names []string) error {
	f.removed = append(f.removed, names...)
	return nil
}

func newTestBot() (*TgBot, *fakeCore) {
	core := &fakeCore{approved: map[string]string{}}
	t := &TgBot{log: slog.New(slog.NewTextHandler(io.Discard, nil)), adminId: 1}
	t.SetCore(core)
	return t, core
}

func TestApproveCommand(t *testing.T) {
	bot, core := newTestBot()

	tests := []struct {
		args []string
		want string
	}{
		{nil, "Usage"},
		{[]string{"U1"}, "Usage"},
		{[]string{"U1", "Living", "room"}, "approved as 'Living room'"},
		{[]string{"U2", "Kitchen"}, "not waiting for approval"},
		{[]string{"U1", "Taken"}, "already in use"},
	}
	for _, tt := range tests {
		if got := bot.approve(tt.args); !strings.Contains(got, tt.want) {
			t.Errorf("approve(%v) = %q, want substring %q", tt.args, got, tt.want)
		}
	}
	if core.approved["U1"] != "Living room" {
		t.Errorf("approved = %v", core.approved)
	}
}

func TestRemoveCommand(t *testing.T) {
	bot, core := newTestBot()

	if got := bot.remove(nil); !strings.HasPrefix(got, "Usage") {
		t.Errorf("remove() = %q", got)
	}
	bot.remove([]string{"Alice", "Bob"})
	if strings.Join(core.removed, ",") != "Alice,Bob" {
		t.Errorf("removed = %v", core.removed)
	}
}

func TestListCommands(t *testing.T) {
	bot, core := newTestBot()

	if got := bot.chatsText(nil); got != "No allowed chats" {
		t.Errorf("chats = %q", got)
	}
	core.chats = []entity.ChatEntry{{DisplayName: "Alice", ChatID: "U1"}}
	if got := bot.chatsText(nil); !strings.Contains(got, "Alice: U1") {
		t.Errorf("chats = %q", got)
	}

	core.pending = []entity.PendingChat{{ChatID: "Cabcdef", Text: "hello"}}
	if got := bot.pendingText(nil); !strings.Contains(got, "Cabcd (hello)") {
		t.Errorf("pending = %q", got)
	}
}

func TestPendingNotice(t *testing.T) {
	got := pendingNotice(entity.PendingChat{ChatID: "U12345678", SourceType: entity.SourceUser, Text: "hi"})
	for _, want := range []string{"U1234 (hi)", "chat_id: U12345678", "/approve U12345678 <name>"} {
		if !strings.Contains(got, want) {
			t.Errorf("notice %q misses %q", got, want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("a_b (c)."); got != `a\_b \(c\)\.` {
		t.Errorf("sanitize = %q", got)
	}
}
