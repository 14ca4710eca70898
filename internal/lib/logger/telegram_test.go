package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"LineBridge/internal/lib/sl"
)

type recordingSender struct {
	sent    chan string
	release chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan string, 4)}
}

func (s *recordingSender) SendMessage(msg string) {
	if s.release != nil {
		<-s.release
	}
	s.sent <- msg
}

func (s *recordingSender) next(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-s.sent:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message sent")
	}
	return ""
}

func TestTelegramHandlerForwardsOnlyAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sender := newRecordingSender()

	log := SetupTelegramHandler(base, sender, slog.LevelError)
	log = log.With(sl.Module("test"))

	log.Info("just info")
	log.Error("push failed", sl.Err(errors.New("quota exceeded")))

	msg := sender.next(t)
	for _, want := range []string{"ERROR: push failed", "module: test", "error: quota exceeded"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
	select {
	case extra := <-sender.sent:
		t.Errorf("unexpected message %q", extra)
	case <-time.After(50 * time.Millisecond):
	}
	if !strings.Contains(buf.String(), "just info") {
		t.Errorf("base handler did not receive info record")
	}
}

func TestTelegramHandlerDoesNotBlockLogging(t *testing.T) {
	sender := newRecordingSender()
	sender.release = make(chan struct{})
	log := SetupTelegramHandler(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), sender, slog.LevelWarn)

	done := make(chan struct{})
	go func() {
		log.Warn("rejected delivery", slog.String("chat_id", "U-stranger"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("log call waited for the sender")
	}

	close(sender.release)
	if msg := sender.next(t); !strings.Contains(msg, "chat_id: U-stranger") {
		t.Errorf("message = %q", msg)
	}
}
