package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type recorder struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	err  error
}

func (r *recorder) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, p)
	return &models.Message{}, r.err
}

func TestLogPayment(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	l := NewLogger(rec, -100123, zap.NewNop())
	l.LogPayment(context.Background(), "TRXA1B2C3D4", "Budi", "Gold", "150000")

	if len(rec.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(rec.sent))
	}
	p := rec.sent[0]
	if p.ChatID != int64(-100123) {
		t.Errorf("chat id = %v", p.ChatID)
	}
	text := p.Text
	for _, want := range []string{"TRXA1B2C3D4", "Budi", "Gold", "150000"} {
		if !strings.Contains(text, want) {
			t.Errorf("message %q missing %q", text, want)
		}
	}
}

func TestLogWithoutChatIsNoop(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	NewLogger(rec, 0, zap.NewNop()).LogRegistration(context.Background(), "budi", "")
	var nilLogger *Logger
	nilLogger.LogError(context.Background(), errors.New("x"), "y")

	if len(rec.sent) != 0 {
		t.Fatalf("sent %d messages, want 0", len(rec.sent))
	}
}

func TestLogTruncatesLongMessages(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	NewLogger(rec, 1, zap.NewNop()).Log(context.Background(), strings.Repeat("a", maxMessageLen+100))

	if n := len([]rune(rec.sent[0].Text)); n > maxMessageLen {
		t.Fatalf("message length %d exceeds %d", n, maxMessageLen)
	}
}

func TestLogSendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	rec := &recorder{err: errors.New("telegram down")}
	NewLogger(rec, 1, zap.NewNop()).Log(context.Background(), "hello")
	if len(rec.sent) != 1 {
		t.Fatal("expected one attempt")
	}
}
