// Package telegram posts staff-facing event logs to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const maxMessageLen = 4096

// Sender is the part of *bot.Bot the logger needs.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type Logger struct {
	sender Sender
	chatID int64
	logger *zap.Logger
}

// NewBot builds a bot client that only sends messages; it never polls for updates.
func NewBot(token string, opts ...bot.Option) (*bot.Bot, error) {
	return bot.New(token, append([]bot.Option{bot.WithSkipGetMe()}, opts...)...)
}

func NewLogger(sender Sender, chatID int64, logger *zap.Logger) *Logger {
	return &Logger{sender: sender, chatID: chatID, logger: logger}
}

// Log sends message to the staff chat. A logger without a chat does nothing.
func (l *Logger) Log(ctx context.Context, message string) {
	if l == nil || l.sender == nil || l.chatID == 0 {
		return
	}

	if r := []rune(message); len(r) > maxMessageLen {
		message = string(r[:maxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := l.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    l.chatID,
		Text:      message,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		l.logger.Error("failed to send telegram log", zap.Error(err))
	}
}

// LogPayment reports a transaction that has just been paid.
func (l *Logger) LogPayment(ctx context.Context, code, memberName, packageName, total string) {
	l.Log(ctx, fmt.Sprintf("💰 *Payment received*\n\n*Transaksi:* `%s`\n*Member:* %s\n*Paket:* %s\n*Total:* Rp %s",
		code, memberName, packageName, total))
}

// LogRegistration reports a new account.
func (l *Logger) LogRegistration(ctx context.Context, username, memberCode string) {
	msg := fmt.Sprintf("👤 *New registration*\n\n*Username:* %s", username)
	if memberCode != "" {
		msg += fmt.Sprintf("\n*Member:* `%s`", memberCode)
	}
	l.Log(ctx, msg)
}

// LogError reports a failure staff should look at.
func (l *Logger) LogError(ctx context.Context, err error, where string) {
	l.Log(ctx, fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`", where, err.Error()))
}
