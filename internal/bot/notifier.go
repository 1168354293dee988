// Package bot delivers daily reports to a Telegram chat.
package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskflow/internal/report"
	"taskflow/internal/store"
)

// Notifier pushes the rendered daily report to one chat.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	store  *store.Store
}

func New(token string, chatID int64, st *store.Store) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Notifier{api: api, chatID: chatID, store: st}, nil
}

// SendDailyReport renders the current snapshot into the daily report and
// sends it.
func (n *Notifier) SendDailyReport(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := report.Daily(n.store.All(), time.Now())
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}
