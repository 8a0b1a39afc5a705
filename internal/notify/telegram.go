package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/JFdC77/job-search-assistant/internal/domain"
)

// maxPerRun caps the messages sent for one search.
const maxPerRun = 10

type Telegram struct {
	api      *tgbotapi.BotAPI
	chatID   int64
	minScore int
}

func NewTelegram(token string, chatID int64, minScore int) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, minScore: minScore}, nil
}

// newTelegramWithEndpoint points the bot at a different API host.
func newTelegramWithEndpoint(token, endpoint string, chatID int64, minScore int) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, minScore: minScore}, nil
}

func (t *Telegram) Notify(ctx context.Context, listings []domain.ScoredListing) error {
	picked := Select(listings, t.minScore)
	if len(picked) > maxPerRun {
		slog.Info("telegram: capping notifications", "matches", len(picked), "sent", maxPerRun)
		picked = picked[:maxPerRun]
	}
	for _, l := range picked {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, FormatListing(l))
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.DisableWebPagePreview = true
		if _, err := t.api.Send(msg); err != nil {
			return fmt.Errorf("telegram send %q: %w", l.Title, err)
		}
	}
	return nil
}
