// Package notifier pushes dose-suggestion summaries to users who linked
// a Telegram chat. It is an optional outbound channel: the HTTP response
// already carries the suggestion, so notification failures are logged
// and swallowed.
package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/glucolog/glucolog/internal/domain"
	"github.com/glucolog/glucolog/internal/logger"
)

// Notifier is the outbound notification contract.
type Notifier interface {
	SuggestionLogged(ctx context.Context, user *domain.User, entry *domain.GlucoseEntry, rec domain.Recommendation)
}

// Noop is used when no Telegram token is configured.
type Noop struct{}

func (Noop) SuggestionLogged(context.Context, *domain.User, *domain.GlucoseEntry, domain.Recommendation) {
}

// Telegram sends suggestion summaries through a bot account.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.Info("Telegram notifier ready", "bot", api.Self.UserName)
	return &Telegram{api: api}, nil
}

func (t *Telegram) SuggestionLogged(ctx context.Context, user *domain.User, entry *domain.GlucoseEntry, rec domain.Recommendation) {
	if user.TelegramChatID == 0 {
		return
	}
	text := fmt.Sprintf(
		"Glucose %d mg/dL logged for %s (%s).\nSuggested %s dose: %.1f units (base %.1f",
		entry.GlucoseLevel, entry.Date, entry.Slot,
		rec.TargetSlot, rec.FinalDose, rec.BaseDose,
	)
	if len(rec.FiredRules) > 0 {
		text += fmt.Sprintf(", %+.0f from %d rule(s)", rec.Delta, len(rec.FiredRules))
	}
	text += ")."

	msg := tgbotapi.NewMessage(user.TelegramChatID, text)
	if _, err := t.api.Send(msg); err != nil {
		logger.Error("failed to send suggestion notification",
			"user_id", user.ID, "error", err)
	}
}
