// Package notify delivers pickup notices to members. The channel is picked
// by configuration; the log channel is the default and is what development
// and test environments run with.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/commands"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewNotifier builds the notifier selected by cfg.Channel.
func NewNotifier(cfg config.NotifyConfig, logger *slog.Logger) (commands.Notifier, error) {
	switch cfg.Channel {
	case "telegram":
		return NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	case "log", "":
		return NewSlogNotifier(logger), nil
	default:
		return nil, errs.New("unknown notification channel: " + cfg.Channel)
	}
}

// SlogNotifier writes notices to the structured log.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) PickupReady(ctx context.Context, notice commands.PickupNotice) error {
	payload, err := json.Marshal(noticePayload(notice))
	if err != nil {
		return errs.Wrap(err, "failed to encode pickup notice")
	}
	n.logger.InfoContext(ctx, "pickup notice",
		"reservation_id", notice.ReservationID,
		"user_id", notice.UserID,
		"payload", string(payload),
	)
	return nil
}

// TelegramNotifier posts notices to a staff channel so the front desk can
// call or mail the member.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect telegram bot")
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) PickupReady(_ context.Context, notice commands.PickupNotice) error {
	text := fmt.Sprintf(
		"Pickup ready: %q is held for %s (%s) until %s.",
		notice.BookTitle, notice.Username, notice.Email,
		notice.ExpiryDate.Format("2006-01-02"),
	)
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return errs.Wrap(err, "failed to send telegram notice")
	}
	return nil
}

func noticePayload(notice commands.PickupNotice) map[string]any {
	return map[string]any{
		"reservation_id": notice.ReservationID,
		"user_id":        notice.UserID,
		"username":       notice.Username,
		"email":          notice.Email,
		"book_id":        notice.BookID,
		"book_title":     notice.BookTitle,
		"expiry_date":    notice.ExpiryDate.Format("2006-01-02"),
	}
}
