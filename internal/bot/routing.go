package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	// текстовые шаги админского мастера
	if b.handleAdminInput(ctx, msg) {
		return
	}
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	switch {
	case strings.HasPrefix(cb.Data, "menu:"):
		b.handleMenu(cb)
	case strings.HasPrefix(cb.Data, "date:"):
		b.handleDateChoice(cb)
	case strings.HasPrefix(cb.Data, "time:"):
		b.handleTimeChoice(cb)
	case strings.HasPrefix(cb.Data, "adm:"):
		b.handleAdminCallback(ctx, cb)
	default:
		b.answerCallback(cb, "", false)
		b.log.Debug("unknown callback", "data", cb.Data)
	}
}
