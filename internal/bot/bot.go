package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ksenieor-creator/telegram-bot/internal/holidays"
	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/metrics"
	"github.com/ksenieor-creator/telegram-bot/internal/session"
	"github.com/ksenieor-creator/telegram-bot/internal/wizard"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	ledger    *ledger.Ledger
	sessions  *session.Manager
	cal       holidays.Calendar
	metrics   *metrics.Metrics
	adminChat int64
	loc       *time.Location

	// Состояние мастера единственного оператора. Кросс-пользовательской
	// синхронизации не нужно: админ один, все апдейты идут одним циклом.
	flow wizard.Flow
	// пользователь, которого админ собирается привязать (из adm:panellink)
	pendingLinkUID string

	track   *msgTracker
	pending *msgTracker
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	led *ledger.Ledger, sessions *session.Manager,
	cal holidays.Calendar, m *metrics.Metrics,
	adminChatID int64, loc *time.Location) *Bot {

	b := &Bot{
		api: api, log: log, ledger: led, sessions: sessions,
		cal: cal, metrics: m, adminChat: adminChatID, loc: loc,
		track:   newMsgTracker(),
		pending: newMsgTracker(),
	}
	sessions.SetExpiryNotifier(b.notifyQuoteExpired)
	return b
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}

/*** HELPERS ***/

func (b *Bot) send(msg tgbotapi.Chattable) *tgbotapi.Message {
	m, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return nil
	}
	return &m
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyKb(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) *tgbotapi.Message {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	return b.send(m)
}

func (b *Bot) edit(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb))
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

// deleteMessage удаляет сообщение. Сообщение могло быть уже удалено или
// недоступно — такие ошибки молча пропускаем.
func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Debug("delete message failed", "chat", chatID, "mid", messageID, "err", err)
	}
}

// deleteTracked удаляет накопленные сообщения процесса расчёта,
// кроме keepMID (его мы обычно перезаписываем меню).
func (b *Bot) deleteTracked(t *msgTracker, chatID int64, keepMID int) {
	for _, mid := range t.Drain(chatID) {
		if mid == keepMID {
			continue
		}
		b.deleteMessage(chatID, mid)
	}
}

// notifyQuoteExpired — уведомление об автосбросе расчёта. Пользователь мог
// заблокировать бота: доставка best-effort, ошибка не поднимается в таймер.
func (b *Bot) notifyQuoteExpired(actorID int64) {
	b.metrics.QuotesExpired.Inc()
	b.deleteTracked(b.pending, actorID, 0)
	m := tgbotapi.NewMessage(actorID,
		"⏳ Расчёт сброшен из-за неактивности. Нажмите «🧮 Новый расчёт», чтобы начать заново.")
	m.ReplyMarkup = mainMenuKeyboard()
	b.send(m)
}
