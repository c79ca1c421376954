package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

const staleQuoteText = "♻️ Этот расчёт уже неактуален.\n\nНажмите «🧮 Новый расчёт»."

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	userID := msg.From.ID
	b.deleteTracked(b.track, msg.Chat.ID, 0)

	cust, ok := b.ledger.FindByActor(strconv.FormatInt(userID, 10))
	if !ok {
		// Непривязанный пользователь: сообщаем админу, даём кнопку быстрой привязки.
		adminText := fmt.Sprintf(
			"🔔 Новый пользователь!\nID: %d\nИмя: %s\nUsername: @%s\nВремя: %s",
			userID,
			nonEmpty(msg.From.FirstName, "Не указано"),
			nonEmpty(msg.From.UserName, "Не указан"),
			b.now().Format("02.01.2006 15:04"),
		)
		m := tgbotapi.NewMessage(b.adminChat, adminText)
		m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👨‍💼 Панель администратора",
					fmt.Sprintf("adm:panellink:%d", userID))),
		)
		b.send(m)

		sent := b.send(tgbotapi.NewMessage(msg.Chat.ID,
			"👋 Вас приветствует бот «Выезды ИП Смирнов».\n"+
				"Скоро вам будет предоставлен доступ к функциям бота."))
		if sent != nil {
			// запомним, чтобы удалить после привязки
			b.pending.Add(userID, sent.MessageID)
		}
		return
	}

	b.deleteTracked(b.pending, userID, 0)
	b.sessions.Reset(userID)
	b.replyKb(msg.Chat.ID,
		fmt.Sprintf("Добро пожаловать! Вы работаете с заказчиком: %s", cust.Name),
		mainMenuKeyboard())
}

// handleMenu универсальный обработчик кнопок menu:*
func (b *Bot) handleMenu(cb *tgbotapi.CallbackQuery) {
	b.answerCallback(cb, "", false)
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	cust, ok := b.ledger.FindByActor(strconv.FormatInt(userID, 10))
	if !ok {
		b.editTextAndClear(chatID, cb.Message.MessageID,
			"❌ Вы не привязаны к заказчику. Обратитесь к администратору.")
		return
	}

	switch cb.Data {
	case "menu:start":
		b.sessions.Reset(userID)
		b.deleteTracked(b.track, chatID, cb.Message.MessageID)
		b.edit(chatID, cb.Message.MessageID,
			fmt.Sprintf("Вы работаете с заказчиком: %s", cust.Name), mainMenuKeyboard())

	case "menu:calc":
		// всегда новый расчёт: старая сессия и её сообщения вытесняются
		b.deleteTracked(b.track, chatID, cb.Message.MessageID)
		token := b.sessions.Start(userID)
		b.metrics.QuotesStarted.Inc()
		b.edit(chatID, cb.Message.MessageID, "Выберите дату:", datesKeyboard(token, b.now()))
		b.track.Add(chatID, cb.Message.MessageID)

	case "menu:status":
		b.sessions.Reset(userID)
		b.edit(chatID, cb.Message.MessageID,
			tariffStatusText(cust, "📊 Ваш тариф"), mainMenuKeyboard())

	case "menu:visits":
		b.sessions.Reset(userID)
		if len(cust.Visits) == 0 {
			b.edit(chatID, cb.Message.MessageID,
				"🚗 У вас пока нет записей о выездах.", mainMenuKeyboard())
			return
		}
		b.edit(chatID, cb.Message.MessageID, visitsText(cust), afterCalcKeyboard())
	}
}

// rejectStale общий ответ на кнопку из устаревшего или чужого расчёта.
func (b *Bot) rejectStale(cb *tgbotapi.CallbackQuery) {
	b.metrics.StaleCallbacks.Inc()
	b.answerCallback(cb, "Этот расчёт устарел. Нажмите «🧮 Новый расчёт».", true)
	b.edit(cb.Message.Chat.ID, cb.Message.MessageID, staleQuoteText, mainMenuKeyboard())
}

// handleDateChoice шаг расчёта: выбрана дата. Ожидаем date:<token>:<iso|free>.
func (b *Bot) handleDateChoice(cb *tgbotapi.CallbackQuery) {
	b.answerCallback(cb, "", false)
	chatID := cb.Message.Chat.ID

	parts := strings.Split(cb.Data, ":")
	if len(parts) < 3 {
		b.rejectStale(cb)
		return
	}
	token, dateStr := parts[1], parts[2]

	if !b.sessions.Validate(cb.From.ID, token) {
		b.rejectStale(cb)
		return
	}
	b.sessions.Touch(cb.From.ID)

	if dateStr == ledger.FreeDate {
		text := "🆓 Свободный график\n\n🌙 Ночной тариф действует с 21:00 до 09:00\n\nВыберите длительность:"
		b.edit(chatID, cb.Message.MessageID, text,
			durationKeyboard(token, ledger.FreeDate, tariff.KindFree))
		b.track.Add(chatID, cb.Message.MessageID)
		return
	}

	d, err := time.ParseInLocation("2006-01-02", dateStr, b.loc)
	if err != nil {
		b.rejectStale(cb)
		return
	}
	kind := tariff.Classify(d, b.now(), b.cal)

	text := fmt.Sprintf("📅 Дата: %s\n📌 Тип выезда: %s\n\n"+
		"🌙 Ночной тариф действует с 21:00 до 09:00\n\nВыберите длительность:",
		d.Format("02.01.2006"), kindLabel(kind))
	b.edit(chatID, cb.Message.MessageID, text, durationKeyboard(token, dateStr, kind))
	b.track.Add(chatID, cb.Message.MessageID)
}

// handleTimeChoice финальный шаг расчёта: выбрана длительность.
// Ожидаем time:<token>:<date>:<kind>:<duration>.
func (b *Bot) handleTimeChoice(cb *tgbotapi.CallbackQuery) {
	b.answerCallback(cb, "", false)
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	parts := strings.Split(cb.Data, ":")
	if len(parts) < 5 {
		b.rejectStale(cb)
		return
	}
	token, dateStr := parts[1], parts[2]
	kind, duration := tariff.Kind(parts[3]), tariff.Duration(parts[4])

	if !b.sessions.Validate(userID, token) {
		b.rejectStale(cb)
		return
	}
	if !tariff.ValidKind(kind) || !tariff.ValidDuration(duration) {
		b.rejectStale(cb)
		return
	}
	b.sessions.Touch(userID)

	cust, ok := b.ledger.FindByActor(strconv.FormatInt(userID, 10))
	if !ok {
		b.sessions.Reset(userID)
		b.editTextAndClear(chatID, cb.Message.MessageID,
			"❌ Вы не привязаны к заказчику. Обратитесь к администратору.")
		return
	}

	price := tariff.Price(kind, duration, cust.Discount)

	dateDisplay := quoteDateDisplay(dateStr, b.now())

	text := fmt.Sprintf("📌 Заказчик: %s\n📅 Дата: %s\n📌 Тип выезда: %s\n⏳ Длительность: %s\n💰 Стоимость: %s",
		cust.Name, dateDisplay, kindLabel(kind), durationLabel(duration), fmtRub(price))
	b.edit(chatID, cb.Message.MessageID, text, afterCalcKeyboard())
	b.track.Add(chatID, cb.Message.MessageID)

	// расчёт доведён до цены — сессия завершена
	b.sessions.Reset(userID)
	b.metrics.QuotesCompleted.Inc()
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
