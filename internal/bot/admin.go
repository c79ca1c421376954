package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
	"github.com/ksenieor-creator/telegram-bot/internal/wizard"
)

func (b *Bot) isAdmin(userID int64) bool { return userID == b.adminChat }

// openAdminPanel открывает панель: либо список заказчиков, либо экран
// быстрой привязки, если админ пришёл по кнопке из уведомления.
func (b *Bot) openAdminPanel(chatID int64, editMsgID *int) {
	// Вход в панель всегда начинает мастер заново: незавершённый черновик
	// молча выбрасывается, оператор часто бросает ввод на середине.
	st, draft := wizard.Start()
	b.flow = wizard.Flow{State: st, Draft: draft}

	var text string
	var kb tgbotapi.InlineKeyboardMarkup
	if b.pendingLinkUID != "" {
		text = fmt.Sprintf("👥 Выберите заказчика для привязки пользователя %s:", b.pendingLinkUID)
		kb = adminQuickLinkKeyboard(b.ledger.List(), b.pendingLinkUID)
	} else {
		text = "👑 Админ-панель: выберите действие / заказчика:"
		kb = adminCustomersKeyboard(b.ledger.List())
	}

	if editMsgID != nil {
		b.edit(chatID, *editMsgID, text, kb)
	} else {
		b.replyKb(chatID, text, kb)
	}
}

// showActions экран действий над заказчиком.
func (b *Bot) showActions(chatID int64, editMsgID *int, cid string) {
	c, err := b.ledger.Get(cid)
	if err != nil {
		b.adminScreen(chatID, editMsgID, "❌ Заказчик не найден.", adminCancelKeyboard())
		return
	}
	st, draft := wizard.PickCustomer(b.flow.Draft, c.ID, c.Name)
	b.flow = wizard.Flow{State: st, Draft: draft}
	b.adminScreen(chatID, editMsgID,
		fmt.Sprintf("👥 Заказчик: %s\n\nВыберите действие:", c.Name),
		adminActionsKeyboard(c))
}

func (b *Bot) adminScreen(chatID int64, editMsgID *int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if editMsgID != nil {
		b.edit(chatID, *editMsgID, text, kb)
	} else {
		b.replyKb(chatID, text, kb)
	}
}

// notifyUserRegistered подтверждение привязки пользователю. Best-effort:
// пользователь мог не открыть диалог с ботом.
func (b *Bot) notifyUserRegistered(uid int64, customerName string) {
	b.deleteTracked(b.pending, uid, 0)
	m := tgbotapi.NewMessage(uid,
		fmt.Sprintf("✅ Вы успешно зарегистрированы как представитель заказчика: %s.", customerName))
	m.ReplyMarkup = mainMenuKeyboard()
	b.send(m)
}

// linkActor привязка с уведомлением пользователя. Возвращает текст результата.
func (b *Bot) linkActor(ctx context.Context, cid, uid string) (string, error) {
	c, err := b.ledger.Get(cid)
	if err != nil {
		return "", err
	}
	already, err := b.ledger.LinkActor(ctx, cid, uid)
	if err != nil {
		return "", err
	}
	if already {
		return fmt.Sprintf("ℹ Пользователь %s уже привязан к заказчику %s", uid, c.Name), nil
	}
	if id, perr := strconv.ParseInt(uid, 10, 64); perr == nil {
		b.notifyUserRegistered(id, c.Name)
	}
	return fmt.Sprintf("✅ Пользователь %s привязан к заказчику %s", uid, c.Name), nil
}

/*** CALLBACK-и АДМИНКИ ***/

// handleAdminCallback разбирает все кнопки adm:*.
func (b *Bot) handleAdminCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if !b.isAdmin(cb.From.ID) {
		b.answerCallback(cb, "Доступ запрещён", true)
		return
	}
	b.answerCallback(cb, "", false)

	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	parts := strings.Split(cb.Data, ":")
	action := parts[1]

	switch action {
	case "panel":
		b.pendingLinkUID = ""
		b.openAdminPanel(chatID, &mid)

	case "panellink":
		if len(parts) < 3 {
			return
		}
		b.pendingLinkUID = parts[2]
		b.openAdminPanel(chatID, &mid)

	case "quicklink":
		if len(parts) < 4 {
			return
		}
		cid, uid := parts[2], parts[3]
		text, err := b.linkActor(ctx, cid, uid)
		if err != nil {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
			return
		}
		b.pendingLinkUID = ""
		b.editTextAndClear(chatID, mid, text)

	case "cust":
		if len(parts) < 3 {
			return
		}
		b.showActions(chatID, &mid, parts[2])

	case "create":
		b.flow.State = wizard.StateCreateCustomer
		b.edit(chatID, mid, "👤 Создание нового заказчика:\n\nВведите название заказчика:",
			adminCancelKeyboard())

	case "find":
		b.flow.State = wizard.StateFindCustomer
		b.edit(chatID, mid, "🔍 Поиск заказчика по ID пользователя:\n\nВведите ID пользователя:",
			adminCancelKeyboard())

	case "cancel":
		b.flow.Reset()
		b.pendingLinkUID = ""
		b.editTextAndClear(chatID, mid, "❌ Действие отменено.")

	case "back":
		b.handleWizardBack(chatID, mid)

	case "act":
		if len(parts) < 4 {
			return
		}
		b.handleAdminAction(ctx, chatID, mid, parts[2], parts[3])

	case "vinfo", "uinfo":
		// информационная кнопка, реакции не требует

	case "vdel":
		if len(parts) < 4 {
			return
		}
		b.handleDeleteVisit(ctx, chatID, mid, parts[2], parts[3])

	case "vdelall":
		if len(parts) < 3 {
			return
		}
		cid := parts[2]
		n, err := b.ledger.ClearVisits(ctx, cid)
		if err != nil {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
			return
		}
		c, _ := b.ledger.Get(cid)
		b.edit(chatID, mid,
			fmt.Sprintf("✅ Все выезды удалены! Удалено записей: %d", n),
			adminActionsKeyboard(c))

	case "unlink":
		if len(parts) < 4 {
			return
		}
		cid, uid := parts[2], parts[3]
		err := b.ledger.UnlinkActor(ctx, cid, uid)
		c, gerr := b.ledger.Get(cid)
		if gerr != nil {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
			return
		}
		if err != nil {
			b.edit(chatID, mid,
				fmt.Sprintf("❌ Пользователь %s не привязан к заказчику", uid), adminUsersKeyboard(c))
			return
		}
		b.edit(chatID, mid,
			fmt.Sprintf("✅ Пользователь %s отвязан от заказчика %s", uid, c.Name), adminUsersKeyboard(c))

	case "link":
		if len(parts) < 3 {
			return
		}
		b.flow.Draft.CustomerID = parts[2]
		b.flow.State = wizard.StateLinkActor
		b.edit(chatID, mid, "🔗 Привязка пользователя к заказчику\n\nВведите ID пользователя:",
			adminCancelKeyboard())

	case "addsum":
		if len(parts) < 4 {
			return
		}
		cid := parts[2]
		amount, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return
		}
		total, err := b.ledger.AddProjectsSum(ctx, cid, amount)
		if err != nil {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
			return
		}
		b.edit(chatID, mid,
			fmt.Sprintf("✅ Добавлено %s к сумме проектов\nТекущая сумма: %s",
				fmtRub(amount), fmtRub(total)),
			adminProjectsKeyboard(cid))

	case "setsum":
		if len(parts) < 3 {
			return
		}
		b.flow.Draft.CustomerID = parts[2]
		b.flow.State = wizard.StateSetSum
		b.edit(chatID, mid, "💵 Установка точной суммы проектов\n\nВведите сумму:",
			adminCancelKeyboard())

	case "resetsum":
		if len(parts) < 3 {
			return
		}
		cid := parts[2]
		if err := b.ledger.ResetProjectsSum(ctx, cid); err != nil {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
			return
		}
		b.edit(chatID, mid, "✅ Сумма проектов обнулена", adminProjectsKeyboard(cid))

	case "date", "kind", "dur", "tariff", "confirm":
		if !b.wizardStepAllowed(action) {
			// кнопка с устаревшего экрана: возвращаем текущий шаг
			b.redrawWizard(chatID, mid)
			return
		}
		switch action {
		case "date":
			b.handleWizardDate(chatID, mid, parts[2:])
		case "kind":
			b.handleWizardKind(chatID, mid, parts[2:])
		case "dur":
			b.handleWizardDuration(chatID, mid, parts[2:])
		case "tariff":
			b.handleWizardTariff(chatID, mid, parts[2:])
		case "confirm":
			b.handleWizardConfirm(ctx, chatID, mid, parts[2:])
		}
	}
}

// handleAdminAction действия с экрана заказчика (adm:act:<action>:<cid>).
// Побочные действия выполняются сразу и перерисовывают тот же экран —
// в линейный конвейер мастера они не входят.
func (b *Bot) handleAdminAction(ctx context.Context, chatID int64, mid int, action, cid string) {
	c, err := b.ledger.Get(cid)
	if err != nil {
		b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
		return
	}

	switch action {
	case "back":
		b.showActions(chatID, &mid, cid)

	case "tariff":
		b.edit(chatID, mid, tariffStatusText(c, "📊 Тариф заказчика"), adminBackKeyboard(cid))

	case "visits":
		if len(c.Visits) == 0 {
			b.edit(chatID, mid,
				fmt.Sprintf("🚗 У заказчика %s пока нет записей о выездах.", c.Name),
				adminVisitsKeyboard(c))
			return
		}
		b.edit(chatID, mid, visitsText(c), adminVisitsKeyboard(c))

	case "users":
		b.edit(chatID, mid,
			fmt.Sprintf("👥 Управление пользователями для %s\nПривязано пользователей: %d",
				c.Name, len(c.ActorIDs)),
			adminUsersKeyboard(c))

	case "projects":
		b.edit(chatID, mid,
			fmt.Sprintf("💰 Управление суммой проектов для %s\nТекущая сумма: %s",
				c.Name, fmtRub(c.ProjectsSum)),
			adminProjectsKeyboard(cid))

	case "add_visit":
		st, draft := wizard.PickCustomer(b.flow.Draft, c.ID, c.Name)
		st, draft = wizard.BeginVisit(draft)
		b.flow = wizard.Flow{State: st, Draft: draft}
		b.edit(chatID, mid, "📅 Выберите дату выезда:", adminDatesKeyboard(b.now()))

	case "remove":
		deleted, err := b.ledger.DeleteCustomer(ctx, cid)
		if err != nil {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
			return
		}
		b.flow.Reset()
		b.editTextAndClear(chatID, mid, fmt.Sprintf("✅ Заказчик '%s' удален!", deleted.Name))

	case "clear_visits":
		n, err := b.ledger.ClearVisits(ctx, cid)
		if err != nil {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
			return
		}
		b.edit(chatID, mid,
			fmt.Sprintf("✅ Выезды очищены! Удалено: %d записей", n), adminBackKeyboard(cid))
	}
}

func (b *Bot) handleDeleteVisit(ctx context.Context, chatID int64, mid int, cid, idxStr string) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return
	}
	deleted, err := b.ledger.RemoveVisit(ctx, cid, idx)
	c, gerr := b.ledger.Get(cid)
	if gerr != nil {
		b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
		return
	}
	if err != nil {
		b.edit(chatID, mid, "❌ Ошибка: выезд не найден", adminVisitsKeyboard(c))
		return
	}
	b.edit(chatID, mid,
		fmt.Sprintf("✅ Выезд от %s удален!\nОсталось выездов: %d",
			fmtDate(deleted.Date), len(c.Visits)),
		adminVisitsKeyboard(c))
}

/*** ШАГИ МАСТЕРА ДОБАВЛЕНИЯ ВЫЕЗДА ***/

// wizardGate из какого состояния мастера допустим каждый callback-шаг.
// Кнопка с устаревшего экрана не должна перепрыгивать конвейер.
var wizardGate = map[string]wizard.State{
	"date":    wizard.StateSelectDate,
	"kind":    wizard.StateSelectKind,
	"dur":     wizard.StateSelectDuration,
	"tariff":  wizard.StateSelectTariff,
	"confirm": wizard.StateConfirm,
}

func (b *Bot) wizardStepAllowed(action string) bool {
	want, ok := wizardGate[action]
	return ok && b.flow.State == want
}

// handleWizardBack перерисовывает экран предыдущего шага конвейера.
func (b *Bot) handleWizardBack(chatID int64, mid int) {
	st, draft := wizard.Back(b.flow.State, b.flow.Draft)
	b.flow = wizard.Flow{State: st, Draft: draft}
	b.redrawWizard(chatID, mid)
}

func (b *Bot) redrawWizard(chatID int64, mid int) {
	switch b.flow.State {
	case wizard.StateSelectCustomer:
		b.openAdminPanel(chatID, &mid)
	case wizard.StateSelectAction:
		b.showActions(chatID, &mid, b.flow.Draft.CustomerID)
	case wizard.StateSelectDate:
		b.edit(chatID, mid, "📅 Выберите дату выезда:", adminDatesKeyboard(b.now()))
	case wizard.StateSelectKind:
		b.edit(chatID, mid, "📌 Выберите тип выезда:", adminKindKeyboard())
	case wizard.StateSelectDuration:
		b.edit(chatID, mid, "⏳ Выберите длительность:", adminDurationKeyboard())
	case wizard.StateSelectTariff:
		b.edit(chatID, mid, "💰 Выберите тип тарифа:", adminTariffKeyboard())
	case wizard.StateConfirm:
		b.showConfirmScreen(chatID, mid)
	default:
		b.openAdminPanel(chatID, &mid)
	}
}

func (b *Bot) handleWizardDate(chatID int64, mid int, args []string) {
	if len(args) < 1 {
		return
	}
	st, draft, err := wizard.PickDate(b.flow.Draft, args[0])
	if err != nil {
		b.edit(chatID, mid, "❌ Некорректная дата. Выберите из списка:", adminDatesKeyboard(b.now()))
		return
	}
	b.flow = wizard.Flow{State: st, Draft: draft}
	b.edit(chatID, mid, "📌 Выберите тип выезда:", adminKindKeyboard())
}

func (b *Bot) handleWizardKind(chatID int64, mid int, args []string) {
	if len(args) < 1 {
		return
	}
	st, draft, err := wizard.PickKind(b.flow.Draft, tariff.Kind(args[0]))
	if err != nil {
		b.edit(chatID, mid, "❌ Неизвестный тип выезда. Выберите из списка:", adminKindKeyboard())
		return
	}
	b.flow = wizard.Flow{State: st, Draft: draft}
	b.edit(chatID, mid,
		fmt.Sprintf("📅 Дата: %s\n📌 Тип: %s\n\n⏳ Выберите длительность:",
			fmtDate(draft.Date), kindLabel(draft.Kind)),
		adminDurationKeyboard())
}

func (b *Bot) handleWizardDuration(chatID int64, mid int, args []string) {
	if len(args) < 1 {
		return
	}
	st, draft, err := wizard.PickDuration(b.flow.Draft, tariff.Duration(args[0]))
	if err != nil {
		b.edit(chatID, mid, "❌ Неизвестная длительность. Выберите из списка:", adminDurationKeyboard())
		return
	}
	b.flow = wizard.Flow{State: st, Draft: draft}
	b.edit(chatID, mid, "💰 Выберите тип тарифа:", adminTariffKeyboard())
}

func (b *Bot) handleWizardTariff(chatID int64, mid int, args []string) {
	if len(args) < 1 {
		return
	}
	st, draft, err := wizard.PickTariffType(b.flow.Draft, tariff.TariffType(args[0]))
	if err != nil {
		b.edit(chatID, mid, "❌ Неизвестный тип тарифа. Выберите из списка:", adminTariffKeyboard())
		return
	}
	b.flow = wizard.Flow{State: st, Draft: draft}
	b.showConfirmScreen(chatID, mid)
}

func (b *Bot) showConfirmScreen(chatID int64, mid int) {
	draft := b.flow.Draft
	// Цена на экране подтверждения — предварительная: пересчитается
	// в момент подтверждения из финального черновика.
	preview, err := wizard.Confirm(draft)
	if err != nil {
		b.flow.Reset()
		b.editTextAndClear(chatID, mid, "❌ Черновик устарел. Начните добавление выезда заново.")
		return
	}
	b.edit(chatID, mid, fmt.Sprintf(
		"✅ Подтвердите добавление выезда:\n\n👥 Заказчик: %s\n📅 Дата: %s\n📌 Тип: %s\n"+
			"⏳ Длительность: %s\n💰 Тип тарифа: %s\n💵 Стоимость: %s",
		draft.CustomerName, fmtDate(draft.Date), kindLabel(draft.Kind),
		durationLabel(draft.Duration), tariffLabel(draft.TariffType), fmtRub(preview.Price)),
		adminConfirmKeyboard())
}

func (b *Bot) handleWizardConfirm(ctx context.Context, chatID int64, mid int, args []string) {
	if len(args) < 1 || args[0] != "yes" {
		return
	}
	visit, err := wizard.Confirm(b.flow.Draft)
	if err != nil {
		b.editTextAndClear(chatID, mid, "❌ Черновик устарел. Начните добавление выезда заново.")
		b.flow.Reset()
		return
	}
	if err := b.ledger.AppendVisit(ctx, b.flow.Draft.CustomerID, visit); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			b.editTextAndClear(chatID, mid, "❌ Заказчик не найден.")
		} else {
			b.editTextAndClear(chatID, mid, "❌ Не удалось сохранить выезд.")
		}
		b.flow.Reset()
		return
	}
	b.metrics.VisitsCommitted.Inc()
	b.flow.Reset()
	b.editTextAndClear(chatID, mid, "✅ Выезд успешно добавлен!")
}

/*** ТЕКСТОВЫЕ ВВОДЫ АДМИНКИ ***/

// handleAdminInput текстовые шаги мастера: название заказчика, ID
// пользователя, сумма проектов.
func (b *Bot) handleAdminInput(ctx context.Context, msg *tgbotapi.Message) bool {
	if !b.isAdmin(msg.From.ID) {
		return false
	}
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	switch b.flow.State {
	case wizard.StateCreateCustomer:
		cid, err := b.ledger.CreateCustomer(ctx, text)
		if err != nil {
			b.reply(chatID, "❌ Название заказчика не может быть пустым.")
			return true
		}
		b.flow.State = wizard.StateSelectCustomer
		if b.pendingLinkUID != "" {
			b.replyKb(chatID,
				fmt.Sprintf("✅ Создан заказчик: %s (ID: %s)\n\nТеперь выберите заказчика для привязки пользователя %s:",
					text, cid, b.pendingLinkUID),
				adminQuickLinkKeyboard(b.ledger.List(), b.pendingLinkUID))
			return true
		}
		b.replyKb(chatID,
			fmt.Sprintf("✅ Создан заказчик: %s (ID: %s)\n\nТеперь выберите заказчика:", text, cid),
			adminCustomersKeyboard(b.ledger.List()))
		return true

	case wizard.StateFindCustomer:
		c, ok := b.ledger.FindByActor(text)
		if !ok {
			b.flow.State = wizard.StateSelectCustomer
			b.replyKb(chatID,
				fmt.Sprintf("❌ Пользователь %s не привязан ни к одному заказчику.\n\n"+
					"Попробуйте другой ID или выберите заказчика вручную:", text),
				adminCustomersKeyboard(b.ledger.List()))
			return true
		}
		st, draft := wizard.PickCustomer(b.flow.Draft, c.ID, c.Name)
		b.flow = wizard.Flow{State: st, Draft: draft}
		b.replyKb(chatID,
			fmt.Sprintf("✅ Найден заказчик: %s (ID: %s)\n\nВыберите действие:", c.Name, c.ID),
			adminActionsKeyboard(c))
		return true

	case wizard.StateLinkActor:
		cid := b.flow.Draft.CustomerID
		result, err := b.linkActor(ctx, cid, text)
		if err != nil {
			b.reply(chatID, "❌ Ошибка: заказчик не найден")
			return true
		}
		c, _ := b.ledger.Get(cid)
		b.flow.State = wizard.StateSelectAction
		b.replyKb(chatID, result, adminUsersKeyboard(c))
		return true

	case wizard.StateSetSum:
		amount, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			b.reply(chatID, "❌ Ошибка: введите число")
			return true
		}
		cid := b.flow.Draft.CustomerID
		if err := b.ledger.SetProjectsSum(ctx, cid, amount); err != nil {
			if errors.Is(err, ledger.ErrNegativeSum) {
				b.reply(chatID, "❌ Сумма не может быть отрицательной")
			} else {
				b.reply(chatID, "❌ Ошибка: заказчик не найден")
			}
			return true
		}
		b.flow.State = wizard.StateSelectAction
		b.replyKb(chatID,
			fmt.Sprintf("✅ Сумма проектов установлена: %s", fmtRub(amount)),
			adminProjectsKeyboard(cid))
		return true
	}
	return false
}
