package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
)

// handleCommand текстовые команды. Всё, кроме /start и /help, доступно
// только админу.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.handleStart(msg)
		return
	case "help":
		b.reply(chatID, "Команды:\n/start — начать работу\n/help — помощь")
		return
	}

	if !b.isAdmin(msg.From.ID) {
		b.reply(chatID, "Не знаю такую команду. Наберите /help")
		return
	}
	b.deleteTracked(b.track, chatID, 0)
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "admin", "addvisit":
		b.pendingLinkUID = ""
		if len(b.ledger.List()) == 0 && msg.Command() == "addvisit" {
			b.reply(chatID, "❌ Нет заказчиков. Сначала создайте заказчика.")
			return
		}
		b.openAdminPanel(chatID, nil)

	case "create":
		// имя может состоять из нескольких слов
		name := strings.TrimSpace(msg.CommandArguments())
		if name == "" {
			b.reply(chatID, "Использование: /create <имя>")
			return
		}
		cid, err := b.ledger.CreateCustomer(ctx, name)
		if err != nil {
			b.reply(chatID, "❌ Название заказчика не может быть пустым.")
			return
		}
		b.reply(chatID, fmt.Sprintf("✅ Создан заказчик: %s (ID: %s)", name, cid))

	case "register":
		if len(args) != 2 {
			b.reply(chatID, "Использование: /register <id_пользователя> <id_заказчика>\n\nПример: /register 123456789 1")
			return
		}
		b.cmdLink(ctx, chatID, args[1], args[0])

	case "link":
		if len(args) != 2 {
			b.reply(chatID, "Использование: /link <id_заказчика> <id_пользователя>")
			return
		}
		b.cmdLink(ctx, chatID, args[0], args[1])

	case "unlink":
		if len(args) != 2 {
			b.reply(chatID, "Использование: /unlink <id_заказчика> <id_пользователя>")
			return
		}
		cid, uid := args[0], args[1]
		err := b.ledger.UnlinkActor(ctx, cid, uid)
		switch {
		case err == nil:
			b.reply(chatID, fmt.Sprintf("✅ Пользователь %s отвязан от заказчика %s", uid, cid))
		case errors.Is(err, ledger.ErrNotFound):
			b.reply(chatID, fmt.Sprintf("ℹ Пользователь %s не привязан к заказчику %s", uid, cid))
		default:
			b.reply(chatID, fmt.Sprintf("Ошибка: %v", err))
		}

	case "addsum":
		if len(args) != 2 {
			b.reply(chatID, "Использование: /addsum <id_заказчика> <сумма>")
			return
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			b.reply(chatID, "❌ Ошибка: введите число")
			return
		}
		total, err := b.ledger.AddProjectsSum(ctx, args[0], amount)
		if err != nil {
			b.replyLedgerErr(chatID, args[0], err)
			return
		}
		b.reply(chatID, fmt.Sprintf("✅ %s добавлено заказчику %s. Всего: %s",
			fmtRub(amount), args[0], fmtRub(total)))

	case "setsum":
		if len(args) != 2 {
			b.reply(chatID, "Использование: /setsum <id_заказчика> <сумма>")
			return
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			b.reply(chatID, "❌ Ошибка: введите число")
			return
		}
		if err := b.ledger.SetProjectsSum(ctx, args[0], amount); err != nil {
			b.replyLedgerErr(chatID, args[0], err)
			return
		}
		b.reply(chatID, fmt.Sprintf("✅ Сумма заказчика %s установлена: %s", args[0], fmtRub(amount)))

	case "remove":
		if len(args) != 1 {
			b.reply(chatID, "Использование: /remove <id_заказчика>")
			return
		}
		deleted, err := b.ledger.DeleteCustomer(ctx, args[0])
		if err != nil {
			b.replyLedgerErr(chatID, args[0], err)
			return
		}
		b.reply(chatID, fmt.Sprintf("✅ Заказчик %s (ID: %s) удален.", deleted.Name, args[0]))

	case "finduser":
		if len(args) != 1 {
			b.reply(chatID, "Использование: /finduser <id_пользователя>")
			return
		}
		c, ok := b.ledger.FindByActor(args[0])
		if !ok {
			b.reply(chatID, fmt.Sprintf("❌ Пользователь %s не привязан ни к одному заказчику.", args[0]))
			return
		}
		status := "Нет ❌"
		if c.Discount {
			status = "Да ✅"
		}
		b.reply(chatID, fmt.Sprintf(
			"👤 Пользователь %s привязан к:\nЗаказчик: %s (ID: %s)\nВыездов: %d | Льгота: %s | Проекты: %s",
			args[0], c.Name, c.ID, len(c.Visits), status, fmtRub(c.ProjectsSum)))

	case "clearvisits":
		if len(args) != 1 {
			b.reply(chatID, "Использование: /clearvisits <id_заказчика>")
			return
		}
		n, err := b.ledger.ClearVisits(ctx, args[0])
		if err != nil {
			b.replyLedgerErr(chatID, args[0], err)
			return
		}
		b.reply(chatID, fmt.Sprintf("✅ История выездов заказчика %s очищена. Удалено записей: %d", args[0], n))

	case "customers":
		b.cmdCustomers(chatID)

	case "export":
		b.cmdExport(chatID)

	default:
		b.reply(chatID, "Не знаю такую команду. Наберите /help")
	}
}

func (b *Bot) cmdLink(ctx context.Context, chatID int64, cid, uid string) {
	text, err := b.linkActor(ctx, cid, uid)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ Заказчик с ID %s не найден.", cid))
		return
	}
	b.reply(chatID, text)
}

func (b *Bot) replyLedgerErr(chatID int64, cid string, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("❌ Заказчик с ID %s не найден.", cid))
	case errors.Is(err, ledger.ErrNegativeSum):
		b.reply(chatID, "❌ Сумма не может быть отрицательной")
	default:
		b.reply(chatID, fmt.Sprintf("Ошибка: %v", err))
	}
}

// cmdCustomers текстовый список всех заказчиков.
func (b *Bot) cmdCustomers(chatID int64) {
	customers := b.ledger.List()
	if len(customers) == 0 {
		b.reply(chatID, "Список заказчиков пуст.")
		return
	}

	lines := []string{"📋 Заказчики:"}
	for _, c := range customers {
		status := "Нет ❌"
		if c.Discount {
			status = "Да ✅"
		}
		ids := strings.Join(c.ActorIDs, ", ")
		if ids == "" {
			ids = "нет"
		}
		lines = append(lines,
			fmt.Sprintf("├─ %s: %s", c.ID, c.Name),
			fmt.Sprintf("│  ID пользователей: %s", ids),
			fmt.Sprintf("│  Выездов: %d | Льгота: %s | Проекты: %s",
				len(c.Visits), status, fmtRub(c.ProjectsSum)),
			"╰──────────────────",
		)
	}

	// лимит Telegram — шлём частями
	message := []rune(strings.Join(lines, "\n"))
	for len(message) > 4000 {
		b.reply(chatID, string(message[:4000]))
		message = message[4000:]
	}
	b.reply(chatID, string(message))
}
