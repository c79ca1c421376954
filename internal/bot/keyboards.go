package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

/*** КЛИЕНТСКИЕ КЛАВИАТУРЫ ***/

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧮 Новый расчёт", "menu:calc"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Ваш тариф", "menu:status"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚗 Выезды", "menu:visits"),
		),
	)
}

func afterCalcKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧮 Новый расчёт", "menu:calc"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅ Главное меню", "menu:start"),
		),
	)
}

// datesKeyboard выбор даты выезда клиентом: сегодня, завтра и ещё десять
// дней вперёд. Токен сессии зашит в каждую кнопку.
func datesKeyboard(token string, now time.Time) tgbotapi.InlineKeyboardMarkup {
	today := now
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Сегодня",
				fmt.Sprintf("date:%s:%s", token, today.Format("2006-01-02"))),
			tgbotapi.NewInlineKeyboardButtonData("📅 Завтра",
				fmt.Sprintf("date:%s:%s", token, today.AddDate(0, 0, 1).Format("2006-01-02"))),
		),
	}
	row := []tgbotapi.InlineKeyboardButton{}
	for i := 2; i < 12; i++ {
		d := today.AddDate(0, 0, i)
		label := fmt.Sprintf("%02d (%s)", d.Day(), weekdaysRu[d.Weekday()])
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label,
			fmt.Sprintf("date:%s:%s", token, d.Format("2006-01-02"))))
		if len(row) == 5 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🆓 Свободный график",
			fmt.Sprintf("date:%s:%s", token, ledger.FreeDate)),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅ Главное меню", "menu:start"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func durationKeyboard(token, date string, kind tariff.Kind) tgbotapi.InlineKeyboardMarkup {
	cb := func(d tariff.Duration) string {
		return fmt.Sprintf("time:%s:%s:%s:%s", token, date, kind, d)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("☀ 4 часа", cb(tariff.Day4)),
			tgbotapi.NewInlineKeyboardButtonData("☀ 8 часов", cb(tariff.Day8)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌙 4 часа", cb(tariff.Night4)),
			tgbotapi.NewInlineKeyboardButtonData("🌙 8 часов", cb(tariff.Night8)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅ Главное меню", "menu:start"),
		),
	)
}

/*** АДМИНСКИЕ КЛАВИАТУРЫ ***/

func adminCancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "adm:cancel"),
		),
	)
}

func adminNavRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅ Назад", "adm:back"),
		tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "adm:cancel"),
	)
}

func customerButton(c ledger.Customer, data string) []tgbotapi.InlineKeyboardButton {
	label := fmt.Sprintf("%s (🚗%d 👥%d)", c.Name, len(c.Visits), len(c.ActorIDs))
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data))
}

func adminCustomersKeyboard(customers []ledger.Customer) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, c := range customers {
		rows = append(rows, customerButton(c, "adm:cust:"+c.ID))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Создать нового заказчика", "adm:create")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Найти заказчика по пользователю", "adm:find")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "adm:cancel")),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// adminQuickLinkKeyboard кнопки заказчиков сразу привязывают пользователя.
func adminQuickLinkKeyboard(customers []ledger.Customer, uid string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, c := range customers {
		rows = append(rows, customerButton(c, fmt.Sprintf("adm:quicklink:%s:%s", c.ID, uid)))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Создать нового заказчика", "adm:create")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "adm:cancel")),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// adminActionsKeyboard экран действий над выбранным заказчиком.
func adminActionsKeyboard(c ledger.Customer) tgbotapi.InlineKeyboardMarkup {
	status := "❌"
	if c.Discount {
		status = "✅"
	}
	row := func(text, action string) []tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, fmt.Sprintf("adm:act:%s:%s", action, c.ID)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row(fmt.Sprintf("📊 Тариф: %s Льгота", status), "tariff"),
		row(fmt.Sprintf("🚗 Выезды: %d", len(c.Visits)), "visits"),
		row(fmt.Sprintf("👥 Пользователи: %d", len(c.ActorIDs)), "users"),
		row(fmt.Sprintf("💰 Проекты: %s", fmtRub(c.ProjectsSum)), "projects"),
		row("📅 Добавить выезд", "add_visit"),
		row("🗑 Удалить заказчика", "remove"),
		row("🧹 Очистить выезды", "clear_visits"),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "adm:cancel")),
	)
}

// adminVisitsKeyboard список выездов с кнопкой удаления у каждого.
func adminVisitsKeyboard(c ledger.Customer) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, v := range c.Visits {
		info := visitShort(v, i+1)
		if len([]rune(info)) > 30 {
			info = string([]rune(info)[:27]) + "..."
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(info, fmt.Sprintf("adm:vinfo:%s:%d", c.ID, i)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("adm:vdel:%s:%d", c.ID, i)),
		))
	}
	if len(c.Visits) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔥 Удалить все выезды", "adm:vdelall:"+c.ID)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅ Назад", "adm:act:back:"+c.ID)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminBackKeyboard(cid string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅ Назад", "adm:act:back:"+cid)),
	)
}

func adminUsersKeyboard(c ledger.Customer) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, uid := range c.ActorIDs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 "+uid, fmt.Sprintf("adm:uinfo:%s:%s", c.ID, uid)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отвязать", fmt.Sprintf("adm:unlink:%s:%s", c.ID, uid)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Привязать пользователя", "adm:link:"+c.ID)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅ Назад", "adm:act:back:"+c.ID)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminProjectsKeyboard(cid string) tgbotapi.InlineKeyboardMarkup {
	add := func(amount int64) []tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("➕ Добавить %s", fmtRub(amount)),
				fmt.Sprintf("adm:addsum:%s:%d", cid, amount)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		add(10000),
		add(25000),
		add(50000),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💵 Установить точную сумму", "adm:setsum:"+cid)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обнулить сумму", "adm:resetsum:"+cid)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅ Назад", "adm:act:back:"+cid)),
	)
}

// adminDatesKeyboard выбор даты выезда админом: сегодня и десять дней назад
// (админ заносит уже состоявшиеся выезды), плюс свободная дата.
func adminDatesKeyboard(now time.Time) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Сегодня", "adm:date:"+now.Format("2006-01-02"))),
	}
	row := []tgbotapi.InlineKeyboardButton{}
	for i := 1; i <= 10; i++ {
		d := now.AddDate(0, 0, -i)
		label := fmt.Sprintf("%02d.%02d (%s)", d.Day(), int(d.Month()), weekdaysRu[d.Weekday()])
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "adm:date:"+d.Format("2006-01-02")))
		if len(row) == 3 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆓 Свободная дата", "adm:date:"+ledger.FreeDate)),
		adminNavRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminKindKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, k := range tariff.Kinds() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(kindLabel(k), "adm:kind:"+string(k))))
	}
	rows = append(rows, adminNavRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminDurationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("☀ 4 часа", "adm:dur:"+string(tariff.Day4)),
			tgbotapi.NewInlineKeyboardButtonData("☀ 8 часов", "adm:dur:"+string(tariff.Day8)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌙 4 часа", "adm:dur:"+string(tariff.Night4)),
			tgbotapi.NewInlineKeyboardButtonData("🌙 8 часов", "adm:dur:"+string(tariff.Night8)),
		),
		adminNavRow(),
	)
}

func adminTariffKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Льготный", "adm:tariff:"+string(tariff.TypeDiscount))),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Стандартный", "adm:tariff:"+string(tariff.TypeStandard))),
		adminNavRow(),
	)
}

func adminConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", "adm:confirm:yes")),
		adminNavRow(),
	)
}
