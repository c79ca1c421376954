package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

var kindLabels = map[tariff.Kind]string{
	tariff.KindExact:          "📅 К точному времени",
	tariff.KindUrgentTomorrow: "⏰ Срочный (на завтра)",
	tariff.KindUrgentToday:    "⏰ Срочный (сегодня)",
	tariff.KindHoliday:        "🎉 Праздничный",
	tariff.KindFree:           "🆓 Свободный график",
}

var durationLabels = map[tariff.Duration]string{
	tariff.Day4:   "4 часа ☀",
	tariff.Day8:   "8 часов ☀",
	tariff.Night4: "4 часа 🌙 (ночной тариф)",
	tariff.Night8: "8 часов 🌙 (ночной тариф)",
}

var tariffLabels = map[tariff.TariffType]string{
	tariff.TypeDiscount: "Льготный",
	tariff.TypeStandard: "Стандартный",
}

var weekdaysRu = map[time.Weekday]string{
	time.Monday: "пн", time.Tuesday: "вт", time.Wednesday: "ср",
	time.Thursday: "чт", time.Friday: "пт", time.Saturday: "сб", time.Sunday: "вс",
}

// fmtRub форматирует сумму: 25 000 ₽
func fmtRub(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 && r != '-' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String() + " ₽"
}

// fmtDate переводит ISO-дату в дд.мм.гггг; свободная дата — словами.
func fmtDate(date string) string {
	if date == ledger.FreeDate {
		return "Свободная дата"
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("02.01.2006")
}

// quoteDateDisplay дата в карточке результата расчёта: свободный график
// показываем сегодняшним днём.
func quoteDateDisplay(date string, now time.Time) string {
	if date == ledger.FreeDate {
		return now.Format("02.01.2006")
	}
	return fmtDate(date)
}

func kindLabel(k tariff.Kind) string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return string(k)
}

func durationLabel(d tariff.Duration) string {
	if s, ok := durationLabels[d]; ok {
		return s
	}
	return string(d)
}

func tariffLabel(t tariff.TariffType) string {
	if s, ok := tariffLabels[t]; ok {
		return s
	}
	return string(t)
}

// visitShort краткое описание выезда для кнопки в списке.
func visitShort(v ledger.Visit, index int) string {
	date := "Своб."
	if v.Date != ledger.FreeDate {
		if d, err := time.Parse("2006-01-02", v.Date); err == nil {
			date = d.Format("02.01")
		} else {
			date = v.Date
		}
	}
	icons := map[tariff.Kind]string{
		tariff.KindExact:          "📅",
		tariff.KindUrgentTomorrow: "⏰",
		tariff.KindUrgentToday:    "⏰",
		tariff.KindHoliday:        "🎉",
		tariff.KindFree:           "🆓",
	}
	durIcons := map[tariff.Duration]string{
		tariff.Day4:   "4☀",
		tariff.Day8:   "8☀",
		tariff.Night4: "4🌙",
		tariff.Night8: "8🌙",
	}
	icon, ok := icons[v.Kind]
	if !ok {
		icon = "📌"
	}
	durIcon, ok := durIcons[v.Duration]
	if !ok {
		durIcon = string(v.Duration)
	}
	return fmt.Sprintf("%d. %s %s %s %s", index, date, icon, durIcon, fmtRub(v.Price))
}

// visitsText полный список выездов заказчика.
func visitsText(c ledger.Customer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚗 Выезды сварщиков для %s:\n\n", c.Name)
	for i, v := range c.Visits {
		fmt.Fprintf(&sb, "%d. 📅 %s\n", i+1, fmtDate(v.Date))
		fmt.Fprintf(&sb, "   📌 %s\n", kindLabel(v.Kind))
		fmt.Fprintf(&sb, "   ⏳ %s\n", durationLabel(v.Duration))
		fmt.Fprintf(&sb, "   💰 %s\n", fmtRub(v.Price))
		fmt.Fprintf(&sb, "   📊 Тариф: %s\n", tariffLabel(v.TariffType))
		sb.WriteString("   ——————————————\n")
	}
	text := sb.String()
	// лимит Telegram на длину сообщения
	if r := []rune(text); len(r) > 4000 {
		text = string(r[:4000]) + "\n... (список обрезан)"
	}
	return text
}

// tariffStatusText карточка тарифа заказчика.
func tariffStatusText(c ledger.Customer, title string) string {
	status := "Нет ❌"
	if c.Discount {
		status = "Да ✅"
	}
	return fmt.Sprintf("%s (%s)\n— Выездов: %d\n— Льготный тариф: %s\n— Сумма проектов: %s",
		title, c.Name, len(c.Visits), status, fmtRub(c.ProjectsSum))
}
