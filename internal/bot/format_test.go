package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

func TestFmtRub(t *testing.T) {
	assert.Equal(t, "0 ₽", fmtRub(0))
	assert.Equal(t, "500 ₽", fmtRub(500))
	assert.Equal(t, "25 000 ₽", fmtRub(25000))
	assert.Equal(t, "1 250 000 ₽", fmtRub(1250000))
}

func TestFmtDate(t *testing.T) {
	assert.Equal(t, "10.04.2026", fmtDate("2026-04-10"))
	assert.Equal(t, "Свободная дата", fmtDate(ledger.FreeDate))
	assert.Equal(t, "мусор", fmtDate("мусор"))
}

func TestQuoteDateDisplay(t *testing.T) {
	now := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "10.04.2026", quoteDateDisplay("2026-04-10", now))
	// свободный график в карточке результата показывается сегодняшним днём
	assert.Equal(t, "03.04.2026", quoteDateDisplay(ledger.FreeDate, now))
}

func TestLabelsFallback(t *testing.T) {
	assert.Equal(t, "🎉 Праздничный", kindLabel(tariff.KindHoliday))
	assert.Equal(t, "weekend", kindLabel("weekend"))
	assert.Equal(t, "4 часа ☀", durationLabel(tariff.Day4))
	assert.Equal(t, "12", durationLabel("12"))
	assert.Equal(t, "Льготный", tariffLabel(tariff.TypeDiscount))
	assert.Equal(t, "vip", tariffLabel("vip"))
}

func TestVisitShort(t *testing.T) {
	v := ledger.Visit{
		Date:       "2026-04-10",
		Kind:       tariff.KindExact,
		Duration:   tariff.Day4,
		TariffType: tariff.TypeStandard,
		Price:      25000,
	}
	assert.Equal(t, "1. 10.04 📅 4☀ 25 000 ₽", visitShort(v, 1))

	free := ledger.Visit{Date: ledger.FreeDate, Kind: tariff.KindFree, Duration: tariff.Night8, Price: 30000}
	assert.Equal(t, "2. Своб. 🆓 8🌙 30 000 ₽", visitShort(free, 2))
}

func TestVisitsTextTruncated(t *testing.T) {
	c := ledger.Customer{Name: "Большой заказчик"}
	for i := 0; i < 200; i++ {
		c.Visits = append(c.Visits, ledger.Visit{
			Date: "2026-04-10", Kind: tariff.KindExact,
			Duration: tariff.Day4, TariffType: tariff.TypeStandard, Price: 25000,
		})
	}
	text := visitsText(c)
	assert.LessOrEqual(t, len([]rune(text)), 4100)
	assert.Contains(t, text, "список обрезан")
}

func TestTariffStatusText(t *testing.T) {
	c := ledger.Customer{
		Name:        "ООО Ромашка",
		ProjectsSum: 75000,
		Discount:    true,
		Visits:      []ledger.Visit{{Price: 25000}},
	}
	text := tariffStatusText(c, "📌 Тариф")
	assert.Contains(t, text, "ООО Ромашка")
	assert.Contains(t, text, "Выездов: 1")
	assert.Contains(t, text, "Да ✅")
	assert.Contains(t, text, "75 000 ₽")

	c.Discount = false
	assert.Contains(t, tariffStatusText(c, "📌 Тариф"), "Нет ❌")
}
