package tariff

import (
	"fmt"
	"time"

	"github.com/ksenieor-creator/telegram-bot/internal/holidays"
)

// Kind Тип выезда. Определяет строку тарифной сетки.
type Kind string

const (
	KindFree           Kind = "free"            // свободный график, без даты
	KindExact          Kind = "exact"           // к точному времени
	KindUrgentTomorrow Kind = "urgent_tomorrow" // срочный на завтра (заявка после 17:00)
	KindUrgentToday    Kind = "urgent_today"    // срочный на сегодня
	KindHoliday        Kind = "holiday"         // праздничный день
)

// Duration Длительность выезда. Определяет столбец тарифной сетки.
type Duration string

const (
	Day4   Duration = "4"
	Day8   Duration = "8"
	Night4 Duration = "night_4"
	Night8 Duration = "night_8"
)

type TariffType string

const (
	TypeDiscount TariffType = "discount"
	TypeStandard TariffType = "standard"
)

// Льготный тариф (для заказчиков с льготой).
var tariffsDiscount = map[Kind]map[Duration]int64{
	KindFree:           {Day4: 20000, Day8: 23000, Night4: 27000, Night8: 30000},
	KindExact:          {Day4: 22000, Day8: 25000, Night4: 27000, Night8: 30000},
	KindUrgentTomorrow: {Day4: 25000, Day8: 27000, Night4: 27000, Night8: 30000},
	KindUrgentToday:    {Day4: 27000, Day8: 30000, Night4: 27000, Night8: 30000},
	KindHoliday:        {Day4: 35000, Day8: 35000, Night4: 35000, Night8: 35000},
}

// Стандартный тариф.
var tariffsStandard = map[Kind]map[Duration]int64{
	KindFree:           {Day4: 22000, Day8: 25000, Night4: 35000, Night8: 40000},
	KindExact:          {Day4: 25000, Day8: 30000, Night4: 35000, Night8: 40000},
	KindUrgentTomorrow: {Day4: 30000, Day8: 35000, Night4: 35000, Night8: 40000},
	KindUrgentToday:    {Day4: 35000, Day8: 40000, Night4: 35000, Night8: 40000},
	KindHoliday:        {Day4: 40000, Day8: 45000, Night4: 40000, Night8: 45000},
}

// Kinds Все типы выезда в порядке показа в меню.
func Kinds() []Kind {
	return []Kind{KindExact, KindUrgentTomorrow, KindUrgentToday, KindHoliday, KindFree}
}

// Durations Все длительности в порядке показа в меню.
func Durations() []Duration {
	return []Duration{Day4, Day8, Night4, Night8}
}

// ValidKind сообщает, входит ли значение в перечисление типов выезда.
func ValidKind(k Kind) bool {
	_, ok := tariffsStandard[k]
	return ok
}

// ValidDuration сообщает, входит ли значение в перечисление длительностей.
func ValidDuration(d Duration) bool {
	_, ok := tariffsStandard[KindExact][d]
	return ok
}

// Classify определяет тип выезда по выбранной дате.
// Праздник важнее срочности; "на завтра" считается срочным только после 17:00.
func Classify(selected time.Time, now time.Time, cal holidays.Calendar) Kind {
	if cal.IsHoliday(selected) {
		return KindHoliday
	}
	if sameDay(selected, now) {
		return KindUrgentToday
	}
	if sameDay(selected, now.AddDate(0, 0, 1)) && now.Hour() >= 17 {
		return KindUrgentTomorrow
	}
	return KindExact
}

// Price возвращает стоимость выезда из тарифной сетки.
// Пространство (kind, duration) закрыто и перечислено в меню бота,
// поэтому неизвестная комбинация — ошибка программирования, а не пользователя.
func Price(kind Kind, duration Duration, discount bool) int64 {
	tbl := tariffsStandard
	if discount {
		tbl = tariffsDiscount
	}
	row, ok := tbl[kind]
	if !ok {
		panic(fmt.Sprintf("tariff: unknown kind %q", kind))
	}
	p, ok := row[duration]
	if !ok {
		panic(fmt.Sprintf("tariff: unknown duration %q", duration))
	}
	return p
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
