package holidays

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ru"
)

// Calendar Провайдер производственного календаря. Подменяемый: в тестах
// используется фиксированный набор дат, в бою — российский календарь.
type Calendar interface {
	IsHoliday(date time.Time) bool
}

// Russia Нерабочие праздничные дни РФ. Переносы праздников, выпавших на
// выходной, учитываются календарём (ТК РФ, ст. 112): перенесённый день
// тарифицируется так же, как сам праздник.
type Russia struct {
	cal *cal.Calendar
}

func NewRussia() *Russia {
	c := &cal.Calendar{}
	c.AddHoliday(ru.Holidays...)
	return &Russia{cal: c}
}

func (r *Russia) IsHoliday(date time.Time) bool {
	actual, observed, _ := r.cal.IsHoliday(date)
	return actual || observed
}

// Set Фиксированный набор дат, для тестов и ручного переопределения.
type Set map[string]bool

func (s Set) IsHoliday(date time.Time) bool {
	return s[date.Format("2006-01-02")]
}
