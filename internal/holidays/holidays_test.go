package holidays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRussia(t *testing.T) {
	cal := NewRussia()

	holidays := []string{
		"2026-01-01", "2026-01-07", "2026-02-23", "2026-03-08",
		"2026-05-01", "2026-05-09", "2026-06-12", "2026-11-04",
	}
	for _, s := range holidays {
		d, _ := time.Parse("2006-01-02", s)
		assert.True(t, cal.IsHoliday(d), s)
	}

	workdays := []string{"2026-01-15", "2026-04-01", "2026-07-20", "2026-12-31"}
	for _, s := range workdays {
		d, _ := time.Parse("2006-01-02", s)
		assert.False(t, cal.IsHoliday(d), s)
	}
}

func TestRussiaYearIndependent(t *testing.T) {
	cal := NewRussia()
	for _, y := range []int{2024, 2025, 2030} {
		d := time.Date(y, time.May, 9, 0, 0, 0, 0, time.UTC)
		assert.True(t, cal.IsHoliday(d))
	}
}

func TestSet(t *testing.T) {
	cal := Set{"2026-08-15": true}
	d, _ := time.Parse("2006-01-02", "2026-08-15")
	assert.True(t, cal.IsHoliday(d))
	assert.False(t, cal.IsHoliday(d.AddDate(0, 0, 1)))
}
