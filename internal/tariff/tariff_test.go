package tariff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksenieor-creator/telegram-bot/internal/holidays"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassify(t *testing.T) {
	cal := holidays.Set{"2026-05-09": true}

	tests := []struct {
		name     string
		selected time.Time
		now      time.Time
		want     Kind
	}{
		{
			name:     "обычная дата через неделю",
			selected: date("2026-04-10 00:00"),
			now:      date("2026-04-03 12:00"),
			want:     KindExact,
		},
		{
			name:     "сегодня — срочный",
			selected: date("2026-04-03 00:00"),
			now:      date("2026-04-03 09:30"),
			want:     KindUrgentToday,
		},
		{
			name:     "завтра до 17:00 — обычный",
			selected: date("2026-04-04 00:00"),
			now:      date("2026-04-03 16:59"),
			want:     KindExact,
		},
		{
			name:     "завтра после 17:00 — срочный на завтра",
			selected: date("2026-04-04 00:00"),
			now:      date("2026-04-03 17:00"),
			want:     KindUrgentTomorrow,
		},
		{
			name:     "праздник важнее срочности",
			selected: date("2026-05-09 00:00"),
			now:      date("2026-05-09 10:00"),
			want:     KindHoliday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.selected, tt.now, cal))
		})
	}
}

func TestPrice(t *testing.T) {
	t.Run("известные значения сетки", func(t *testing.T) {
		assert.Equal(t, int64(20000), Price(KindFree, Day4, true))
		assert.Equal(t, int64(22000), Price(KindFree, Day4, false))
		assert.Equal(t, int64(27000), Price(KindUrgentToday, Day4, true))
		assert.Equal(t, int64(40000), Price(KindUrgentToday, Day8, false))
		assert.Equal(t, int64(35000), Price(KindHoliday, Night8, true))
		assert.Equal(t, int64(45000), Price(KindHoliday, Night8, false))
	})

	t.Run("сетка закрыта: цена есть для каждой комбинации", func(t *testing.T) {
		for _, k := range Kinds() {
			for _, d := range Durations() {
				assert.Positive(t, Price(k, d, true), "%s/%s льготный", k, d)
				assert.Positive(t, Price(k, d, false), "%s/%s стандартный", k, d)
			}
		}
	})

	t.Run("льготный не дороже стандартного", func(t *testing.T) {
		for _, k := range Kinds() {
			for _, d := range Durations() {
				assert.LessOrEqual(t, Price(k, d, true), Price(k, d, false), "%s/%s", k, d)
			}
		}
	})

	t.Run("неизвестная комбинация — паника", func(t *testing.T) {
		require.Panics(t, func() { Price("weekend", Day4, false) })
		require.Panics(t, func() { Price(KindExact, "12", false) })
	})
}

func TestValidation(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, ValidKind(k))
	}
	assert.False(t, ValidKind("weekend"))
	assert.False(t, ValidKind(""))

	for _, d := range Durations() {
		assert.True(t, ValidDuration(d))
	}
	assert.False(t, ValidDuration("12"))
	assert.False(t, ValidDuration(""))
}
