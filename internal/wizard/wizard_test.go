package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

func TestHappyPath(t *testing.T) {
	s, d := Start()
	assert.Equal(t, StateSelectCustomer, s)

	s, d = PickCustomer(d, "1", "ООО Ромашка")
	assert.Equal(t, StateSelectAction, s)

	s, d = BeginVisit(d)
	assert.Equal(t, StateSelectDate, s)

	s, d, err := PickDate(d, "2026-04-10")
	require.NoError(t, err)
	assert.Equal(t, StateSelectKind, s)

	s, d, err = PickKind(d, tariff.KindExact)
	require.NoError(t, err)
	assert.Equal(t, StateSelectDuration, s)

	s, d, err = PickDuration(d, tariff.Day8)
	require.NoError(t, err)
	assert.Equal(t, StateSelectTariff, s)

	s, d, err = PickTariffType(d, tariff.TypeDiscount)
	require.NoError(t, err)
	assert.Equal(t, StateConfirm, s)

	v, err := Confirm(d)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-10", v.Date)
	assert.Equal(t, tariff.KindExact, v.Kind)
	assert.Equal(t, tariff.Day8, v.Duration)
	assert.Equal(t, tariff.TypeDiscount, v.TariffType)
	assert.Equal(t, int64(25000), v.Price)
}

func TestFreeDate(t *testing.T) {
	_, d := Start()
	d.CustomerID = "1"
	_, d = BeginVisit(d)

	s, d, err := PickDate(d, ledger.FreeDate)
	require.NoError(t, err)
	assert.Equal(t, StateSelectKind, s)
	assert.Equal(t, ledger.FreeDate, d.Date)
}

func TestValidationErrors(t *testing.T) {
	d := Draft{CustomerID: "1"}

	s, _, err := PickDate(d, "10.04.2026")
	assert.ErrorIs(t, err, ErrBadDate)
	assert.Equal(t, StateSelectDate, s)

	s, _, err = PickKind(d, "weekend")
	assert.ErrorIs(t, err, ErrBadKind)
	assert.Equal(t, StateSelectKind, s)

	s, _, err = PickDuration(d, "12")
	assert.ErrorIs(t, err, ErrBadDuration)
	assert.Equal(t, StateSelectDuration, s)

	s, _, err = PickTariffType(d, "vip")
	assert.ErrorIs(t, err, ErrBadTariff)
	assert.Equal(t, StateSelectTariff, s)
}

func TestBack(t *testing.T) {
	d := Draft{}

	steps := []struct{ from, to State }{
		{StateConfirm, StateSelectTariff},
		{StateSelectTariff, StateSelectDuration},
		{StateSelectDuration, StateSelectKind},
		{StateSelectKind, StateSelectDate},
		{StateSelectDate, StateSelectAction},
		{StateSelectAction, StateSelectCustomer},
	}
	for _, st := range steps {
		got, _ := Back(st.from, d)
		assert.Equal(t, st.to, got, "из %s", st.from)
	}

	// с первого шага и из текстовых состояний назад некуда
	got, _ := Back(StateSelectCustomer, d)
	assert.Equal(t, StateSelectCustomer, got)
	got, _ = Back(StateCreateCustomer, d)
	assert.Equal(t, StateCreateCustomer, got)
}

func TestBackKeepsDraft(t *testing.T) {
	d := Draft{
		CustomerID: "1",
		Date:       "2026-04-10",
		Kind:       tariff.KindExact,
		Duration:   tariff.Day4,
		TariffType: tariff.TypeStandard,
	}
	_, got := Back(StateConfirm, d)
	assert.Equal(t, d, got)
}

// Цена считается при подтверждении: после возврата назад и смены выбора
// запись отражает последний выбор.
func TestPriceComputedAtConfirm(t *testing.T) {
	_, d := Start()
	_, d = PickCustomer(d, "1", "X")
	_, d = BeginVisit(d)
	_, d, _ = PickDate(d, "2026-04-10")
	_, d, _ = PickKind(d, tariff.KindExact)
	_, d, _ = PickDuration(d, tariff.Day4)
	s, d, _ := PickTariffType(d, tariff.TypeStandard)
	require.Equal(t, StateConfirm, s)

	// назад до длительности и другой выбор
	s, d = Back(s, d)
	s, d = Back(s, d)
	require.Equal(t, StateSelectDuration, s)
	_, d, _ = PickDuration(d, tariff.Night8)
	_, d, _ = PickTariffType(d, tariff.TypeDiscount)

	v, err := Confirm(d)
	require.NoError(t, err)
	assert.Equal(t, tariff.Night8, v.Duration)
	assert.Equal(t, int64(30000), v.Price) // льготный ночной, не стандартный дневной
}

func TestConfirmIncomplete(t *testing.T) {
	_, err := Confirm(Draft{})
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = Confirm(Draft{CustomerID: "1", Date: "2026-04-10", Kind: tariff.KindExact})
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestBeginVisitClearsPipeline(t *testing.T) {
	d := Draft{
		CustomerID:   "1",
		CustomerName: "X",
		Date:         "2026-04-10",
		Kind:         tariff.KindExact,
		Duration:     tariff.Day4,
		TariffType:   tariff.TypeStandard,
	}
	s, got := BeginVisit(d)
	assert.Equal(t, StateSelectDate, s)
	assert.Equal(t, "1", got.CustomerID)
	assert.Equal(t, "X", got.CustomerName)
	assert.Empty(t, got.Date)
	assert.Empty(t, got.Kind)
	assert.Empty(t, got.Duration)
	assert.Empty(t, got.TariffType)
}

func TestFlowReset(t *testing.T) {
	f := Flow{State: StateConfirm, Draft: Draft{CustomerID: "1"}}
	f.Reset()
	assert.Equal(t, StateNone, f.State)
	assert.Empty(t, f.Draft.CustomerID)
}
