package wizard

import (
	"errors"
	"time"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

// Состояния мастера добавления выезда (админ).
type State string

const (
	StateNone           State = ""
	StateSelectCustomer State = "select_customer"
	StateSelectAction   State = "select_action"
	StateSelectDate     State = "select_date"
	StateSelectKind     State = "select_kind"
	StateSelectDuration State = "select_duration"
	StateSelectTariff   State = "select_tariff_type"
	StateConfirm        State = "confirm"

	// Текстовые вводы, доступные с экрана выбора действия.
	StateCreateCustomer State = "create_customer"
	StateFindCustomer   State = "find_customer"
	StateLinkActor      State = "link_actor"
	StateSetSum         State = "set_sum"
)

var (
	ErrBadDate     = errors.New("некорректная дата")
	ErrBadKind     = errors.New("неизвестный тип выезда")
	ErrBadDuration = errors.New("неизвестная длительность")
	ErrBadTariff   = errors.New("неизвестный тип тарифа")
	ErrIncomplete  = errors.New("черновик заполнен не полностью")
)

// Draft Черновик выезда. Заполняется по шагам, в реестр не попадает
// до явного подтверждения. Переходы не мутируют черновик на месте —
// каждый шаг возвращает новое значение.
type Draft struct {
	CustomerID   string
	CustomerName string
	Date         string // ISO-дата или ledger.FreeDate
	Kind         tariff.Kind
	Duration     tariff.Duration
	TariffType   tariff.TariffType
}

// Flow Текущее положение оператора в мастере. Один на процесс:
// повторный Start молча выбрасывает незавершённый черновик — оператор
// часто бросает ввод на середине, это штатный сценарий.
type Flow struct {
	State State
	Draft Draft
}

func (f *Flow) Reset() { *f = Flow{} }

// Start начинает мастер заново с выбора заказчика.
func Start() (State, Draft) {
	return StateSelectCustomer, Draft{}
}

// PickCustomer фиксирует заказчика и открывает экран действий.
func PickCustomer(d Draft, cid, name string) (State, Draft) {
	d.CustomerID = cid
	d.CustomerName = name
	return StateSelectAction, d
}

// BeginVisit запускает линейный конвейер добавления выезда.
func BeginVisit(d Draft) (State, Draft) {
	// прошлые шаги конвейера стираем, заказчик остаётся
	d.Date, d.Kind, d.Duration, d.TariffType = "", "", "", ""
	return StateSelectDate, d
}

// PickDate принимает ISO-дату либо маркер свободного графика.
func PickDate(d Draft, date string) (State, Draft, error) {
	if date != ledger.FreeDate {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return StateSelectDate, d, ErrBadDate
		}
	}
	d.Date = date
	return StateSelectKind, d, nil
}

func PickKind(d Draft, k tariff.Kind) (State, Draft, error) {
	if !tariff.ValidKind(k) {
		return StateSelectKind, d, ErrBadKind
	}
	d.Kind = k
	return StateSelectDuration, d, nil
}

func PickDuration(d Draft, dur tariff.Duration) (State, Draft, error) {
	if !tariff.ValidDuration(dur) {
		return StateSelectDuration, d, ErrBadDuration
	}
	d.Duration = dur
	return StateSelectTariff, d, nil
}

func PickTariffType(d Draft, t tariff.TariffType) (State, Draft, error) {
	if t != tariff.TypeDiscount && t != tariff.TypeStandard {
		return StateSelectTariff, d, ErrBadTariff
	}
	d.TariffType = t
	return StateConfirm, d, nil
}

// Back возвращает на предыдущий шаг конвейера. Черновик не трогаем:
// уже выбранные значения переживают навигацию назад и перезаписываются
// только повторным выбором.
func Back(s State, d Draft) (State, Draft) {
	switch s {
	case StateSelectAction:
		return StateSelectCustomer, d
	case StateSelectDate:
		return StateSelectAction, d
	case StateSelectKind:
		return StateSelectDate, d
	case StateSelectDuration:
		return StateSelectKind, d
	case StateSelectTariff:
		return StateSelectDuration, d
	case StateConfirm:
		return StateSelectTariff, d
	default:
		return s, d
	}
}

// Confirm собирает запись о выезде из черновика. Цена считается здесь,
// в момент подтверждения: после навигации назад и смены тарифа или
// длительности запись отражает последний выбор, а не первый.
func Confirm(d Draft) (ledger.Visit, error) {
	if d.CustomerID == "" || d.Date == "" || d.Kind == "" || d.Duration == "" || d.TariffType == "" {
		return ledger.Visit{}, ErrIncomplete
	}
	price := tariff.Price(d.Kind, d.Duration, d.TariffType == tariff.TypeDiscount)
	return ledger.Visit{
		Date:       d.Date,
		Kind:       d.Kind,
		Duration:   d.Duration,
		TariffType: d.TariffType,
		Price:      price,
	}, nil
}
