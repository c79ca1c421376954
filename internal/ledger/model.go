package ledger

import (
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

// FreeDate Маркер выезда без конкретной даты (свободный график).
const FreeDate = "free"

// Порог льготы: 4 выезда или 60 000 ₽ по проектам.
const (
	discountVisits = 4
	discountSum    = 60000
)

// Visit Запись о состоявшемся выезде. Цена фиксируется в момент добавления
// и при последующей смене льготы заказчика не пересчитывается.
type Visit struct {
	Date       string            `json:"date"` // ISO-дата или FreeDate
	Kind       tariff.Kind       `json:"kind"`
	Duration   tariff.Duration   `json:"duration"`
	TariffType tariff.TariffType `json:"tariff_type"`
	Price      int64             `json:"price"`
}

// Customer Заказчик. ActorIDs — telegram-id привязанных представителей;
// один представитель принадлежит максимум одному заказчику.
type Customer struct {
	ID          string   `json:"-"`
	Name        string   `json:"name"`
	ActorIDs    []string `json:"ids"`
	ProjectsSum int64    `json:"projects_sum"`
	Discount    bool     `json:"discount"`
	Visits      []Visit  `json:"visits"`
}

// Snapshot Полный срез данных. Формат совместим со старым data.json.
type Snapshot struct {
	Customers map[string]*Customer `json:"customers"`
}

// HasActor сообщает, привязан ли представитель к этому заказчику.
func (c *Customer) HasActor(actorID string) bool {
	for _, id := range c.ActorIDs {
		if id == actorID {
			return true
		}
	}
	return false
}

// recalcDiscount пересчитывает льготу из текущего состояния записи.
// Вызывается после каждой мутации visits/projects_sum — флагу на диске не доверяем.
func (c *Customer) recalcDiscount() {
	c.Discount = len(c.Visits) >= discountVisits || c.ProjectsSum >= discountSum
}
