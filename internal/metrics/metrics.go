package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics Счётчики бота: жизненный цикл расчётов, подтверждённые выезды,
// ошибки сброса среза на диск.
type Metrics struct {
	QuotesStarted   prometheus.Counter
	QuotesCompleted prometheus.Counter
	QuotesExpired   prometheus.Counter
	StaleCallbacks  prometheus.Counter
	VisitsCommitted prometheus.Counter
	FlushErrors     prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		QuotesStarted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vyezdy_quotes_started_total",
			Help: "Сколько расчётов стоимости начато",
		}),
		QuotesCompleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vyezdy_quotes_completed_total",
			Help: "Сколько расчётов доведено до цены",
		}),
		QuotesExpired: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vyezdy_quotes_expired_total",
			Help: "Сколько расчётов сброшено по таймауту",
		}),
		StaleCallbacks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vyezdy_stale_callbacks_total",
			Help: "Нажатия кнопок из устаревших расчётов",
		}),
		VisitsCommitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vyezdy_visits_committed_total",
			Help: "Выезды, добавленные через мастер",
		}),
		FlushErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vyezdy_snapshot_flush_errors_total",
			Help: "Ошибки записи среза данных в хранилище",
		}),
	}
}
