package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OrdersCreated    prometheus.Counter
	Settlements      prometheus.Counter
	SettlementAmount prometheus.Histogram
}

func New() *Metrics {
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "learnhub",
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	})
	settlements := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "learnhub",
		Name:      "settlements_total",
		Help:      "Total number of instructor earnings accruals applied.",
	})
	settlementAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "learnhub",
		Name:      "settlement_amount",
		Help:      "Instructor earnings accrued per settlement.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	prometheus.MustRegister(ordersCreated, settlements, settlementAmount)
	return &Metrics{
		OrdersCreated:    ordersCreated,
		Settlements:      settlements,
		SettlementAmount: settlementAmount,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
