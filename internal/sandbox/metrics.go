package sandbox

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg      *prometheus.Registry
	Created  *prometheus.CounterVec
	Rejected prometheus.Counter
	Injected prometheus.Counter
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dishform_sandbox_dishes_created_total",
		Help: "Dishes accepted by the sandbox, by dish type.",
	}, []string{"type"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dishform_sandbox_dishes_rejected_total",
		Help: "Dish submissions that failed validation.",
	})
	injected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dishform_sandbox_injected_failures_total",
		Help: "Submissions answered with the configured failure status.",
	})

	r.MustRegister(created, rejected, injected)
	return &Metrics{
		reg:      r,
		Created:  created,
		Rejected: rejected,
		Injected: injected,
	}
}

func (m *Metrics) Handler() http.Handler { return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}) }
