package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
Metrics tracks every caller-facing retrieval operation. Status is "ok" or
the SearchError code of the failure; plain errors count as "error".
*/
type Metrics struct {
	Registry *prometheus.Registry
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Results  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "contract_search",
				Subsystem: "retrieval",
				Name:      "requests_total",
				Help:      "Total number of retrieval operations",
			},
			[]string{"operation", "status"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "contract_search",
				Subsystem: "retrieval",
				Name:      "duration_seconds",
				Help:      "Retrieval operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		Results: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "contract_search",
				Subsystem: "retrieval",
				Name:      "results",
				Help:      "Number of records returned per operation",
				Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"operation"},
		),
	}

	m.Registry.MustRegister(
		m.Requests,
		m.Duration,
		m.Results,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

/*
Observe records one finished operation. A nil receiver is a no-op so
callers need not check whether metrics are enabled.
*/
func (m *Metrics) Observe(operation string, started time.Time, results int, err error) {
	if m == nil {
		return
	}

	m.Requests.WithLabelValues(operation, Status(err)).Inc()
	m.Duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())

	if err == nil {
		m.Results.WithLabelValues(operation).Observe(float64(results))
	}
}

func Status(err error) string {
	if err == nil {
		return "ok"
	}

	var searchErr *errors.SearchError

	if errors.As(err, &searchErr) {
		return searchErr.Code
	}

	return "error"
}
