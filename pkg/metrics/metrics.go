package metrics

import (
	"net/http"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu        sync.Mutex
	registry  = prometheus.NewRegistry()
	counters  = map[string]*prometheus.CounterVec{}
	summaries = map[string]*prometheus.SummaryVec{}
)

// Inc increments the named counter with the given label set. Vectors are
// registered lazily on first use; all calls for a name must use the same
// label keys.
func Inc(name string, labels map[string]string) {
	mu.Lock()
	vec, ok := counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, labelKeys(labels))
		registry.MustRegister(vec)
		counters[name] = vec
	}
	mu.Unlock()
	if m, err := vec.GetMetricWith(labels); err == nil {
		m.Inc()
	}
}

// ObserveSummary records an observation on the named summary.
func ObserveSummary(name string, labels map[string]string, v float64) {
	mu.Lock()
	vec, ok := summaries[name]
	if !ok {
		vec = prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       name,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, labelKeys(labels))
		registry.MustRegister(vec)
		summaries[name] = vec
	}
	mu.Unlock()
	if m, err := vec.GetMetricWith(labels); err == nil {
		m.Observe(v)
	}
}

// Handler exposes the process registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func labelKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
