package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus returns the registry served on /metrics. Next to the bot
// metrics it carries build info, GC and memory runtime metrics, process
// metrics and the process uptime labeled with the environment.
func SetupPrometheus(namespace, environment string) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	started := time.Now()
	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "uptime_seconds",
		Help:        "Seconds since the bot process started",
		ConstLabels: prometheus.Labels{"environment": environment},
	}, func() float64 {
		return time.Since(started).Seconds()
	})

	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsGC, collectors.MetricsMemory),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		uptime,
	)

	return reg
}
