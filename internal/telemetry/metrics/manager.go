package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterCommands             *prometheus.CounterVec
	CounterWizardsCompleted     *prometheus.CounterVec
	CounterValidationRejections *prometheus.CounterVec
	CounterCollaboratorFailures *prometheus.CounterVec
	CounterRateLimitedUpdates   prometheus.Counter
	CounterHandleUpdatePanic    prometheus.Counter

	// gauges
	GaugeProfiles       prometheus.Gauge
	GaugeWizardSessions prometheus.Gauge
	GaugeLifeSignal     prometheus.Gauge

	// histograms
	HistogramCommandDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("nutribot", "test_bot", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("nutribot", "test_bot", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterCommands := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "commands",
		Help:      "The total number of handled commands",
	}, []string{"command"})
	counterWizardsCompleted := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "wizards_completed",
		Help:      "The total number of completed wizard dialogues",
	}, []string{"kind"})
	counterValidationRejections := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "validation_rejections",
		Help:      "The total number of rejected wizard replies",
	}, []string{"step"})
	counterCollaboratorFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "collaborator_failures",
		Help:      "The total number of failed weather, nutrition and chart calls",
	}, []string{"collaborator"})
	counterRateLimitedUpdates := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_updates",
		Help:      "The total number of rate limited updates",
	})
	counterHandleUpdatePanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_update_panic",
		Help:      "The total number of update handling panics",
	})

	gaugeProfiles := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "profiles",
		Help:      "Current number of stored profiles",
	})
	gaugeWizardSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "wizard_sessions",
		Help:      "Current number of pending wizard sessions",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the bot is alive",
	})

	histogramCommandDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "command_duration_seconds",
		Help:      "Histogram of command handling time in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"command"})

	return &Manager{
		CounterCommands:             counterCommands,
		CounterWizardsCompleted:     counterWizardsCompleted,
		CounterValidationRejections: counterValidationRejections,
		CounterCollaboratorFailures: counterCollaboratorFailures,
		CounterRateLimitedUpdates:   counterRateLimitedUpdates,
		CounterHandleUpdatePanic:    counterHandleUpdatePanic,
		GaugeProfiles:               gaugeProfiles,
		GaugeWizardSessions:         gaugeWizardSessions,
		GaugeLifeSignal:             gaugeLifeSignal,
		HistogramCommandDuration:    histogramCommandDuration,
	}
}
