package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// outcome label values
const (
	OutcomeSuccess = "success"
)

var (
	interviewsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_generated_total",
		Help:      "Interview generation attempts by outcome",
	}, []string{"outcome"})

	feedbackGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_generated_total",
		Help:      "Feedback generation attempts by outcome",
	}, []string{"outcome"})

	callTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "call_transitions_total",
		Help:      "Call session state transitions",
	}, []string{"from", "to"})

	activeCalls = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_calls",
		Help:      "Call sessions currently connecting or active",
	})
)

// ObserveInterviewGeneration counts one generation attempt; outcome is
// OutcomeSuccess or a failure kind.
func ObserveInterviewGeneration(outcome string) {
	interviewsGenerated.WithLabelValues(outcome).Inc()
}

func ObserveFeedbackGeneration(outcome string) {
	feedbackGenerated.WithLabelValues(outcome).Inc()
}

func ObserveCallTransition(from, to string) {
	callTransitions.WithLabelValues(from, to).Inc()
}

func SetActiveCalls(n int) {
	activeCalls.Set(float64(n))
}
