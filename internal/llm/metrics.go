package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kidwise_ai_requests_total",
			Help: "Total number of completion requests sent to the AI provider.",
		},
		[]string{"provider", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kidwise_ai_request_duration_seconds",
			Help:    "Histogram of AI provider request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kidwise_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"provider", "model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kidwise_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(50, 50, 20),
		},
		[]string{"provider", "model"},
	)
)

const (
	statusSuccess     = "success"
	statusError       = "error"
	statusUnavailable = "unavailable"
	statusEmpty       = "empty_response"
)

func observeRequest(provider, model, status string, elapsed time.Duration) {
	aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": model, "status": status}).Inc()
	aiRequestDuration.With(prometheus.Labels{"provider": provider, "model": model}).Observe(elapsed.Seconds())
}

func observeTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		aiPromptTokens.With(prometheus.Labels{"provider": provider, "model": model}).Observe(float64(prompt))
	}
	if completion > 0 {
		aiCompletionTokens.With(prometheus.Labels{"provider": provider, "model": model}).Observe(float64(completion))
	}
}
