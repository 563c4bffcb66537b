package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generation
	GenerationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devopsgen_generation_requests_total",
			Help: "Generation attempts by use case and outcome",
		},
		[]string{"use_case", "outcome"}, // outcome: succeeded|invalid_input|rate_limited|...
	)
	ActiveGenerations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "devopsgen_generations_active",
			Help: "Current number of in-flight generation calls",
		},
	)

	// LLM
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devopsgen_llm_requests_total",
			Help: "Number of LLM requests by provider",
		},
		[]string{"provider"},
	)
	LLMDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devopsgen_llm_duration_seconds",
			Help:    "Latency of upstream provider calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms..32s
		},
		[]string{"provider"},
	)

	// Usage
	Tokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devopsgen_tokens_total",
			Help: "Approximate tokens by direction and source",
		},
		[]string{"direction", "source"}, // direction: input|output, source: provider|estimate
	)
	EstimatedCostUSD = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "devopsgen_estimated_cost_usd_total",
			Help: "Sum of estimated generation cost in USD",
		},
	)

	// Validation
	ValidationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devopsgen_validation_runs_total",
			Help: "Artifact lint runs by validator and result",
		},
		[]string{"validator", "result"}, // result: pass|fail|error
	)

	// Attempt store
	DBOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devopsgen_db_ops_total",
			Help: "Database operations performed",
		},
		[]string{"op"},
	)

	// HTTP
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)
	HTTPDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	HTTPErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devopsgen_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		GenerationRequests,
		ActiveGenerations,

		LLMRequests,
		LLMDurationSeconds,

		Tokens,
		EstimatedCostUSD,

		ValidationRuns,
		DBOps,

		HTTPRequests,
		HTTPDurationSeconds,
		HTTPErrors,

		Errors,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer serves /metrics on its own listener and blocks.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

// Generation
func IncGeneration(useCase, outcome string) {
	GenerationRequests.WithLabelValues(useCase, outcome).Inc()
}

func IncActiveGenerations() {
	ActiveGenerations.Inc()
}

func DecActiveGenerations() {
	ActiveGenerations.Dec()
}

// LLM
func IncLLMRequest(provider string) {
	LLMRequests.WithLabelValues(provider).Inc()
}

func ObserveLLMDuration(provider string, d time.Duration) {
	LLMDurationSeconds.WithLabelValues(provider).Observe(d.Seconds())
}

// Usage
func AddTokens(source string, input, output int) {
	Tokens.WithLabelValues("input", source).Add(float64(input))
	Tokens.WithLabelValues("output", source).Add(float64(output))
}

func AddEstimatedCost(usd string) {
	v, err := strconv.ParseFloat(usd, 64)
	if err != nil || v < 0 {
		return
	}
	EstimatedCostUSD.Add(v)
}

// Validation
func IncValidationRun(validator, result string) {
	ValidationRuns.WithLabelValues(validator, result).Inc()
}

// DB
func IncDBOp(op string) {
	DBOps.WithLabelValues(op).Inc()
}

// HTTP
func ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	statusStr := strconv.Itoa(status)
	HTTPRequests.WithLabelValues(method, path).Inc()
	HTTPDurationSeconds.WithLabelValues(method, path, statusStr).Observe(d.Seconds())
	if status >= 400 {
		HTTPErrors.WithLabelValues(method, path, statusStr).Inc()
	}
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
