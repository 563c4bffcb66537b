package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"devopsgen/app/usecase"
	"devopsgen/internal/domain/entity"
	"devopsgen/internal/infrastructure/metrics"
)

const defaultMaxBodyBytes = 10 << 20

type HandlerOptions struct {
	// Environment is reported by the health endpoint.
	Environment string
	// ExposeDetails adds the internal error text to 500 responses.
	ExposeDetails bool
	MaxBodyBytes  int64
	// Limiter, when set, guards POST /api/generate.
	Limiter *ClientLimiter
}

type GeneratorHandler struct {
	generator usecase.Generator
	registry  *entity.Registry
	exporter  *usecase.ArtifactExporter
	logger    *slog.Logger
	opts      HandlerOptions
}

func NewGeneratorHandler(
	generator usecase.Generator,
	registry *entity.Registry,
	exporter *usecase.ArtifactExporter,
	logger *slog.Logger,
	opts HandlerOptions,
) *GeneratorHandler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Environment == "" {
		opts.Environment = "development"
	}
	return &GeneratorHandler{
		generator: generator,
		registry:  registry,
		exporter:  exporter,
		logger:    logger,
		opts:      opts,
	}
}

func (h *GeneratorHandler) RegisterRoutes(r *mux.Router) {
	generate := h.handleGenerate
	if h.opts.Limiter != nil {
		generate = h.opts.Limiter.Middleware(generate)
	}

	// Registered on the root router so a method mismatch answers 405, not 404.
	r.HandleFunc("/api/health", withMetrics(h.handleHealth)).Methods(http.MethodGet)
	r.HandleFunc("/api/generate", withMetrics(generate)).Methods(http.MethodPost)
	r.HandleFunc("/api/prompt", withMetrics(h.handlePrompt)).Methods(http.MethodPost)
	r.HandleFunc("/api/use-cases", withMetrics(h.handleUseCases)).Methods(http.MethodGet)
	r.HandleFunc("/api/export", withMetrics(h.handleExport)).Methods(http.MethodPost)

	// Prometheus
	r.Handle("/metrics", metrics.Handler())
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeFailure maps a taxonomy error to its user sentence. Provider detail is
// only attached when the handler is configured to expose it.
func (h *GeneratorHandler) writeFailure(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if entity.KindOf(err) == entity.KindInvalidInput {
		code = http.StatusBadRequest
	}
	resp := errorResponse{Error: usecase.UserMessage(err)}
	if h.opts.ExposeDetails && code == http.StatusInternalServerError {
		resp.Details = err.Error()
	}
	writeJSON(w, code, resp)
}

func (h *GeneratorHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

type healthResp struct {
	Status      string                       `json:"status"`
	Message     string                       `json:"message"`
	Timestamp   string                       `json:"timestamp"`
	Environment string                       `json:"environment"`
	Attempts    map[entity.AttemptStatus]int `json:"attempts,omitempty"`
}

// attemptCounter is implemented by generators backed by an attempt store.
type attemptCounter interface {
	AttemptStats(ctx context.Context) (map[entity.AttemptStatus]int, error)
}

// GET /api/health
func (h *GeneratorHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResp{
		Status:      "OK",
		Message:     "AI DevOps Generator API is running",
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Environment: h.opts.Environment,
	}
	if counter, ok := h.generator.(attemptCounter); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		stats, err := counter.AttemptStats(ctx)
		if err != nil {
			// The store is advisory; health stays OK without the counts.
			h.logger.Warn("attempt stats unavailable", "err", err)
		}
		resp.Attempts = stats
	}
	writeJSON(w, http.StatusOK, resp)
}

type generateReq struct {
	Prompt  string `json:"prompt"`
	UseCase string `json:"useCase"`
}

// POST /api/generate
func (h *GeneratorHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || strings.TrimSpace(req.UseCase) == "" {
		writeError(w, http.StatusBadRequest, usecase.MsgMissingFields)
		return
	}

	result, err := h.generator.Generate(r.Context(), req.Prompt, req.UseCase)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type promptReq struct {
	UseCase         string `json:"useCase"`
	TechStack       string `json:"techStack"`
	Environment     string `json:"environment"`
	IncludeSecurity bool   `json:"includeSecurity"`
	AddMonitoring   bool   `json:"addMonitoring"`
}

// POST /api/prompt
func (h *GeneratorHandler) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptReq
	if !h.decode(w, r, &req) {
		return
	}
	env, err := entity.ParseEnvironment(req.Environment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown environment: use Development, Staging or Production")
		return
	}

	prompt, err := usecase.ComposePrompt(h.registry, entity.GenerationRequest{
		UseCase:         req.UseCase,
		TechStack:       req.TechStack,
		Environment:     env,
		IncludeSecurity: req.IncludeSecurity,
		AddMonitoring:   req.AddMonitoring,
	})
	if err != nil {
		h.logger.Debug("compose prompt rejected", "use_case", req.UseCase, "err", err)
		switch {
		case errors.Is(err, entity.ErrUseCaseNotFound):
			writeError(w, http.StatusBadRequest, "Unknown use case")
		default:
			writeError(w, http.StatusBadRequest, usecase.MsgEmptyTechStack)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"prompt": prompt})
}

// GET /api/use-cases
func (h *GeneratorHandler) handleUseCases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"useCases": h.registry.List()})
}

type exportReq struct {
	Content string `json:"content"`
	UseCase string `json:"useCase"`
}

// POST /api/export
func (h *GeneratorHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportReq
	if !h.decode(w, r, &req) {
		return
	}
	if req.Content == "" || strings.TrimSpace(req.UseCase) == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: content and useCase")
		return
	}

	file := h.exporter.ExportFor(req.Content, req.UseCase)

	w.Header().Set("Content-Type", file.MIMEType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := file.WriteTo(w); err != nil {
		h.logger.Warn("write export failed", "filename", file.Filename, "err", err)
	}
}
