// Package api provides the HTTP entry point: request validation, correlation
// id assignment, sequential router/answer orchestration, and envelope
// assembly.
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"triage-service/internal/common/cache"
	"triage-service/internal/common/config"
	apperrors "triage-service/internal/common/errors"
	"triage-service/internal/common/logger"
	"triage-service/internal/common/metrics"
	"triage-service/internal/llm"
	"triage-service/internal/triage/answer"
	"triage-service/internal/triage/router"
)

// ClientFactory yields vendor adapters per call purpose. *llm.Factory
// satisfies it; tests inject stubs.
type ClientFactory interface {
	Client(provider string, purpose llm.Purpose) (llm.Client, error)
}

// Handler handles HTTP requests.
type Handler struct {
	cfg     *config.Config
	factory ClientFactory
	cache   cache.Cache
	logger  logger.Logger
}

// NewHandler creates a new handler.
func NewHandler(cfg *config.Config, factory ClientFactory, c cache.Cache, log logger.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		factory: factory,
		cache:   c,
		logger:  log,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/triage", h.Triage)
	e.GET("/health", h.Health)
}

// Triage runs the two-pass pipeline. The passes are strictly sequential: the
// answer prompt embeds the router's output.
func (h *Handler) Triage(c echo.Context) error {
	requestID := c.Request().Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	log := h.logger.With(map[string]interface{}{"request_id": requestID})

	var req TriageRequest
	if err := c.Bind(&req); err != nil {
		metrics.TriageRequestsTotal.WithLabelValues("client_error").Inc()
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid_request",
			Message:   "request body must be valid JSON",
			RequestID: requestID,
		})
	}
	req.applyDefaults(h.cfg.Providers.Default)
	if problem := req.validate(); problem != "" {
		metrics.TriageRequestsTotal.WithLabelValues("client_error").Inc()
		log.WithError(apperrors.NewClientInputError(problem)).Warn("request rejected", nil)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid_request",
			Message:   problem,
			RequestID: requestID,
		})
	}

	ctx := c.Request().Context()
	cacheKey := triageCacheKey(req)

	if h.cfg.Cache.Enabled {
		if raw, ok := h.cache.Get(ctx, cacheKey); ok {
			var resp TriageResponse
			if err := json.Unmarshal([]byte(raw), &resp); err == nil {
				resp.RequestID = requestID
				resp.Metadata.Cached = true
				metrics.TriageRequestsTotal.WithLabelValues("cached").Inc()
				log.Info("triage served from cache", map[string]interface{}{"provider": req.Provider})
				return c.JSON(http.StatusOK, resp)
			}
			h.cache.Delete(ctx, cacheKey)
		}
	}

	totalStart := time.Now()

	routerClient, err := h.factory.Client(req.Provider, llm.PurposeRouter)
	if err != nil {
		return h.serverError(c, log, requestID, req.Provider, err)
	}
	answerClient, err := h.factory.Client(req.Provider, llm.PurposeAnswer)
	if err != nil {
		return h.serverError(c, log, requestID, req.Provider, err)
	}

	routerStart := time.Now()
	profile, meta := router.New(routerClient, log).Run(ctx, req.Message, req.Context)
	routerLatency := time.Since(routerStart)
	metrics.PassDuration.WithLabelValues("router").Observe(routerLatency.Seconds())

	answerStart := time.Now()
	result, err := answer.NewGenerator(answerClient, log).Generate(ctx, req.Message, profile, req.Context, req.Mode)
	if err != nil {
		return h.serverError(c, log, requestID, req.Provider, err)
	}
	answerLatency := time.Since(answerStart)
	metrics.PassDuration.WithLabelValues("answer").Observe(answerLatency.Seconds())

	totalUsage := meta.Usage
	totalUsage.Add(result.Usage)

	resp := TriageResponse{
		RequestID:      requestID,
		Router:         profile,
		AnswerMarkdown: result.Markdown,
		Metadata: ResponseMetadata{
			RouterLatencyMs: routerLatency.Milliseconds(),
			AnswerLatencyMs: answerLatency.Milliseconds(),
			TotalLatencyMs:  time.Since(totalStart).Milliseconds(),
			RouterRetries:   meta.Retries,
			RouterUsage:     meta.Usage,
			AnswerUsage:     result.Usage,
			TotalUsage:      totalUsage,
		},
	}

	if h.cfg.Cache.Enabled {
		if raw, err := json.Marshal(resp); err == nil {
			h.cache.Set(ctx, cacheKey, string(raw), 0)
		}
	}

	metrics.TriageRequestsTotal.WithLabelValues("ok").Inc()
	log.Info("triage completed", map[string]interface{}{
		"provider":       req.Provider,
		"mode":           req.Mode,
		"router_outcome": meta.Outcome,
		"total_ms":       resp.Metadata.TotalLatencyMs,
	})
	return c.JSON(http.StatusOK, resp)
}

// Health reports liveness and whether the configuration is usable.
func (h *Handler) Health(c echo.Context) error {
	valid, errs := h.cfg.Validate()
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Config:    HealthConfig{Valid: valid, Errors: errs},
	})
}

// serverError logs the real cause and returns a generic envelope. Internal
// detail never reaches the caller.
func (h *Handler) serverError(c echo.Context, log logger.Logger, requestID, provider string, err error) error {
	metrics.TriageRequestsTotal.WithLabelValues("server_error").Inc()
	log.WithError(apperrors.NewProviderCallError(provider, err)).Error("triage failed", nil)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     "internal_error",
		Message:   "triage could not be completed",
		RequestID: requestID,
	})
}

// triageCacheKey hashes the request fields that determine the response.
func triageCacheKey(req TriageRequest) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", req.Message, req.Provider, req.Mode)))
	return "triage:" + hex.EncodeToString(sum[:])
}
