package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/config"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/engine"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/message"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/metrics"
)

const maxBodyBytes = 8 << 20

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng      *engine.Engine
	client   *engine.Client
	loader   *config.Loader // nil when running without a config file
	mux      *http.ServeMux
	validate *validator.Validate
	upgrader websocket.Upgrader
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, client *engine.Client, loader *config.Loader) http.Handler {
	h := &Handler{
		eng:      eng,
		client:   client,
		loader:   loader,
		mux:      http.NewServeMux(),
		validate: newValidator(),
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}

	h.mux.HandleFunc("POST /v1/dialogue/process", h.analyze(message.OpProcessDialogue))
	h.mux.HandleFunc("POST /v1/dialogue/validate", h.analyze(message.OpValidateTree))
	h.mux.HandleFunc("POST /v1/dialogue/paths", h.analyze(message.OpCalculatePaths))
	h.mux.HandleFunc("POST /v1/dialogue/preview", h.analyze(message.OpGeneratePreview))
	h.mux.HandleFunc("POST /v1/messages", h.postMessage)
	h.mux.HandleFunc("GET /v1/ws", h.serveWS)
	h.mux.HandleFunc("GET /v1/config", h.getConfig)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// analyzeRequest is the body of the /v1/dialogue/* endpoints.
type analyzeRequest struct {
	Tree     *dialogue.Tree `json:"tree" validate:"required"`
	MaxDepth *int           `json:"maxDepth,omitempty" validate:"omitempty,gte=0,lte=1000"`
}

// POST /v1/dialogue/{process,validate,paths,preview}: run one operation and return its payload.
func (h *Handler) analyze(op message.Op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body analyzeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
			return
		}
		if err := h.validate.Struct(body); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		var task message.Task
		switch op {
		case message.OpProcessDialogue:
			task = message.ProcessDialogue{Tree: body.Tree}
		case message.OpValidateTree:
			task = message.ValidateTree{Tree: body.Tree}
		case message.OpCalculatePaths:
			task = message.CalculatePaths{Tree: body.Tree}
		case message.OpGeneratePreview:
			task = message.GeneratePreview{Tree: body.Tree, MaxDepth: body.MaxDepth}
		}

		resp, err := h.client.Call(r.Context(), task)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		if resp.Type == message.TypeError {
			writeJSON(w, http.StatusUnprocessableEntity, resp.Payload)
			return
		}
		writeJSON(w, http.StatusOK, resp.Payload)
	}
}

// POST /v1/messages: one request envelope in, one response envelope out.
func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	var env message.Envelope
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	writeJSON(w, http.StatusOK, h.client.Send(r.Context(), env))
}

// GET /v1/config: current analysis limits and, when loaded from disk, the full config.
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"limits": h.eng.Limits()}
	if h.loader != nil {
		out["config"] = h.loader.Config()
		out["path"] = h.loader.Path()
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /v1/config/reload: re-read the config file and swap the analysis limits.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusServiceUnavailable, "no config file loaded")
		return
	}
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.eng.SwapLimits(cfg.Analysis.Limits())
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded": true,
		"limits":   h.eng.Limits(),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the request queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":            "overloaded",
			"queue_utilization": util,
			"in_flight":         h.client.InFlight(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ready",
		"queue_utilization": util,
		"in_flight":         h.client.InFlight(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, engine.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "analyzeRequest.")
		msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
