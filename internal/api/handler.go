// Package api exposes the sync and score endpoints over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"skillion-sdi/internal/accountsync"
	"skillion-sdi/internal/observability"
	"skillion-sdi/internal/reporting"
	"skillion-sdi/internal/scoring"
	"skillion-sdi/internal/storage"
)

// Header names sent by connectors.
const (
	HeaderToken    = "X-Skillion-Token"
	HeaderPlatform = "X-Skillion-Platform"
)

// Client-facing error messages.
const (
	msgInvalidToken = "Invalid sync token. Generate a new one in your Skillion dashboard."
	msgRateLimited  = "Rate limit: please wait before syncing again."
	msgInvalidJSON  = "Invalid JSON payload."
	msgTooLarge     = "Payload too large."
	msgInternal     = "Internal server error"
	msgNotFound     = "Score not found."
)

// Config holds handler settings.
type Config struct {
	DefaultPlatform string
	MaxBodyBytes    int64
	RetryAfter      time.Duration // advertised on 429
}

// Handler serves the HTTP API.
type Handler struct {
	sync    *accountsync.Service
	scores  storage.ScoreStore
	history storage.ScoreHistoryStore
	reports *reporting.Generator
	logger  *zap.Logger
	metrics *observability.Metrics
	cfg     Config
}

// NewHandler creates a Handler. A nil logger or metrics falls back to a
// no-op logger and the default metrics.
func NewHandler(sync *accountsync.Service, scores storage.ScoreStore, history storage.ScoreHistoryStore, logger *zap.Logger, metrics *observability.Metrics, cfg Config) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.DefaultMetrics
	}
	if cfg.DefaultPlatform == "" {
		cfg.DefaultPlatform = accountsync.DefaultPlatform
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	return &Handler{
		sync:    sync,
		scores:  scores,
		history: history,
		reports: reporting.NewGenerator(scores, history),
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
	}
}

// Routes returns the API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/sync", h.instrument("sync", h.handleSync))
	mux.Handle("POST /api/v1/score", h.instrument("score_preview", h.handleScorePreview))
	mux.Handle("GET /api/v1/score/{accountID}", h.instrument("score_get", h.handleGetScore))
	mux.Handle("GET /api/v1/score/{accountID}/history", h.instrument("score_history", h.handleScoreHistory))
	mux.Handle("GET /api/v1/score/{accountID}/report", h.instrument("score_report", h.handleScoreReport))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.sync.Authorize(ctx, r.Header.Get(HeaderToken))
	if err != nil {
		switch {
		case errors.Is(err, accountsync.ErrInvalidToken):
			h.writeError(w, http.StatusUnauthorized, msgInvalidToken)
		case errors.Is(err, accountsync.ErrRateLimited):
			if h.cfg.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(h.cfg.RetryAfter.Seconds()))))
			}
			h.writeError(w, http.StatusTooManyRequests, msgRateLimited)
		default:
			h.logger.Error("sync authorization failed", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	var payload syncPayload
	if status, msg, ok := h.decode(w, r, &payload); !ok {
		h.metrics.RecordSync(observability.SyncBadRequest)
		h.writeError(w, status, msg)
		return
	}

	platform := r.Header.Get(HeaderPlatform)
	if platform == "" && payload.Platform == "" {
		platform = h.cfg.DefaultPlatform
	}

	res, err := h.sync.Ingest(ctx, account, accountsync.SyncRequest{
		Meta:   payload.meta(platform),
		Trades: toDomainTrades(payload.Trades),
	})
	if err != nil {
		h.logger.Error("sync failed", zap.String("account_id", account.AccountID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.writeJSON(w, http.StatusOK, syncResponse{
		Success: true,
		SDI:     res.Score,
		Tier:    string(res.Tier),
		Trades:  res.Trades,
		New:     res.Inserted,
		Message: res.Message,
	})
}

func (h *Handler) handleScorePreview(w http.ResponseWriter, r *http.Request) {
	var payload scorePayload
	if status, msg, ok := h.decode(w, r, &payload); !ok {
		h.writeError(w, status, msg)
		return
	}

	start := time.Now()
	result := scoring.Calculate(toDomainTrades(payload.Trades))
	h.metrics.ScoreDuration.Observe(time.Since(start).Seconds())

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetScore(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	rec, err := h.scores.GetByAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.logger.Error("get score failed", zap.String("account_id", accountID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.writeJSON(w, http.StatusOK, newScoreResponse(rec))
}

func (h *Handler) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	records, err := h.history.GetByAccount(r.Context(), accountID)
	if err != nil {
		h.logger.Error("get score history failed", zap.String("account_id", accountID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	points := make([]historyPoint, len(records))
	for i, rec := range records {
		points[i] = historyPoint{
			ComputedAt: formatTime(rec),
			SDI:        rec.Result.Score,
			Tier:       rec.Result.Tier,
			Trades:     rec.Result.TotalTrades,
		}
	}

	h.writeJSON(w, http.StatusOK, points)
}

// handleScoreReport renders the latest score as Markdown, or the breakdown
// as CSV with ?format=csv.
func (h *Handler) handleScoreReport(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountID")

	report, err := h.reports.Generate(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.logger.Error("generate report failed", zap.String("account_id", accountID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(reporting.RenderCSV(report.Result.Breakdown)))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(reporting.RenderMarkdown(report)))
}

// decode reads a size-limited JSON body into v.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) (int, string, bool) {
	body := http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, msgTooLarge, false
		}
		return http.StatusBadRequest, msgInvalidJSON, false
	}
	return 0, "", true
}

// instrument records request duration per route and converts panics to 500.
func (h *Handler) instrument(route string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("handler panic", zap.String("route", route), zap.Any("panic", rec))
				if !sw.wrote {
					h.writeError(sw, http.StatusInternalServerError, msgInternal)
				}
			}
			h.metrics.RecordHTTPRequest(route, sw.status, time.Since(start))
		}()

		fn(sw, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

// writeJSON encodes v before writing the status, so an encoding failure
// becomes a logged 500 instead of an empty 200.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response failed", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + msgInternal + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
