package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"lezat-lumer/internal/app"
	"lezat-lumer/internal/catalog"
	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/metrics"
	"lezat-lumer/internal/payment"

	"go.uber.org/zap"
)

const maxBodyBytes = 16 << 10

type Sessions interface {
	Dispatch(ctx context.Context, sessionID string, cmd app.Command) (app.View, error)
	View(ctx context.Context, sessionID string) (app.View, error)
}

// HealthCheck reports whether a dependency (e.g. the cart storage) is reachable.
type HealthCheck func(ctx context.Context) error

// StrictLimiter meters the commands that hand off to WhatsApp or the clipboard.
type StrictLimiter interface {
	AllowStrict(r *http.Request) bool
}

type Handler struct {
	sessions Sessions
	catalog  *catalog.Catalog
	metrics  *metrics.Registry
	health   HealthCheck
	strict   StrictLimiter
}

func NewHandler(sessions Sessions, c *catalog.Catalog, reg *metrics.Registry, health HealthCheck) *Handler {
	return &Handler{sessions: sessions, catalog: c, metrics: reg, health: health}
}

// WithStrictLimiter sets the limiter consulted for strict command kinds.
func (h *Handler) WithStrictLimiter(l StrictLimiter) *Handler {
	h.strict = l
	return h
}

type commandError struct {
	Error string    `json:"error"`
	Field string    `json:"field,omitempty"`
	View  *app.View `json:"view,omitempty"`
}

type menuResponse struct {
	Items   []catalog.Item  `json:"items"`
	Options catalog.Options `json:"options"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "OK", http.StatusOK
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			logger.FromCtx(r.Context()).Warn("health check failed", zap.Error(err))
			status, code = "DEGRADED", http.StatusServiceUnavailable
		}
	}

	body := map[string]interface{}{"status": status}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	WriteJSON(w, r, code, body)
}

func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, menuResponse{
		Items:   h.catalog.ByCategory(r.URL.Query().Get("category")),
		Options: h.catalog.Options(),
	})
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	sessionID := logger.SessionIDFrom(r.Context())
	if sessionID == "" {
		WriteJSONError(w, "missing session", http.StatusUnauthorized)
		return
	}

	view, err := h.sessions.View(r.Context(), sessionID)
	if err != nil {
		WriteJSONError(w, err.Error(), StatusFor(err))
		return
	}
	WriteJSON(w, r, http.StatusOK, view)
}

func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := logger.SessionIDFrom(ctx)
	if sessionID == "" {
		WriteJSONError(w, "missing session", http.StatusUnauthorized)
		return
	}

	var cmd app.Command
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		WriteJSONError(w, ErrMalformedBody.Error(), http.StatusBadRequest)
		return
	}
	if err := cmd.Validate(); err != nil {
		WriteJSONError(w, err.Error(), StatusFor(err))
		return
	}
	if cmd.Kind.Strict() && h.strict != nil && !h.strict.AllowStrict(r) {
		w.Header().Set("Retry-After", "1")
		WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	view, err := h.sessions.Dispatch(ctx, sessionID, cmd)
	if err == nil {
		WriteJSON(w, r, http.StatusOK, view)
		return
	}

	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		logger.FromCtx(ctx).Error("command failed", zap.String("kind", string(cmd.Kind)), zap.Error(err))
	}

	body := commandError{Error: err.Error()}
	var ve *payment.ValidationError
	if errors.As(err, &ve) {
		body.Error = ve.Message
		body.Field = ve.Field
	}
	if view.SessionID != "" {
		body.View = &view
	}
	WriteJSON(w, r, code, body)
}
