package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warrnstack/statuspage-web/internal/access"
	"github.com/warrnstack/statuspage-web/internal/domainroute"
	"github.com/warrnstack/statuspage-web/internal/identity"
	"github.com/warrnstack/statuspage-web/internal/models"
	"github.com/warrnstack/statuspage-web/internal/normalize"
	"github.com/warrnstack/statuspage-web/internal/uptime"
)

// Handler exposes the status-page presentation surface over HTTP.
type Handler struct {
	logger       *slog.Logger
	gate         *access.Gate
	identity     identity.Provider
	domains      *domainroute.Resolver
	directoryURL string
	now          func() time.Time
}

// NewHandler constructs the HTTP handler set. now defaults to time.Now and
// exists so tests can pin normalization and period output.
func NewHandler(logger *slog.Logger, gate *access.Gate, idp identity.Provider, domains *domainroute.Resolver, directoryURL string, now func() time.Time) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Handler{
		logger:       logger,
		gate:         gate,
		identity:     idp,
		domains:      domains,
		directoryURL: directoryURL,
		now:          now,
	}
}

// Routes assembles the router: custom-domain rewriting up front, then the
// page route, the JSON API, the auth redirects, and operational endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(h.logger))
	if h.domains != nil {
		r.Use(h.domains.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, h.directoryURL, http.StatusFound)
	})

	r.Get("/sign-in", h.signIn)
	r.Get("/sign-up", h.signUp)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status/{slug}", h.apiStatus)
		r.Get("/incidents/{slug}", h.apiIncidents)
		r.Get("/uptime", h.apiUptime)
		r.Get("/time-periods", h.apiTimePeriods)
	})

	r.Get("/{slug}", h.page)

	return r
}

// page runs the access gate for a browser page view and renders the combined
// payload. All gate outcomes except render become redirects or error views.
func (h *Handler) page(w http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")
	credential := h.identity.Credential(req)

	decision := h.gate.Resolve(req.Context(), slug, req.URL.Path, credential)
	switch decision.Kind {
	case access.DecisionRender:
		h.renderPage(w, decision.Payload)
	case access.DecisionRedirectToSignIn:
		http.Redirect(w, req, h.identity.SignInURL(decision.ReturnTo), http.StatusFound)
	case access.DecisionAccessDenied:
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error": "access_denied",
			"page":  decision.PageName,
		})
	case access.DecisionErrorPage:
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":     "backend_unavailable",
			"retryable": true,
		})
	default:
		http.Redirect(w, req, h.directoryURL, http.StatusFound)
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, payload *models.StatusPageResponse) {
	summary, err := normalize.Status(payload, h.now)
	if err != nil {
		h.writeMalformed(w, err)
		return
	}
	incidents, err := normalize.Incidents(payload)
	if err != nil {
		h.writeMalformed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    summary,
		"incidents": incidents,
	})
}

// statusResponse carries the summary plus the legacy field aliases older
// chart clients still read.
type statusResponse struct {
	models.StatusSummary
	OverallStatus  models.OverallStatus `json:"overallStatus"`
	LastUpdatedISO string               `json:"lastUpdatedISO"`
}

func (h *Handler) apiStatus(w http.ResponseWriter, req *http.Request) {
	h.apiGate(w, req, func(payload *models.StatusPageResponse) {
		summary, err := normalize.Status(payload, h.now)
		if err != nil {
			h.writeMalformed(w, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{
			StatusSummary:  summary,
			OverallStatus:  payload.OverallStatus,
			LastUpdatedISO: summary.LastUpdated.Format(time.RFC3339),
		})
	})
}

func (h *Handler) apiIncidents(w http.ResponseWriter, req *http.Request) {
	h.apiGate(w, req, func(payload *models.StatusPageResponse) {
		incidents, err := normalize.Incidents(payload)
		if err != nil {
			h.writeMalformed(w, err)
			return
		}
		writeJSON(w, http.StatusOK, incidents)
	})
}

// apiGate runs the access gate for a JSON route. API callers get status
// codes instead of redirects, but the unauthenticated/unauthorized split is
// preserved: 401 carries the sign-in URL, 403 is a dead end.
func (h *Handler) apiGate(w http.ResponseWriter, req *http.Request, render func(*models.StatusPageResponse)) {
	slug := chi.URLParam(req, "slug")
	credential := h.identity.Credential(req)

	decision := h.gate.Resolve(req.Context(), slug, "/"+slug, credential)
	switch decision.Kind {
	case access.DecisionRender:
		render(decision.Payload)
	case access.DecisionRedirectToSignIn:
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":     "sign_in_required",
			"signInUrl": h.identity.SignInURL(decision.ReturnTo),
		})
	case access.DecisionAccessDenied:
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error": "access_denied",
			"page":  decision.PageName,
		})
	case access.DecisionErrorPage:
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":     "backend_unavailable",
			"retryable": true,
		})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":        "not_found",
			"directoryUrl": h.directoryURL,
		})
	}
}

func (h *Handler) apiUptime(w http.ResponseWriter, req *http.Request) {
	componentID := req.URL.Query().Get("component")
	if componentID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "component is required"})
		return
	}

	days := uptime.DefaultDays
	if raw := req.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "days must be between 1 and 365"})
			return
		}
		days = parsed
	}

	status := req.URL.Query().Get("status")
	if status == "" {
		status = "operational"
	}

	history := uptime.History(componentID, status, days, h.now())
	writeJSON(w, http.StatusOK, map[string]any{
		"componentId": componentID,
		"days":        days,
		"history":     history,
		"uptime":      uptime.Percentage(history),
	})
}

func (h *Handler) apiTimePeriods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"periods": uptime.Periods(h.now()),
	})
}

func (h *Handler) signIn(w http.ResponseWriter, req *http.Request) {
	http.Redirect(w, req, h.identity.SignInURL(req.URL.Query().Get("return_to")), http.StatusFound)
}

func (h *Handler) signUp(w http.ResponseWriter, req *http.Request) {
	http.Redirect(w, req, h.identity.SignUpURL(req.URL.Query().Get("return_to")), http.StatusFound)
}

func (h *Handler) writeMalformed(w http.ResponseWriter, err error) {
	h.logger.Error("normalization failed", slog.Any("error", err))
	writeJSON(w, http.StatusBadGateway, map[string]any{"error": "malformed_data"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
