// Package httpapi exposes the REST surface: authentication, the application
// lifecycle, the state catalog, statistics, the event audit trail, and the
// websocket notification channel.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/huntboard/huntboard/internal/app/metrics"
	applicationssvc "github.com/huntboard/huntboard/internal/app/services/applications"
	"github.com/huntboard/huntboard/internal/app/services/catalog"
	statisticssvc "github.com/huntboard/huntboard/internal/app/services/statistics"
	userssvc "github.com/huntboard/huntboard/internal/app/services/users"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/internal/middleware"
	"github.com/huntboard/huntboard/pkg/logger"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Applications *applicationssvc.Service
	Catalog      *catalog.Service
	Users        *userssvc.Service
	Statistics   *statisticssvc.Service
	Events       storage.EventStore
	Hub          *Hub

	JWTSecret     []byte
	AuditFilePath string
	Log           *logger.Logger

	// RateLimit, when set, runs after authentication so limiters can key on
	// the authenticated user rather than only the client address.
	RateLimit func(http.Handler) http.Handler
}

type handler struct {
	deps  Deps
	audit *auditTrail
	log   *logger.Logger
}

// Paths that skip bearer authentication.
var publicPaths = []string{
	"/healthz",
	"/metrics",
	"/auth/register",
	"/auth/login",
}

// NewHandler builds the API router with auth, metrics, and audit wired in.
func NewHandler(deps Deps) (http.Handler, error) {
	log := deps.Log
	if log == nil {
		log = logger.NewDefault("httpapi")
	}

	sink, err := newJSONLAuditSink(deps.AuditFilePath)
	if err != nil {
		return nil, err
	}
	h := &handler{
		deps:  deps,
		audit: newAuditTrail(200, sink),
		log:   log,
	}

	auth := middleware.NewAuthMiddleware(deps.JWTSecret, log, publicPaths)

	r := chi.NewRouter()
	r.Use(middleware.NewRequestLogger(log).Handler)
	r.Use(metrics.InstrumentHandler)
	r.Use(auth.Handler)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit)
	}
	r.Use(h.auditMiddleware)

	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/system/status", h.systemStatus)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Get("/me", h.me)
		r.Post("/password", h.changePassword)
	})

	r.Route("/states", func(r chi.Router) {
		r.Get("/", h.listStates)
		r.Post("/", h.createState)
		r.Get("/{id}", h.getState)
		r.Put("/{id}", h.updateState)
		r.Delete("/{id}", h.deactivateState)
		r.Post("/{id}/reactivate", h.reactivateState)
	})

	r.Route("/applications", func(r chi.Router) {
		r.Get("/", h.listApplications)
		r.Post("/", h.createApplication)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getApplication)
			r.Patch("/", h.updateApplication)
			r.Delete("/", h.deactivateApplication)
			r.Post("/state", h.changeApplicationState)
			r.Post("/reject", h.rejectApplication)
			r.Post("/accept", h.acceptApplication)
			r.Post("/archive", h.archiveApplication)
			r.Post("/unarchive", h.unarchiveApplication)
			r.Post("/reactivate", h.reactivateApplication)
			r.Post("/contacts", h.addContact)
			r.Delete("/contacts/{contactID}", h.removeContact)
			r.Post("/appointments", h.addAppointment)
		})
	})

	r.Get("/statistics", h.getStatistics)
	r.Get("/events", h.listEvents)
	r.Get("/audit", h.listAudit)

	if deps.Hub != nil {
		r.Get("/ws/notifications", deps.Hub.ServeHTTP)
	}

	return r, nil
}

func (h *handler) auditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := timeNow()
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entity, entityID := entityFromPath(r.URL.Path)
		h.audit.record(auditRecord{
			At:         start,
			Actor:      middleware.UserID(r.Context()),
			Method:     r.Method,
			Path:       r.URL.Path,
			Entity:     entity,
			EntityID:   entityID,
			Status:     rec.status,
			DurationMS: time.Since(start).Milliseconds(),
			RemoteAddr: r.RemoteAddr,
		})
	})
}

func (h *handler) listAudit(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 0)
	actor := r.URL.Query().Get("actor")
	writeJSON(w, http.StatusOK, h.audit.recent(limit, actor))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// writeServiceError maps service and storage errors onto HTTP statuses.
// Violation errors surface the individual violations for the client.
func (h *handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *applicationssvc.ViolationError
	switch {
	case errors.As(err, &verr):
		writeViolations(w, verr)
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, storage.ErrStaleAggregate):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, userssvc.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err)
	default:
		writeError(w, http.StatusBadRequest, err)
	}
}

func writeViolations(w http.ResponseWriter, verr *applicationssvc.ViolationError) {
	type violationPayload struct {
		Kind    string `json:"kind"`
		Field   string `json:"field,omitempty"`
		Message string `json:"message"`
	}
	out := struct {
		Error      string             `json:"error"`
		Violations []violationPayload `json:"violations"`
	}{Error: verr.Error()}
	for _, v := range verr.Violations {
		out.Violations = append(out.Violations, violationPayload{
			Kind:    string(v.Kind),
			Field:   v.Field,
			Message: v.Message,
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, out)
}

func timeNow() time.Time {
	return time.Now().UTC()
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
