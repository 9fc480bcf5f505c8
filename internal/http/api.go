package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/micro-watch/host-presence/internal/model"
)

// Engine is the presence engine view the API needs.
type Engine interface {
	State() model.Presence
	RunState() model.RunState
	Host() string
	TriggerCheck()
}

// History lists recorded transitions. May be absent when the history
// store is disabled.
type History interface {
	ListRecent(ctx context.Context, limit int) ([]model.Transition, error)
}

// Launcher starts an interactive SSH session.
type Launcher interface {
	Launch(address string) error
}

type API struct {
	engine   Engine
	history  History
	launcher Launcher
	hub      *Hub
	headless bool
	logger   *slog.Logger
}

func New(engine Engine, history History, launcher Launcher, hub *Hub, headless bool, logger *slog.Logger) *API {
	return &API{
		engine:   engine,
		history:  history,
		launcher: launcher,
		hub:      hub,
		headless: headless,
		logger:   logger,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(20 * time.Second))

	r.Get("/healthz", a.health)
	r.Route("/api", func(api chi.Router) {
		api.Get("/status", a.status)
		api.Get("/events", a.events)
		api.Post("/check", a.check)
		api.Post("/session", a.session)
	})
	r.Get("/ws", a.hub.ServeWS)
	return r
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"engine": a.engine.RunState().String(),
	})
}

func (a *API) status(w http.ResponseWriter, _ *http.Request) {
	presence := a.engine.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"host":     a.engine.Host(),
		"presence": presence,
		"engine":   a.engine.RunState().String(),
	})
}

func (a *API) events(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []model.Transition{}})
		return
	}
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		if value > 500 {
			value = 500
		}
		limit = value
	}
	items, err := a.history.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) check(w http.ResponseWriter, _ *http.Request) {
	a.engine.TriggerCheck()
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

func (a *API) session(w http.ResponseWriter, _ *http.Request) {
	if a.headless {
		writeError(w, http.StatusForbidden, "headless_mode", "Session launch is disabled in headless mode")
		return
	}
	presence := a.engine.State()
	if presence.Phase != model.PhaseFound {
		writeError(w, http.StatusConflict, "host_not_found", "Host is not currently reachable")
		return
	}
	if err := a.launcher.Launch(presence.Address); err != nil {
		writeError(w, http.StatusInternalServerError, "launch_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true, "address": presence.Address})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
