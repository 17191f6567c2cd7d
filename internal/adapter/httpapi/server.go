// Package httpapi exposes the task dispatcher over HTTP and WebSocket.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/gorilla/websocket"

	"agent-daemon/internal/application/port/input"
	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/domain/entity"
)

const serviceName = "agent-daemon"

// httplog keeps its options in package globals, so the access logger is
// configured once per process and shared by every Server.
var (
	accessLogOnce sync.Once
	accessLog     func(http.Handler) http.Handler
)

func accessLogger() func(http.Handler) http.Handler {
	accessLogOnce.Do(func() {
		logger := httplog.NewLogger(serviceName, httplog.Options{
			JSON:    true,
			Concise: true,
		})
		accessLog = httplog.RequestLogger(logger)
	})
	return accessLog
}

// skipPaths applies mw to every request except those for the listed paths.
func skipPaths(mw func(http.Handler) http.Handler, paths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(paths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}

type runRequest struct {
	Task string `json:"task"`
	// UseBrowser is optional; nil means the server decides from the task text.
	UseBrowser *bool `json:"use_browser"`
}

type executeRequest struct {
	Description string `json:"description"`
}

type Server struct {
	dispatcher   input.TaskDispatcher
	needsBrowser func(string) bool
	metrics      http.Handler
	logger       output.LoggerPort
	upgrader     websocket.Upgrader
	router       chi.Router
}

// NewServer builds the router. metrics may be nil, in which case /metrics is
// not mounted.
func NewServer(
	dispatcher input.TaskDispatcher,
	needsBrowser func(string) bool,
	metrics http.Handler,
	logger output.LoggerPort,
) *Server {
	s := &Server{
		dispatcher:   dispatcher,
		needsBrowser: needsBrowser,
		metrics:      metrics,
		logger:       logger,
		upgrader: websocket.Upgrader{
			// the daemon binds to loopback; any origin is accepted
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	// hijacked WebSocket connections have no status for the access log
	r.Use(skipPaths(accessLogger(), "/ws"))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/agent/run", s.handleRun)
	r.Post("/agent/execute", s.handleExecute)
	r.Get("/ws", s.handleWebSocket)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Agent daemon is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": serviceName})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	useBrowser := s.needsBrowser != nil && s.needsBrowser(req.Task)
	if req.UseBrowser != nil {
		useBrowser = *req.UseBrowser
	}

	s.logger.Info("Run requested",
		"request_id", middleware.GetReqID(r.Context()),
		"use_browser", useBrowser,
	)
	writeJSON(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), req.Task, useBrowser))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), req.Description, true))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("WebSocket closed", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		reply := fmt.Sprintf("Agent processed: %s", msg)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			s.logger.Debug("WebSocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Warn("Malformed request body", "error", err)
	writeJSON(w, http.StatusBadRequest, entity.ErrorResult(fmt.Sprintf("invalid request body: %v", err)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
