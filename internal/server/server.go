package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medtrack/internal/app"
	"medtrack/internal/druginfo"
	"medtrack/internal/ratelimit"
	"medtrack/internal/util"
	"medtrack/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App   *app.App
	Drugs *druginfo.Client

	RedisAddr     string
	RedisPassword string

	RegisterRateLimitPerMinute int
	LoginRateLimitPerMinute    int
}

// Server exposes the HTTP API.
type Server struct {
	app   *app.App
	drugs *druginfo.Client
	mux   *http.ServeMux

	registerLimiter *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured. Rate limiting is only
// active when Redis is configured; without it the auth endpoints are
// unthrottled.
func New(cfg Config) (*Server, error) {
	s := &Server{
		app:   cfg.App,
		drugs: cfg.Drugs,
		mux:   http.NewServeMux(),
	}
	if cfg.RedisAddr != "" && cfg.RegisterRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "medtrack:ratelimit:register", cfg.RegisterRateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init register limiter: %w", err)
		}
		s.registerLimiter = limiter
	}
	if cfg.RedisAddr != "" && cfg.LoginRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "medtrack:ratelimit:login", cfg.LoginRateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init login limiter: %w", err)
		}
		s.loginLimiter = limiter
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler with the shared middleware chain.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.Handle("/api/users/me", s.authenticated(s.handleMe))

	// medications
	s.mux.Handle("/api/medications", s.authenticated(s.handleMedications))
	s.mux.Handle("/api/medications/", s.authenticated(s.handleMedicationByID))

	// moods
	s.mux.Handle("/api/moods", s.authenticated(s.handleMoods))

	// analytics
	s.mux.Handle("/api/analytics/trends", s.authenticated(s.handleMoodTrends))
	s.mux.Handle("/api/analytics/effectiveness", s.authenticated(s.handleEffectiveness))

	// drug label lookup
	s.mux.Handle("/api/druginfo", s.authenticated(s.handleDrugInfo))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.User{}, false
	}
	return s.app.UserFromToken(token)
}

// auth handlers
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !allow(s.registerLimiter, r) {
		slog.Warn("security_event", "event", "register_rate_limited", "ip", util.ClientIP(r))
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}
	var req authRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Register(req.Username, req.Password)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	slog.Info("security_event", "event", "user_registered", "user_id", user.ID, "ip", util.ClientIP(r))
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !allow(s.loginLimiter, r) {
		slog.Warn("security_event", "event", "login_rate_limited", "ip", util.ClientIP(r))
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}
	var req authRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			slog.Warn("security_event", "event", "login_failed", "username", req.Username, "ip", util.ClientIP(r))
		}
		s.writeAppError(w, err)
		return
	}
	slog.Info("security_event", "event", "login_succeeded", "user_id", user.ID, "ip", util.ClientIP(r))
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := s.app.Logout(token); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// medication handlers
func (s *Server) handleMedications(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		meds, err := s.app.ListMedications(user.ID)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, meds)
	case http.MethodPost:
		var req app.MedicationInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		med, err := s.app.CreateMedication(user.ID, req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, med)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleMedicationByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/medications/")
	if raw == "" || strings.Contains(raw, "/") {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid medication id")
		return
	}
	switch r.Method {
	case http.MethodGet:
		med, err := s.app.GetMedication(user.ID, id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, med)
	case http.MethodPatch, http.MethodPut:
		var req app.MedicationUpdate
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		med, err := s.app.UpdateMedication(user.ID, id, req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, med)
	case http.MethodDelete:
		if err := s.app.DeleteMedication(user.ID, id); err != nil {
			s.writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		methodNotAllowed(w)
	}
}

// mood handlers
func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		moods, err := s.app.ListMoods(user.ID)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, moods)
	case http.MethodPost:
		var req app.MoodInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		mood, err := s.app.CreateMood(user.ID, req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, mood)
	default:
		methodNotAllowed(w)
	}
}

// analytics handlers
func (s *Server) handleMoodTrends(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	trends, err := s.app.MoodTrends(user.ID)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handleEffectiveness(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.MedicationEffectiveness(user.ID)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// drug info handler
func (s *Server) handleDrugInfo(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	// Lookup failures are reported, never surfaced as a server error.
	if s.drugs == nil {
		writeJSON(w, http.StatusOK, drugInfoResponse{Found: false})
		return
	}
	info, found := s.drugs.Search(r.Context(), name)
	if !found {
		writeJSON(w, http.StatusOK, drugInfoResponse{Found: false})
		return
	}
	writeJSON(w, http.StatusOK, drugInfoResponse{Found: true, Info: &info})
}

// writeAppError maps application errors onto the HTTP error contract.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, app.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// allow treats an unconfigured limiter as pass-through.
func allow(limiter *ratelimit.FixedWindowLimiter, r *http.Request) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(util.ClientIP(r))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type drugInfoResponse struct {
	Found bool             `json:"found"`
	Info  *domain.DrugInfo `json:"info,omitempty"`
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		slog.Warn("missing bearer prefix", "path", r.URL.Path)
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		slog.Warn("empty bearer token", "path", r.URL.Path)
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
