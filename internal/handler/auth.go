package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/metrics"
	"github.com/msomdec/edunews/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler. m may be nil.
func NewAuthHandler(auth *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: m}
}

// HandleSignup processes a JSON signup request.
// POST /api/auth/signup
// Request:  {"name":"...","email":"...","password":"..."}
// Response: 201 {"access_token":"...","refresh_token":"...","token_type":"bearer"}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, pair, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, "signup user", err)
		return
	}
	h.metrics.IncUsersCreated()
	slog.Info("user signed up", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, toTokenPairDTO(pair))
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"access_token":"...","refresh_token":"...","token_type":"bearer"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.metrics.IncLoginFailures()
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		writeServiceError(w, "login user", err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenPairDTO(pair))
}

// HandleRefresh exchanges a refresh token for a new token pair.
// POST /api/auth/refresh
// Request:  {"refresh_token":"..."}
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, "refresh tokens", err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenPairDTO(pair))
}

// HandleMe returns the currently authenticated user.
// GET /api/users/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}
