package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/server/metrics"
	"github.com/medinvest/medinvest/internal/server/models"
)

const maxBodyBytes = 1 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type meResponse struct {
	User *models.User `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.metrics.RecordLogin(metrics.LoginInvalid)
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			s.metrics.RecordLogin(metrics.LoginInvalid)
			writeError(w, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, common.ErrorUnauthorized):
			s.metrics.RecordLogin(metrics.LoginRejected)
			s.logger.Info(r.Context(), "login rejected", "email", req.Email)
			writeError(w, http.StatusUnauthorized, "invalid email or password")
		default:
			s.metrics.RecordLogin(metrics.LoginError)
			s.logger.Error(r.Context(), "login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.metrics.RecordLogin(metrics.LoginSuccess)
	s.logger.Info(r.Context(), "logged in", "user_id", res.User.ID)
	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, User: res.User})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	writeJSON(w, http.StatusOK, meResponse{User: p.User})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if err := s.users.Logout(r.Context(), p.Claims); err != nil {
		s.logger.Error(r.Context(), "logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.metrics.RecordLogout()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}
