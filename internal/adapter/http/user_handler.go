package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/adapter/http/session"
	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

// UserService is the slice of the user usecase the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type UserHandler struct {
	service  UserService
	sessions *session.Manager
	logger   *logger.Logger
}

func NewUserHandler(service UserService, sm *session.Manager, log *logger.Logger) *UserHandler {
	return &UserHandler{service: service, sessions: sm, logger: log.Named("user_handler")}
}

// Signup registers the user and logs them straight in, Express-style.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "Invalid form submission.", "/signup")
		return
	}

	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if username == "" || email == "" || password == "" {
		h.flashAndRedirect(w, r, "All fields are required.", "/signup")
		return
	}

	user, err := h.service.Register(r.Context(), username, email, password)
	if errors.Is(err, domain.ErrEmailTaken) {
		h.flashAndRedirect(w, r, "A user with the given email is already registered", "/signup")
		return
	}
	if err != nil {
		h.logger.Error("signup failed", zap.String("email", email), zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.SetCurrentUser(w, r, user.ID); err != nil {
		h.logger.Error("failed to establish session", zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}
	h.sessions.AddFlash(w, r, session.FlashSuccess, "Welcome to Wanderstay!")
	http.Redirect(w, r, "/listings", http.StatusSeeOther)
}

// Login checks the credentials, sets the session cookie and hands the
// token back in a header for non-browser clients.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "Invalid form submission.", "/login")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, token, err := h.service.Login(r.Context(), email, password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.flashAndRedirect(w, r, "Invalid email or password.", "/login")
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.String("email", email), zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.SetCurrentUser(w, r, user.ID); err != nil {
		h.logger.Error("failed to establish session", zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}
	w.Header().Set("X-Auth-Token", token)
	h.sessions.AddFlash(w, r, session.FlashSuccess, "Welcome back to Wanderstay!")
	http.Redirect(w, r, "/listings", http.StatusSeeOther)
}

// Logout drops the session user.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearCurrentUser(w, r); err != nil {
		h.logger.Error("failed to clear session", zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}
	h.sessions.AddFlash(w, r, session.FlashSuccess, "You are logged out!")
	http.Redirect(w, r, "/listings", http.StatusSeeOther)
}

func (h *UserHandler) flashAndRedirect(w http.ResponseWriter, r *http.Request, message, target string) {
	h.sessions.AddFlash(w, r, session.FlashError, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
