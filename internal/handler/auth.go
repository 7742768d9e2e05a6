package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/imagerepo/internal/middleware"
	"github.com/templui/imagerepo/internal/service"
	"github.com/templui/imagerepo/internal/ui"
	"github.com/templui/imagerepo/internal/ui/pages"
)

// Messages shown on the sign-up and sign-in forms
const (
	MsgPasswordMismatch   = "Passwords do not match."
	MsgInvalidCredentials = "Invalid username or password. Please choose another one."
	MsgUsernameTaken      = "Username is already used. Please choose another one."
	MsgSignInFailed       = "Given username or password is incorrect."
	MsgGenericError       = "Some error occurred. Kindly try again."
)

// afterAuthPath is where users land after signing up or in
const afterAuthPath = "/repo/"

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.SignUp(""))
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")

	user, err := h.authService.SignUp(username, r.FormValue("password1"), r.FormValue("password2"))
	if err != nil {
		status := http.StatusUnauthorized
		var msg string
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			msg = MsgPasswordMismatch
		case errors.Is(err, service.ErrUsernameTaken):
			msg = MsgUsernameTaken
		case errors.Is(err, service.ErrInvalidCredentials):
			msg = MsgInvalidCredentials
		default:
			slog.Error("sign up failed", "error", err, "username", username)
			status = http.StatusInternalServerError
			msg = MsgGenericError
		}

		if status != http.StatusInternalServerError {
			slog.Warn("sign up rejected", "error", err, "username", username)
		}
		ui.RenderStatus(w, r, status, pages.SignUp(msg))
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session after sign up", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.SignUp(MsgGenericError))
		return
	}

	http.Redirect(w, r, afterAuthPath, http.StatusSeeOther)
}

func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	next := middleware.SafeNext(r.URL.Query().Get("next"), "")
	ui.Render(w, r, pages.SignIn("", next))
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	next := middleware.SafeNext(r.FormValue("next"), "")

	user, err := h.authService.SignIn(username, r.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			slog.Warn("sign in rejected", "username", username)
			ui.RenderStatus(w, r, http.StatusUnauthorized, pages.SignIn(MsgSignInFailed, next))
			return
		}
		slog.Error("sign in failed", "error", err, "username", username)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.SignIn(MsgGenericError, next))
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.SignIn(MsgGenericError, next))
		return
	}

	slog.Info("user signed in", "user_id", user.ID)
	http.Redirect(w, r, middleware.SafeNext(next, afterAuthPath), http.StatusSeeOther)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
