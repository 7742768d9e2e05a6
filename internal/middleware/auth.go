package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/templui/imagerepo/internal/ctxkeys"
	"github.com/templui/imagerepo/internal/service"
)

// AuthMiddleware checks the session cookie and adds the user to context if valid
func AuthMiddleware(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil {
				// No cookie, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				// Invalid or expired token, clear cookie and continue
				authService.ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				authService.ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			// User may have been deleted since the token was issued
			user, err := userService.ByID(userID)
			if err != nil {
				authService.ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous requests to the home page, remembering
// where they were headed in ?next=
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// LoginURL builds the redirect target for an anonymous request, e.g.
// "/?next=/repo/". Slashes are left unescaped.
func LoginURL(requestURI string) string {
	return "/?next=" + strings.ReplaceAll(url.QueryEscape(requestURI), "%2F", "/")
}

// SafeNext returns next if it is a local absolute path, otherwise fallback
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
