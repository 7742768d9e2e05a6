package routes

import (
	"net/http"

	"github.com/templui/imagerepo/internal/app"
	"github.com/templui/imagerepo/internal/handler"
	"github.com/templui/imagerepo/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.ContentService)
	auth := handler.NewAuthHandler(app.AuthService)
	repo := handler.NewRepoHandler(app.ImageService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Auth (actions are rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, middleware.AuthRateWindow)

	mux.HandleFunc("GET /signup", auth.SignUpPage)
	mux.HandleFunc("POST /signup", rateLimiter(auth.SignUp))
	mux.HandleFunc("GET /signin", auth.SignInPage)
	mux.HandleFunc("POST /signin", rateLimiter(auth.SignIn))
	mux.HandleFunc("POST /signout", auth.SignOut)
	mux.HandleFunc("GET /signout", handler.MethodNotAllowed(http.MethodPost))

	// ============================================================================
	// PROTECTED ROUTES (/repo/*)
	// ============================================================================

	mux.Handle("GET /repo", http.RedirectHandler("/repo/", http.StatusMovedPermanently))
	mux.HandleFunc("GET /repo/{$}", middleware.RequireAuth(repo.RepoPage))
	mux.HandleFunc("POST /repo/{$}", middleware.RequireAuth(repo.Upload))
	mux.HandleFunc("GET /repo/images/{id}", middleware.RequireAuth(repo.ServeImage))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by CSRF for the Secure flag)
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.WithURLPath,
	)

	return handler
}
