package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/imagerepo/internal/middleware"
	"github.com/templui/imagerepo/internal/service"
	"github.com/templui/imagerepo/internal/ui"
	"github.com/templui/imagerepo/internal/ui/pages"
)

type HomeHandler struct {
	contentService *service.ContentService
}

func NewHomeHandler(contentService *service.ContentService) *HomeHandler {
	return &HomeHandler{contentService: contentService}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Page("home")
	if err != nil {
		slog.Error("home page content missing", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	next := middleware.SafeNext(r.URL.Query().Get("next"), "")
	ui.Render(w, r, pages.Home(page, next))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// MethodNotAllowed answers 405 for routes that only accept the given methods
func MethodNotAllowed(allowed ...string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}
