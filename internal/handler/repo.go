package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/imagerepo/internal/ctxkeys"
	"github.com/templui/imagerepo/internal/service"
	"github.com/templui/imagerepo/internal/ui"
	"github.com/templui/imagerepo/internal/ui/pages"
	"github.com/templui/imagerepo/internal/validation"
)

// maxUploadMemory is how much of a multipart body is kept in memory
const maxUploadMemory = 8 << 20

type RepoHandler struct {
	imageService *service.ImageService
}

func NewRepoHandler(imageService *service.ImageService) *RepoHandler {
	return &RepoHandler{imageService: imageService}
}

func (h *RepoHandler) RepoPage(w http.ResponseWriter, r *http.Request) {
	h.renderListing(w, r, http.StatusOK, "")
}

// Upload stores one image. Invalid files are ignored and the listing is
// shown again without a message.
func (h *RepoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		slog.Warn("failed to parse upload form", "error", err, "user_id", user.ID)
		h.renderListing(w, r, http.StatusOK, "")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		slog.Warn("upload without image", "error", err, "user_id", user.ID)
		h.renderListing(w, r, http.StatusOK, "")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	mimeType, err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		slog.Warn("invalid image upload", "error", err, "user_id", user.ID, "filename", header.Filename)
		h.renderListing(w, r, http.StatusOK, "")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read upload", "error", err, "user_id", user.ID)
		h.renderListing(w, r, http.StatusInternalServerError, MsgGenericError)
		return
	}

	_, err = h.imageService.Upload(r.Context(), user, service.Upload{
		Filename: header.Filename,
		MimeType: mimeType,
		Data:     data,
	})
	if err != nil {
		slog.Error("failed to upload image", "error", err, "user_id", user.ID)
		h.renderListing(w, r, http.StatusInternalServerError, MsgGenericError)
		return
	}

	h.renderListing(w, r, http.StatusOK, "")
}

// ServeImage sends one of the user's images. Other users' images are 404.
func (h *RepoHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	imageID := r.PathValue("id")

	image, err := h.imageService.ByOwner(user.ID, imageID)
	if err != nil {
		h.imageError(w, r, err, imageID)
		return
	}

	url, ok := h.imageService.PresignedURL(image)
	if ok {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	_, content, err := h.imageService.Open(user.ID, imageID)
	if err != nil {
		h.imageError(w, r, err, imageID)
		return
	}
	defer func() {
		closeErr := content.Close()
		if closeErr != nil {
			slog.Error("failed to close image", "error", closeErr)
		}
	}()

	w.Header().Set("Content-Type", image.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(image.Size, 10))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	_, err = io.Copy(w, content)
	if err != nil {
		slog.Warn("failed to stream image", "error", err, "image_id", imageID)
	}
}

func (h *RepoHandler) imageError(w http.ResponseWriter, r *http.Request, err error, imageID string) {
	if errors.Is(err, service.ErrImageNotFound) {
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}
	slog.Error("failed to load image", "error", err, "image_id", imageID)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// renderListing shows the current state of the user's repo. When the
// listing itself cannot be loaded the page falls back to the bare upload form.
func (h *RepoHandler) renderListing(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	user := ctxkeys.User(r.Context())

	listing, err := h.imageService.Listing(user.ID)
	if err != nil {
		slog.Error("failed to list images", "error", err, "user_id", user.ID)
		listing = &service.Listing{CanUpload: true}
		status = http.StatusInternalServerError
		errMsg = MsgGenericError
	}

	ui.RenderStatus(w, r, status, pages.Repo(listing, errMsg))
}
