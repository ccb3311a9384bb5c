package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"gite/internal/gallery/service"
	apperrors "gite/pkg/errors"
	httputil "gite/pkg/http"
	"gite/pkg/logger"
	"gite/pkg/middleware"
	"gite/pkg/model"
)

const fileField = "file"

// multipartMemory bounds the in-memory part of a parsed form; larger uploads
// spill to temp files that removeForm deletes.
var multipartMemory int64 = 8 << 20

type GalleryHandler struct {
	service service.GalleryService
	guard   *middleware.AdminGuard
	log     *logger.Logger
}

func NewGalleryHandler(service service.GalleryService, guard *middleware.AdminGuard, log *logger.Logger) *GalleryHandler {
	return &GalleryHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *GalleryHandler) ListFeatured(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, "ListFeatured", true)
}

func (h *GalleryHandler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, "AdminList", false)
}

func (h *GalleryHandler) list(w http.ResponseWriter, r *http.Request, name string, featuredOnly bool) {
	images, err := h.service.List(r.Context(), featuredOnly)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WriteList(w, images, len(images)); err != nil {
		h.log.Error("failed to write list response", "handler", name, "operation", "WriteList", "error", err)
	}
}

// Create takes a multipart form with the image under "file" and metadata as
// plain form fields.
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Expected a multipart form with an image file"))
		return
	}
	defer h.removeForm(r, "Create")

	upload, closeFile, err := formUpload(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}
	if upload == nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Image file is required"))
		return
	}
	defer closeFile()

	meta := model.GalleryImageMeta{
		Title:    r.FormValue("title"),
		AltText:  r.FormValue("alt_text"),
		Category: r.FormValue("category"),
		Featured: parseBool(r.FormValue("featured")),
	}
	if v := r.FormValue("sort_order"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, "Create", apperrors.InvalidInput("sort_order must be an integer"))
			return
		}
		meta.SortOrder = n
	}

	img, err := h.service.Upload(r.Context(), *upload, meta)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}
	h.audit(r, "upload", img.ID)

	if err := httputil.WriteCreated(w, img); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *GalleryHandler) removeForm(r *http.Request, name string) {
	if r.MultipartForm == nil {
		return
	}
	if err := r.MultipartForm.RemoveAll(); err != nil {
		h.log.Warn("failed to remove multipart temp files", "handler", name, "error", err)
	}
}

// Update accepts a JSON partial update, or a multipart form whose optional
// "file" replaces the binary.
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var (
		update      model.GalleryImageUpdate
		replacement *service.Upload
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), middleware.ContentTypeMultipart) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			h.writeError(w, "Update", apperrors.InvalidInput("Malformed multipart form"))
			return
		}
		defer h.removeForm(r, "Update")
		u, err := formUpdate(r)
		if err != nil {
			h.writeError(w, "Update", err)
			return
		}
		update = *u

		upload, closeFile, err := formUpload(r)
		if err != nil {
			h.writeError(w, "Update", err)
			return
		}
		if upload != nil {
			defer closeFile()
			replacement = upload
		}
	} else if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	img, err := h.service.Update(r.Context(), id, &update, replacement)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.audit(r, "update", id, "replaced_binary", replacement != nil)

	if err := httputil.WriteSuccess(w, img); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	h.audit(r, "delete", id)

	httputil.WriteNoContent(w)
}

func (h *GalleryHandler) audit(r *http.Request, action, id string, args ...any) {
	admin, _ := middleware.AdminFromContext(r.Context())
	attrs := []any{"action", action, "image_id", id}
	if admin != nil {
		attrs = append(attrs, "admin", admin.Email)
	}
	h.log.Info("Admin gallery change", append(attrs, args...)...)
}

func (h *GalleryHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *GalleryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/gallery", h.ListFeatured)

	router.GET("/api/admin/gallery", h.guard.Require(h.AdminList))
	router.POST("/api/admin/gallery", h.guard.Require(h.Create))
	router.PATCH("/api/admin/gallery/id/:id", h.guard.Require(h.Update))
	router.DELETE("/api/admin/gallery/id/:id", h.guard.Require(h.Delete))
}

// formUpload returns nil when the form carries no file.
func formUpload(r *http.Request) (*service.Upload, func(), error) {
	file, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, apperrors.InvalidInput("Unreadable image file")
	}
	return &service.Upload{
		File:        file,
		Filename:    header.Filename,
		ContentType: contentType(header),
	}, func() { _ = file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	ct := header.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

func formUpdate(r *http.Request) (*model.GalleryImageUpdate, error) {
	var u model.GalleryImageUpdate
	form := r.MultipartForm.Value

	if v, ok := form["title"]; ok && len(v) > 0 {
		u.Title = &v[0]
	}
	if v, ok := form["alt_text"]; ok && len(v) > 0 {
		u.AltText = &v[0]
	}
	if v, ok := form["category"]; ok && len(v) > 0 {
		u.Category = &v[0]
	}
	if v, ok := form["featured"]; ok && len(v) > 0 {
		b := parseBool(v[0])
		u.Featured = &b
	}
	if v, ok := form["sort_order"]; ok && len(v) > 0 {
		n, err := strconv.Atoi(v[0])
		if err != nil {
			return nil, apperrors.InvalidInput("sort_order must be an integer")
		}
		u.SortOrder = &n
	}
	return &u, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
