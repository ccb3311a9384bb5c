package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"gite/internal/reservations/service"
	"gite/pkg/availability"
	apperrors "gite/pkg/errors"
	httputil "gite/pkg/http"
	"gite/pkg/logger"
	"gite/pkg/middleware"
	"gite/pkg/model"
)

type ReservationHandler struct {
	service service.ReservationService
	guard   *middleware.AdminGuard
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, guard *middleware.AdminGuard, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type availabilityCheckResponse struct {
	Date     string `json:"date"`
	Reserved bool   `json:"reserved"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var res model.Reservation
	if err := httputil.DecodeJSON(r, &res); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &res); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, res); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reservations, err := h.service.List(r.Context(), "")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteList(w, reservations, len(reservations)); err != nil {
		h.log.Error("failed to write list response", "handler", "GetAll", "operation", "WriteList", "error", err)
	}
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ranges, err := h.service.ConfirmedRanges(r.Context())
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteList(w, ranges, len(ranges)); err != nil {
		h.log.Error("failed to write list response", "handler", "Availability", "operation", "WriteList", "error", err)
	}
}

func (h *ReservationHandler) CheckDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := r.URL.Query().Get("date")
	day, err := model.ParseDate(raw)
	if err != nil {
		h.writeError(w, "CheckDate", apperrors.InvalidInput(err.Error()))
		return
	}

	reserved, err := h.service.IsReserved(r.Context(), day)
	if err != nil {
		h.writeError(w, "CheckDate", err)
		return
	}

	if err := httputil.WriteSuccess(w, availabilityCheckResponse{
		Date:     model.FormatDate(day),
		Reserved: reserved,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckDate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reservations, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, "AdminList", err)
		return
	}

	if err := httputil.WriteList(w, reservations, len(reservations)); err != nil {
		h.log.Error("failed to write list response", "handler", "AdminList", "operation", "WriteList", "error", err)
	}
}

func (h *ReservationHandler) AdminCreate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var res model.Reservation
	if err := httputil.DecodeJSON(r, &res); err != nil {
		h.writeError(w, "AdminCreate", err)
		return
	}

	if err := h.service.CreateByAdmin(r.Context(), &res); err != nil {
		h.writeError(w, "AdminCreate", err)
		return
	}
	h.audit(r, "create", res.ID)

	if err := httputil.WriteCreated(w, res); err != nil {
		h.log.Error("failed to write created response", "handler", "AdminCreate", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, res); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.ReservationStatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, update.Status); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}
	h.audit(r, "update_status", id, "status", update.Status)

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Replace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var res model.Reservation
	if err := httputil.DecodeJSON(r, &res); err != nil {
		h.writeError(w, "Replace", err)
		return
	}

	if err := h.service.Replace(r.Context(), id, &res); err != nil {
		h.writeError(w, "Replace", err)
		return
	}
	h.audit(r, "replace", id)

	if err := httputil.WriteSuccess(w, res); err != nil {
		h.log.Error("failed to write success response", "handler", "Replace", "operation", "WriteSuccess", "error", err)
	}
}

// Calendar returns per-day events, optionally limited by from/to query dates.
func (h *ReservationHandler) Calendar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	var from, to time.Time
	var err error
	if v := query.Get("from"); v != "" {
		if from, err = model.ParseDate(v); err != nil {
			h.writeError(w, "Calendar", apperrors.InvalidInput(err.Error()))
			return
		}
	}
	if v := query.Get("to"); v != "" {
		if to, err = model.ParseDate(v); err != nil {
			h.writeError(w, "Calendar", apperrors.InvalidInput(err.Error()))
			return
		}
	}

	days, err := h.service.Calendar(r.Context())
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}
	days = availability.Within(days, from, to)

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "Calendar", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) audit(r *http.Request, action, id string, args ...any) {
	admin, _ := middleware.AdminFromContext(r.Context())
	attrs := []any{"action", action, "reservation_id", id}
	if admin != nil {
		attrs = append(attrs, "admin", admin.Email)
	}
	h.log.Info("Admin reservation change", append(attrs, args...)...)
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/reservations", h.Create)
	router.GET("/api/reservations", h.GetAll)
	router.GET("/api/availability", h.Availability)
	router.GET("/api/availability/check", h.CheckDate)

	router.GET("/api/admin/reservations", h.guard.Require(h.AdminList))
	router.POST("/api/admin/reservations", h.guard.Require(h.AdminCreate))
	router.GET("/api/admin/reservations/id/:id", h.guard.Require(h.GetByID))
	router.PATCH("/api/admin/reservations/id/:id/status", h.guard.Require(h.UpdateStatus))
	router.PUT("/api/admin/reservations/id/:id", h.guard.Require(h.Replace))
	router.GET("/api/admin/calendar", h.guard.Require(h.Calendar))
}
