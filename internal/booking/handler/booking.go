package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gite/internal/booking/service"
	httputil "gite/pkg/http"
	"gite/pkg/logger"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// Submit answers 201 when the reservation was stored and 202 when the guest
// request was valid but the store refused it; the body says which.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	result := h.service.Submit(r.Context(), req)
	switch result.Outcome {
	case service.OutcomePersisted:
		if err := httputil.WriteCreated(w, result); err != nil {
			h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
		}
	case service.OutcomeNotPersisted:
		if err := httputil.WriteAccepted(w, result); err != nil {
			h.log.Error("failed to write accepted response", "handler", "Submit", "operation", "WriteAccepted", "error", err)
		}
	default:
		h.writeError(w, "Submit", result.Err)
	}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	quote, err := h.service.Quote(query.Get("check_in"), query.Get("check_out"))
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, quote); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Plans(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	catalogue := h.service.Plans()
	if err := httputil.WriteList(w, catalogue, len(catalogue)); err != nil {
		h.log.Error("failed to write list response", "handler", "Plans", "operation", "WriteList", "error", err)
	}
}

func (h *BookingHandler) Property(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.Property()); err != nil {
		h.log.Error("failed to write success response", "handler", "Property", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Submit)
	router.GET("/api/quote", h.Quote)
	router.GET("/api/plans", h.Plans)
	router.GET("/api/property", h.Property)
}
