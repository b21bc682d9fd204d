package adaptor

import (
	"errors"
	"net/http"

	"lawn-booking/internal/dto/request"
	"lawn-booking/internal/usecase"
	"lawn-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ListBookings handles GET /bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, r, "success", bookings)
}

// CreateBooking handles POST /bookings/create-booking
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := utils.DecodeStrict(r.Body, &req); err != nil {
		utils.ResponseBadRequest(w, r, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, r, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "create booking")
		return
	}

	utils.ResponseCreated(w, r, "Booking successfully created!", booking)
}

// GetBooking handles GET /bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, r, "success", booking)
}

// UpdatePaymentStatus handles PUT /bookings/update/{id}
func (h *BookingHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePaymentStatusRequest
	if err := utils.DecodeStrict(r.Body, &req); err != nil {
		utils.ResponseBadRequest(w, r, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, r, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "update payment status")
		return
	}

	utils.ResponseSuccess(w, r, "Payment status updated successfully!", booking)
}

// DeleteBooking handles DELETE /bookings/{id}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, r, "Booking deleted successfully!", nil)
}

// CheckAvailability handles GET /bookings/availability
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.AvailabilityRequest{
		StartDate:   query.Get("startDate"),
		EndDate:     query.Get("endDate"),
		EventTiming: query.Get("eventTiming"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, r, "Validation failed", validationErrors)
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, r, "success", availability)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, r, "Booking not found")

	case errors.Is(err, usecase.ErrInvalidInput):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, r, errMsg, nil)

	case errors.Is(err, usecase.ErrConflict):
		h.log.Warn(operation+" failed - slot already booked",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, r, "Slot already booked for the selected dates and timing", errMsg)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, r, "Failed to "+operation, errMsg)
	}
}
