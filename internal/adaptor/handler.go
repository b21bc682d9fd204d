package adaptor

import (
	"lawn-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, log),
	}
}
