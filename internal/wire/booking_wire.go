package wire

import (
	"lawn-booking/internal/adaptor"
	"lawn-booking/pkg/middleware"
	"lawn-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, config *utils.Config, log *zap.Logger) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(middleware.APIKey(config.Security.APIKeyHash, log))

		r.Get("/", bookingHandler.ListBookings)
		r.Get("/availability", bookingHandler.CheckAvailability)
		r.Post("/create-booking", bookingHandler.CreateBooking)
		r.Put("/update/{id}", bookingHandler.UpdatePaymentStatus)

		r.Get("/{id}", bookingHandler.GetBooking)
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
