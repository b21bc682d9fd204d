package repository

import (
	"lawn-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewBookingRepository(db, log),
	}
}
