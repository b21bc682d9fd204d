package usecase

import (
	"lawn-booking/internal/data/repository"
	"lawn-booking/pkg/cache"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
}

func NewService(repo *repository.Repository, cache cache.Cache, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo.Booking, cache, log),
	}
}
