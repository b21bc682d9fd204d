package usecase

//go:generate go run go.uber.org/mock/mockgen -source=./booking_srv.go -destination=./mocks/booking_srv_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lawn-booking/internal/data/entity"
	"lawn-booking/internal/data/repository"
	"lawn-booking/internal/dto/request"
	"lawn-booking/internal/dto/response"
	"lawn-booking/pkg/cache"
	"lawn-booking/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cacheKeyBooking = "booking:"

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	ListBookings(ctx context.Context) ([]response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	UpdatePaymentStatus(ctx context.Context, bookingID string, req *request.UpdatePaymentStatusRequest) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, bookingID string) error
	CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
}

type bookingService struct {
	repo  repository.BookingRepository
	cache cache.Cache
	log   *zap.Logger
}

func NewBookingService(repo repository.BookingRepository, cache cache.Cache, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		cache: cache,
		log:   log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	thali := entity.ThaliType(req.SelectedThali)
	thaliPrice, ok := ThaliPrice(thali)
	if !ok {
		return nil, fmt.Errorf("%w: unknown thali type %q", ErrInvalidInput, req.SelectedThali)
	}

	items := make([]entity.BookingItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = entity.BookingItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	paymentStatus := entity.PaymentStatusPending
	if req.PaymentStatus != "" {
		paymentStatus = entity.PaymentStatus(req.PaymentStatus)
		if !paymentStatus.Valid() {
			return nil, fmt.Errorf("%w: payment status must be 'Pending' or 'Successful'", ErrInvalidInput)
		}
	}

	pricing := CalculatePricing(req.HallCharges, items, thaliPrice, req.NumberOfPeople, req.Discount)

	now := time.Now().UTC()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CustomerName:   req.CustomerName,
		CustomerNumber: req.CustomerNumber,
		StartDate:      startDate,
		EndDate:        endDate,
		EventTiming:    req.EventTiming,
		EventType:      req.EventType,
		HallCharges:    req.HallCharges,
		SelectedThali:  thali,
		ThaliPrice:     pricing.ThaliPrice,
		NumberOfPeople: req.NumberOfPeople,
		Items:          items,
		CateringTotal:  pricing.CateringTotal,
		ItemTotal:      pricing.ItemTotal,
		TotalPrice:     pricing.TotalPrice,
		Discount:       req.Discount,
		DiscountAmount: pricing.DiscountAmount,
		FinalPrice:     pricing.FinalPrice,
		PaymentStatus:  paymentStatus,
	}

	if err := s.repo.CreateIfSlotFree(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			metrics.IncSlotConflict(req.EventTiming)
			s.log.Info("Slot already booked",
				zap.String("event_timing", req.EventTiming),
				zap.String("start_date", req.StartDate),
				zap.String("end_date", req.EndDate),
			)
			return nil, fmt.Errorf("%w: slot already booked", ErrConflict)
		}

		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("customer_number", req.CustomerNumber),
		)
		return nil, fmt.Errorf("%w: create booking: %w", ErrStoreFailure, err)
	}

	metrics.IncBookingCreated()

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("event_timing", booking.EventTiming),
		zap.Float64("final_price", booking.FinalPrice),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context) ([]response.BookingResponse, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("%w: list bookings: %w", ErrStoreFailure, err)
	}

	s.log.Debug("Bookings retrieved", zap.Int("count", len(bookings)))
	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	var cached response.BookingResponse
	if err := s.cache.Get(ctx, cacheKeyBooking+id.String(), &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("Booking cache read failed", zap.Error(err))
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get booking: %w", ErrStoreFailure, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	resp := response.BookingToResponse(booking)
	s.store(ctx, booking.ID, booking.UpdatedAt, resp)

	return &resp, nil
}

func (s *bookingService) UpdatePaymentStatus(ctx context.Context, bookingID string, req *request.UpdatePaymentStatusRequest) (*response.BookingResponse, error) {
	status := entity.PaymentStatus(req.PaymentStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: payment status must be 'Pending' or 'Successful'", ErrInvalidInput)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	booking, err := s.repo.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("%w: update booking: %w", ErrStoreFailure, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	resp := response.BookingToResponse(booking)
	s.store(ctx, booking.ID, booking.UpdatedAt, resp)

	s.log.Info("Payment status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(status)),
	)

	return &resp, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return fmt.Errorf("%w: delete booking: %w", ErrStoreFailure, err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.repo.FindOverlapping(ctx, startDate, endDate, req.EventTiming)
	if err != nil {
		return nil, fmt.Errorf("%w: check availability: %w", ErrStoreFailure, err)
	}

	return &response.AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: response.BookingsToResponse(conflicts),
	}, nil
}

// store caches resp versioned by the row's updated_at, so a read that loaded
// the row before a later update cannot overwrite the newer entry.
func (s *bookingService) store(ctx context.Context, id uuid.UUID, updatedAt time.Time, resp response.BookingResponse) {
	if err := s.cache.Save(ctx, cacheKeyBooking+id.String(), resp, updatedAt.UnixMicro()); err != nil {
		s.log.Warn("Booking cache write failed",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
	}
}

func (s *bookingService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cacheKeyBooking+id.String()); err != nil {
		s.log.Warn("Booking cache invalidation failed",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
	}
}
