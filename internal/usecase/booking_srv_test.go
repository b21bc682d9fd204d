package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lawn-booking/internal/data/entity"
	"lawn-booking/internal/data/repository"
	"lawn-booking/internal/data/repository/mocks"
	"lawn-booking/internal/dto/request"
	"lawn-booking/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// memRepo is an in-memory BookingRepository with the same overlap rule as
// the Postgres one.
type memRepo struct {
	mu       sync.Mutex
	bookings []*entity.Booking
}

func (m *memRepo) overlapping(start, end time.Time, timing string) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range m.bookings {
		if b.EventTiming == timing && !b.StartDate.After(end) && !b.EndDate.Before(start) {
			out = append(out, b)
		}
	}
	return out
}

func (m *memRepo) CreateIfSlotFree(_ context.Context, booking *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.overlapping(booking.StartDate, booking.EndDate, booking.EventTiming)) > 0 {
		return repository.ErrSlotTaken
	}
	m.bookings = append(m.bookings, booking)
	return nil
}

func (m *memRepo) FindAll(context.Context) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.Booking(nil), m.bookings...), nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindOverlapping(_ context.Context, start, end time.Time, timing string) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlapping(start, end, timing), nil
}

func (m *memRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status entity.PaymentStatus) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			b.PaymentStatus = status
			b.UpdatedAt = time.Now().UTC()
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return repository.ErrBookingNotFound
}

func validCreateRequest() *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		CustomerName:   "Asha",
		CustomerNumber: "9999999999",
		StartDate:      "2024-03-10",
		EndDate:        "2024-03-10",
		EventType:      "Wedding",
		EventTiming:    "Evening",
		HallCharges:    1000,
		Items:          []request.BookingItemRequest{{Name: "Chairs", Price: 50, Quantity: 4}},
		SelectedThali:  "Supreme",
		NumberOfPeople: 10,
		Discount:       10,
	}
}

func newMemService() (BookingService, *memRepo) {
	repo := &memRepo{}
	return NewBookingService(repo, cache.NewNoopCache(), zap.NewNop()), repo
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("supreme thali with items and discount", func(t *testing.T) {
		svc, repo := newMemService()

		resp, err := svc.CreateBooking(ctx, validCreateRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, [2]string{"2024-03-10", "2024-03-10"}, resp.EventDate)
		assert.Equal(t, 500.0, resp.ThaliPrice)
		assert.Equal(t, 5000.0, resp.CateringTotal)
		assert.Equal(t, 200.0, resp.ItemTotal)
		assert.Equal(t, 6200.0, resp.TotalPrice)
		assert.Equal(t, 620.0, resp.DiscountAmount)
		assert.Equal(t, 5580.0, resp.FinalPrice)
		assert.Equal(t, entity.PaymentStatusPending, resp.PaymentStatus)
		assert.Len(t, repo.bookings, 1)
	})

	t.Run("explicit payment status is kept", func(t *testing.T) {
		svc, _ := newMemService()
		req := validCreateRequest()
		req.PaymentStatus = "Successful"

		resp, err := svc.CreateBooking(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentStatusSuccessful, resp.PaymentStatus)
	})

	t.Run("nil items stored as empty list", func(t *testing.T) {
		svc, repo := newMemService()
		req := validCreateRequest()
		req.Items = nil

		resp, err := svc.CreateBooking(ctx, req)
		require.NoError(t, err)
		assert.NotNil(t, repo.bookings[0].Items)
		assert.Empty(t, resp.Items)
		assert.Zero(t, resp.ItemTotal)
	})

	rejections := []struct {
		name    string
		mutate  func(*request.CreateBookingRequest)
		message string
	}{
		{"bad start date", func(r *request.CreateBookingRequest) { r.StartDate = "10-03-2024" }, "invalid date format"},
		{"end before start", func(r *request.CreateBookingRequest) { r.StartDate, r.EndDate = "2024-03-12", "2024-03-10" }, "end before start"},
		{"unknown thali", func(r *request.CreateBookingRequest) { r.SelectedThali = "Royal" }, "unknown thali type"},
		{"unknown payment status", func(r *request.CreateBookingRequest) { r.PaymentStatus = "Cancelled" }, "payment status"},
		{"bad date wins over unknown thali", func(r *request.CreateBookingRequest) {
			r.EndDate = "soon"
			r.SelectedThali = "Royal"
		}, "invalid date format"},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newMemService()
			req := validCreateRequest()
			tt.mutate(req)

			resp, err := svc.CreateBooking(ctx, req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorContains(t, err, tt.message)
			assert.Empty(t, repo.bookings)
		})
	}
}

func TestCreateBookingSlotConflicts(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService()

	first := validCreateRequest()
	first.StartDate, first.EndDate = "2024-03-10", "2024-03-12"
	_, err := svc.CreateBooking(ctx, first)
	require.NoError(t, err)

	tests := []struct {
		name      string
		start     string
		end       string
		timing    string
		wantError bool
	}{
		{"same range same timing", "2024-03-10", "2024-03-12", "Evening", true},
		{"single day inside", "2024-03-11", "2024-03-11", "Evening", true},
		{"partial overlap at start", "2024-03-08", "2024-03-10", "Evening", true},
		{"partial overlap at end", "2024-03-12", "2024-03-15", "Evening", true},
		{"covering range", "2024-03-01", "2024-03-31", "Evening", true},
		{"other timing", "2024-03-10", "2024-03-12", "Morning", false},
		{"adjacent day", "2024-03-13", "2024-03-13", "Evening", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			req.StartDate, req.EndDate, req.EventTiming = tt.start, tt.end, tt.timing
			before := len(repo.bookings)

			_, err := svc.CreateBooking(ctx, req)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrConflict)
				assert.ErrorContains(t, err, "slot already booked")
				assert.Len(t, repo.bookings, before)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, repo.bookings, before+1)
		})
	}
}

func TestCreateBookingStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBookingRepository(ctrl)
	svc := NewBookingService(repo, cache.NewNoopCache(), zap.NewNop())

	repo.EXPECT().CreateIfSlotFree(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.CreateBooking(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorContains(t, err, "connection reset")
}

func TestListBookings(t *testing.T) {
	ctx := context.Background()

	t.Run("insertion order", func(t *testing.T) {
		svc, _ := newMemService()

		var ids []string
		for _, timing := range []string{"Morning", "Evening", "Night"} {
			req := validCreateRequest()
			req.EventTiming = timing
			resp, err := svc.CreateBooking(ctx, req)
			require.NoError(t, err)
			ids = append(ids, resp.ID)
		}

		list, err := svc.ListBookings(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, b := range list {
			assert.Equal(t, ids[i], b.ID)
		}
	})

	t.Run("empty", func(t *testing.T) {
		svc, _ := newMemService()

		list, err := svc.ListBookings(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockBookingRepository(ctrl)
		svc := NewBookingService(repo, cache.NewNoopCache(), zap.NewNop())

		repo.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("boom"))

		_, err := svc.ListBookings(ctx)
		assert.ErrorIs(t, err, ErrStoreFailure)
	})
}

func TestGetBooking(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemService()

	created, err := svc.CreateBooking(ctx, validCreateRequest())
	require.NoError(t, err)

	got, err := svc.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.FinalPrice, got.FinalPrice)

	_, err = svc.GetBooking(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetBooking(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBookingUsesCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBookingRepository(ctrl)
	svc := NewBookingService(repo, cache.NewRedisCache(client, time.Minute, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		CustomerName:  "Asha",
		StartDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		EventTiming:   "Evening",
		SelectedThali: entity.ThaliNormal,
		Items:         []entity.BookingItem{},
		FinalPrice:    5580,
		PaymentStatus: entity.PaymentStatusPending,
	}

	repo.EXPECT().FindByID(gomock.Any(), booking.ID).Return(booking, nil).Times(1)

	first, err := svc.GetBooking(ctx, booking.ID.String())
	require.NoError(t, err)
	assert.True(t, s.Exists("booking:"+booking.ID.String()))

	second, err := svc.GetBooking(ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.FinalPrice, second.FinalPrice)
	assert.Equal(t, first.EventDate, second.EventDate)

	updated := *booking
	updated.PaymentStatus = entity.PaymentStatusSuccessful
	updated.UpdatedAt = booking.UpdatedAt.Add(time.Second)
	repo.EXPECT().UpdatePaymentStatus(gomock.Any(), booking.ID, entity.PaymentStatusSuccessful).Return(&updated, nil)

	_, err = svc.UpdatePaymentStatus(ctx, booking.ID.String(), &request.UpdatePaymentStatusRequest{PaymentStatus: "Successful"})
	require.NoError(t, err)

	third, err := svc.GetBooking(ctx, booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSuccessful, third.PaymentStatus)

	repo.EXPECT().Delete(gomock.Any(), booking.ID).Return(nil)
	require.NoError(t, svc.DeleteBooking(ctx, booking.ID.String()))

	repo.EXPECT().FindByID(gomock.Any(), booking.ID).Return(nil, nil)
	_, err = svc.GetBooking(ctx, booking.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

// newCachedService returns a service over a miniredis-backed cache with a
// long TTL, so a stale entry would outlive the test.
func newCachedService(t *testing.T) (BookingService, *mocks.MockBookingRepository) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := mocks.NewMockBookingRepository(gomock.NewController(t))
	return NewBookingService(repo, cache.NewRedisCache(client, time.Hour, zap.NewNop()), zap.NewNop()), repo
}

func cachedFixture() *entity.Booking {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return &entity.Booking{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
		CustomerName:  "Asha",
		StartDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		EventTiming:   "Evening",
		SelectedThali: entity.ThaliNormal,
		Items:         []entity.BookingItem{},
		PaymentStatus: entity.PaymentStatusPending,
	}
}

func TestGetBookingRacingUpdateKeepsFreshStatus(t *testing.T) {
	svc, repo := newCachedService(t)
	ctx := context.Background()

	before := cachedFixture()
	after := *before
	after.PaymentStatus = entity.PaymentStatusSuccessful
	after.UpdatedAt = before.UpdatedAt.Add(time.Millisecond)

	repo.EXPECT().UpdatePaymentStatus(gomock.Any(), before.ID, entity.PaymentStatusSuccessful).Return(&after, nil)

	// The read loads the row, the update commits and caches, then the read
	// finishes and tries to cache its older copy.
	repo.EXPECT().FindByID(gomock.Any(), before.ID).DoAndReturn(func(ctx context.Context, _ uuid.UUID) (*entity.Booking, error) {
		_, err := svc.UpdatePaymentStatus(ctx, before.ID.String(), &request.UpdatePaymentStatusRequest{PaymentStatus: "Successful"})
		require.NoError(t, err)
		return before, nil
	}).Times(1)

	stale, err := svc.GetBooking(ctx, before.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, stale.PaymentStatus)

	got, err := svc.GetBooking(ctx, before.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSuccessful, got.PaymentStatus)
}

func TestGetBookingRacingDeleteDoesNotResurrect(t *testing.T) {
	svc, repo := newCachedService(t)
	ctx := context.Background()

	booking := cachedFixture()

	repo.EXPECT().Delete(gomock.Any(), booking.ID).Return(nil)
	gomock.InOrder(
		repo.EXPECT().FindByID(gomock.Any(), booking.ID).DoAndReturn(func(ctx context.Context, _ uuid.UUID) (*entity.Booking, error) {
			require.NoError(t, svc.DeleteBooking(ctx, booking.ID.String()))
			return booking, nil
		}),
		repo.EXPECT().FindByID(gomock.Any(), booking.ID).Return(nil, nil),
	)

	_, err := svc.GetBooking(ctx, booking.ID.String())
	require.NoError(t, err)

	_, err = svc.GetBooking(ctx, booking.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService()

	created, err := svc.CreateBooking(ctx, validCreateRequest())
	require.NoError(t, err)

	t.Run("successful changes only the status", func(t *testing.T) {
		updated, err := svc.UpdatePaymentStatus(ctx, created.ID, &request.UpdatePaymentStatusRequest{PaymentStatus: "Successful"})
		require.NoError(t, err)

		assert.Equal(t, entity.PaymentStatusSuccessful, updated.PaymentStatus)
		assert.Equal(t, created.CustomerName, updated.CustomerName)
		assert.Equal(t, created.EventDate, updated.EventDate)
		assert.Equal(t, created.Items, updated.Items)
		assert.Equal(t, created.TotalPrice, updated.TotalPrice)
		assert.Equal(t, created.FinalPrice, updated.FinalPrice)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.UpdatePaymentStatus(ctx, created.ID, &request.UpdatePaymentStatusRequest{PaymentStatus: "Cancelled"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, entity.PaymentStatusSuccessful, repo.bookings[0].PaymentStatus)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdatePaymentStatus(ctx, uuid.NewString(), &request.UpdatePaymentStatusRequest{PaymentStatus: "Pending"})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.UpdatePaymentStatus(ctx, "42", &request.UpdatePaymentStatusRequest{PaymentStatus: "Pending"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteBooking(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService()

	created, err := svc.CreateBooking(ctx, validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBooking(ctx, created.ID))
	assert.Empty(t, repo.bookings)

	assert.ErrorIs(t, svc.DeleteBooking(ctx, created.ID), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBooking(ctx, "bogus"), ErrNotFound)

	// the freed slot can be booked again
	_, err = svc.CreateBooking(ctx, validCreateRequest())
	assert.NoError(t, err)
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemService()

	_, err := svc.CreateBooking(ctx, validCreateRequest())
	require.NoError(t, err)

	busy, err := svc.CheckAvailability(ctx, &request.AvailabilityRequest{StartDate: "2024-03-09", EndDate: "2024-03-11", EventTiming: "Evening"})
	require.NoError(t, err)
	assert.False(t, busy.Available)
	assert.Len(t, busy.Conflicts, 1)

	free, err := svc.CheckAvailability(ctx, &request.AvailabilityRequest{StartDate: "2024-03-10", EndDate: "2024-03-10", EventTiming: "Morning"})
	require.NoError(t, err)
	assert.True(t, free.Available)
	assert.Empty(t, free.Conflicts)

	_, err = svc.CheckAvailability(ctx, &request.AvailabilityRequest{StartDate: "2024-03-10", EndDate: "2024-03-09", EventTiming: "Morning"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
