package service

import (
	"context"
	"errors"
	"sync"

	reserrors "bonzai/internal/reservations/errors"
	"bonzai/internal/reservations/repository"
	"bonzai/pkg/config"
	apperrors "bonzai/pkg/errors"
	"bonzai/pkg/model"
)

// QueryService answers read-only booking questions. Reads are not
// transactional; a listing taken concurrently with a modification may
// observe either side of it.
type QueryService interface {
	ListBookings(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetBooking(ctx context.Context, bookingID string) (*model.BookingDetail, error)
}

type queryService struct {
	bookings repository.BookingStore
	cfg      *config.Config
}

func NewQueryService(bookings repository.BookingStore, cfg *config.Config) QueryService {
	return &queryService{bookings: bookings, cfg: cfg}
}

// ListBookings returns one page of aggregates plus the total count. The
// page fetch and the count run concurrently against the same collection.
func (s *queryService) ListBookings(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.bookings.FindAllAggregates(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.bookings.CountAggregates(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", findErr)
		return nil, 0, apperrors.Internal("Failed to list bookings", findErr)
	}
	if countErr != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", countErr)
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, total, nil
}

func (s *queryService) GetBooking(ctx context.Context, bookingID string) (*model.BookingDetail, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.bookings.GetAggregate(ctx, bookingID)
	if err != nil {
		if errors.Is(err, reserrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to load booking", err)
	}

	lines, err := s.bookings.FindLines(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booking lines", err)
	}
	if lines == nil {
		lines = []*model.BookingLine{}
	}

	return &model.BookingDetail{Booking: booking, Lines: lines}, nil
}
