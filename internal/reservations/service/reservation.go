package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"

	reserrors "bonzai/internal/reservations/errors"
	"bonzai/internal/reservations/repository"
	"bonzai/internal/reservations/validator"
	"bonzai/pkg/clock"
	"bonzai/pkg/config"
	mongotx "bonzai/pkg/db/mongo"
	apperrors "bonzai/pkg/errors"
	"bonzai/pkg/events"
	"bonzai/pkg/model"
	"bonzai/pkg/sanitizer"
)

// ReservationService owns booking creation, modification and cancellation.
// Each operation validates before touching state, then commits its
// inventory deltas and booking records through the ledger as one atomic
// unit; availability conflicts are surfaced to the caller, never retried
// here, because a retry needs re-validation against fresh inventory.
type ReservationService interface {
	CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error)
	ModifyBooking(ctx context.Context, bookingID string, req *model.ModifyBookingRequest) (*model.BookingConfirmation, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

type reservationService struct {
	inventory repository.RoomInventoryStore
	bookings  repository.BookingStore
	ledger    repository.AvailabilityLedger
	validator *validator.BookingValidator
	publisher events.Publisher
	clk       clock.Clock
	cfg       *config.Config
}

func NewReservationService(
	inventory repository.RoomInventoryStore,
	bookings repository.BookingStore,
	ledger repository.AvailabilityLedger,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		inventory: inventory,
		bookings:  bookings,
		ledger:    ledger,
		validator: bookingValidator,
		publisher: publisher,
		clk:       clk,
		cfg:       cfg,
	}
}

func (s *reservationService) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
	req.GuestName = sanitizer.NormalizeGuestName(req.GuestName)
	req.GuestEmail = sanitizer.NormalizeEmail(req.GuestEmail)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	checkIn, _ := model.ParseDate(req.CheckInDate)
	checkOut, _ := model.ParseDate(req.CheckOutDate)
	nights := model.Nights(checkIn, checkOut)

	requested := countPerType(req.Rooms)

	roomTypes, err := s.loadRoomTypes(ctx, requested)
	if err != nil {
		return nil, err
	}

	if err := s.checkCapacity(req.Rooms, roomTypes); err != nil {
		return nil, err
	}

	// Optimistic pre-check; the guarded transaction re-validates it.
	for roomTypeID, count := range requested {
		if available := roomTypes[roomTypeID].Available; count > available {
			return nil, apperrors.Conflict(fmt.Sprintf(
				"room type %d has %d rooms available, %d requested", roomTypeID, available, count))
		}
	}

	bookingID := newBookingID()
	firstName := sanitizer.FirstName(req.GuestName)

	var totalCost int64
	totalGuests := 0
	lines := make([]*model.BookingLine, 0, len(req.Rooms))
	for i, room := range req.Rooms {
		cost := roomTypes[room.RoomTypeID].PricePerNight * int64(nights)
		totalCost += cost
		totalGuests += room.PeopleAssigned

		lines = append(lines, &model.BookingLine{
			SK:           repository.LineSortKey(bookingID, firstName, i+1),
			BookingID:    bookingID,
			Index:        i + 1,
			RoomTypeID:   room.RoomTypeID,
			People:       room.PeopleAssigned,
			Cost:         cost,
			GuestName:    req.GuestName,
			GuestEmail:   req.GuestEmail,
			CheckInDate:  req.CheckInDate,
			CheckOutDate: req.CheckOutDate,
		})
	}

	booking := &model.Booking{
		BookingID:    bookingID,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		TotalCost:    totalCost,
		TotalGuests:  totalGuests,
		TotalRooms:   len(req.Rooms),
		Status:       model.StatusConfirmed,
	}

	deltas := make(map[int]int, len(requested))
	for roomTypeID, count := range requested {
		deltas[roomTypeID] = -count
	}

	err = s.ledger.Apply(ctx, deltas, func(sessCtx mongotx.SessionContext) error {
		if err := s.bookings.InsertAggregate(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		for _, line := range lines {
			if err := s.bookings.InsertLine(sessCtx, line); err != nil {
				return apperrors.Internal("Failed to create booking line", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "booking_id", bookingID, "error", err)
		return nil, s.mapLedgerError(err)
	}

	confirmation := &model.BookingConfirmation{
		BookingID:    bookingID,
		GuestName:    req.GuestName,
		RoomCount:    len(req.Rooms),
		TotalGuests:  totalGuests,
		TotalCost:    totalCost,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Status:       model.StatusConfirmed,
	}

	s.publish(ctx, events.BookingCreated, bookingID, confirmation)

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", bookingID,
		"rooms", len(req.Rooms),
		"guests", totalGuests,
		"cost", totalCost,
	)
	return confirmation, nil
}

func (s *reservationService) ModifyBooking(ctx context.Context, bookingID string, req *model.ModifyBookingRequest) (*model.BookingConfirmation, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.bookings.GetAggregate(ctx, bookingID)
	if err != nil {
		return nil, s.mapBookingLoadError(err, bookingID)
	}

	req.GuestName = sanitizer.NormalizeGuestName(req.GuestName)
	req.GuestEmail = sanitizer.NormalizeEmail(req.GuestEmail)

	if err := s.validator.ValidateModify(req); err != nil {
		s.cfg.Log.Warn("Booking modification validation failed", "booking_id", bookingID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	guestName := existing.GuestName
	if req.GuestName != "" {
		guestName = req.GuestName
	}
	guestEmail := existing.GuestEmail
	if req.GuestEmail != "" {
		guestEmail = req.GuestEmail
	}

	checkIn, _ := model.ParseDate(req.CheckInDate)
	checkOut, _ := model.ParseDate(req.CheckOutDate)
	nights := model.Nights(checkIn, checkOut)

	existingLines, err := s.bookings.FindLines(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booking lines", err)
	}

	requested := countPerType(req.Rooms)

	roomTypes, err := s.loadRoomTypes(ctx, requested)
	if err != nil {
		return nil, err
	}

	if err := s.checkCapacity(req.Rooms, roomTypes); err != nil {
		return nil, err
	}

	// Signed per-type delta in ledger convention: negative reserves the
	// increase, positive releases the decrease.
	previous := make(map[int]int, len(existingLines))
	for _, line := range existingLines {
		previous[line.RoomTypeID]++
	}
	deltas := make(map[int]int)
	for roomTypeID, count := range requested {
		deltas[roomTypeID] = previous[roomTypeID] - count
	}
	for roomTypeID, count := range previous {
		if _, ok := requested[roomTypeID]; !ok {
			deltas[roomTypeID] = count
		}
	}

	for roomTypeID, delta := range deltas {
		if delta >= 0 {
			continue
		}
		if available := roomTypes[roomTypeID].Available; -delta > available {
			return nil, apperrors.Conflict(fmt.Sprintf(
				"room type %d has %d rooms available, %d more requested", roomTypeID, available, -delta))
		}
	}

	firstName := sanitizer.FirstName(guestName)

	var totalCost int64
	totalGuests := 0
	newLines := make([]*model.BookingLine, 0, len(req.Rooms))
	for i, room := range req.Rooms {
		cost := roomTypes[room.RoomTypeID].PricePerNight * int64(nights)
		totalCost += cost
		totalGuests += room.PeopleAssigned

		newLines = append(newLines, &model.BookingLine{
			SK:           repository.LineSortKey(bookingID, firstName, i+1),
			BookingID:    bookingID,
			Index:        i + 1,
			RoomTypeID:   room.RoomTypeID,
			People:       room.PeopleAssigned,
			Cost:         cost,
			GuestName:    guestName,
			GuestEmail:   guestEmail,
			CheckInDate:  req.CheckInDate,
			CheckOutDate: req.CheckOutDate,
		})
	}

	updated := *existing
	updated.GuestName = guestName
	updated.GuestEmail = guestEmail
	updated.CheckInDate = req.CheckInDate
	updated.CheckOutDate = req.CheckOutDate
	updated.TotalCost = totalCost
	updated.TotalGuests = totalGuests
	updated.TotalRooms = len(req.Rooms)

	err = s.ledger.Apply(ctx, deltas, func(sessCtx mongotx.SessionContext) error {
		if err := s.reconcileLines(sessCtx, existingLines, newLines); err != nil {
			return err
		}
		if err := s.bookings.UpdateAggregate(sessCtx, &updated); err != nil {
			return apperrors.Internal("Failed to update booking totals", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to modify booking", "booking_id", bookingID, "error", err)
		return nil, s.mapLedgerError(err)
	}

	confirmation := &model.BookingConfirmation{
		BookingID:    bookingID,
		GuestName:    guestName,
		RoomCount:    len(req.Rooms),
		TotalGuests:  totalGuests,
		TotalCost:    totalCost,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Status:       model.StatusConfirmed,
	}

	s.publish(ctx, events.BookingModified, bookingID, confirmation)

	s.cfg.Log.Info("Booking modified successfully", "booking_id", bookingID, "rooms", len(req.Rooms))
	return confirmation, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.bookings.GetAggregate(ctx, bookingID)
	if err != nil {
		return s.mapBookingLoadError(err, bookingID)
	}

	checkIn, err := model.ParseDate(existing.CheckInDate)
	if err != nil {
		return apperrors.Internal("Stored booking has an unreadable check-in date", err)
	}

	// Whole days until check-in, rounded up: exactly 48 hours out counts
	// as two days and is still inside the cutoff window.
	daysUntil := int(math.Ceil(checkIn.Sub(s.clk.Now()).Hours() / 24))
	if daysUntil <= s.cfg.CancellationCutoffDays {
		return apperrors.PolicyViolation(fmt.Sprintf(
			"booking cannot be cancelled %d days or less before check-in", s.cfg.CancellationCutoffDays))
	}

	lines, err := s.bookings.FindLines(ctx, bookingID)
	if err != nil {
		return apperrors.Internal("Failed to load booking lines", err)
	}

	deltas := make(map[int]int)
	for _, line := range lines {
		deltas[line.RoomTypeID]++
	}

	err = s.ledger.Apply(ctx, deltas, func(sessCtx mongotx.SessionContext) error {
		if err := s.bookings.DeleteBooking(sessCtx, bookingID, lines); err != nil {
			if errors.Is(err, reserrors.ErrBookingNotFound) {
				return apperrors.NotFoundWithID("Booking", bookingID)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "booking_id", bookingID, "error", err)
		return s.mapLedgerError(err)
	}

	s.publish(ctx, events.BookingCancelled, bookingID, nil)

	s.cfg.Log.Info("Booking cancelled successfully", "booking_id", bookingID, "rooms", len(lines))
	return nil
}

// --- Helpers ---

// reconcileLines matches old and new lines by position: shared indexes are
// updated in place, extra new lines are inserted, extra old lines are
// deleted. Reordering the request therefore changes which stored line is
// rewritten; callers relying on per-line identity must keep input order
// stable.
func (s *reservationService) reconcileLines(ctx mongotx.SessionContext, oldLines, newLines []*model.BookingLine) error {
	maxLen := max(len(oldLines), len(newLines))

	for i := 0; i < maxLen; i++ {
		switch {
		case i < len(oldLines) && i < len(newLines):
			replacement := *newLines[i]
			replacement.PK = oldLines[i].PK
			replacement.SK = oldLines[i].SK
			replacement.Index = oldLines[i].Index
			if err := s.bookings.UpdateLine(ctx, &replacement); err != nil {
				return apperrors.Internal("Failed to update booking line", err)
			}
		case i < len(newLines):
			if err := s.bookings.InsertLine(ctx, newLines[i]); err != nil {
				return apperrors.Internal("Failed to insert booking line", err)
			}
		default:
			if err := s.bookings.DeleteLine(ctx, oldLines[i]); err != nil {
				return apperrors.Internal("Failed to delete booking line", err)
			}
		}
	}

	return nil
}

func (s *reservationService) loadRoomTypes(ctx context.Context, requested map[int]int) (map[int]*model.RoomType, error) {
	roomTypes := make(map[int]*model.RoomType, len(requested))
	for roomTypeID := range requested {
		roomType, err := s.inventory.Get(ctx, roomTypeID)
		if err != nil {
			if errors.Is(err, reserrors.ErrRoomTypeNotFound) {
				return nil, apperrors.NotFoundWithID("Room type", strconv.Itoa(roomTypeID))
			}
			return nil, apperrors.Internal("Failed to load room type", err)
		}
		roomTypes[roomTypeID] = roomType
	}
	return roomTypes, nil
}

func (s *reservationService) checkCapacity(rooms []model.RoomRequest, roomTypes map[int]*model.RoomType) error {
	for _, room := range rooms {
		capacity := roomTypes[room.RoomTypeID].CapacityPerRoom
		if room.PeopleAssigned > capacity {
			return apperrors.Validation(
				fmt.Sprintf("a room of type %d cannot hold %d people", room.RoomTypeID, room.PeopleAssigned),
				map[string]any{"roomTypeId": room.RoomTypeID, "capacityPerRoom": capacity},
			)
		}
	}
	return nil
}

func (s *reservationService) mapLedgerError(err error) error {
	if errors.Is(err, reserrors.ErrInsufficientAvailability) {
		return apperrors.Conflict("one or more requested rooms are no longer available")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout("reservation store timed out; the operation outcome is unconfirmed")
	}
	return apperrors.Internal("Reservation transaction failed", err)
}

func (s *reservationService) mapBookingLoadError(err error, bookingID string) error {
	if errors.Is(err, reserrors.ErrBookingNotFound) {
		return apperrors.NotFoundWithID("Booking", bookingID)
	}
	return apperrors.Internal("Failed to load booking", err)
}

func (s *reservationService) publish(ctx context.Context, eventType events.Type, bookingID string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, bookingID, payload); err != nil {
		// The booking already committed; event delivery is best effort.
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", bookingID,
			"error", err,
		)
	}
}

func countPerType(rooms []model.RoomRequest) map[int]int {
	counts := make(map[int]int, len(rooms))
	for _, room := range rooms {
		counts[room.RoomTypeID]++
	}
	return counts
}

func newBookingID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
