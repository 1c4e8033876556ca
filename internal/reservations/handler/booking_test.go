package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "bonzai/pkg/errors"
	"bonzai/pkg/logger"
	"bonzai/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockReservationService struct {
	createFn func(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error)
	modifyFn func(ctx context.Context, bookingID string, req *model.ModifyBookingRequest) (*model.BookingConfirmation, error)
	cancelFn func(ctx context.Context, bookingID string) error
}

func (m *mockReservationService) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
	return m.createFn(ctx, req)
}

func (m *mockReservationService) ModifyBooking(ctx context.Context, bookingID string, req *model.ModifyBookingRequest) (*model.BookingConfirmation, error) {
	return m.modifyFn(ctx, bookingID, req)
}

func (m *mockReservationService) CancelBooking(ctx context.Context, bookingID string) error {
	return m.cancelFn(ctx, bookingID)
}

type mockQueryService struct {
	listFn func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	getFn  func(ctx context.Context, bookingID string) (*model.BookingDetail, error)
}

func (m *mockQueryService) ListBookings(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.listFn(ctx, limit, offset)
}

func (m *mockQueryService) GetBooking(ctx context.Context, bookingID string) (*model.BookingDetail, error) {
	return m.getFn(ctx, bookingID)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
}

func newRouter(res *mockReservationService, qry *mockQueryService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(res, qry, testLogger()).RegisterRoutes(router)
	return router
}

func sampleConfirmation() *model.BookingConfirmation {
	return &model.BookingConfirmation{
		BookingID:    "a1b2c3d4e5f60718",
		GuestName:    "Ada Lovelace",
		RoomCount:    2,
		TotalGuests:  3,
		TotalCost:    3000,
		CheckInDate:  "2026-10-01",
		CheckOutDate: "2026-10-03",
		Status:       model.StatusConfirmed,
	}
}

func TestCreateBookingHandler(t *testing.T) {
	var captured *model.CreateBookingRequest
	res := &mockReservationService{
		createFn: func(_ context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
			captured = req
			return sampleConfirmation(), nil
		},
	}
	router := newRouter(res, &mockQueryService{})

	body := `{
		"guestName": "Ada Lovelace",
		"guestEmail": "ada@example.com",
		"checkInDate": "2026-10-01",
		"checkOutDate": "2026-10-03",
		"guests": 3,
		"rooms": [
			{"roomTypeId": 1, "peopleAssigned": 1},
			{"roomTypeId": 2, "peopleAssigned": 2}
		]
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if captured == nil || len(captured.Rooms) != 2 || captured.Guests != 3 {
		t.Errorf("service received %+v, want decoded request", captured)
	}

	var resp struct {
		Data model.BookingConfirmation `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.BookingID != "a1b2c3d4e5f60718" {
		t.Errorf("bookingId = %q, want a1b2c3d4e5f60718", resp.Data.BookingID)
	}
}

func TestCreateBookingHandlerBadJSON(t *testing.T) {
	res := &mockReservationService{
		createFn: func(context.Context, *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
			t.Fatal("service must not be called for malformed JSON")
			return nil, nil
		},
	}
	router := newRouter(res, &mockQueryService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateBookingHandlerConflict(t *testing.T) {
	res := &mockReservationService{
		createFn: func(context.Context, *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
			return nil, apperrors.Conflict("one or more requested rooms are no longer available")
		},
	}
	router := newRouter(res, &mockQueryService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"guestName":"Ada"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != apperrors.CodeConflict {
		t.Errorf("code = %q, want %q", resp.Code, apperrors.CodeConflict)
	}
}

func TestGetBookingHandler(t *testing.T) {
	qry := &mockQueryService{
		getFn: func(_ context.Context, bookingID string) (*model.BookingDetail, error) {
			if bookingID != "a1b2c3d4e5f60718" {
				t.Errorf("bookingID = %q, want a1b2c3d4e5f60718", bookingID)
			}
			return &model.BookingDetail{
				Booking: &model.Booking{BookingID: bookingID, GuestName: "Ada Lovelace"},
				Lines: []*model.BookingLine{
					{BookingID: bookingID, Index: 1, RoomTypeID: 1, People: 1},
				},
			}, nil
		},
	}
	router := newRouter(&mockReservationService{}, qry)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/a1b2c3d4e5f60718", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data model.BookingDetail `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Booking.GuestName != "Ada Lovelace" {
		t.Errorf("guestName = %q, want Ada Lovelace", resp.Data.Booking.GuestName)
	}
	if len(resp.Data.Lines) != 1 {
		t.Errorf("rooms = %d, want 1", len(resp.Data.Lines))
	}
}

func TestGetBookingHandlerNotFound(t *testing.T) {
	qry := &mockQueryService{
		getFn: func(_ context.Context, bookingID string) (*model.BookingDetail, error) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		},
	}
	router := newRouter(&mockReservationService{}, qry)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/missing", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetAllBookingsHandler(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	qry := &mockQueryService{
		listFn: func(_ context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.Booking{
				{BookingID: "one"},
				{BookingID: "two"},
			}, 12, nil
		},
	}
	router := newRouter(&mockReservationService{}, qry)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?limit=2&offset=4", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotLimit != 2 || gotOffset != 4 {
		t.Errorf("service received limit=%d offset=%d, want 2 and 4", gotLimit, gotOffset)
	}

	var resp struct {
		Data       []*model.Booking `json:"data"`
		TotalCount int64            `json:"total_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCount != 12 {
		t.Errorf("total_count = %d, want 12", resp.TotalCount)
	}
	if len(resp.Data) != 2 {
		t.Errorf("data length = %d, want 2", len(resp.Data))
	}
}

func TestGetAllBookingsHandlerBadLimit(t *testing.T) {
	router := newRouter(&mockReservationService{}, &mockQueryService{
		listFn: func(context.Context, int, int64) ([]*model.Booking, int64, error) {
			t.Fatal("service must not be called for invalid pagination")
			return nil, 0, nil
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?limit=abc", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestModifyBookingHandler(t *testing.T) {
	var gotID string
	res := &mockReservationService{
		modifyFn: func(_ context.Context, bookingID string, req *model.ModifyBookingRequest) (*model.BookingConfirmation, error) {
			gotID = bookingID
			conf := sampleConfirmation()
			conf.RoomCount = len(req.Rooms)
			return conf, nil
		},
	}
	router := newRouter(res, &mockQueryService{})

	body := `{
		"checkInDate": "2026-10-01",
		"checkOutDate": "2026-10-02",
		"rooms": [{"roomTypeId": 2, "peopleAssigned": 2}]
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/a1b2c3d4e5f60718", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gotID != "a1b2c3d4e5f60718" {
		t.Errorf("service received id %q, want a1b2c3d4e5f60718", gotID)
	}
}

func TestCancelBookingHandler(t *testing.T) {
	var gotID string
	res := &mockReservationService{
		cancelFn: func(_ context.Context, bookingID string) error {
			gotID = bookingID
			return nil
		},
	}
	router := newRouter(res, &mockQueryService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/a1b2c3d4e5f60718", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if gotID != "a1b2c3d4e5f60718" {
		t.Errorf("service received id %q, want a1b2c3d4e5f60718", gotID)
	}
}

func TestCancelBookingHandlerPolicyViolation(t *testing.T) {
	res := &mockReservationService{
		cancelFn: func(context.Context, string) error {
			return apperrors.PolicyViolation("booking cannot be cancelled 2 days or less before check-in")
		},
	}
	router := newRouter(res, &mockQueryService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/a1b2c3d4e5f60718", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != apperrors.CodePolicyViolation {
		t.Errorf("code = %q, want %q", resp.Code, apperrors.CodePolicyViolation)
	}
}
