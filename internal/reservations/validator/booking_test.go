package validator

import (
	"testing"

	"bonzai/pkg/logger"
	"bonzai/pkg/model"
)

func newTestValidator(t *testing.T) *BookingValidator {
	t.Helper()
	return NewBookingValidator(logger.New(logger.Config{Level: "error", Service: "test"}))
}

func validCreateRequest() *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		GuestName:    "Billy Bryson",
		GuestEmail:   "billy@domain.com",
		CheckInDate:  "2026-09-22",
		CheckOutDate: "2026-09-25",
		Guests:       3,
		Rooms: []model.RoomRequest{
			{RoomTypeID: 2, PeopleAssigned: 2},
			{RoomTypeID: 1, PeopleAssigned: 1},
		},
	}
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.CreateBookingRequest)
		wantErr bool
	}{
		{"valid", func(r *model.CreateBookingRequest) {}, false},
		{"missing name", func(r *model.CreateBookingRequest) { r.GuestName = "" }, true},
		{"short name", func(r *model.CreateBookingRequest) { r.GuestName = "B" }, true},
		{"bad email", func(r *model.CreateBookingRequest) { r.GuestEmail = "not-an-email" }, true},
		{"bad check-in format", func(r *model.CreateBookingRequest) { r.CheckInDate = "22-09-2026" }, true},
		{"impossible date", func(r *model.CreateBookingRequest) { r.CheckOutDate = "2026-02-30" }, true},
		{"missing rooms", func(r *model.CreateBookingRequest) { r.Rooms = nil }, true},
		{"empty rooms", func(r *model.CreateBookingRequest) { r.Rooms = []model.RoomRequest{} }, true},
		{"zero people on a line", func(r *model.CreateBookingRequest) {
			r.Rooms[0].PeopleAssigned = 0
		}, true},
		{"checkout equals checkin", func(r *model.CreateBookingRequest) {
			r.CheckOutDate = r.CheckInDate
		}, true},
		{"checkout before checkin", func(r *model.CreateBookingRequest) {
			r.CheckInDate = "2026-09-25"
			r.CheckOutDate = "2026-09-22"
		}, true},
		{"guest count below line sum", func(r *model.CreateBookingRequest) { r.Guests = 2 }, true},
		{"guest count above line sum", func(r *model.CreateBookingRequest) { r.Guests = 5 }, true},
	}

	v := newTestValidator(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			err := v.ValidateCreate(req)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateCreate_GuestMismatchMessage(t *testing.T) {
	v := newTestValidator(t)

	req := validCreateRequest()
	req.Guests = 5

	err := v.ValidateCreate(req)
	if err == nil {
		t.Fatal("expected error")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if verrs[0].Field != "Guests" {
		t.Errorf("expected error on Guests field, got %s", verrs[0].Field)
	}
}

func TestValidateModify(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.ModifyBookingRequest
		wantErr bool
	}{
		{
			name: "valid full replacement",
			req: &model.ModifyBookingRequest{
				CheckInDate:  "2026-12-26",
				CheckOutDate: "2026-12-28",
				Rooms: []model.RoomRequest{
					{RoomTypeID: 1, PeopleAssigned: 1},
					{RoomTypeID: 3, PeopleAssigned: 3},
				},
			},
		},
		{
			name: "optional name too short",
			req: &model.ModifyBookingRequest{
				GuestName:    "B",
				CheckInDate:  "2026-12-26",
				CheckOutDate: "2026-12-28",
				Rooms:        []model.RoomRequest{{RoomTypeID: 1, PeopleAssigned: 1}},
			},
			wantErr: true,
		},
		{
			name: "omitted name and email ok",
			req: &model.ModifyBookingRequest{
				CheckInDate:  "2026-12-26",
				CheckOutDate: "2026-12-28",
				Rooms:        []model.RoomRequest{{RoomTypeID: 1, PeopleAssigned: 1}},
			},
		},
		{
			name: "no rooms",
			req: &model.ModifyBookingRequest{
				CheckInDate:  "2026-12-26",
				CheckOutDate: "2026-12-28",
				Rooms:        []model.RoomRequest{},
			},
			wantErr: true,
		},
		{
			name: "zero nights",
			req: &model.ModifyBookingRequest{
				CheckInDate:  "2026-12-26",
				CheckOutDate: "2026-12-26",
				Rooms:        []model.RoomRequest{{RoomTypeID: 1, PeopleAssigned: 1}},
			},
			wantErr: true,
		},
	}

	v := newTestValidator(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateModify(tt.req)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
