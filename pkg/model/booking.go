package model

import "time"

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

const StatusConfirmed = "CONFIRMED"

// ParseDate parses a YYYY-MM-DD wire date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Nights returns the stay length in whole days between two parsed dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// RoomType is a shared inventory record. Available is only ever mutated
// through guarded relative updates; it never goes negative.
type RoomType struct {
	PK              string `bson:"pk" json:"-"`
	SK              string `bson:"sk" json:"-"`
	RoomTypeID      int    `bson:"room_type_id" json:"roomTypeId"`
	Name            string `bson:"name" json:"name"`
	PricePerNight   int64  `bson:"price" json:"pricePerNight"`
	CapacityPerRoom int    `bson:"capacity" json:"capacityPerRoom"`
	Available       int    `bson:"available" json:"available"`
}

// Booking is the aggregate record. Its totals always equal the sums over
// its lines between operations.
type Booking struct {
	PK           string    `bson:"pk" json:"-"`
	SK           string    `bson:"sk" json:"-"`
	BookingID    string    `bson:"booking_id" json:"bookingId"`
	GuestName    string    `bson:"name" json:"guestName"`
	GuestEmail   string    `bson:"email" json:"guestEmail"`
	CheckInDate  string    `bson:"start_date" json:"checkInDate"`
	CheckOutDate string    `bson:"end_date" json:"checkOutDate"`
	TotalCost    int64     `bson:"cost" json:"totalCost"`
	TotalGuests  int       `bson:"total_guests" json:"totalGuests"`
	TotalRooms   int       `bson:"total_rooms" json:"totalRooms"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// BookingLine is one physical room within a booking. It references its
// room type by identifier only and is owned by exactly one booking.
type BookingLine struct {
	PK           string `bson:"pk" json:"-"`
	SK           string `bson:"sk" json:"-"`
	BookingID    string `bson:"booking_id" json:"bookingId"`
	Index        int    `bson:"line_index" json:"index"`
	RoomTypeID   int    `bson:"room_type" json:"roomTypeId"`
	People       int    `bson:"people" json:"peopleAssigned"`
	Cost         int64  `bson:"cost" json:"cost"`
	GuestName    string `bson:"name" json:"guestName"`
	GuestEmail   string `bson:"email" json:"guestEmail"`
	CheckInDate  string `bson:"start_date" json:"checkInDate"`
	CheckOutDate string `bson:"end_date" json:"checkOutDate"`
}

// RoomRequest is one physical room asked for; a room type may repeat to
// request several rooms of that type.
type RoomRequest struct {
	RoomTypeID     int `json:"roomTypeId" validate:"required,min=1"`
	PeopleAssigned int `json:"peopleAssigned" validate:"required,min=1"`
}

type CreateBookingRequest struct {
	GuestName    string        `json:"guestName" validate:"required,min=2,max=100"`
	GuestEmail   string        `json:"guestEmail" validate:"required,email"`
	CheckInDate  string        `json:"checkInDate" validate:"required,bookdate"`
	CheckOutDate string        `json:"checkOutDate" validate:"required,bookdate"`
	Guests       int           `json:"guests" validate:"required,min=1"`
	Rooms        []RoomRequest `json:"rooms" validate:"required,min=1,dive"`
}

// ModifyBookingRequest replaces the whole room list; it is not a delta
// patch. Name and email fall back to the stored aggregate when omitted.
type ModifyBookingRequest struct {
	GuestName    string        `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	GuestEmail   string        `json:"email,omitempty" validate:"omitempty,email"`
	CheckInDate  string        `json:"checkInDate" validate:"required,bookdate"`
	CheckOutDate string        `json:"checkOutDate" validate:"required,bookdate"`
	Rooms        []RoomRequest `json:"rooms" validate:"required,min=1,dive"`
}

// BookingConfirmation echoes a created or modified booking back to the caller.
type BookingConfirmation struct {
	BookingID    string `json:"bookingId"`
	GuestName    string `json:"guestName"`
	RoomCount    int    `json:"roomCount"`
	TotalGuests  int    `json:"totalGuests"`
	TotalCost    int64  `json:"totalCost"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Status       string `json:"status"`
}

// BookingDetail is an aggregate together with its lines.
type BookingDetail struct {
	Booking *Booking       `json:"booking"`
	Lines   []*BookingLine `json:"rooms"`
}
