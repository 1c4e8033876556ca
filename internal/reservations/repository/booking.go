package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	reserrors "bonzai/internal/reservations/errors"
	"bonzai/pkg/config"
	"bonzai/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BookingCollectionName = "Bookings"

// BookingStore persists booking aggregates and their lines. Every write
// accepts a transaction session context so creation, modification and
// cancellation compose with inventory changes into one atomic unit.
type BookingStore interface {
	InsertAggregate(ctx context.Context, booking *model.Booking) error
	InsertLine(ctx context.Context, line *model.BookingLine) error
	GetAggregate(ctx context.Context, bookingID string) (*model.Booking, error)
	FindLines(ctx context.Context, bookingID string) ([]*model.BookingLine, error)
	UpdateAggregate(ctx context.Context, booking *model.Booking) error
	UpdateLine(ctx context.Context, line *model.BookingLine) error
	DeleteLine(ctx context.Context, line *model.BookingLine) error
	DeleteBooking(ctx context.Context, bookingID string, lines []*model.BookingLine) error
	FindAllAggregates(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	CountAggregates(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoBookingStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingStore(cfg *config.Config) BookingStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingStore{
		cfg:        cfg,
		collection: db.Collection(BookingCollectionName),
	}
}

func (r *mongoBookingStore) InsertAggregate(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.PK = AggregatePartitionKey(booking.BookingID)
	booking.SK = AggregateSortKey
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reserrors.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert booking aggregate: %w", err)
	}
	return nil
}

func (r *mongoBookingStore) InsertLine(ctx context.Context, line *model.BookingLine) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	line.PK = LinePartition

	if _, err := r.collection.InsertOne(ctx, line); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reserrors.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert booking line: %w", err)
	}
	return nil
}

func (r *mongoBookingStore) GetAggregate(ctx context.Context, bookingID string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"pk": AggregatePartitionKey(bookingID), "sk": AggregateSortKey}

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindLines range-scans the booking's sort-key prefix and returns lines in
// index order.
func (r *mongoBookingStore) FindLines(ctx context.Context, bookingID string) ([]*model.BookingLine, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"pk": LinePartition,
		"sk": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(LineSortKeyPrefix(bookingID))},
	}
	opts := options.Find().SetSort(bson.D{{Key: "line_index", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking lines: %w", err)
	}
	defer cursor.Close(ctx)

	var lines []*model.BookingLine
	if err = cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode booking lines: %w", err)
	}

	return lines, nil
}

func (r *mongoBookingStore) UpdateAggregate(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"pk": AggregatePartitionKey(booking.BookingID), "sk": AggregateSortKey}
	update := bson.M{"$set": bson.M{
		"name":         booking.GuestName,
		"email":        booking.GuestEmail,
		"start_date":   booking.CheckInDate,
		"end_date":     booking.CheckOutDate,
		"cost":         booking.TotalCost,
		"total_guests": booking.TotalGuests,
		"total_rooms":  booking.TotalRooms,
		"status":       booking.Status,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking aggregate: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrBookingNotFound
	}
	return nil
}

// UpdateLine rewrites a line in place, keyed by its existing sort key.
func (r *mongoBookingStore) UpdateLine(ctx context.Context, line *model.BookingLine) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"pk": line.PK, "sk": line.SK}
	update := bson.M{"$set": bson.M{
		"room_type":  line.RoomTypeID,
		"people":     line.People,
		"cost":       line.Cost,
		"name":       line.GuestName,
		"email":      line.GuestEmail,
		"start_date": line.CheckInDate,
		"end_date":   line.CheckOutDate,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking line: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrBookingNotFound
	}
	return nil
}

func (r *mongoBookingStore) DeleteLine(ctx context.Context, line *model.BookingLine) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"pk": line.PK, "sk": line.SK})
	if err != nil {
		return fmt.Errorf("failed to delete booking line: %w", err)
	}
	if result.DeletedCount == 0 {
		return reserrors.ErrBookingNotFound
	}
	return nil
}

// DeleteBooking removes the aggregate and every given line.
func (r *mongoBookingStore) DeleteBooking(ctx context.Context, bookingID string, lines []*model.BookingLine) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	keys := bson.A{
		bson.M{"pk": AggregatePartitionKey(bookingID), "sk": AggregateSortKey},
	}
	for _, line := range lines {
		keys = append(keys, bson.M{"pk": line.PK, "sk": line.SK})
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"$or": keys})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return reserrors.ErrBookingNotFound
	}
	return nil
}

// FindAllAggregates pages through aggregates in creation order; lines are
// excluded by the sort-key filter.
func (r *mongoBookingStore) FindAllAggregates(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "pk", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"sk": AggregateSortKey}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingStore) CountAggregates(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"sk": AggregateSortKey})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pk", Value: 1}, {Key: "sk", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create booking index: %w", err)
	}
	return nil
}
