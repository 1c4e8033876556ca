package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "bonzai/internal/reservations/errors"
	"bonzai/pkg/config"
	"bonzai/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const InventoryCollectionName = "Inventory"

// RoomInventoryStore is the durable mapping from room type to price,
// capacity and available count. Available is only ever changed through the
// guarded relative updates below; a read-compute-overwrite of the counter
// is not offered because it loses concurrent updates.
type RoomInventoryStore interface {
	Get(ctx context.Context, roomTypeID int) (*model.RoomType, error)
	GetAll(ctx context.Context) ([]*model.RoomType, error)
	Reserve(ctx context.Context, roomTypeID, count int) error
	Release(ctx context.Context, roomTypeID, count int) error
	Put(ctx context.Context, roomType *model.RoomType) error
	EnsureIndexes(ctx context.Context) error
}

type mongoInventoryStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoInventoryStore(cfg *config.Config) RoomInventoryStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInventoryStore{
		cfg:        cfg,
		collection: db.Collection(InventoryCollectionName),
	}
}

func (r *mongoInventoryStore) Get(ctx context.Context, roomTypeID int) (*model.RoomType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"pk": RoomPartition, "sk": RoomSortKey(roomTypeID)}

	var roomType model.RoomType
	err := r.collection.FindOne(ctx, filter).Decode(&roomType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to find room type: %w", err)
	}

	return &roomType, nil
}

func (r *mongoInventoryStore) GetAll(ctx context.Context) ([]*model.RoomType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "room_type_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"pk": RoomPartition}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find room types: %w", err)
	}
	defer cursor.Close(ctx)

	var roomTypes []*model.RoomType
	if err = cursor.All(ctx, &roomTypes); err != nil {
		return nil, fmt.Errorf("failed to decode room types: %w", err)
	}

	return roomTypes, nil
}

// Reserve decrements available by count in one conditional update. The
// filter includes `available >= count`, so the write matches nothing when
// the inventory no longer covers the request and the counter can never go
// negative — concurrent callers serialize at the store, not here.
func (r *mongoInventoryStore) Reserve(ctx context.Context, roomTypeID, count int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"pk":        RoomPartition,
		"sk":        RoomSortKey(roomTypeID),
		"available": bson.M{"$gte": count},
	}
	update := bson.M{"$inc": bson.M{"available": -count}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve %d rooms of type %d: %w", count, roomTypeID, err)
	}
	if result.ModifiedCount == 0 {
		return reserrors.ErrInsufficientAvailability
	}

	return nil
}

// Release increments available by count on the keyed document.
func (r *mongoInventoryStore) Release(ctx context.Context, roomTypeID, count int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"pk": RoomPartition, "sk": RoomSortKey(roomTypeID)}
	update := bson.M{"$inc": bson.M{"available": count}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release %d rooms of type %d: %w", count, roomTypeID, err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrRoomTypeNotFound
	}

	return nil
}

// Put upserts a room type record. Used by seeding only; runtime code never
// creates or destroys room types.
func (r *mongoInventoryStore) Put(ctx context.Context, roomType *model.RoomType) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	roomType.PK = RoomPartition
	roomType.SK = RoomSortKey(roomType.RoomTypeID)

	filter := bson.M{"pk": roomType.PK, "sk": roomType.SK}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, roomType, opts); err != nil {
		return fmt.Errorf("failed to put room type %d: %w", roomType.RoomTypeID, err)
	}
	return nil
}

func (r *mongoInventoryStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pk", Value: 1}, {Key: "sk", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create inventory index: %w", err)
	}
	return nil
}

// withTimeout bounds a store call unless it already runs inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}
