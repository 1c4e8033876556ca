package main

import (
	"context"

	"bonzai/internal/reservations/repository"
	"bonzai/pkg/config"
	"bonzai/pkg/model"
)

// Seeds the room-type catalogue. Safe to run repeatedly: each room type is
// upserted, so existing availability counters are reset to the seed values.
func main() {
	cfg := config.Load("seed")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	inventory := repository.NewMongoInventoryStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := inventory.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create inventory indexes", "error", err)
	}

	roomTypes := []*model.RoomType{
		{RoomTypeID: 1, Name: "Single", PricePerNight: 500, CapacityPerRoom: 1, Available: 7},
		{RoomTypeID: 2, Name: "Double", PricePerNight: 1000, CapacityPerRoom: 2, Available: 7},
		{RoomTypeID: 3, Name: "Suite", PricePerNight: 1500, CapacityPerRoom: 3, Available: 6},
	}

	for _, roomType := range roomTypes {
		if err := inventory.Put(ctx, roomType); err != nil {
			cfg.Log.Fatal("Failed to seed room type", "room_type_id", roomType.RoomTypeID, "error", err)
		}
		cfg.Log.Info("Seeded room type",
			"room_type_id", roomType.RoomTypeID,
			"name", roomType.Name,
			"price_per_night", roomType.PricePerNight,
			"capacity", roomType.CapacityPerRoom,
			"available", roomType.Available,
		)
	}

	cfg.Log.Info("Room inventory seeded", "room_types", len(roomTypes))
}
