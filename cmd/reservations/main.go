package main

import (
	"context"

	"bonzai/internal/reservations/handler"
	"bonzai/internal/reservations/repository"
	"bonzai/internal/reservations/service"
	"bonzai/internal/reservations/validator"
	"bonzai/pkg/app"
	"bonzai/pkg/clock"
	"bonzai/pkg/config"
	mongotx "bonzai/pkg/db/mongo"
	"bonzai/pkg/events"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	bookingHandler, publisher := initServices(cfg)
	serverApp := app.NewApplication(cfg, bookingHandler, publisher)
	serverApp.Run()
}

func initServices(cfg *config.Config) (*handler.BookingHandler, events.Publisher) {
	inventory := repository.NewMongoInventoryStore(cfg)
	bookings := repository.NewMongoBookingStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := inventory.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create inventory indexes", "error", err)
	}
	if err := bookings.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}

	txManager := mongotx.NewTransactionManager(cfg.Client.Mongo)
	ledger := repository.NewAvailabilityLedger(inventory, txManager)

	publisher := events.NewNopPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventTopic, ServiceName, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to configure event publisher", "error", err)
		}
	}

	reservationService := service.NewReservationService(
		inventory,
		bookings,
		ledger,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		clock.NewSystem(),
		cfg,
	)
	queryService := service.NewQueryService(bookings, cfg)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)
	return handler.NewBookingHandler(reservationService, queryService, cfg.Log), publisher
}
