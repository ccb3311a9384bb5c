package main

import (
	bookinghandler "gite/internal/booking/handler"
	bookingservice "gite/internal/booking/service"
	galleryhandler "gite/internal/gallery/handler"
	galleryrepo "gite/internal/gallery/repository"
	galleryservice "gite/internal/gallery/service"
	galleryvalidator "gite/internal/gallery/validator"
	reservationhandler "gite/internal/reservations/handler"
	reservationrepo "gite/internal/reservations/repository"
	reservationservice "gite/internal/reservations/service"
	reservationvalidator "gite/internal/reservations/validator"
	"gite/pkg/app"
	"gite/pkg/blob"
	"gite/pkg/cache"
	"gite/pkg/config"
	"gite/pkg/events"
	"gite/pkg/kafka"
	"gite/pkg/middleware"
	"gite/pkg/property"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Reservations service")
	cfg.SetMongo()
	cfg.SetRedis()

	profile, err := property.Load(cfg.PropertyConfigPath)
	if err != nil {
		cfg.Log.Fatal("Failed to load property profile", "path", cfg.PropertyConfigPath, "error", err)
	}

	publisher := initPublisher(cfg)
	guard := middleware.NewAdminGuard(cfg.AdminJWTSecret, cfg.AdminEmails, cfg.Log)

	reservations := initReservationService(cfg, publisher)
	bookings := bookingservice.NewBookingService(reservations, profile, cfg)
	gallery := initGalleryService(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		reservationhandler.NewReservationHandler(reservations, guard, cfg.Log),
		bookinghandler.NewBookingHandler(bookings, cfg.Log),
		galleryhandler.NewGalleryHandler(gallery, guard, cfg.Log),
	)
	serverApp.OnShutdown("reservation events publisher", publisher.Close)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled() {
		cfg.Log.Info("Kafka not configured, reservation events disabled")
		return events.NopPublisher{}
	}

	kafkaCfg, err := kafka.LoadConfig(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	producer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationEventsTopic, cfg.ReservationEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Reservation events publisher initialized", "topic", cfg.ReservationEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}

func initReservationService(cfg *config.Config, publisher events.Publisher) reservationservice.ReservationService {
	reservationService := reservationservice.NewReservationService(
		reservationrepo.NewMongoReservationRepository(cfg),
		reservationvalidator.NewReservationValidator(),
		publisher,
		cache.NewAvailabilityCache(cfg.Client.Redis, cfg.AvailabilityCacheTTL),
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}

func initGalleryService(cfg *config.Config) galleryservice.GalleryService {
	store, err := blob.New(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to configure gallery blob store", "backend", cfg.BlobBackend, "error", err)
	}

	galleryService := galleryservice.NewGalleryService(
		galleryrepo.NewMongoGalleryImageRepository(cfg),
		store,
		galleryvalidator.NewGalleryImageValidator(),
		cfg,
	)

	cfg.Log.Info("Gallery service initialized", "backend", cfg.BlobBackend)
	return galleryService
}
