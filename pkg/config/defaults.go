package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "gite"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultStoreBucket      = "gallery"
	DefaultBlobBackend      = BlobBackendHosted
	DefaultCloudinaryFolder = "gite"

	DefaultRedisDB              = 0
	DefaultAvailabilityCacheTTL = 5 * time.Minute

	DefaultReservationEventsTopic    = "reservations.events"
	DefaultReservationEventsDLQTopic = "reservations.events.dlq"
	DefaultNotifierGroupID           = "reservation-notifier"

	DefaultMailFromName = "Gîte"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024  // 1MB
	DefaultMaxUploadSize  = 10 * 1024 * 1024 // 10MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

const (
	BlobBackendHosted     = "hosted"
	BlobBackendCloudinary = "cloudinary"
)
