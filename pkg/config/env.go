package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvStoreURL        = "STORE_URL"
	EnvStorePublicKey  = "STORE_PUBLIC_KEY"
	EnvStoreServiceKey = "STORE_SERVICE_KEY"
	EnvStoreBucket     = "STORE_BUCKET"

	EnvBlobBackend      = "BLOB_BACKEND"
	EnvCloudinaryURL    = "CLOUDINARY_URL"
	EnvCloudinaryFolder = "CLOUDINARY_FOLDER"

	EnvRedisAddr            = "REDIS_ADDR"
	EnvRedisPassword        = "REDIS_PASSWORD"
	EnvRedisDB              = "REDIS_DB"
	EnvAvailabilityCacheTTL = "AVAILABILITY_CACHE_TTL"

	EnvKafkaBrokers              = "KAFKA_BROKERS"
	EnvReservationEventsTopic    = "RESERVATION_EVENTS_TOPIC"
	EnvReservationEventsDLQTopic = "RESERVATION_EVENTS_DLQ_TOPIC"
	EnvNotifierGroupID           = "NOTIFIER_GROUP_ID"

	EnvAdminJWTSecret = "ADMIN_JWT_SECRET"
	EnvAdminEmails    = "ADMIN_EMAILS"

	EnvPropertyConfig = "PROPERTY_CONFIG"

	EnvMailjetPublicKey  = "MAILJET_PUBLIC_KEY"
	EnvMailjetPrivateKey = "MAILJET_PRIVATE_KEY"
	EnvMailFrom          = "MAIL_FROM"
	EnvMailFromName      = "MAIL_FROM_NAME"
	EnvAdminNotifyEmail  = "ADMIN_NOTIFY_EMAIL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize  = "MAX_UPLOAD_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
