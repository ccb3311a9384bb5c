package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gite/pkg/client"
	"gite/pkg/logger"
	"gite/pkg/sanitizer"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	StoreURL        string
	StorePublicKey  string
	StoreServiceKey string
	StoreBucket     string

	BlobBackend      string
	CloudinaryURL    string
	CloudinaryFolder string

	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	AvailabilityCacheTTL time.Duration

	KafkaBrokers              []string
	ReservationEventsTopic    string
	ReservationEventsDLQTopic string
	NotifierGroupID           string

	AdminJWTSecret string
	AdminEmails    []string

	PropertyConfigPath string

	MailjetPublicKey  string
	MailjetPrivateKey string
	MailFrom          string
	MailFromName      string
	AdminNotifyEmail  string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int
	MaxUploadSize  int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// A missing .env file is normal outside local development.
	envFileErr := godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		StoreURL:        strings.TrimRight(getEnvStr(EnvStoreURL, ""), "/"),
		StorePublicKey:  getEnvStr(EnvStorePublicKey, ""),
		StoreServiceKey: getEnvStr(EnvStoreServiceKey, ""),
		StoreBucket:     getEnvStr(EnvStoreBucket, DefaultStoreBucket),

		BlobBackend:      strings.ToLower(getEnvStr(EnvBlobBackend, DefaultBlobBackend)),
		CloudinaryURL:    getEnvStr(EnvCloudinaryURL, ""),
		CloudinaryFolder: getEnvStr(EnvCloudinaryFolder, DefaultCloudinaryFolder),

		RedisAddr:            getEnvStr(EnvRedisAddr, ""),
		RedisPassword:        getEnvStr(EnvRedisPassword, ""),
		RedisDB:              getEnvNum(EnvRedisDB, DefaultRedisDB),
		AvailabilityCacheTTL: getEnvDuration(EnvAvailabilityCacheTTL, DefaultAvailabilityCacheTTL),

		KafkaBrokers:              getEnvList(EnvKafkaBrokers),
		ReservationEventsTopic:    getEnvStr(EnvReservationEventsTopic, DefaultReservationEventsTopic),
		ReservationEventsDLQTopic: getEnvStr(EnvReservationEventsDLQTopic, DefaultReservationEventsDLQTopic),
		NotifierGroupID:           getEnvStr(EnvNotifierGroupID, DefaultNotifierGroupID),

		AdminJWTSecret: getEnvStr(EnvAdminJWTSecret, ""),
		AdminEmails:    sanitizer.NormalizeEmails(getEnvList(EnvAdminEmails)),

		PropertyConfigPath: getEnvStr(EnvPropertyConfig, ""),

		MailjetPublicKey:  getEnvStr(EnvMailjetPublicKey, ""),
		MailjetPrivateKey: getEnvStr(EnvMailjetPrivateKey, ""),
		MailFrom:          getEnvStr(EnvMailFrom, ""),
		MailFromName:      getEnvStr(EnvMailFromName, DefaultMailFromName),
		AdminNotifyEmail:  getEnvStr(EnvAdminNotifyEmail, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		MaxUploadSize:  getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if envFileErr != nil {
		cfg.Log.Debug("No .env file loaded", "error", envFileErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the optional availability cache. Without REDIS_ADDR the
// service runs uncached.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("Redis not configured, availability cache disabled")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

// StoreKey is the key used for server-side calls to the hosted store: the
// privileged key when available, the public key otherwise.
func (cfg *Config) StoreKey() string {
	if cfg.StoreServiceKey != "" {
		return cfg.StoreServiceKey
	}
	return cfg.StorePublicKey
}

func (cfg *Config) KafkaEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

func (cfg *Config) MailEnabled() bool {
	return cfg.MailjetPublicKey != "" && cfg.MailjetPrivateKey != "" && cfg.MailFrom != "" && cfg.AdminNotifyEmail != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	switch cfg.BlobBackend {
	case BlobBackendHosted:
		if cfg.StoreURL != "" {
			if u, err := url.Parse(cfg.StoreURL); err != nil || u.Scheme == "" || u.Host == "" {
				errors = append(errors, fmt.Sprintf("StoreURL must be an absolute URL, got: %s", cfg.StoreURL))
			}
		}
	case BlobBackendCloudinary:
		if cfg.CloudinaryURL != "" && !strings.HasPrefix(cfg.CloudinaryURL, "cloudinary://") {
			errors = append(errors, "CloudinaryURL must start with 'cloudinary://'")
		}
	default:
		errors = append(errors, fmt.Sprintf("BlobBackend must be one of [%s, %s], got: %s", BlobBackendHosted, BlobBackendCloudinary, cfg.BlobBackend))
	}

	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"AvailabilityCacheTTL", cfg.AvailabilityCacheTTL},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxUploadSize < cfg.MaxRequestSize {
		errors = append(errors, fmt.Sprintf("MaxUploadSize (%d) must be >= MaxRequestSize (%d)", cfg.MaxUploadSize, cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"store_url", cfg.StoreURL,
		"store_public_key_set", cfg.StorePublicKey != "",
		"store_service_key_set", cfg.StoreServiceKey != "",
		"store_bucket", cfg.StoreBucket,
		"blob_backend", cfg.BlobBackend,
		"cloudinary_url_set", cfg.CloudinaryURL != "",
		"redis_addr", cfg.RedisAddr,
		"availability_cache_ttl", cfg.AvailabilityCacheTTL,
		"kafka_brokers", cfg.KafkaBrokers,
		"reservation_events_topic", cfg.ReservationEventsTopic,
		"admin_jwt_secret_set", cfg.AdminJWTSecret != "",
		"admin_emails", len(cfg.AdminEmails),
		"property_config", cfg.PropertyConfigPath,
		"mail_enabled", cfg.MailEnabled(),
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"max_upload_size", cfg.MaxUploadSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
