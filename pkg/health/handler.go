package health

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "gite/pkg/http"
	"gite/pkg/logger"
)

const readyTimeout = 2 * time.Second

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

// Pinger is satisfied by a connectivity check against a dependency.
type Pinger func(ctx context.Context) error

type Handler struct {
	database Pinger
	cache    Pinger
	log      *logger.Logger
}

// NewHandler checks MongoDB on readiness, and Redis when redisClient is set.
// A failing cache degrades the report but never fails readiness.
func NewHandler(mongoClient *mongo.Client, redisClient *redis.Client, log *logger.Logger) *Handler {
	h := &Handler{log: log}
	if mongoClient != nil {
		h.database = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	}
	if redisClient != nil {
		h.cache = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	return h
}

func NewHandlerWithPingers(database, cache Pinger, log *logger.Logger) *Handler {
	return &Handler{database: database, cache: cache, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	resp := Response{Status: "ready", Database: "ok"}
	status := http.StatusOK

	if h.database == nil {
		resp = Response{Status: "unavailable", Database: "not_configured"}
		status = http.StatusServiceUnavailable
	} else if err := h.database(ctx); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		resp = Response{Status: "unavailable", Database: "error"}
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		if err := h.cache(ctx); err != nil {
			h.log.Warn("Cache health check failed", "error", err)
			resp.Cache = "degraded"
		} else {
			resp.Cache = "ok"
		}
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
