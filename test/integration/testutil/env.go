package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gite/pkg/client"
	"gite/pkg/middleware"
)

const (
	EnvServerURL    = "TEST_SERVER_URL"
	EnvAdminSecret  = "TEST_ADMIN_JWT_SECRET"
	EnvAdminEmail   = "TEST_ADMIN_EMAIL"
	EnvMongoURI     = "TEST_MONGO_URI"
	EnvDatabaseName = "TEST_DB_NAME"

	DefaultHealthCheckTimeout = 30 * time.Second
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	AdminSecret  string
	AdminEmail   string
}

// NewTestEnv skips the test unless a running service is configured.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	serverURL := os.Getenv(EnvServerURL)
	if serverURL == "" {
		t.Skipf("%s not set, skipping integration test", EnvServerURL)
	}

	return &TestEnv{
		MongoURI:     getEnv(EnvMongoURI, DefaultMongoURI),
		DatabaseName: getEnv(EnvDatabaseName, DefaultDatabaseName),
		ServerURL:    serverURL,
		AdminSecret:  os.Getenv(EnvAdminSecret),
		AdminEmail:   getEnv(EnvAdminEmail, "owner@example.com"),
	}
}

func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.HttpClient) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	c := client.NewHttpClient(e.ServerURL, nil)
	WaitForHealthy(t, c, DefaultHealthCheckTimeout)

	return mongo, c
}

// AdminClient signs a short-lived admin token with the service secret.
func (e *TestEnv) AdminClient(t *testing.T) *client.HttpClient {
	t.Helper()
	if e.AdminSecret == "" {
		t.Skipf("%s not set, skipping admin checks", EnvAdminSecret)
	}

	token, err := middleware.NewAdminToken(e.AdminSecret, e.AdminEmail, 10*time.Minute)
	require.NoError(t, err)
	return client.NewHttpClient(e.ServerURL, map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	})
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
