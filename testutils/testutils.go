package testutils

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"slackassistant/db"
)

func loadTestEnv() {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From package directory
	_ = godotenv.Load(".env.test")    // From root directory
}

// ConnectTestDB opens the integration test database, skipping the test when DB_URL is not set
func ConnectTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()
	loadTestEnv()

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		t.Skip("DB_URL is not set, skipping postgres integration test")
	}

	schema := os.Getenv("DB_SCHEMA")
	if schema == "" {
		schema = "public"
	}

	conn, err := db.NewConnection(databaseURL)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = conn.Close() })

	return conn, schema
}

// ConnectTestRedis opens the integration test redis, skipping the test when REDIS_URL is not set
func ConnectTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	loadTestEnv()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL is not set, skipping redis integration test")
	}

	client, err := db.NewRedisClient(t.Context(), redisURL)
	require.NoError(t, err, "Failed to connect to test redis")
	t.Cleanup(func() { _ = client.Close() })

	return client
}
