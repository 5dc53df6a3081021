package testhelpers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB connects to the test database or skips the test when it is unreachable.
func SetupTestDB(t *testing.T) *TestDB {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("TEST_DB_HOST", "localhost"),
			getEnv("TEST_DB_PORT", "5433"),
			getEnv("TEST_DB_USER", "postgres"),
			getEnv("TEST_DB_PASSWORD", "postgres"),
			getEnv("TEST_DB_NAME", "routes_test"),
			getEnv("TEST_DB_SSLMODE", "disable"),
		)
	}

	var db *sqlx.DB
	var err error
	maxRetries := 3
	retryDelay := 200 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	if err != nil {
		t.Skipf("PostgreSQL not available for integration tests: %v", err)
	}

	return &TestDB{
		DB:     db,
		Logger: zaptest.NewLogger(t),
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// catalogueTables in dependency order, children first
var catalogueTables = []string{
	"schedule_stations",
	"schedule_times",
	"schedule_exception_days",
	"schedules",
	"routes",
	"stations",
	"operators",
}

// Cleanup empties the catalogue tables in one statement.
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	query := "TRUNCATE TABLE " + strings.Join(catalogueTables, ", ") + " CASCADE"
	if _, err := tdb.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("truncate catalogue: %w", err)
	}
	return nil
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
