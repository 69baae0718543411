// Package testdb gives tests an isolated, migrated database: in-memory SQLite
// by default, or a throwaway PostgreSQL schema when TEST_DATABASE_DSN is set.
package testdb

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens a fresh database for t. A single connection is used so that
// concurrent transactions are serialized the way a row lock would.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// PostgresDSNEnv names the key/value DSN of a PostgreSQL server for tests that
// need real row locks.
const PostgresDSNEnv = "TEST_DATABASE_DSN"

// NewPostgres migrates a fresh schema on the server named by TEST_DATABASE_DSN
// and drops it when t ends. The test is skipped when the variable is unset.
// The pool is left at its default size so transactions really run in parallel.
func NewPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresDSNEnv)
	}

	admin, err := database.Open(postgres.Open(dsn))
	require.NoError(t, err)
	adminDB, err := admin.DB()
	require.NoError(t, err)

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	require.NoError(t, admin.Exec("CREATE SCHEMA " + schema).Error)

	db, err := database.Open(postgres.Open(dsn + " search_path=" + schema))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlDB.Close()
		_ = admin.Exec("DROP SCHEMA " + schema + " CASCADE").Error
		_ = adminDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}
