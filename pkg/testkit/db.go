// Package testkit holds helpers shared by the package tests: an isolated
// migrated database per test, HTTP request helpers, and a runner for
// JSON request scenarios.
package testkit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/ordermgmt/database/migrations"
	"github.com/shashiranjanraj/ordermgmt/pkg/database"
	"github.com/shashiranjanraj/ordermgmt/pkg/migration"
)

// NewDB returns a private in-memory SQLite database with every migration
// applied. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and
	// serialises writers the way SQLite expects.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migration.New(db).Quiet().Run(), "migrate")
	return db
}
