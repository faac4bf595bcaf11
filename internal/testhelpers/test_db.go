package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/iam-sarthakdev/MockMate-AI/internal/repositories"
	"github.com/iam-sarthakdev/MockMate-AI/internal/repositories/sqlstore"
)

// SetupTestDB creates an isolated in-memory SQLite database for tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := sqlstore.Open(sqlstore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// SetupTestStore wraps SetupTestDB in a repositories.Store.
func SetupTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	return repositories.NewSQLStore(SetupTestDB(t), sqlstore.DriverSQLite)
}

// DropFeedbackTable removes the feedback table to force repository errors.
func DropFeedbackTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Migrator().DropTable(&sqlstore.FeedbackRecord{}); err != nil {
		t.Fatalf("failed to drop feedback table: %v", err)
	}
}
