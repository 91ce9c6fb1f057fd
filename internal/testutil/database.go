package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"dokon/internal/config"
	"dokon/internal/infrastructure/mysql"
)

// TestDatabaseConfig points at a local MySQL database named 'dokon_test'.
// DOKON_TEST_DB_HOST overrides the host.
func TestDatabaseConfig() config.DatabaseConfig {
	host := os.Getenv("DOKON_TEST_DB_HOST")
	if host == "" {
		host = "localhost"
	}
	return config.DatabaseConfig{
		Host:     host,
		Port:     3306,
		User:     "root",
		Password: "",
		Name:     "dokon_test",
	}
}

// SetupTestDB opens the test database, skipping the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("mysql", mysql.DSN(TestDatabaseConfig(), false))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the schema migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysql.RunMigrations(TestDatabaseConfig()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

// CleanupTestDB empties every table, children first, and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"salaries", "monthly_stats", "expenses", "purchases", "sales",
		"customers", "products", "categories", "users",
	}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// InsertUser creates a user row and returns its id.
func InsertUser(t *testing.T, db *sql.DB, username, role string, superuser bool) int64 {
	result, err := db.Exec(
		`INSERT INTO users (username, role, is_superuser) VALUES (?, ?, ?)`,
		username, role, superuser,
	)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read user id: %v", err)
	}
	return id
}
