package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableside/internal/models"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=tableside_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTable creates an available table for testing
func SetupTestTable(t *testing.T, db *TestDB) *models.Table {
	t.Helper()

	table := &models.Table{
		ID:          uuid.New(),
		TableNumber: fmt.Sprintf("T-%s", uuid.NewString()[:8]),
		Status:      models.TableStatusAvailable,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	query := `
		INSERT INTO tables (id, table_number, status, qr_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		table.ID, table.TableNumber, table.Status, table.QRCode, table.CreatedAt, table.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}

	return table
}

// SetupTestMenuItem creates an available menu item for testing
func SetupTestMenuItem(t *testing.T, db *TestDB, name, category string, price float64) *models.MenuItem {
	t.Helper()

	description := "Test menu item description"
	item := &models.MenuItem{
		ID:          uuid.New(),
		Name:        name,
		Description: &description,
		Category:    category,
		Price:       price,
		Available:   true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	query := `
		INSERT INTO menu_items (id, name, description, category, price, available, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Category, item.Price,
		item.Available, item.ImageURL, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test menu item: %v", err)
	}

	return item
}
