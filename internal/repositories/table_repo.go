package repositories

import (
	"context"

	"github.com/google/uuid"

	"tableside/internal/models"
)

type TableRepository interface {
	Create(ctx context.Context, table *models.Table) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Table, error)
	GetByTableNumber(ctx context.Context, tableNumber string) (*models.Table, error)
	Update(ctx context.Context, table *models.Table) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateQRCode(ctx context.Context, id uuid.UUID, qrCode string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Table, error)
}

type tableRepo struct {
	db DB
}

func NewTableRepo(db DB) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) Create(ctx context.Context, table *models.Table) error {
	query := `
		INSERT INTO tables (id, table_number, status, qr_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, table.ID, table.TableNumber, table.Status, table.QRCode)
	return err
}

func (r *tableRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	table := &models.Table{}
	query := `
		SELECT id, table_number, status, qr_code, created_at, updated_at
		FROM tables
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&table.ID, &table.TableNumber, &table.Status, &table.QRCode, &table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (r *tableRepo) GetByTableNumber(ctx context.Context, tableNumber string) (*models.Table, error) {
	table := &models.Table{}
	query := `
		SELECT id, table_number, status, qr_code, created_at, updated_at
		FROM tables
		WHERE table_number = $1
	`
	err := r.db.QueryRow(ctx, query, tableNumber).Scan(&table.ID, &table.TableNumber, &table.Status, &table.QRCode, &table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (r *tableRepo) Update(ctx context.Context, table *models.Table) error {
	query := `
		UPDATE tables
		SET table_number = $1, status = $2, qr_code = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, table.TableNumber, table.Status, table.QRCode, table.ID)
	return err
}

func (r *tableRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE tables SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *tableRepo) UpdateQRCode(ctx context.Context, id uuid.UUID, qrCode string) error {
	query := `UPDATE tables SET qr_code = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, qrCode, id)
	return err
}

func (r *tableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tables WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *tableRepo) List(ctx context.Context) ([]*models.Table, error) {
	query := `
		SELECT id, table_number, status, qr_code, created_at, updated_at
		FROM tables
		ORDER BY table_number
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		table := &models.Table{}
		if err := rows.Scan(&table.ID, &table.TableNumber, &table.Status, &table.QRCode, &table.CreatedAt, &table.UpdatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}
