package repositories

import (
	"context"

	"github.com/google/uuid"

	"tableside/internal/models"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	GetByUsername(ctx context.Context, username string) (*models.Staff, error)
}

type staffRepo struct {
	db DB
}

func NewStaffRepo(db DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *models.Staff) error {
	query := `
		INSERT INTO staff (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (username) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, staff.ID, staff.Username, staff.PasswordHash, staff.Role)
	return err
}

func (r *staffRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	staff := &models.Staff{}
	query := `
		SELECT id, username, password_hash, role, created_at
		FROM staff
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&staff.ID, &staff.Username, &staff.PasswordHash, &staff.Role, &staff.CreatedAt)
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepo) GetByUsername(ctx context.Context, username string) (*models.Staff, error) {
	staff := &models.Staff{}
	query := `
		SELECT id, username, password_hash, role, created_at
		FROM staff
		WHERE username = $1
	`
	err := r.db.QueryRow(ctx, query, username).Scan(&staff.ID, &staff.Username, &staff.PasswordHash, &staff.Role, &staff.CreatedAt)
	if err != nil {
		return nil, err
	}
	return staff, nil
}
