package repositories

import (
	"context"

	"github.com/google/uuid"

	"tableside/internal/models"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.MenuItem, error)
	ListAvailable(ctx context.Context) ([]*models.MenuItem, error)
}

type menuItemRepo struct {
	db DB
}

func NewMenuItemRepo(db DB) MenuItemRepository {
	return &menuItemRepo{db: db}
}

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, price, image_url, category, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Description, item.Price, item.ImageURL, item.Category, item.Available)
	return err
}

func (r *menuItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `
		SELECT id, name, description, price, image_url, category, available, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Category, &item.Available, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *menuItemRepo) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, image_url = $4, category = $5, available = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, item.Name, item.Description, item.Price, item.ImageURL, item.Category, item.Available, item.ID)
	return err
}

func (r *menuItemRepo) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	query := `UPDATE menu_items SET image_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, imageURL, id)
	return err
}

func (r *menuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *menuItemRepo) List(ctx context.Context) ([]*models.MenuItem, error) {
	query := `
		SELECT id, name, description, price, image_url, category, available, created_at, updated_at
		FROM menu_items
		ORDER BY category, name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Category, &item.Available, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListAvailable returns only items customers may order, already sorted by
// category so the order-entry surface can bucket them directly.
func (r *menuItemRepo) ListAvailable(ctx context.Context) ([]*models.MenuItem, error) {
	query := `
		SELECT id, name, description, price, image_url, category, available, created_at, updated_at
		FROM menu_items
		WHERE available = TRUE
		ORDER BY category, name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Category, &item.Available, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
