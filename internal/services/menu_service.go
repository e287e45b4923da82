package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	"tableside/internal/caching"
	"tableside/internal/common"
	"tableside/internal/models"
	"tableside/internal/repositories"
)

const (
	menuCacheTTL    = 5 * time.Minute
	imageURLExpiry  = 7 * 24 * time.Hour
	maxMenuPrice    = 100000.0
	maxNameLength   = 120
	maxFieldLength  = 1000
)

// MenuServiceInterface owns the menu catalog: the customer-facing available
// menu and the administrator CRUD panel behind it.
type MenuServiceInterface interface {
	AvailableMenu(ctx context.Context) ([]*models.MenuCategory, error)
	ListMenuItems(ctx context.Context) ([]*models.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
	UploadItemImage(ctx context.Context, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type menuService struct {
	menuRepo repositories.MenuItemRepository
	minioSvc MinioService
	cacheSvc caching.CacheService
}

func NewMenuService(menuRepo repositories.MenuItemRepository, minioSvc MinioService, cacheSvc caching.CacheService) MenuServiceInterface {
	return &menuService{
		menuRepo: menuRepo,
		minioSvc: minioSvc,
		cacheSvc: cacheSvc,
	}
}

// AvailableMenu returns available items grouped by category, cache-first. A
// cache failure falls through to the database; the menu page must keep
// working when Redis is down.
func (s *menuService) AvailableMenu(ctx context.Context) ([]*models.MenuCategory, error) {
	categories, err := s.cacheSvc.GetAvailableMenu(ctx)
	if err == nil {
		return categories, nil
	}
	if !errors.Is(err, caching.ErrCacheMiss) {
		log.Printf("menu cache read failed, falling back to database: %v", err)
	}

	items, err := s.menuRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available menu: %w", err)
	}
	categories = models.GroupByCategory(items)

	if err := s.cacheSvc.SetAvailableMenu(ctx, categories, menuCacheTTL); err != nil {
		log.Printf("menu cache write failed: %v", err)
	}
	return categories, nil
}

func (s *menuService) ListMenuItems(ctx context.Context) ([]*models.MenuItem, error) {
	return s.menuRepo.List(ctx)
}

func (s *menuService) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	return s.menuRepo.GetByID(ctx, id)
}

func (s *menuService) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := s.validateMenuItem(item); err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := s.validateMenuItem(item); err != nil {
		return err
	}
	if _, err := s.menuRepo.GetByID(ctx, item.ID); err != nil {
		return err
	}
	if err := s.menuRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	s.invalidateMenu(ctx)
	return nil
}

// DeleteMenuItem removes an item from the catalog along with its stored
// image. Past orders keep their line item snapshots; nothing here touches
// order_items.
func (s *menuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.menuRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.removeItemImage(ctx, id)
	s.invalidateMenu(ctx)
	return nil
}

// removeItemImage drops the item's image object and the key tracking it.
// Best effort: an unreachable store leaves an orphaned object, never a
// failed delete.
func (s *menuService) removeItemImage(ctx context.Context, id uuid.UUID) {
	objectName, err := s.cacheSvc.GetString(ctx, imageObjectKey(id))
	if errors.Is(err, caching.ErrCacheMiss) {
		return
	}
	if err != nil {
		log.Printf("looking up image object for menu item %s: %v", id, err)
		return
	}
	if err := s.minioSvc.RemoveImage(ctx, objectName); err != nil {
		log.Printf("removing image object %s: %v", objectName, err)
		return
	}
	if err := s.cacheSvc.Delete(ctx, imageObjectKey(id)); err != nil {
		log.Printf("clearing image object key for menu item %s: %v", id, err)
	}
}

func imageObjectKey(id uuid.UUID) string {
	return fmt.Sprintf("menu-image:%s", id)
}

// UploadItemImage streams an image to object storage and records a
// presigned URL on the item.
func (s *menuService) UploadItemImage(ctx context.Context, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.menuRepo.GetByID(ctx, id); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("menu/%s/%s", id, path.Base(filename))
	if err := s.minioSvc.UploadImage(ctx, objectName, reader, size, contentType); err != nil {
		return "", fmt.Errorf("upload menu image: %w", err)
	}

	imageURL, err := s.minioSvc.PresignedURL(ctx, objectName, imageURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign menu image: %w", err)
	}
	if err := s.menuRepo.UpdateImageURL(ctx, id, imageURL); err != nil {
		return "", fmt.Errorf("record menu image: %w", err)
	}
	// Remember the object name so a later catalog delete can clean up the
	// stored image. No TTL: the pointer lives as long as the item.
	if err := s.cacheSvc.SetString(ctx, imageObjectKey(id), objectName, 0); err != nil {
		log.Printf("recording image object for menu item %s: %v", id, err)
	}
	s.invalidateMenu(ctx)
	return imageURL, nil
}

func (s *menuService) validateMenuItem(item *models.MenuItem) error {
	if err := common.ValidateRequiredString(item.Name, "name"); err != nil {
		return err
	}
	if len(item.Name) > maxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	if err := common.ValidateRequiredString(item.Category, "category"); err != nil {
		return err
	}
	if err := common.ValidateNonNegativeFloat(item.Price, "price", maxMenuPrice); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(item.Description, "description", maxFieldLength); err != nil {
		return err
	}
	return nil
}

func (s *menuService) invalidateMenu(ctx context.Context) {
	if err := s.cacheSvc.InvalidateMenu(ctx); err != nil {
		log.Printf("menu cache invalidation failed: %v", err)
	}
}
