package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tableside/internal/common"
	"tableside/internal/models"
	"tableside/internal/repositories"
)

// ErrDuplicateTableNumber is returned when a create or update would reuse an
// existing table number. The number is the order-entry routing key, so it
// must stay unambiguous.
var ErrDuplicateTableNumber = errors.New("table number already in use")

type TableServiceInterface interface {
	CreateTable(ctx context.Context, table *models.Table) error
	GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error)
	GetTableByNumber(ctx context.Context, tableNumber string) (*models.Table, error)
	ListTables(ctx context.Context) ([]*models.Table, error)
	UpdateTable(ctx context.Context, table *models.Table) error
	DeleteTable(ctx context.Context, id uuid.UUID) error
	// RegenerateQRCode derives and stores the table's order-entry URL. The
	// stored payload is presentational; the service never parses it back.
	RegenerateQRCode(ctx context.Context, id uuid.UUID) (*models.Table, error)
	// ReleaseTable flips an occupied table back to available. Release is a
	// deliberate front-of-house action, never automatic.
	ReleaseTable(ctx context.Context, id uuid.UUID) (*models.Table, error)
}

type tableService struct {
	tableRepo     repositories.TableRepository
	publicBaseURL string
}

func NewTableService(tableRepo repositories.TableRepository, publicBaseURL string) TableServiceInterface {
	return &tableService{
		tableRepo:     tableRepo,
		publicBaseURL: publicBaseURL,
	}
}

func (s *tableService) CreateTable(ctx context.Context, table *models.Table) error {
	if err := common.ValidateTableNumber(table.TableNumber); err != nil {
		return err
	}
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	if !models.ValidTableStatus(table.Status) {
		return fmt.Errorf("invalid table status %q", table.Status)
	}
	if err := s.checkDuplicateNumber(ctx, table.TableNumber, uuid.Nil); err != nil {
		return err
	}

	if table.ID == uuid.Nil {
		table.ID = uuid.New()
	}
	table.CreatedAt = time.Now()
	table.UpdatedAt = time.Now()

	if err := s.tableRepo.Create(ctx, table); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *tableService) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	return s.tableRepo.GetByID(ctx, id)
}

func (s *tableService) GetTableByNumber(ctx context.Context, tableNumber string) (*models.Table, error) {
	return s.tableRepo.GetByTableNumber(ctx, tableNumber)
}

func (s *tableService) ListTables(ctx context.Context) ([]*models.Table, error) {
	return s.tableRepo.List(ctx)
}

func (s *tableService) UpdateTable(ctx context.Context, table *models.Table) error {
	if err := common.ValidateTableNumber(table.TableNumber); err != nil {
		return err
	}
	if !models.ValidTableStatus(table.Status) {
		return fmt.Errorf("invalid table status %q", table.Status)
	}
	if _, err := s.tableRepo.GetByID(ctx, table.ID); err != nil {
		return err
	}
	if err := s.checkDuplicateNumber(ctx, table.TableNumber, table.ID); err != nil {
		return err
	}
	table.UpdatedAt = time.Now()
	if err := s.tableRepo.Update(ctx, table); err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	return nil
}

func (s *tableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tableRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.tableRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	return nil
}

func (s *tableService) RegenerateQRCode(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := s.orderEntryURL(table.TableNumber)
	if err := s.tableRepo.UpdateQRCode(ctx, id, payload); err != nil {
		return nil, fmt.Errorf("store qr payload: %w", err)
	}
	table.QRCode = &payload
	return table, nil
}

func (s *tableService) ReleaseTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table.Status == models.TableStatusAvailable {
		return table, nil
	}
	if err := s.tableRepo.UpdateStatus(ctx, id, models.TableStatusAvailable); err != nil {
		return nil, fmt.Errorf("release table: %w", err)
	}
	table.Status = models.TableStatusAvailable
	return table, nil
}

// orderEntryURL builds the customer-facing URL a table's QR code encodes.
func (s *tableService) orderEntryURL(tableNumber string) string {
	return fmt.Sprintf("%s/order/%s", s.publicBaseURL, url.PathEscape(tableNumber))
}

func (s *tableService) checkDuplicateNumber(ctx context.Context, tableNumber string, selfID uuid.UUID) error {
	existing, err := s.tableRepo.GetByTableNumber(ctx, tableNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check table number: %w", err)
	}
	if existing.ID != selfID {
		return ErrDuplicateTableNumber
	}
	return nil
}
