package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"tableside/internal/caching"
	"tableside/internal/models"
)

type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenuItemRepository) List(ctx context.Context) ([]*models.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) ListAvailable(ctx context.Context) ([]*models.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMinioService) UploadImage(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) RemoveImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetAvailableMenu(ctx context.Context) ([]*models.MenuCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenuCategory), args.Error(1)
}

func (m *MockCacheService) SetAvailableMenu(ctx context.Context, categories []*models.MenuCategory, ttl time.Duration) error {
	args := m.Called(ctx, categories, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateMenu(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetAnalyticsSummary(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockCacheService) SetAnalyticsSummary(ctx context.Context, summary map[string]interface{}, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MenuServiceTestSuite struct {
	suite.Suite
	menuRepo *MockMenuItemRepository
	minioSvc *MockMinioService
	cacheSvc *MockCacheService
	service  MenuServiceInterface
	ctx      context.Context
}

func (s *MenuServiceTestSuite) SetupTest() {
	s.menuRepo = new(MockMenuItemRepository)
	s.minioSvc = new(MockMinioService)
	s.cacheSvc = new(MockCacheService)
	s.service = NewMenuService(s.menuRepo, s.minioSvc, s.cacheSvc)
	s.ctx = context.Background()
}

func (s *MenuServiceTestSuite) TestDeleteMenuItem_OrderSnapshotsSurvive() {
	item := &models.MenuItem{
		ID:       uuid.New(),
		Name:     "Margherita",
		Price:    12.50,
		Category: "Pizza",
	}
	// Snapshot captured the way a submission records a line item.
	line := &models.OrderItem{
		MenuItemID: item.ID,
		ItemName:   item.Name,
		UnitPrice:  item.Price,
		Quantity:   2,
	}

	s.menuRepo.On("GetByID", s.ctx, item.ID).Return(item, nil)
	s.menuRepo.On("Delete", s.ctx, item.ID).Return(nil)
	s.cacheSvc.On("GetString", s.ctx, imageObjectKey(item.ID)).Return("", caching.ErrCacheMiss)
	s.cacheSvc.On("InvalidateMenu", s.ctx).Return(nil)

	err := s.service.DeleteMenuItem(s.ctx, item.ID)

	s.NoError(err)
	s.menuRepo.AssertExpectations(s.T())
	s.Equal("Margherita", line.ItemName)
	s.Equal(12.50, line.UnitPrice)
	s.Equal(2, line.Quantity)
}

func (s *MenuServiceTestSuite) TestDeleteMenuItem_RemovesStoredImage() {
	id := uuid.New()
	item := &models.MenuItem{ID: id, Name: "Margherita", Price: 12.50, Category: "Pizza"}

	s.menuRepo.On("GetByID", s.ctx, id).Return(item, nil)
	s.menuRepo.On("Delete", s.ctx, id).Return(nil)
	s.cacheSvc.On("GetString", s.ctx, imageObjectKey(id)).Return("menu/"+id.String()+"/pizza.jpg", nil)
	s.minioSvc.On("RemoveImage", s.ctx, "menu/"+id.String()+"/pizza.jpg").Return(nil)
	s.cacheSvc.On("Delete", s.ctx, imageObjectKey(id)).Return(nil)
	s.cacheSvc.On("InvalidateMenu", s.ctx).Return(nil)

	err := s.service.DeleteMenuItem(s.ctx, id)

	s.NoError(err)
	s.minioSvc.AssertExpectations(s.T())
	s.cacheSvc.AssertExpectations(s.T())
}

func (s *MenuServiceTestSuite) TestDeleteMenuItem_ImageRemovalFailureDoesNotFailDelete() {
	id := uuid.New()
	item := &models.MenuItem{ID: id, Name: "Margherita", Price: 12.50, Category: "Pizza"}

	s.menuRepo.On("GetByID", s.ctx, id).Return(item, nil)
	s.menuRepo.On("Delete", s.ctx, id).Return(nil)
	s.cacheSvc.On("GetString", s.ctx, imageObjectKey(id)).Return("menu/"+id.String()+"/pizza.jpg", nil)
	s.minioSvc.On("RemoveImage", s.ctx, mock.Anything).Return(io.ErrUnexpectedEOF)
	s.cacheSvc.On("InvalidateMenu", s.ctx).Return(nil)

	err := s.service.DeleteMenuItem(s.ctx, id)

	s.NoError(err)
	s.cacheSvc.AssertNotCalled(s.T(), "Delete")
}

func (s *MenuServiceTestSuite) TestUploadItemImage_RecordsObjectNameForCleanup() {
	id := uuid.New()
	item := &models.MenuItem{ID: id, Name: "Margherita", Price: 12.50, Category: "Pizza"}
	objectName := "menu/" + id.String() + "/pizza.jpg"
	reader := strings.NewReader("image-bytes")

	s.menuRepo.On("GetByID", s.ctx, id).Return(item, nil)
	s.minioSvc.On("UploadImage", s.ctx, objectName, reader, int64(11), "image/jpeg").Return(nil)
	s.minioSvc.On("PresignedURL", s.ctx, objectName, imageURLExpiry).Return("https://minio.example.com/"+objectName, nil)
	s.menuRepo.On("UpdateImageURL", s.ctx, id, "https://minio.example.com/"+objectName).Return(nil)
	s.cacheSvc.On("SetString", s.ctx, imageObjectKey(id), objectName, time.Duration(0)).Return(nil)
	s.cacheSvc.On("InvalidateMenu", s.ctx).Return(nil)

	imageURL, err := s.service.UploadItemImage(s.ctx, id, "pizza.jpg", reader, 11, "image/jpeg")

	s.NoError(err)
	s.Equal("https://minio.example.com/"+objectName, imageURL)
	s.cacheSvc.AssertExpectations(s.T())
}

func (s *MenuServiceTestSuite) TestCreateMenuItem_RejectsNegativePrice() {
	item := &models.MenuItem{Name: "Margherita", Price: -5, Category: "Pizza"}

	err := s.service.CreateMenuItem(s.ctx, item)

	s.Error(err)
	s.menuRepo.AssertNotCalled(s.T(), "Create")
}

func TestMenuServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MenuServiceTestSuite))
}
