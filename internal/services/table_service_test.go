package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"tableside/internal/models"
)

type TableServiceTestSuite struct {
	suite.Suite
	tableRepo *MockTableRepository
	service   TableServiceInterface
	context   context.Context
}

func (suite *TableServiceTestSuite) SetupTest() {
	suite.tableRepo = new(MockTableRepository)
	suite.service = NewTableService(suite.tableRepo, "https://orders.example.com")
	suite.context = context.Background()
}

func TestTableServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TableServiceTestSuite))
}

func (suite *TableServiceTestSuite) TestCreateTable_Success() {
	table := &models.Table{TableNumber: "12"}

	suite.tableRepo.On("GetByTableNumber", suite.context, "12").Return(nil, pgx.ErrNoRows)
	suite.tableRepo.On("Create", suite.context, table).Return(nil)

	err := suite.service.CreateTable(suite.context, table)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, table.ID)
	assert.Equal(suite.T(), models.TableStatusAvailable, table.Status)
}

func (suite *TableServiceTestSuite) TestCreateTable_DuplicateNumber() {
	existing := &models.Table{ID: uuid.New(), TableNumber: "12"}
	table := &models.Table{TableNumber: "12"}

	suite.tableRepo.On("GetByTableNumber", suite.context, "12").Return(existing, nil)

	err := suite.service.CreateTable(suite.context, table)

	assert.ErrorIs(suite.T(), err, ErrDuplicateTableNumber)
	suite.tableRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *TableServiceTestSuite) TestCreateTable_RejectsBadNumber() {
	table := &models.Table{TableNumber: "12/34"}

	err := suite.service.CreateTable(suite.context, table)

	assert.Error(suite.T(), err)
	suite.tableRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *TableServiceTestSuite) TestUpdateTable_OwnNumberIsNotDuplicate() {
	table := &models.Table{ID: uuid.New(), TableNumber: "12", Status: models.TableStatusAvailable}

	suite.tableRepo.On("GetByID", suite.context, table.ID).Return(table, nil)
	suite.tableRepo.On("GetByTableNumber", suite.context, "12").Return(table, nil)
	suite.tableRepo.On("Update", suite.context, table).Return(nil)

	err := suite.service.UpdateTable(suite.context, table)

	assert.NoError(suite.T(), err)
}

func (suite *TableServiceTestSuite) TestUpdateTable_NumberTakenByOtherTable() {
	other := &models.Table{ID: uuid.New(), TableNumber: "12"}
	table := &models.Table{ID: uuid.New(), TableNumber: "12", Status: models.TableStatusAvailable}

	suite.tableRepo.On("GetByID", suite.context, table.ID).Return(table, nil)
	suite.tableRepo.On("GetByTableNumber", suite.context, "12").Return(other, nil)

	err := suite.service.UpdateTable(suite.context, table)

	assert.ErrorIs(suite.T(), err, ErrDuplicateTableNumber)
	suite.tableRepo.AssertNotCalled(suite.T(), "Update")
}

func (suite *TableServiceTestSuite) TestRegenerateQRCode_EncodesOrderEntryURL() {
	table := &models.Table{ID: uuid.New(), TableNumber: "Patio 3", Status: models.TableStatusAvailable}

	suite.tableRepo.On("GetByID", suite.context, table.ID).Return(table, nil)
	suite.tableRepo.On("UpdateQRCode", suite.context, table.ID, "https://orders.example.com/order/Patio%203").Return(nil)

	result, err := suite.service.RegenerateQRCode(suite.context, table.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://orders.example.com/order/Patio%203", *result.QRCode)
}

func (suite *TableServiceTestSuite) TestReleaseTable_FlipsOccupied() {
	table := &models.Table{ID: uuid.New(), TableNumber: "12", Status: models.TableStatusOccupied}

	suite.tableRepo.On("GetByID", suite.context, table.ID).Return(table, nil)
	suite.tableRepo.On("UpdateStatus", suite.context, table.ID, models.TableStatusAvailable).Return(nil)

	result, err := suite.service.ReleaseTable(suite.context, table.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TableStatusAvailable, result.Status)
}

func (suite *TableServiceTestSuite) TestReleaseTable_AlreadyAvailableIsIdempotent() {
	table := &models.Table{ID: uuid.New(), TableNumber: "12", Status: models.TableStatusAvailable}

	suite.tableRepo.On("GetByID", suite.context, table.ID).Return(table, nil)

	result, err := suite.service.ReleaseTable(suite.context, table.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TableStatusAvailable, result.Status)
	suite.tableRepo.AssertNotCalled(suite.T(), "UpdateStatus")
}
