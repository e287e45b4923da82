package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"tableside/internal/models"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	orderID uuid.UUID
	tableID uuid.UUID
	context context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.orderID = uuid.New()
	suite.tableID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) newSubmission() (*models.Order, []*models.OrderItem) {
	order := &models.Order{
		ID:          suite.orderID,
		TableNumber: "12",
		Status:      models.OrderStatusPending,
		TotalAmount: 49.00,
	}
	items := []*models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, MenuItemID: uuid.New(), ItemName: "Margherita", Quantity: 2, UnitPrice: 12.50},
		{ID: uuid.New(), OrderID: order.ID, MenuItemID: uuid.New(), ItemName: "Lemonade", Quantity: 3, UnitPrice: 8.00},
	}
	return order, items
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_CommitsEverything() {
	order, items := suite.newSubmission()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		INSERT INTO orders \(id, table_number, status, total_amount, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, NOW\(\), NOW\(\)\)
	`).WithArgs(order.ID, order.TableNumber, order.Status, order.TotalAmount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, item := range items {
		suite.mock.ExpectExec(`
			INSERT INTO order_items \(id, order_id, menu_item_id, item_name, quantity, unit_price, notes, created_at\)
			VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\)\)
		`).WithArgs(item.ID, item.OrderID, item.MenuItemID, item.ItemName, item.Quantity, item.UnitPrice, item.Notes).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	suite.mock.ExpectExec(`UPDATE tables SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(models.TableStatusOccupied, suite.tableID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateWithItems(suite.context, order, items, suite.tableID)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_ItemInsertFailureRollsBack() {
	order, items := suite.newSubmission()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		INSERT INTO orders \(id, table_number, status, total_amount, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, NOW\(\), NOW\(\)\)
	`).WithArgs(order.ID, order.TableNumber, order.Status, order.TotalAmount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`
		INSERT INTO order_items \(id, order_id, menu_item_id, item_name, quantity, unit_price, notes, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\)\)
	`).WithArgs(items[0].ID, items[0].OrderID, items[0].MenuItemID, items[0].ItemName, items[0].Quantity, items[0].UnitPrice, items[0].Notes).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithItems(suite.context, order, items, suite.tableID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "insert order item")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_TableUpdateFailureRollsBack() {
	order, items := suite.newSubmission()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		INSERT INTO orders \(id, table_number, status, total_amount, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, NOW\(\), NOW\(\)\)
	`).WithArgs(order.ID, order.TableNumber, order.Status, order.TotalAmount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, item := range items {
		suite.mock.ExpectExec(`
			INSERT INTO order_items \(id, order_id, menu_item_id, item_name, quantity, unit_price, notes, created_at\)
			VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\)\)
		`).WithArgs(item.ID, item.OrderID, item.MenuItemID, item.ItemName, item.Quantity, item.UnitPrice, item.Notes).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	suite.mock.ExpectExec(`UPDATE tables SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(models.TableStatusOccupied, suite.tableID).
		WillReturnError(errors.New("deadlock detected"))
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithItems(suite.context, order, items, suite.tableID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "occupy table")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`
		SELECT id, table_number, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = \$1
	`).WithArgs(suite.orderID).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_Applied() {
	suite.mock.ExpectExec(`
		UPDATE orders
		SET status = \$1, updated_at = NOW\(\)
		WHERE id = \$2 AND status = \$3
	`).WithArgs(models.OrderStatusPreparing, suite.orderID, models.OrderStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	applied, err := suite.repo.UpdateStatus(suite.context, suite.orderID, models.OrderStatusPending, models.OrderStatusPreparing)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), applied)
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_LostRace() {
	// A concurrent writer already moved the order off pending.
	suite.mock.ExpectExec(`
		UPDATE orders
		SET status = \$1, updated_at = NOW\(\)
		WHERE id = \$2 AND status = \$3
	`).WithArgs(models.OrderStatusPreparing, suite.orderID, models.OrderStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	applied, err := suite.repo.UpdateStatus(suite.context, suite.orderID, models.OrderStatusPending, models.OrderStatusPreparing)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), applied)
}

func (suite *OrderRepoTestSuite) TestListActive_FiltersAndOrders() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "table_number", "status", "total_amount", "created_at", "updated_at"}).
		AddRow(uuid.New(), "3", models.OrderStatusPending, 21.00, now.Add(-10*time.Minute), now.Add(-10*time.Minute)).
		AddRow(uuid.New(), "7", models.OrderStatusPreparing, 34.50, now.Add(-5*time.Minute), now)

	suite.mock.ExpectQuery(`
		SELECT id, table_number, status, total_amount, created_at, updated_at
		FROM orders
		WHERE status IN \(\$1, \$2\)
		ORDER BY created_at ASC
	`).WithArgs(models.OrderStatusPending, models.OrderStatusPreparing).
		WillReturnRows(rows)

	result, err := suite.repo.ListActive(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), "3", result[0].TableNumber)
	assert.True(suite.T(), result[0].CreatedAt.Before(result[1].CreatedAt))
}

func (suite *OrderRepoTestSuite) TestCountByStatusSince() {
	since := time.Now().Add(-24 * time.Hour)
	rows := pgxmock.NewRows([]string{"status", "count"}).
		AddRow(models.OrderStatusPending, 2).
		AddRow(models.OrderStatusCompleted, 5)

	suite.mock.ExpectQuery(`
		SELECT status, COUNT\(\*\)
		FROM orders
		WHERE created_at >= \$1
		GROUP BY status
	`).WithArgs(since).
		WillReturnRows(rows)

	counts, err := suite.repo.CountByStatusSince(suite.context, since)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, counts[models.OrderStatusPending])
	assert.Equal(suite.T(), 5, counts[models.OrderStatusCompleted])
}

func (suite *OrderRepoTestSuite) TestCompletedRevenueSince_EmptyWindow() {
	since := time.Now().Add(-24 * time.Hour)
	rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(0.0)

	suite.mock.ExpectQuery(`
		SELECT COALESCE\(SUM\(total_amount\), 0\)
		FROM orders
		WHERE status = \$1 AND created_at >= \$2
	`).WithArgs(models.OrderStatusCompleted, since).
		WillReturnRows(rows)

	revenue, err := suite.repo.CompletedRevenueSince(suite.context, since)
	assert.NoError(suite.T(), err)
	assert.Zero(suite.T(), revenue)
}
