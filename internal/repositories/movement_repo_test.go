package repositories

import (
	"context"
	"testing"
	"time"

	"retailstock/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MovementRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      MovementRepository
	productID uuid.UUID
	context   context.Context
}

func (suite *MovementRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewMovementRepo(mock)
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func (suite *MovementRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestMovementRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MovementRepoTestSuite))
}

func (suite *MovementRepoTestSuite) TestInsert_Success() {
	entry := &models.MovementEntry{
		ProductID:   suite.productID,
		Movement:    models.MovementSale,
		Quantity:    12,
		ReferenceID: uuid.New(),
		PerformedBy: uuid.New(),
		SourceTable: "sale",
	}

	suite.mock.ExpectExec(`INSERT INTO stock_movements`).
		WithArgs(pgxmock.AnyArg(), entry.ProductID, "SALE", entry.Quantity,
			entry.ReferenceID, entry.PerformedBy, entry.SourceTable, entry.TerminalID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Insert(suite.context, suite.mock, entry)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, entry.ID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementRepoTestSuite) TestListByProduct_ReturnsEntries() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "product_id", "movement_type", "quantity", "reference_id", "performed_by", "source_table", "terminal_id", "created_at"}).
		AddRow(uuid.New(), suite.productID, models.MovementSale, 3, uuid.New(), uuid.New(), "sale", (*string)(nil), now).
		AddRow(uuid.New(), suite.productID, models.MovementPurchaseReceipt, 40, uuid.New(), uuid.New(), "stockin", (*string)(nil), now.Add(-time.Hour))

	suite.mock.ExpectQuery(`SELECT (.+) FROM stock_movements`).
		WithArgs(suite.productID, 50, 0).
		WillReturnRows(rows)

	entries, err := suite.repo.ListByProduct(suite.context, suite.productID, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), -3, entries[0].Delta())
	assert.Equal(suite.T(), 40, entries[1].Delta())
}

func (suite *MovementRepoTestSuite) TestSumDeltas_AppliesDirectionPerType() {
	rows := pgxmock.NewRows([]string{"movement_type", "quantity"}).
		AddRow(models.MovementPurchaseReceipt, 100).
		AddRow(models.MovementSale, 30).
		AddRow(models.MovementReplenishDisplay, 10).
		AddRow(models.MovementTransferIn, 10).
		AddRow(models.MovementDamage, 5) // record-only, contributes zero

	suite.mock.ExpectQuery(`SELECT movement_type, COALESCE\(SUM\(quantity\), 0\)`).
		WithArgs(suite.productID).
		WillReturnRows(rows)

	total, err := suite.repo.SumDeltas(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
	// +100 -30 -10 +10 +0
	assert.Equal(suite.T(), 70, total)
}
