package repositories

import (
	"context"
	"testing"
	"time"

	"retailstock/internal/common"
	"retailstock/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AdjustmentRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      AdjustmentRepository
	requestID uuid.UUID
	userID    uuid.UUID
	context   context.Context
}

func (suite *AdjustmentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAdjustmentRepo(mock)
	suite.requestID = uuid.New()
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *AdjustmentRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestAdjustmentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AdjustmentRepoTestSuite))
}

func (suite *AdjustmentRepoTestSuite) TestMarkResolved_PendingRowResolves() {
	now := time.Now()
	suite.mock.ExpectExec(`UPDATE manual_adjustments`).
		WithArgs(models.AdjustmentApproved, suite.userID, now, (*string)(nil), suite.requestID, models.AdjustmentPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := suite.repo.MarkResolved(suite.context, suite.mock, suite.requestID,
		models.AdjustmentApproved, suite.userID, now, nil)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)
}

func (suite *AdjustmentRepoTestSuite) TestMarkResolved_AlreadyResolvedRowReportsFalse() {
	now := time.Now()
	suite.mock.ExpectExec(`UPDATE manual_adjustments`).
		WithArgs(models.AdjustmentRejected, suite.userID, now, (*string)(nil), suite.requestID, models.AdjustmentPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0)) // PENDING guard matched nothing

	ok, err := suite.repo.MarkResolved(suite.context, suite.mock, suite.requestID,
		models.AdjustmentRejected, suite.userID, now, nil)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
}

func (suite *AdjustmentRepoTestSuite) TestGetForUpdate_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM manual_adjustments`).
		WithArgs(suite.requestID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetForUpdate(suite.context, suite.mock, suite.requestID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *AdjustmentRepoTestSuite) TestListPending_ReturnsQueueInOrder() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "product_id", "old_quantity", "new_quantity", "reason",
		"requested_by", "status", "approved_by", "approved_at", "notes", "created_at"}).
		AddRow(uuid.New(), uuid.New(), 80, 72, "cycle count variance",
			suite.userID, models.AdjustmentPending, (*uuid.UUID)(nil), (*time.Time)(nil), (*string)(nil), now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM manual_adjustments`).
		WithArgs(models.AdjustmentPending, 50, 0).
		WillReturnRows(rows)

	reqs, err := suite.repo.ListPending(suite.context, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), reqs, 1)
	assert.Equal(suite.T(), -8, reqs[0].Delta())
}
