package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/internal/model"
	"gitlab.com/timkado/api/lead-importer/pkg/logger"
)

func testLeads() []model.Lead {
	return []model.Lead{
		{Address: *model.NewAddress(&model.Address{DMID: "L-1", Flag: 3}), Phones: []string{"555-1111", "555-2222"}},
		{Address: *model.NewAddress(&model.Address{DMID: "L-2", Flag: 3})},
		{Address: *model.NewAddress(&model.Address{DMID: "L-3", Flag: 3}), Phones: []string{"555-3333"}},
	}
}

func TestFindDMIDsByFlag(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectQuery(`SELECT "DMID" FROM "address" WHERE "flag" = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"DMID"}).AddRow("L-1").AddRow("L-9"))

	ids, err := repo.FindDMIDsByFlag(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"L-1", "L-9"}, ids)
}

func TestFindDMIDsByFlag_RetriesTransientError(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectQuery(`SELECT "DMID" FROM "address"`).
		WillReturnError(errors.New("read tcp 10.0.0.1:1->10.0.0.2:5432: i/o timeout"))
	mock.ExpectQuery(`SELECT "DMID" FROM "address"`).
		WillReturnRows(sqlmock.NewRows([]string{"DMID"}).AddRow("L-1"))

	ids, err := repo.FindDMIDsByFlag(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"L-1"}, ids)
}

func TestFindDMIDsByFlag_PermanentError(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectQuery(`SELECT "DMID" FROM "address"`).
		WillReturnError(&pgconn.PgError{Code: "42703"})

	_, err := repo.FindDMIDsByFlag(ctx, 3)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestFindAllPhones_SkipsNullsAndEmpties(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectQuery(`SELECT .* FROM "phonequeue" ORDER BY "phonequeue"."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone1", "phone2", "phone3"}).
			AddRow(1, "555-1111", nil, "").
			AddRow(2, "555-2222", "555-3333", "555-4444"))

	phones, err := repo.FindAllPhones(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"555-1111", "555-2222", "555-3333", "555-4444"}, phones)
}

func TestInsertBatch_Postgres_UsesReturnedIDs(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "address" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101).AddRow(102).AddRow(103))
	mock.ExpectQuery(`INSERT INTO "phonequeue" \("aid","phone1","phone2","phone3","step"\)`).
		WithArgs(
			101, "555-1111", "555-2222", nil, model.PhoneQueueStep,
			103, "555-3333", nil, nil, model.PhoneQueueStep,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	n, err := repo.InsertBatch(ctx, testLeads())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInsertBatch_MySQL_UsesLastInsertIDOffsets(t *testing.T) {
	repo, mock := newMySQLMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `address`").
		WillReturnResult(sqlmock.NewResult(501, 3))
	mock.ExpectExec("INSERT INTO `phonequeue`").
		WithArgs(
			501, "555-1111", "555-2222", nil, model.PhoneQueueStep,
			503, "555-3333", nil, nil, model.PhoneQueueStep,
		).
		WillReturnResult(sqlmock.NewResult(900, 2))
	mock.ExpectCommit()

	n, err := repo.InsertBatch(ctx, testLeads())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInsertBatch_NoPhonesSkipsQueueInsert(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	leads := []model.Lead{{Address: *model.NewAddress()}}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "address"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	n, err := repo.InsertBatch(ctx, leads)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertBatch_Empty(t *testing.T) {
	repo, _ := newPostgresMockRepo(t)

	n, err := repo.InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertBatch_AddressFailureRollsBack(t *testing.T) {
	repo, mock := newMySQLMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `address`").
		WillReturnError(&mysqldrv.MySQLError{Number: 1406, Message: "Data too long for column 'zip'"})
	mock.ExpectRollback()

	n, err := repo.InsertBatch(ctx, testLeads())
	assert.Zero(t, n)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestInsertBatch_PhoneQueueFailureRollsBack(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "address"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	mock.ExpectQuery(`INSERT INTO "phonequeue"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "phonequeue_aid_fkey"})
	mock.ExpectRollback()

	n, err := repo.InsertBatch(ctx, testLeads())
	assert.Zero(t, n)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestInsertBatch_MissingIdentifierAborts(t *testing.T) {
	repo, mock := newMySQLMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `address`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectRollback()

	n, err := repo.InsertBatch(ctx, testLeads())
	assert.Zero(t, n)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Contains(t, err.Error(), "no identifier")
}

func TestInsertBatch_CommitFailure(t *testing.T) {
	repo, mock := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "address"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	mock.ExpectQuery(`INSERT INTO "phonequeue"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, err := repo.InsertBatch(ctx, testLeads())
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestInsertBatch_InvalidAddressNeverReachesTheStore(t *testing.T) {
	repo, _ := newPostgresMockRepo(t)
	ctx := logger.WithLogger(context.Background(), zaptest.NewLogger(t))

	leads := testLeads()
	leads[1].Address.DMID = ""

	n, err := repo.InsertBatch(ctx, leads)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "batch position 1")
	assert.Contains(t, err.Error(), "DMID")
}

func TestRowsPerInsert(t *testing.T) {
	sqliteRepo := &SQLRepo{driver: DriverSQLite}
	assert.Equal(t, 40, sqliteRepo.rowsPerInsert(40))
	assert.Equal(t, sqliteRowsPerInsert, sqliteRepo.rowsPerInsert(3000))

	pgRepo := &SQLRepo{driver: DriverPostgres}
	assert.Equal(t, 3000, pgRepo.rowsPerInsert(3000))
}
