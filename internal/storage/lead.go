package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/internal/model"
	"gitlab.com/timkado/api/lead-importer/internal/observer"
	"gitlab.com/timkado/api/lead-importer/internal/validator"
	"gitlab.com/timkado/api/lead-importer/pkg/logger"
	"gitlab.com/timkado/api/lead-importer/pkg/utils"
)

// phoneScanBatchSize bounds memory while seeding the phone set.
const phoneScanBatchSize = 10000

// sqliteRowsPerInsert keeps one address INSERT (19 variables per row) under
// SQLite's 32766 variable limit.
const sqliteRowsPerInsert = 1000

// FindDMIDsByFlag returns every lead id already imported into the campaign.
func (r *SQLRepo) FindDMIDsByFlag(ctx context.Context, flag int64) ([]string, error) {
	var ids []string
	operation := func() error {
		ids = ids[:0]
		return r.db.WithContext(ctx).
			Model(&model.Address{}).
			Where(clause.Eq{Column: clause.Column{Name: "flag"}, Value: flag}).
			Pluck("DMID", &ids).Error
	}

	startTime := utils.Now()
	err := retryableOperation(ctx, newRetryPolicy(ctx, readRetryMaxElapsedTime), "FindDMIDsByFlag", operation)
	observer.ObserveDbOperationDuration("find", "address", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to load lead ids", zap.Int64("flag", flag), zap.Error(err))
		return nil, checkConstraintViolation(err)
	}
	return ids, nil
}

// FindAllPhones returns every non-empty phone on the phone queue, scanning
// the table in primary key order.
func (r *SQLRepo) FindAllPhones(ctx context.Context) ([]string, error) {
	var phones []string
	operation := func() error {
		phones = phones[:0]
		var rows []model.PhoneQueue
		return r.db.WithContext(ctx).
			Model(&model.PhoneQueue{}).
			Select("id", "phone1", "phone2", "phone3").
			FindInBatches(&rows, phoneScanBatchSize, func(tx *gorm.DB, batch int) error {
				for _, row := range rows {
					phones = append(phones, row.Numbers()...)
				}
				return nil
			}).Error
	}

	startTime := utils.Now()
	err := retryableOperation(ctx, newRetryPolicy(ctx, readRetryMaxElapsedTime), "FindAllPhones", operation)
	observer.ObserveDbOperationDuration("find", "phonequeue", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to load known phones", zap.Error(err))
		return nil, checkConstraintViolation(err)
	}
	return phones, nil
}

// InsertBatch writes one multi-row INSERT into address and one into
// phonequeue inside a single transaction. The phone queue row at batch
// position k points at the identifier the store assigned to address k.
func (r *SQLRepo) InsertBatch(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	loggerCtx := logger.FromContext(ctx)

	addresses := make([]model.Address, len(leads))
	for i := range leads {
		if err := validator.Validate(leads[i].Address); err != nil {
			return 0, fmt.Errorf("%w: batch position %d: %w", apperrors.ErrValidation, i, err)
		}
		addresses[i] = leads[i].Address
		addresses[i].ID = 0
	}

	startTime := utils.Now()
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, tx.Error)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				loggerCtx.Error("Failed to rollback transaction after error", zap.Error(rbErr), zap.NamedError("originalTxError", txErr))
			}
		}
	}()

	// Postgres and SQLite read the ids back via RETURNING; MySQL fills them from
	// LAST_INSERT_ID() plus the row offset.
	if err := tx.CreateInBatches(&addresses, r.rowsPerInsert(len(addresses))).Error; err != nil {
		txErr = checkConstraintViolation(err)
		observer.ObserveDbOperationDuration("insert", "address", time.Since(startTime), txErr)
		return 0, txErr
	}

	queue := make([]model.PhoneQueue, 0, len(leads))
	for i := range leads {
		aid := addresses[i].ID
		if aid == 0 {
			txErr = fmt.Errorf("%w: no identifier returned for address at batch position %d", apperrors.ErrDatabase, i)
			observer.ObserveDbOperationDuration("insert", "address", time.Since(startTime), txErr)
			return 0, txErr
		}
		if leads[i].HasPhones() {
			queue = append(queue, leads[i].PhoneQueueFor(aid))
		}
	}

	if len(queue) > 0 {
		if err := tx.CreateInBatches(&queue, r.rowsPerInsert(len(queue))).Error; err != nil {
			txErr = checkConstraintViolation(err)
			observer.ObserveDbOperationDuration("insert", "phonequeue", time.Since(startTime), txErr)
			return 0, txErr
		}
	}

	if commitErr := tx.Commit().Error; commitErr != nil {
		txErr = fmt.Errorf("%w: failed to commit batch transaction: %w", apperrors.ErrDatabase, commitErr)
		observer.ObserveDbOperationDuration("insert", "address", time.Since(startTime), txErr)
		return 0, txErr
	}
	observer.ObserveDbOperationDuration("insert", "address", time.Since(startTime), nil)

	loggerCtx.Debug("Batch committed",
		zap.Int("addresses", len(addresses)),
		zap.Int("phonequeue", len(queue)),
		zap.Int64("first_id", addresses[0].ID),
		zap.Int64("last_id", addresses[len(addresses)-1].ID),
	)
	return len(leads), nil
}

// rowsPerInsert returns how many of n rows go into one INSERT statement.
// Every chunk reads its own identifiers back, so positions stay correlated.
func (r *SQLRepo) rowsPerInsert(n int) int {
	if r.driver == DriverSQLite && n > sqliteRowsPerInsert {
		return sqliteRowsPerInsert
	}
	return n
}
