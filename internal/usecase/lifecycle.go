package usecase

import (
	"context"

	"go.uber.org/zap"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/internal/archive"
	"gitlab.com/timkado/api/lead-importer/pkg/logger"
)

// File outcomes.
const (
	OutcomeArchived = "archived" // imported to the end and moved
	OutcomeRetained = "retained" // cut short, left for the next run
	OutcomeRejected = "rejected" // bad name or header, moved unimported
	OutcomeFailed   = "failed"   // error mid-import, moved anyway
)

// settle archives a file whose rows were all read. A file stopped by the
// deadline stays in the upload directory so the next run picks it up again,
// unless ArchiveTruncated is set. An interrupted file always stays.
func (i *Importer) settle(ctx context.Context, path string, result *FileResult) error {
	log := logger.FromContext(ctx)

	if result.Interrupted {
		i.retain(ctx, result, apperrors.ErrInterrupted)
		return nil
	}
	complete := !result.TimedOut || (i.opts.ArchiveTruncated && result.RowsRead >= result.Inserted)
	if !complete {
		i.retain(ctx, result, result.StopCause())
		return nil
	}

	dst, err := archive.MoveFileToDir(path, i.opts.ProcessedDir)
	if err != nil {
		return apperrors.NewRetryable(err, "failed to archive %s", result.File)
	}
	result.Outcome = OutcomeArchived
	result.MovedTo = dst
	log.Info("File processed",
		zap.String("moved_to", dst),
		zap.Int("rows_read", result.RowsRead),
		zap.Int("inserted", result.Inserted),
		zap.Any("skipped", result.Skipped),
		zap.Bool("timed_out", result.TimedOut),
	)
	return nil
}

// retain leaves a file in the upload directory. Lead-id dedup makes the next
// run skip the rows already committed.
func (i *Importer) retain(ctx context.Context, result *FileResult, cause error) {
	result.Outcome = OutcomeRetained
	logger.FromContext(ctx).Warn("File stopped early, leaving it for the next run",
		zap.Int("rows_read", result.RowsRead),
		zap.Int("inserted", result.Inserted),
		zap.Error(cause),
	)
}

// relocate force-moves a file whose processing failed so one bad upload
// cannot block later runs.
func (i *Importer) relocate(ctx context.Context, path string, result *FileResult, cause error) {
	log := logger.FromContext(ctx)

	if apperrors.IsPermanentFileError(cause) {
		result.Outcome = OutcomeRejected
		log.Warn("Rejecting file", zap.Error(cause))
	} else {
		result.Outcome = OutcomeFailed
		log.Error("Error processing file, moving it aside",
			zap.Int("rows_read", result.RowsRead),
			zap.Int("inserted", result.Inserted),
			zap.Bool("retryable", apperrors.IsRetryable(cause)),
			zap.Error(cause),
		)
	}

	dst, err := archive.MoveFileToDir(path, i.opts.ProcessedDir)
	if err != nil {
		log.Error("Failed to move file to processed directory", zap.Error(err))
		return
	}
	result.MovedTo = dst
}
