package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/internal/model"
	"gitlab.com/timkado/api/lead-importer/internal/observer"
	"gitlab.com/timkado/api/lead-importer/internal/runctx"
	"gitlab.com/timkado/api/lead-importer/internal/storage"
	"gitlab.com/timkado/api/lead-importer/pkg/logger"
	"gitlab.com/timkado/api/lead-importer/pkg/utils"
)

// Reasons a row is read but not imported.
const (
	SkipMalformed     = "malformed"
	SkipNoLeadID      = "no_lead_id"
	SkipDuplicateLead = "duplicate_lead"
	SkipNoFirstName   = "no_first_name"
	SkipKnownPhones   = "known_phones"
)

// Options tunes the importer.
type Options struct {
	UploadDir        string
	ProcessedDir     string
	BatchSize        int
	MaxExecution     time.Duration // per-file deadline measured from the header check
	ArchiveTruncated bool          // archive files cut short by the deadline
}

// FileResult reports what happened to one upload.
type FileResult struct {
	File        string
	Campaign    string
	Flag        int64
	RowsRead    int
	Inserted    int
	Skipped     map[string]int
	TimedOut    bool
	Interrupted bool // the run was cancelled while the file was open
	Outcome     string
	MovedTo     string
}

func newFileResult(path string) *FileResult {
	return &FileResult{File: filepath.Base(path), Skipped: make(map[string]int)}
}

func (r *FileResult) skip(reason string) {
	r.Skipped[reason]++
}

// StopCause explains why reading stopped before the end of the file, or
// returns nil when it did not.
func (r *FileResult) StopCause() error {
	switch {
	case r.Interrupted:
		return apperrors.ErrInterrupted
	case r.TimedOut:
		return apperrors.ErrTimeout
	}
	return nil
}

// RunSummary totals one invocation.
type RunSummary struct {
	Files    int
	Archived int
	Retained int
	Rejected int
	Failed   int
	RowsRead int
	Inserted int
}

func (s *RunSummary) add(r *FileResult) {
	s.Files++
	s.RowsRead += r.RowsRead
	s.Inserted += r.Inserted
	switch r.Outcome {
	case OutcomeArchived:
		s.Archived++
	case OutcomeRetained:
		s.Retained++
	case OutcomeRejected:
		s.Rejected++
	case OutcomeFailed:
		s.Failed++
	}
}

// Importer moves lead CSV uploads into the address and phone queue tables.
type Importer struct {
	campaigns storage.CampaignRepo
	leads     storage.LeadRepo
	opts      Options
	now       func() time.Time

	leadIDs map[int64]*LeadIDSet // per campaign flag, for the whole run
}

// NewImporter creates an importer.
func NewImporter(campaigns storage.CampaignRepo, leads storage.LeadRepo, opts Options) *Importer {
	return &Importer{
		campaigns: campaigns,
		leads:     leads,
		opts:      opts,
		now:       utils.Now,
		leadIDs:   make(map[int64]*LeadIDSet),
	}
}

// ScanUploads lists the *.csv files directly inside dir in name order.
func ScanUploads(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run imports every upload once. Only failures that happen before any file is
// touched are returned; per-file errors relocate that file and the run goes on.
func (i *Importer) Run(ctx context.Context) (RunSummary, error) {
	var summary RunSummary
	log := logger.FromContext(ctx)

	files, err := ScanUploads(i.opts.UploadDir)
	if err != nil {
		return summary, apperrors.NewFatal(err, "failed to list uploads")
	}
	if len(files) == 0 {
		log.Info("No files to process", zap.String("upload_dir", i.opts.UploadDir))
		return summary, nil
	}

	known, err := i.leads.FindAllPhones(ctx)
	if err != nil {
		return summary, apperrors.NewFatal(err, "failed to seed phone set")
	}
	phones := NewPhoneSet(known)
	log.Info("Seeded phone set", zap.Int("phones", phones.Len()), zap.Int("files", len(files)))

	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Run interrupted, leaving remaining files for the next run", zap.Error(ctx.Err()))
			break
		}

		fileCtx := runctx.WithFileName(ctx, filepath.Base(path))
		result := newFileResult(path)
		err := utils.WrapWithContextRecovery(func(ctx context.Context) error {
			var err error
			result, err = i.ProcessFile(ctx, path, phones)
			return err
		})(fileCtx)
		switch {
		case err == nil:
		case ctx.Err() != nil && !apperrors.IsPermanentFileError(err):
			// A store call cut by the signal; the file stays for the next run.
			result.Interrupted = true
			i.retain(fileCtx, result, err)
		default:
			i.relocate(fileCtx, path, result, err)
		}
		observeFile(result)
		summary.add(result)
	}

	log.Info("Run finished",
		zap.Int("files", summary.Files),
		zap.Int("archived", summary.Archived),
		zap.Int("retained", summary.Retained),
		zap.Int("rejected", summary.Rejected),
		zap.Int("failed", summary.Failed),
		zap.Int("rows_read", summary.RowsRead),
		zap.Int("inserted", summary.Inserted),
	)
	return summary, nil
}

// ProcessFile imports one upload and settles it: archived when complete, left
// in place when cut short by the deadline or by cancellation. A returned error leaves the file
// where it is; the result still reports the rows committed before it.
func (i *Importer) ProcessFile(ctx context.Context, path string, phones *PhoneSet) (*FileResult, error) {
	result := newFileResult(path)

	meta, ok := ParseFileName(result.File)
	if !ok {
		return result, fmt.Errorf("%w: %s", apperrors.ErrFilenamePattern, result.File)
	}
	result.Campaign = meta.CampaignName

	if err := i.importFile(ctx, path, meta, phones, result); err != nil {
		return result, err
	}
	return result, i.settle(ctx, path, result)
}

func (i *Importer) importFile(ctx context.Context, path string, meta FileMeta, phones *PhoneSet, result *FileResult) error {
	log := logger.FromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewRetryable(err, "failed to open %s", result.File)
	}
	defer f.Close()

	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}

	src, charset, err := utf8Reader(f)
	if err != nil {
		return apperrors.NewRetryable(err, "failed to sniff encoding of %s", result.File)
	}

	reader := csv.NewReader(src)
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty file", apperrors.ErrIncompleteSchema)
	}
	if err != nil {
		return apperrors.NewRetryable(err, "failed to read header of %s", result.File)
	}
	index := NewHeaderIndex(header)
	if missing := index.Missing(model.RequiredColumns); len(missing) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrIncompleteSchema, strings.Join(missing, ", "))
	}

	start := i.now()

	campaign, err := i.campaigns.EnsureCampaign(ctx, meta.CampaignName)
	if err != nil {
		return apperrors.NewRetryable(err, "failed to ensure campaign %q", meta.CampaignName)
	}
	result.Flag = campaign.Flag

	leadIDs, err := i.leadIDsFor(ctx, campaign.Flag)
	if err != nil {
		return apperrors.NewRetryable(err, "failed to load lead ids for flag %d", campaign.Flag)
	}

	log.Info("Processing file",
		zap.String("campaign", meta.CampaignName),
		zap.Int64("flag", campaign.Flag),
		zap.Int64("skip_ai", meta.SkipAI),
		zap.Time("uploaded_at", meta.UploadedAt),
		zap.String("size", utils.ByteCountSI(size)),
		zap.String("charset", charset),
		zap.Int("known_lead_ids", leadIDs.Len()),
	)

	// Batches already read are written even after cancellation.
	storeCtx := context.WithoutCancel(ctx)

	batch := NewBatch(i.opts.BatchSize)
	var readErr error
	for {
		if ctx.Err() != nil {
			log.Warn("Run interrupted, stopping file", zap.Int("rows_read", result.RowsRead), zap.Error(ctx.Err()))
			result.Interrupted = true
			break
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn("Skipping malformed line", zap.Int("line", parseErr.Line), zap.Error(err))
				result.skip(SkipMalformed)
				continue
			}
			readErr = apperrors.NewRetryable(err, "failed to read %s", result.File)
			break
		}
		result.RowsRead++

		if i.now().Sub(start) > i.opts.MaxExecution {
			log.Warn("Maximum execution time reached, stopping file",
				zap.Duration("max_execution", i.opts.MaxExecution),
				zap.Int("rows_read", result.RowsRead),
				zap.Error(apperrors.ErrTimeout),
			)
			result.TimedOut = true
			break
		}

		leadID := index.Get(record, model.ColLeadID)
		if leadID == "" {
			result.skip(SkipNoLeadID)
			continue
		}
		if !leadIDs.Claim(leadID) {
			result.skip(SkipDuplicateLead)
			continue
		}

		address := extractAddress(index, record, meta)
		if address.FName == "" {
			result.skip(SkipNoFirstName)
			continue
		}
		address.DMID = leadID
		address.Flag = campaign.Flag

		candidates := phoneCandidates(index, record)
		novel := phones.Claim(candidates)
		if len(candidates) > 0 && len(novel) == 0 {
			result.skip(SkipKnownPhones)
			continue
		}

		if batch.Add(model.Lead{Address: address, Phones: novel}) {
			if err := i.flush(storeCtx, batch, result); err != nil {
				return err
			}
		}
	}

	if err := i.flush(storeCtx, batch, result); err != nil {
		return err
	}
	return readErr
}

// leadIDsFor returns the run's lead id set for a campaign, seeding it from
// the store on first use.
func (i *Importer) leadIDsFor(ctx context.Context, flag int64) (*LeadIDSet, error) {
	if set, ok := i.leadIDs[flag]; ok {
		return set, nil
	}
	ids, err := i.leads.FindDMIDsByFlag(ctx, flag)
	if err != nil {
		return nil, err
	}
	set := NewLeadIDSet(ids)
	i.leadIDs[flag] = set
	return set, nil
}

// flush commits the buffered leads in one transaction. A failure stops the file.
func (i *Importer) flush(ctx context.Context, batch *Batch, result *FileResult) error {
	if batch.Len() == 0 {
		return nil
	}

	startTime := utils.Now()
	phoneRows := batch.PhoneRows()
	n, err := i.leads.InsertBatch(ctx, batch.Leads())
	observer.ObserveBatchFlush(time.Since(startTime), n, phoneRows, err)
	if err != nil {
		logger.FromContext(ctx).Error("Batch insert failed",
			zap.Int("batch_size", batch.Len()),
			zap.Int("inserted_before", result.Inserted),
			zap.Bool("duplicate", apperrors.IsDuplicateError(err)),
			zap.Error(err),
		)
		return apperrors.NewRetryable(err, "failed to insert batch of %d", batch.Len())
	}

	result.Inserted += n
	logger.FromContext(ctx).Debug("Batch flushed", zap.Int("rows", n), zap.Int("inserted_total", result.Inserted))
	batch.Reset()
	return nil
}

func observeFile(r *FileResult) {
	observer.IncFileOutcome(r.Outcome)
	observer.AddRowsRead(r.RowsRead)
	for reason, n := range r.Skipped {
		observer.AddRowsSkipped(reason, n)
	}
	if errors.Is(r.StopCause(), apperrors.ErrTimeout) {
		observer.IncFileTimeout()
	}
}
