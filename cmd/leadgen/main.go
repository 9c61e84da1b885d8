package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"gitlab.com/timkado/api/lead-importer/internal/config"
	"gitlab.com/timkado/api/lead-importer/internal/model"
	"gitlab.com/timkado/api/lead-importer/pkg/logger"
	"gitlab.com/timkado/api/lead-importer/pkg/utils"
)

// FileTask describes one upload to generate.
type FileTask struct {
	Index    int
	Campaign string
	SkipAI   int
	Rows     int
	DupRate  float64
	Dir      string
	Stamp    int64
}

// Name is the upload file name the importer expects.
func (t FileTask) Name() string {
	return fmt.Sprintf("%d_skipAI_%d_%s.csv", t.Stamp, t.SkipAI, t.Campaign)
}

type stats struct {
	files  atomic.Int64
	rows   atomic.Int64
	bytes  atomic.Int64
	errors atomic.Int64
}

func main() {
	defaultDir := "./uploads"
	if cfg, err := config.LoadConfig(""); err == nil {
		defaultDir = cfg.Paths.Upload
	}

	dir := flag.String("dir", defaultDir, "Upload directory to write files into")
	files := flag.Int("files", 3, "Number of files to generate")
	rows := flag.Int("rows", 1000, "Rows per file")
	concurrency := flag.Int("concurrency", 4, "Number of concurrent writers")
	campaignsStr := flag.String("campaigns", "spring-list,summer-list", "Comma-separated campaign names, assigned round robin")
	skipAIRate := flag.Float64("skip-ai-rate", 0.2, "Fraction of files flagged skipAI=1")
	dupRate := flag.Float64("dup-rate", 0.05, "Fraction of rows reusing an earlier lead id or phone")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Lead CSV Generator\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Writes fake lead uploads for the lead importer.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logger.Initialize(*logLevel, "console"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	campaigns := strings.Split(*campaignsStr, ",")
	if len(campaigns) == 0 || campaigns[0] == "" {
		logger.Log.Fatal("No campaigns provided")
	}
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		logger.Log.Fatal("Failed to create upload directory", zap.String("dir", *dir), zap.Error(err))
	}

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Log.Info("Starting lead generator",
		zap.String("dir", *dir),
		zap.Int("files", *files),
		zap.Int("rows", *rows),
		zap.Int("concurrency", *concurrency),
		zap.Strings("campaigns", campaigns),
	)

	var (
		wg sync.WaitGroup
		st stats
	)
	pool, err := ants.NewPoolWithFunc(*concurrency, func(data interface{}) {
		defer wg.Done()
		task := data.(FileTask)
		defer utils.RecoverWithLog(ctx, "generate "+task.Name())
		writeTask(ctx, task, &st)
	})
	if err != nil {
		logger.Log.Fatal("Failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	base := utils.Now().Unix()
	for i := 0; i < *files; i++ {
		if ctx.Err() != nil {
			logger.Log.Info("Interrupted, not submitting remaining files")
			break
		}
		skipAI := 0
		if rand.Float64() < *skipAIRate {
			skipAI = 1
		}
		task := FileTask{
			Index:    i,
			Campaign: strings.TrimSpace(campaigns[i%len(campaigns)]),
			SkipAI:   skipAI,
			Rows:     *rows,
			DupRate:  *dupRate,
			Dir:      *dir,
			Stamp:    base + int64(i),
		}
		wg.Add(1)
		if err := pool.Invoke(task); err != nil {
			wg.Done()
			st.errors.Add(1)
			logger.Log.Warn("Failed to invoke worker pool", zap.String("file", task.Name()), zap.Error(err))
		}
	}

	wg.Wait()
	logger.Log.Info("Lead generator finished",
		zap.Int64("files", st.files.Load()),
		zap.Int64("rows", st.rows.Load()),
		zap.String("bytes", utils.ByteCountSI(st.bytes.Load())),
		zap.Int64("errors", st.errors.Load()),
	)
	if st.errors.Load() > 0 {
		os.Exit(1)
	}
}

// writeTask writes the file under a .part name and renames it into place so
// an importer scanning the directory never sees a half-written upload.
func writeTask(ctx context.Context, task FileTask, st *stats) {
	final := filepath.Join(task.Dir, task.Name())
	partial := final + ".part"

	n, err := writeRows(ctx, partial, task)
	if err == nil {
		err = os.Rename(partial, final)
	}
	if err != nil {
		_ = os.Remove(partial)
		if errors.Is(err, context.Canceled) {
			logger.Log.Warn("Upload abandoned", zap.String("file", task.Name()), zap.Int("rows_written", n))
			return
		}
		st.errors.Add(1)
		logger.Log.Error("Failed to write upload", zap.String("file", task.Name()), zap.Error(err))
		return
	}

	size := int64(0)
	if info, err := os.Stat(final); err == nil {
		size = info.Size()
	}
	st.files.Add(1)
	st.rows.Add(int64(n))
	st.bytes.Add(size)
	logger.Log.Info("Upload written",
		zap.String("file", task.Name()),
		zap.Int("rows", n),
		zap.String("size", utils.ByteCountSI(size)),
	)
}

func writeRows(ctx context.Context, path string, task FileTask) (int, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.RequiredColumns); err != nil {
		return 0, err
	}

	var prev map[string]string
	written := 0
	for i := 0; i < task.Rows; i++ {
		if i%1000 == 0 && ctx.Err() != nil {
			return written, ctx.Err()
		}
		row := model.NewLeadRow()
		if prev != nil && rand.Float64() < task.DupRate {
			// Exercise the importer's dedup: half repeat a lead id, half a phone.
			if rand.Intn(2) == 0 {
				row[model.ColLeadID] = prev[model.ColLeadID]
			} else {
				row[model.ColContact1Phone1] = prev[model.ColContact1Phone1]
			}
		}
		if err := w.Write(model.LeadRecord(model.RequiredColumns, row)); err != nil {
			return written, err
		}
		prev = row
		written++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return written, err
	}
	return written, f.Sync()
}
