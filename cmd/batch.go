package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/insurawise/internal/intake"
	"github.com/sells-group/insurawise/internal/model"
)

var (
	batchCategory    string
	batchDir         string
	batchConcurrency int
	batchLimit       int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every PDF in a directory and store the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if batchConcurrency > 0 {
			cfg.Batch.MaxConcurrentDocuments = batchConcurrency
		}
		if err := cfg.Validate("batch"); err != nil {
			return err
		}
		if err := cfg.Validate("store"); err != nil {
			return err
		}
		cat, err := model.ParseCategory(batchCategory)
		if err != nil {
			return err
		}

		files, err := listPDFs(batchDir)
		if err != nil {
			return err
		}

		env, err := initService(ctx, cfg, serviceOpts{Documents: true, Store: true})
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := processBatch(ctx, files, cat, batchLimit, cfg.Batch.MaxConcurrentDocuments, env.Service.Process)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return eris.Errorf("batch: %d of %d documents failed", summary.Failed, summary.Total())
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCategory, "category", "", "product type: CAR, BIKE or HEALTH (required)")
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory of policy PDFs (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "documents processed at once (default from config)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("category")
	_ = batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

// listPDFs returns the .pdf files directly under dir in name order.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read dir %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// processFunc is the callback signature for processing one document.
type processFunc func(ctx context.Context, req intake.Request) (*intake.Result, error)

// batchSummary counts batch outcomes.
type batchSummary struct {
	Validated int64
	Degraded  int64
	Failed    int64
}

// Total is the number of documents attempted.
func (s batchSummary) Total() int64 { return s.Validated + s.Degraded + s.Failed }

// processBatch applies limit, then processes files concurrently. A failed
// document is logged and counted but does not stop the batch.
func processBatch(ctx context.Context, files []string, cat model.Category, limit, concurrency int, process processFunc) (batchSummary, error) {
	if len(files) == 0 {
		zap.L().Info("no pdf files found")
		return batchSummary{}, nil
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(files)),
		zap.Int("concurrency", concurrency),
		zap.String("category", cat.String()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var validated, degraded, failed atomic.Int64

	for _, path := range files {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			res, err := process(gctx, intake.Request{
				Category: cat,
				Filename: filepath.Base(path),
				Path:     path,
				Save:     true,
			})
			if err != nil {
				failed.Add(1)
				log.Error("document failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			if res.Outcome.IsValidated() {
				validated.Add(1)
			} else {
				degraded.Add(1)
			}
			log.Info("document complete",
				zap.String("status", string(res.Outcome.Status)),
				zap.String("document_id", res.DocumentID),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return batchSummary{}, eris.Wrap(err, "batch processing")
	}

	summary := batchSummary{
		Validated: validated.Load(),
		Degraded:  degraded.Load(),
		Failed:    failed.Load(),
	}
	zap.L().Info("batch complete",
		zap.Int64("validated", summary.Validated),
		zap.Int64("degraded", summary.Degraded),
		zap.Int64("failed", summary.Failed),
	)
	return summary, nil
}
