package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/color-regions/internal/config"
	"github.com/ironsheep/color-regions/internal/imaging"
	"github.com/ironsheep/color-regions/internal/logger"
)

const component = "pipeline"

// Summary totals a batch run.
type Summary struct {
	// Processed counts images annotated and written.
	Processed int `json:"processed"`

	// Failed counts images that could not be decoded or written.
	Failed int `json:"failed"`

	// Skipped counts directory entries that are not image files.
	Skipped int `json:"skipped"`

	// Detections is the total number of regions annotated.
	Detections int `json:"detections"`

	errs error
}

// Err returns the per-file failures combined into one error, or nil if every
// image was processed. Use multierr.Errors to split it.
func (s *Summary) Err() error {
	return s.errs
}

// Runner processes a directory of images.
type Runner struct {
	proc    *Processor
	workers int
	log     logger.Logger
}

// NewRunner returns a Runner for cfg. A nil log discards all output.
func NewRunner(cfg config.Config, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		proc:    NewProcessor(cfg),
		workers: workers,
		log:     log,
	}
}

// Run annotates every image directly inside srcDir into dstDir.
//
// dstDir is created if needed. Entries that are not image files, including
// subdirectories, are logged as warnings and skipped. Output files keep their
// source names, so an existing file with the same name is replaced. Per-file failures are logged,
// counted in the Summary and collected in Summary.Err; they never stop the
// batch.
//
// # Errors
//
//   - Returns error if srcDir cannot be read or dstDir cannot be created;
//     no file is processed in that case
//   - Returns ctx.Err() with a partial Summary if ctx is cancelled
func (r *Runner) Run(ctx context.Context, srcDir, dstDir string) (*Summary, error) {
	listing, err := imaging.ListImages(srcDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	r.log.Debug(component, "starting batch", logger.Fields{
		"source":  srcDir,
		"output":  dstDir,
		"images":  len(listing.Images),
		"workers": r.workers,
	})

	for _, name := range listing.Ignored {
		r.log.Warning(component, "skipping entry, not an image file", logger.Fields{
			"file": filepath.Join(srcDir, name),
		})
	}

	summary := &Summary{Skipped: listing.Skipped}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.workers)

	for _, name := range listing.Images {
		if ctx.Err() != nil {
			break
		}

		src := filepath.Join(srcDir, name)
		dst := filepath.Join(dstDir, name)

		g.Go(func() error {
			res, err := r.proc.ProcessFile(ctx, src, dst)

			mu.Lock()
			defer mu.Unlock()
			r.record(ctx, summary, src, res, err)
			return nil
		})
	}
	_ = g.Wait()

	r.log.Info(component, "batch complete", logger.Fields{
		"processed":  summary.Processed,
		"failed":     summary.Failed,
		"skipped":    summary.Skipped,
		"detections": summary.Detections,
	})

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// record logs one file's outcome and adds it to summary. The caller holds the
// summary lock.
func (r *Runner) record(ctx context.Context, summary *Summary, src string, res Result, err error) {
	if err == nil {
		summary.Processed++
		summary.Detections += len(res.Detections)
		r.log.Info(component, "annotated image", logger.Fields{
			"file":       src,
			"output":     res.Output,
			"detections": len(res.Detections),
		})
		return
	}

	// Images not started before cancellation are neither processed nor failed.
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return
	}

	summary.Failed++
	summary.errs = multierr.Append(summary.errs, err)

	var decodeErr *imaging.DecodeError
	if errors.As(err, &decodeErr) {
		r.log.Error(component, "failed to decode image, skipping", err, logger.Fields{"file": src})
		return
	}
	r.log.Error(component, "failed to write image, skipping", err, logger.Fields{"file": src})
}
