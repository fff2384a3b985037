// Package runner drives the per-image pipeline: discover test images,
// extract their metadata, run the configured check and archive the
// processed files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/iptc-tools/pmdchecker/internal/check"
	"github.com/iptc-tools/pmdchecker/internal/config"
	"github.com/iptc-tools/pmdchecker/internal/exif"
	"github.com/iptc-tools/pmdchecker/internal/guide"
	"github.com/iptc-tools/pmdchecker/internal/pmd"
	"github.com/iptc-tools/pmdchecker/internal/report"
)

// Runner processes every image in the test directory. The reference tree and
// guide are immutable and shared across concurrent file runs.
type Runner struct {
	cfg       config.Config
	guide     *guide.Guide
	ref       *pmd.Object
	extractor exif.Extractor

	opts         check.Options
	writeParquet bool
	concurrency  int
}

// New builds a runner. ref may be nil in inventory mode, which is driven by
// the guide alone.
func New(cfg config.Config, g *guide.Guide, ref *pmd.Object, extractor exif.Extractor, opts check.Options, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		cfg:         cfg,
		guide:       g,
		ref:         ref,
		extractor:   extractor,
		opts:        opts,
		concurrency: concurrency,
	}
}

// WriteParquet also writes inventory rows as a Parquet file next to the CSV.
func (r *Runner) WriteParquet(enabled bool) {
	r.writeParquet = enabled
}

// fileResult is the outcome of one image's run.
type fileResult struct {
	image    string
	findings int
	err      error
}

// Run processes all images. Per-file failures are logged and do not abort
// the run; an error is returned only when the workspace itself is unusable.
func (r *Runner) Run(ctx context.Context) error {
	images, err := FindImages(r.cfg.TestPath())
	if err != nil {
		return err
	}
	if len(images) == 0 {
		slog.Info("No test images found", "dir", r.cfg.TestPath())
		return nil
	}

	for _, dir := range []string{r.cfg.ResultsPath(), r.cfg.CachePath(), r.cfg.BackupPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	runLog, err := report.OpenTextLog(r.cfg.RunLogPath())
	if err != nil {
		return err
	}
	defer runLog.Close()

	slog.Info("Processing images", "count", len(images), "concurrency", r.concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.concurrency)
	results := make(chan fileResult, len(images))

	for _, image := range images {
		wg.Add(1)
		go func(image string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			findings, err := r.processImage(ctx, runLog, image)
			results <- fileResult{image: image, findings: findings, err: err}
		}(image)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	checked, failed := 0, 0
	for res := range results {
		if res.err != nil {
			failed++
			slog.Error("Image check failed", "image", res.image, "error", res.err)
			continue
		}
		checked++
		slog.Info("Image checked", "image", res.image, "findings", res.findings)
	}

	slog.Info("Run finished", "checked", checked, "failed", failed)
	return nil
}

// processImage runs extraction and the configured check for one image, then
// moves it to the backup directory.
func (r *Runner) processImage(ctx context.Context, runLog *report.TextLog, image string) (int, error) {
	base := strings.TrimSuffix(image, filepath.Ext(image))
	imagePath := filepath.Join(r.cfg.TestPath(), image)
	cachePath := filepath.Join(r.cfg.CachePath(), base+".json")

	if err := r.extractor.Extract(ctx, imagePath, cachePath); err != nil {
		if errors.Is(err, exif.ErrExtractionFailed) {
			_ = runLog.WriteLine("NO METADATA extracted for image: " + image)
		}
		return 0, err
	}

	cand, err := pmd.LoadFile(cachePath)
	if err != nil {
		return 0, err
	}

	if err := runLog.WriteLine("Tested JSON file of image: " + image); err != nil {
		return 0, err
	}

	var findings int
	if r.opts.Mode == check.ModeInventory {
		err = r.runInventory(base, cand)
	} else {
		findings, err = r.runDivergence(runLog, base, cand)
	}
	if err != nil {
		return findings, err
	}

	backupPath := filepath.Join(r.cfg.BackupPath(), image)
	if err := os.Rename(imagePath, backupPath); err != nil {
		return findings, fmt.Errorf("failed to archive image: %w", err)
	}
	return findings, nil
}

// runDivergence checks the candidate against the reference and records the
// findings in the per-image result file, the shared run log and on stdout.
func (r *Runner) runDivergence(runLog *report.TextLog, base string, cand *pmd.Object) (int, error) {
	resultPath := filepath.Join(r.cfg.ResultsPath(), base+".txt")
	fileLog, err := report.OpenTextLog(resultPath)
	if err != nil {
		return 0, err
	}
	defer fileLog.Close()

	findings := 0
	sink := countingSink{
		inner: report.NewFindingLog(report.Console{}, runLog, fileLog),
		count: &findings,
	}

	checker := check.New(r.guide, sink, nil, r.opts)
	if err := checker.Run(r.ref, cand); err != nil {
		return findings, err
	}

	if err := fileLog.WriteLine("***** TEST FINISHED *****"); err != nil {
		return findings, err
	}
	return findings, nil
}

// runInventory writes one classified row per known property to the
// per-image CSV (and Parquet, when enabled).
func (r *Runner) runInventory(base string, cand *pmd.Object) error {
	csvSink, err := report.NewCSVSink(filepath.Join(r.cfg.ResultsPath(), base+".csv"), r.cfg.Separator())
	if err != nil {
		return err
	}
	defer csvSink.Close()

	rows := report.MultiRowSink{csvSink}
	if r.writeParquet {
		parquetSink, err := report.NewParquetSink(filepath.Join(r.cfg.ResultsPath(), base+".parquet"))
		if err != nil {
			return err
		}
		defer parquetSink.Close()
		rows = append(rows, parquetSink)
	}

	discard := check.SinkFunc(func(check.Finding) error { return nil })
	checker := check.New(r.guide, discard, rows, r.opts)
	return checker.Run(r.ref, cand)
}

// countingSink counts findings on their way to the real sink.
type countingSink struct {
	inner check.Sink
	count *int
}

func (s countingSink) Emit(f check.Finding) error {
	*s.count++
	return s.inner.Emit(f)
}

// FindImages collects the checkable image files in a directory.
func FindImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read test directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".png":
			images = append(images, entry.Name())
		}
	}
	return images, nil
}
