// Package build runs the scan → classify → render → write pipeline.
package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mahmood726-cyber/Metasprint/internal/classify"
	"github.com/mahmood726-cyber/Metasprint/internal/config"
	"github.com/mahmood726-cyber/Metasprint/internal/gitinfo"
	"github.com/mahmood726-cyber/Metasprint/internal/logfields"
	"github.com/mahmood726-cyber/Metasprint/internal/manifest"
	"github.com/mahmood726-cyber/Metasprint/internal/metrics"
	"github.com/mahmood726-cyber/Metasprint/internal/notes"
	"github.com/mahmood726-cyber/Metasprint/internal/page"
	"github.com/mahmood726-cyber/Metasprint/internal/scan"
)

// Report summarizes one completed build.
type Report struct {
	BuildID      string
	StartedAt    time.Time
	Duration     time.Duration
	FilesScanned int
	Pages        int
	Files        int
	OutputPath   string
	OutputSHA256 string
}

// Builder orchestrates gateway builds. Safe for repeated Run calls; the daemon
// reuses one instance across rebuilds.
type Builder struct {
	cfg      *config.Config
	recorder metrics.Recorder
	history  *manifest.Store
}

// New creates a builder for cfg.
func New(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}}
}

// SetRecorder injects a metrics recorder (optional). Returns the builder for chaining.
func (b *Builder) SetRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		b.recorder = metrics.NoopRecorder{}
		return b
	}
	b.recorder = r
	return b
}

// SetHistory injects the build history store (optional). Returns the builder for chaining.
func (b *Builder) SetHistory(st *manifest.Store) *Builder {
	b.history = st
	return b
}

// Run executes a full build and returns its report.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{
		BuildID:    uuid.NewString(),
		StartedAt:  started.UTC(),
		OutputPath: filepath.Join(b.cfg.Scan.Directory, b.cfg.Scan.Output),
	}

	pages, files, err := b.classified()
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	report.FilesScanned = len(pages) + len(files)
	report.Pages = len(pages)
	report.Files = len(files)

	if err := ctx.Err(); err != nil {
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	content, err := b.render(pages, files)
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	if err := page.Write(report.OutputPath, content); err != nil {
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	sum := sha256.Sum256(content)
	report.OutputSHA256 = hex.EncodeToString(sum[:])
	report.Duration = time.Since(started)

	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	b.recorder.SetFilesScanned(report.FilesScanned)
	b.recorder.SetCardsRendered(metrics.GroupPages, report.Pages)
	b.recorder.SetCardsRendered(metrics.GroupFiles, report.Files)

	b.persist(ctx, report)

	slog.Info("Gateway written",
		logfields.BuildID(report.BuildID),
		logfields.Output(report.OutputPath),
		logfields.Count(report.FilesScanned),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

// Inventory scans and classifies without writing output (the scan subcommand).
func (b *Builder) Inventory(ctx context.Context) (pages, files []classify.Card, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return b.classified()
}

func (b *Builder) classified() (pages, files []classify.Card, err error) {
	scanner := scan.New(b.cfg.Scan.Directory, b.excluded()...)
	entries, err := scanner.Scan()
	if err != nil {
		return nil, nil, err
	}
	classifier := classify.New(b.cfg.Tables)
	pages, files = classifier.ClassifyAll(entries)
	return pages, files, nil
}

// excluded returns the exact filenames the scanner must skip: the output file,
// the manifest database and its SQLite sidecars when they live in the scan
// directory, and any configured exclusions.
func (b *Builder) excluded() []string {
	ex := []string{b.cfg.Scan.Output}
	if base, ok := b.manifestInScanDir(); ok {
		ex = append(ex, base, base+"-journal", base+"-wal", base+"-shm")
	}
	return append(ex, b.cfg.Scan.Exclude...)
}

// manifestInScanDir reports whether the manifest database resolves into the
// scan directory, returning its basename when it does. A manifest kept
// elsewhere must not shadow a same-named file among the scanned entries.
func (b *Builder) manifestInScanDir() (string, bool) {
	if b.cfg.Manifest.Path == "" {
		return "", false
	}
	manifestDir, err := filepath.Abs(filepath.Dir(b.cfg.Manifest.Path))
	if err != nil {
		return "", false
	}
	scanDir, err := filepath.Abs(b.cfg.Scan.Directory)
	if err != nil {
		return "", false
	}
	if manifestDir != scanDir {
		return "", false
	}
	return filepath.Base(b.cfg.Manifest.Path), true
}

func (b *Builder) render(pages, files []classify.Card) ([]byte, error) {
	data := page.Data{
		Title:    b.cfg.Page.Title,
		Subtitle: b.cfg.Page.Subtitle,
		Tabs:     page.Tabs(pages, files),
	}

	if b.cfg.Page.NotesFile != "" {
		notesPath := b.cfg.Page.NotesFile
		if !filepath.IsAbs(notesPath) {
			notesPath = filepath.Join(b.cfg.Scan.Directory, notesPath)
		}
		fragment, err := notes.Render(notesPath)
		if err != nil {
			// The notes panel is an extra; a bad notes file must not fail the build.
			slog.Warn("Notes file not rendered", logfields.Path(notesPath), logfields.Error(err))
		} else {
			data.Notes = template.HTML(fragment)
		}
	}

	updated := b.updatedTimes(pages, files)
	for _, card := range pages {
		data.Pages = append(data.Pages, page.NewCardView(card, updated[card.Entry.Path]))
	}
	for _, card := range files {
		data.Files = append(data.Files, page.NewCardView(card, updated[card.Entry.Path]))
	}

	content, err := page.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render gateway: %w", err)
	}
	return content, nil
}

// updatedTimes resolves last-commit times when git_dates is enabled. Missing
// repository or history yields an empty map; cards then render without dates.
func (b *Builder) updatedTimes(groups ...[]classify.Card) map[string]time.Time {
	updated := map[string]time.Time{}
	if !b.cfg.Page.GitDates {
		return updated
	}

	resolver, err := gitinfo.Open(b.cfg.Scan.Directory)
	if err != nil {
		slog.Warn("Git dates unavailable", logfields.Path(b.cfg.Scan.Directory), logfields.Error(err))
		return updated
	}
	for _, cards := range groups {
		for _, card := range cards {
			if when, ok := resolver.LastUpdated(card.Entry.Path); ok {
				updated[card.Entry.Path] = when
			}
		}
	}
	return updated
}

func (b *Builder) persist(ctx context.Context, report *Report) {
	if b.history == nil {
		return
	}
	record := manifest.Record{
		BuildID:      report.BuildID,
		StartedAt:    report.StartedAt,
		DurationMS:   report.Duration.Milliseconds(),
		FilesScanned: report.FilesScanned,
		Pages:        report.Pages,
		Files:        report.Files,
		OutputPath:   report.OutputPath,
		OutputSHA256: report.OutputSHA256,
	}
	if err := b.history.Append(ctx, record); err != nil {
		slog.Warn("Failed to record build in manifest", logfields.BuildID(report.BuildID), logfields.Error(err))
	}
}
