package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"leximi/internal/dataset"
	"leximi/internal/fileutil"
	"leximi/internal/logging"
	"leximi/internal/media/ffprobe"
	"leximi/internal/services"
)

// DefaultExtension is the stored audio file extension.
const DefaultExtension = "webm"

// Downloader fetches the audio track of a video into dir as base.<ext>.
type Downloader interface {
	DownloadAudio(ctx context.Context, videoID, dir, base, ext string) (string, error)
}

// Verifier checks a downloaded file actually carries audio.
type Verifier interface {
	VerifyAudio(ctx context.Context, path string) (ffprobe.Result, error)
}

// Option configures a Backfiller.
type Option func(*Backfiller)

// WithVerifier enables post-download verification.
func WithVerifier(v Verifier) Option {
	return func(b *Backfiller) { b.verifier = v }
}

// WithLimit caps the number of downloads per run. Zero means no cap.
func WithLimit(limit int) Option {
	return func(b *Backfiller) {
		if limit > 0 {
			b.limit = limit
		}
	}
}

// WithExtension sets the stored file extension.
func WithExtension(ext string) Option {
	return func(b *Backfiller) {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			b.ext = strings.ToLower(ext)
		}
	}
}

// WithDryRun reports what would be linked or downloaded without doing it.
func WithDryRun(dryRun bool) Option {
	return func(b *Backfiller) { b.dryRun = dryRun }
}

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backfiller) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Backfiller attaches local audio files to entries that lack one.
type Backfiller struct {
	store      *dataset.Store
	downloader Downloader
	verifier   Verifier
	dir        string
	ext        string
	limit      int
	dryRun     bool
	logger     *slog.Logger
}

// NewBackfiller wires the audio pass over store, writing files into dir.
func NewBackfiller(store *dataset.Store, downloader Downloader, dir string, opts ...Option) (*Backfiller, error) {
	if store == nil || downloader == nil || strings.TrimSpace(dir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "audio", "init", "store, downloader and audio directory are required", nil)
	}
	b := &Backfiller{
		store:      store,
		downloader: downloader,
		dir:        dir,
		ext:        DefaultExtension,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, "audio")
	return b, nil
}

// FileName returns the audio file name for a day of a period.
func FileName(periodKey string, day int, ext string) string {
	return fmt.Sprintf("%s-%d.%s", periodKey, day, ext)
}

// Run walks every period in calendar order. Entries whose audio file already
// exists are linked without invoking any tool; the rest are downloaded. A
// failed download leaves the entry untouched. Each changed period is written
// once, after all of its entries were processed.
func (b *Backfiller) Run(ctx context.Context) (Report, error) {
	report := Report{DryRun: b.dryRun, StartedAt: time.Now()}
	if id, ok := services.RunIDFromContext(ctx); ok {
		report.RunID = id
	}
	err := b.run(services.WithStage(ctx, "audio"), &report)
	report.FinishedAt = time.Now()
	return report, err
}

func (b *Backfiller) run(ctx context.Context, report *Report) error {
	logger := logging.WithContext(ctx, b.logger)

	loaded, err := b.store.Load()
	if err != nil {
		return err
	}
	for _, w := range loaded.Warnings {
		logging.WarnErr(logger, "skipped malformed record", w,
			"repair or remove the line in "+w.File, "period file left unchanged until fixed")
		report.Warnings = append(report.Warnings, Warning{EventType: services.EventType(w), Message: w.Error()})
	}

	d := loaded.Dataset.Clone()
	for _, p := range b.store.Periods().All() {
		entries := d[p.Key]
		if loaded.IsHeld(p.Key) {
			b.hold(services.WithPeriod(ctx, p.Key), report, entries)
			continue
		}
		changed := false
		for i := range entries {
			if entries[i].AudioFile != "" {
				continue
			}
			entryCtx := services.WithVideoID(services.WithPeriod(ctx, p.Key), entries[i].VideoID)
			name, err := b.resolve(entryCtx, report, p.Key, entries[i])
			if err != nil {
				return err
			}
			if name == "" {
				continue
			}
			entries[i].AudioFile = name
			changed = true
		}

		if !changed && !slices.Contains(loaded.Migrated, p.Key) {
			continue
		}
		if b.dryRun {
			continue
		}
		saved, err := b.store.Save(d, []string{p.Key})
		if err != nil {
			return err
		}
		report.Written = append(report.Written, saved.Written...)
		if len(saved.Held) > 0 {
			b.hold(services.WithPeriod(ctx, p.Key), report, entries)
		}
	}

	logger.Info("audio pass complete",
		logging.Int("linked", report.Linked),
		logging.Int("downloaded", len(report.Downloaded)),
		logging.Int("failed", report.Failed),
		logging.Int("deferred", report.Deferred),
	)
	return nil
}

// resolve returns the file name to record for entry, or "" when the entry
// stays without audio this run.
func (b *Backfiller) resolve(ctx context.Context, report *Report, periodKey string, entry dataset.DayEntry) (string, error) {
	logger := logging.WithContext(ctx, b.logger)
	base := fmt.Sprintf("%s-%d", periodKey, entry.Day)
	name := FileName(periodKey, entry.Day, b.ext)
	path := filepath.Join(b.dir, name)

	exists, err := fileutil.Exists(path)
	if err != nil {
		return "", fmt.Errorf("check audio file: %w", err)
	}
	if exists {
		report.Linked++
		logger.Info("linked existing audio", logging.String("file", name))
		return name, nil
	}

	if b.limit > 0 && report.attempts >= b.limit {
		report.Deferred++
		return "", nil
	}
	report.attempts++
	if b.dryRun {
		report.Pending = append(report.Pending, name)
		return "", nil
	}

	downloaded, err := b.downloader.DownloadAudio(ctx, entry.VideoID, b.dir, base, b.ext)
	if err != nil {
		if services.Classify(err) == services.DispositionFatal {
			return "", err
		}
		b.fail(ctx, report, "audio download failed", err, "check yt-dlp output and the cookies file")
		return "", nil
	}

	if b.verifier != nil {
		if _, err := b.verifier.VerifyAudio(ctx, downloaded); err != nil {
			_ = os.Remove(downloaded)
			b.fail(ctx, report, "downloaded file failed verification",
				services.Wrap(services.ErrExternalTool, "audio", "verify", filepath.Base(downloaded), err),
				"the download was removed; check the video is still available")
			return "", nil
		}
	}

	file := Downloaded{Name: filepath.Base(downloaded), Period: periodKey, Day: entry.Day}
	if info, err := os.Stat(downloaded); err == nil {
		file.Size = info.Size()
	}
	report.Downloaded = append(report.Downloaded, file)
	logger.Info("downloaded audio", logging.String("file", file.Name), logging.Int64("bytes", file.Size))
	return file.Name, nil
}

// hold skips a period whose file has malformed records. Nothing is downloaded
// for it since the result could not be recorded.
func (b *Backfiller) hold(ctx context.Context, report *Report, entries []dataset.DayEntry) {
	missing := 0
	for _, entry := range entries {
		if entry.AudioFile == "" {
			missing++
		}
	}
	if missing == 0 {
		return
	}
	report.Held++
	logging.WarnWithContext(logging.WithContext(ctx, b.logger), "period file has malformed records, audio skipped", "period_held",
		logging.Int("entries_without_audio", missing),
		logging.String(logging.FieldErrorHint, "repair the malformed lines in the period file"),
		logging.String(logging.FieldImpact, "entries retried after the file is repaired"),
	)
	w := Warning{EventType: "period_held", Message: "period file has malformed records, audio skipped"}
	w.Period, _ = services.PeriodFromContext(ctx)
	report.Warnings = append(report.Warnings, w)
}

func (b *Backfiller) fail(ctx context.Context, report *Report, msg string, err error, hint string) {
	report.Failed++
	logging.WarnErr(logging.WithContext(ctx, b.logger), msg, err, hint, "entry left without audio until the next run")
	w := Warning{EventType: services.EventType(err), Message: msg}
	w.Period, _ = services.PeriodFromContext(ctx)
	w.VideoID, _ = services.VideoIDFromContext(ctx)
	report.Warnings = append(report.Warnings, w)
}
