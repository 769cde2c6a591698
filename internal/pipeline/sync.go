package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"leximi/internal/dataset"
	"leximi/internal/feed"
	"leximi/internal/logging"
	"leximi/internal/services"
	"leximi/internal/title"
)

// FeedSource lists the items currently published in the playlist feed.
type FeedSource interface {
	FetchKnownItems(ctx context.Context) ([]feed.Item, error)
}

// ChapterSource returns the normalized readings of a video.
type ChapterSource interface {
	Extract(ctx context.Context, videoID string) ([]dataset.Reading, error)
}

// Option configures a Sync.
type Option func(*Sync)

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sync) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDryRun makes Run decide and report without writing.
func WithDryRun(dryRun bool) Option {
	return func(s *Sync) { s.dryRun = dryRun }
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Sync) {
		if now != nil {
			s.now = now
		}
	}
}

// Sync discovers new feed items and merges them into the dataset.
type Sync struct {
	feed     FeedSource
	titles   *title.Parser
	chapters ChapterSource
	store    *dataset.Store
	logger   *slog.Logger
	dryRun   bool
	now      func() time.Time
}

// NewSync wires the discovery pipeline.
func NewSync(source FeedSource, titles *title.Parser, chapters ChapterSource, store *dataset.Store, opts ...Option) (*Sync, error) {
	if source == nil || titles == nil || chapters == nil || store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "sync", "init", "feed, title parser, chapter source and store are required", nil)
	}
	s := &Sync{
		feed:     source,
		titles:   titles,
		chapters: chapters,
		store:    store,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "sync")
	return s, nil
}

// Run performs one discovery pass. Per-item problems are logged, collected in
// the report and skipped. An unreachable feed ends the run cleanly with
// Report.Aborted set. Only store failures and cancellation return an error.
func (s *Sync) Run(ctx context.Context) (Report, error) {
	report := Report{DryRun: s.dryRun, StartedAt: s.now()}
	if id, ok := services.RunIDFromContext(ctx); ok {
		report.RunID = id
	}
	err := s.run(ctx, &report)
	report.FinishedAt = s.now()
	return report, err
}

func (s *Sync) run(ctx context.Context, report *Report) error {
	logger := logging.WithContext(ctx, s.logger)
	items, err := s.feed.FetchKnownItems(services.WithStage(ctx, "discover"))
	if err != nil {
		if services.Classify(err) != services.DispositionAbortClean {
			return err
		}
		report.Aborted = true
		report.AbortReason = err.Error()
		s.warn(ctx, report, "feed unavailable, run aborted", err,
			"check network access and feed.playlist_id", "no changes this run; the next scheduled run retries")
		return nil
	}
	report.FeedItems = len(items)

	loaded, err := s.store.Load()
	if err != nil {
		return err
	}
	for _, w := range loaded.Warnings {
		s.warn(ctx, report, "skipped malformed record", w,
			"repair or remove the line in "+w.File, "period file left unchanged until fixed")
	}
	report.Migrated = loaded.Migrated
	report.Held = loaded.Held

	fresh := newItems(items, loaded.Dataset.VideoIDs())
	report.NewItems = len(fresh)
	if len(fresh) == 0 && len(loaded.Migrated) == 0 {
		logger.Info("no new items", logging.Int("feed_items", len(items)))
		return nil
	}

	var candidates []dataset.Candidate
	for _, item := range fresh {
		candidate, err := s.candidate(ctx, report, item, loaded)
		if err != nil {
			return err
		}
		if candidate != nil {
			candidates = append(candidates, *candidate)
		}
	}

	result := dataset.Merge(loaded.Dataset, candidates)
	report.Added = result.Added
	report.Duplicates = len(result.Skipped)
	report.DayConflicts = result.DayConflicts
	for _, added := range result.Added {
		logger.Info("entry added",
			logging.String(logging.FieldPeriod, added.PeriodKey),
			logging.String(logging.FieldVideoID, added.Entry.VideoID),
			logging.Int("day", added.Entry.Day),
			logging.Int("readings", len(added.Entry.Readings)),
		)
	}
	for _, conflict := range result.DayConflicts {
		logging.WarnWithContext(logger, "day has more than one entry", "day_conflict",
			logging.String(logging.FieldPeriod, conflict.PeriodKey),
			logging.Int("day", conflict.Day),
			logging.Any("video_ids", conflict.VideoIDs),
			logging.String(logging.FieldErrorHint, "check the feed titles for a mislabelled date"),
			logging.String(logging.FieldImpact, "both entries kept"),
		)
		report.Warnings = append(report.Warnings, Warning{
			EventType: "day_conflict",
			Period:    conflict.PeriodKey,
			Message:   "day has more than one entry",
		})
	}

	keys := writeKeys(result.Modified, loaded.Migrated)
	if s.dryRun || len(keys) == 0 {
		return nil
	}

	saved, err := s.store.Save(result.Dataset, keys)
	if err != nil {
		return err
	}
	report.Written = saved.Written
	for _, key := range saved.Held {
		s.warnEvent(services.WithPeriod(ctx, key), report, "period_held", "period file changed on disk and has malformed records, not rewritten",
			"repair the malformed lines in "+key+".jsonl", "entries for this period retried on the next run")
	}
	logger.Info("dataset saved",
		logging.Int("added", len(result.Added)),
		logging.Any("written", saved.Written),
	)
	return nil
}

func (s *Sync) candidate(ctx context.Context, report *Report, item feed.Item, loaded dataset.LoadResult) (*dataset.Candidate, error) {
	itemCtx := services.WithVideoID(ctx, item.ID)

	parsed, per, err := s.titles.Resolve(item.Title)
	if err != nil {
		s.warn(itemCtx, report, "skipped item", err,
			"title must end in \"] <day> <month>\"", "item ignored",
			logging.String("title", item.Title))
		return nil, nil
	}
	itemCtx = services.WithPeriod(itemCtx, per.Key)
	if loaded.IsHeld(per.Key) {
		s.warnEvent(itemCtx, report, "period_held", "period file has malformed records, item not added",
			"repair the malformed lines in "+per.Key+".jsonl", "item retried after the file is repaired")
		return nil, nil
	}

	readings, err := s.chapters.Extract(services.WithStage(itemCtx, "extract"), item.ID)
	if err != nil {
		if services.Classify(err) == services.DispositionFatal {
			return nil, err
		}
		s.warn(itemCtx, report, "chapter lookup failed", err,
			"check yt-dlp and the cookies file", "item retried on the next run")
		return nil, nil
	}
	if len(readings) == 0 {
		s.warnEvent(itemCtx, report, "no_chapters", "video has no chapters yet",
			"chapters are usually added after upload", "item retried on the next run")
		return nil, nil
	}

	entry := dataset.DayEntry{
		Day:      parsed.Day,
		Date:     per.DateLabel(parsed.Day),
		VideoID:  item.ID,
		Readings: readings,
	}
	if err := entry.Validate(); err != nil {
		s.warn(itemCtx, report, "skipped item", services.Wrap(services.ErrValidation, "sync", "build entry", item.ID, err),
			"check the feed item", "item ignored")
		return nil, nil
	}
	return &dataset.Candidate{PeriodKey: per.Key, Entry: entry}, nil
}

func (s *Sync) warn(ctx context.Context, report *Report, msg string, err error, hint, impact string, attrs ...logging.Attr) {
	logging.WarnErr(logging.WithContext(ctx, s.logger), msg, err, hint, impact, attrs...)
	report.Warnings = append(report.Warnings, newWarning(ctx, services.EventType(err), msg, err))
}

func (s *Sync) warnEvent(ctx context.Context, report *Report, eventType, msg, hint, impact string) {
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), msg, eventType,
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, impact),
	)
	report.Warnings = append(report.Warnings, newWarning(ctx, eventType, msg, nil))
}

func newWarning(ctx context.Context, eventType, msg string, err error) Warning {
	w := Warning{EventType: eventType, Message: msg, Err: err}
	w.Period, _ = services.PeriodFromContext(ctx)
	w.VideoID, _ = services.VideoIDFromContext(ctx)
	var rw dataset.RecordWarning
	if errors.As(err, &rw) {
		w.Period = strings.TrimSuffix(rw.File, filepath.Ext(rw.File))
	}
	return w
}

// newItems drops items already in the dataset and repeats within the feed,
// keeping feed order.
func newItems(items []feed.Item, known map[string]struct{}) []feed.Item {
	var fresh []feed.Item
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := known[item.ID]; ok {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		fresh = append(fresh, item)
	}
	return fresh
}

func writeKeys(modified, migrated []string) []string {
	keys := slices.Clone(modified)
	for _, key := range migrated {
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys
}
