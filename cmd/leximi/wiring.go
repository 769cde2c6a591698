package main

import (
	"log/slog"

	"leximi/internal/audio"
	"leximi/internal/chapters"
	"leximi/internal/config"
	"leximi/internal/dataset"
	"leximi/internal/feed"
	"leximi/internal/media/ffprobe"
	"leximi/internal/period"
	"leximi/internal/pipeline"
	"leximi/internal/services/ytdlp"
	"leximi/internal/textutil"
	"leximi/internal/title"
)

func newDatasetStore(cfg *config.Config, table *period.Table) (*dataset.Store, error) {
	return dataset.NewStore(cfg.Paths.DataDir, table, dataset.WithModules(cfg.Dataset.EmitModules))
}

func newYtDlpClient(cfg *config.Config, logger *slog.Logger) (*ytdlp.Client, error) {
	return ytdlp.New(cfg.YtDlp.Binary,
		ytdlp.WithCookiesFile(cfg.YtDlp.CookiesFile),
		ytdlp.WithRemoteComponents(cfg.YtDlp.RemoteComponents),
		ytdlp.WithTimeouts(cfg.ChaptersTimeout(), cfg.DownloadTimeout()),
		ytdlp.WithMinInterval(cfg.MinInterval()),
		ytdlp.WithAudioFormat(cfg.Audio.Format),
		ytdlp.WithLogger(logger),
	)
}

func buildSync(cfg *config.Config, logger *slog.Logger, dryRun bool) (*pipeline.Sync, error) {
	table := period.Default()
	store, err := newDatasetStore(cfg, table)
	if err != nil {
		return nil, err
	}
	source, err := feed.New(cfg.Feed.PlaylistID,
		feed.WithBaseURL(cfg.Feed.BaseURL),
		feed.WithUserAgent(cfg.Feed.UserAgent),
		feed.WithTimeout(cfg.FeedTimeout()),
	)
	if err != nil {
		return nil, err
	}
	client, err := newYtDlpClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	extractor := chapters.NewExtractor(client, textutil.NewNormalizer(textutil.DefaultCorrections()))
	return pipeline.NewSync(source, title.NewParser(table), extractor, store,
		pipeline.WithLogger(logger),
		pipeline.WithDryRun(dryRun),
	)
}

func buildBackfiller(cfg *config.Config, logger *slog.Logger, limit int, dryRun bool) (*audio.Backfiller, error) {
	store, err := newDatasetStore(cfg, period.Default())
	if err != nil {
		return nil, err
	}
	client, err := newYtDlpClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = cfg.Audio.MaxDownloads
	}
	opts := []audio.Option{
		audio.WithExtension(cfg.Audio.Extension),
		audio.WithLimit(limit),
		audio.WithDryRun(dryRun),
		audio.WithLogger(logger),
	}
	if cfg.Audio.Verify {
		opts = append(opts, audio.WithVerifier(ffprobe.New(cfg.Audio.FFprobeBinary)))
	}
	return audio.NewBackfiller(store, client, cfg.Paths.AudioDir, opts...)
}
