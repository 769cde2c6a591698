package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"leximi/internal/config"
	"leximi/internal/history"
	"leximi/internal/logging"
	"leximi/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// run holds the per-invocation state shared by sync and audio.
type run struct {
	id     string
	ctx    context.Context
	logger *slog.Logger
	lock   *flock.Flock
}

// beginRun takes the single-instance lock, builds the logger and stamps the
// context with a fresh run id. The caller must call end.
func (c *commandContext) beginRun(cmd *cobra.Command, stage string) (*config.Config, *run, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, nil, fmt.Errorf("another leximi run is in progress (lock %s)", cfg.LockPath())
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, err
	}

	id := uuid.NewString()
	ctx := services.WithRunID(cmd.Context(), id)
	ctx = services.WithStage(ctx, stage)
	logger = logger.With(logging.String(logging.FieldRunID, id))
	return cfg, &run{id: id, ctx: ctx, logger: logger, lock: lock}, nil
}

func (r *run) end() {
	if r == nil || r.lock == nil {
		return
	}
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to release run lock", logging.Error(err))
	}
}

// recordRun stores a finished run when history is enabled. Failures are
// logged and never change the command's outcome.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, entry history.Run) {
	if cfg == nil || !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.state_dir permissions"),
			logging.String(logging.FieldImpact, "this run is not listed by leximi history"),
		)
		return
	}
	defer store.Close()
	if err := store.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "failed to record run", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not listed by leximi history"),
		)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
