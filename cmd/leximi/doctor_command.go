package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leximi/internal/deps"
	"leximi/internal/logging"
	"leximi/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories and the playlist feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			statuses := preflight.CheckSystemDeps(cfg)
			for _, status := range statuses {
				kind, msg := dependencyLine(status)
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, msg, colorize))
			}
			failures += len(deps.MissingRequired(statuses))
			if version := ytdlpVersion(cmd.Context(), ctx, statuses); version != "" {
				fmt.Fprintln(out, renderStatusLine("yt-dlp version", statusInfo, version, colorize))
			}
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{SkipNetwork: offline})
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			failures += len(preflight.Failed(results))

			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the playlist feed check")
	return cmd
}

func dependencyLine(status deps.Status) (statusKind, string) {
	switch {
	case status.Available:
		return statusOK, status.Path
	case status.Optional:
		return statusWarn, status.Detail + " (optional)"
	default:
		return statusError, status.Detail
	}
}

func ytdlpVersion(parent context.Context, ctx *commandContext, statuses []deps.Status) string {
	if len(statuses) == 0 || !statuses[0].Available {
		return ""
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return ""
	}
	client, err := newYtDlpClient(cfg, logging.NewNop())
	if err != nil {
		return ""
	}
	versionCtx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()
	version, err := client.Version(versionCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ""
		}
		return "unknown (" + err.Error() + ")"
	}
	return version
}
