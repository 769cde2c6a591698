package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"leximi/internal/config"
	"leximi/internal/media/ffprobe"
)

// Requirement defines an external program leximi invokes.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the programs the configuration refers to. yt-dlp is
// always required; ffprobe only when audio verification is enabled.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	ffprobeBinary := strings.TrimSpace(cfg.Audio.FFprobeBinary)
	if ffprobeBinary == "" {
		ffprobeBinary = ffprobe.DefaultBinary
	}
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.YtDlp.Binary,
			Description: "Chapter extraction and audio downloads",
		},
		{
			Name:        "ffprobe",
			Command:     ffprobeBinary,
			Description: "Verifies downloaded audio",
			Optional:    !cfg.Audio.Verify,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		if info, statErr := os.Stat(resolved); statErr != nil || !isExecutable(info) {
			status.Detail = fmt.Sprintf("binary %q is not executable", resolved)
			results = append(results, status)
			continue
		}
		status.Path = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the unavailable statuses that are not optional.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
