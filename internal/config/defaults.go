package config

import "leximi/internal/feed"

const (
	defaultConfigPath            = "~/.config/leximi/config.toml"
	projectConfigName            = "leximi.toml"
	defaultDataDir               = "~/.local/share/leximi/data"
	defaultAudioDir              = "~/.local/share/leximi/audio"
	defaultStateDir              = "~/.local/state/leximi"
	defaultLogDir                = "~/.local/share/leximi/logs"
	defaultPlaylistID            = "PL-20shMe4LIKvWmIz3sSlq_RH-IaqIR5_"
	defaultFeedTimeoutSeconds    = 30
	defaultUserAgent             = "leximi/dev"
	defaultYtDlpBinary           = "yt-dlp"
	defaultYtDlpTimeoutSeconds   = 120
	defaultDownloadTimeoutSecond = 900
	defaultMinIntervalMillis     = 2000
	defaultRemoteComponents      = "ejs:github"
	defaultAudioExtension        = "webm"
	defaultAudioFormat           = "opus"
	defaultFFprobeBinary         = "ffprobe"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	envYtDlp      = "LEXIMI_YTDLP"
	envCookies    = "COOKIES_FILE"
	envPlaylistID = "LEXIMI_PLAYLIST_ID"
)

// Default returns a Config populated with repository defaults. The yt-dlp
// binary, cookie file and playlist id are left empty so normalize can apply
// their environment fallbacks before the built-in values.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			AudioDir: defaultAudioDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Feed: Feed{
			BaseURL:        feed.DefaultBaseURL,
			TimeoutSeconds: defaultFeedTimeoutSeconds,
			UserAgent:      defaultUserAgent,
		},
		YtDlp: YtDlp{
			TimeoutSeconds:         defaultYtDlpTimeoutSeconds,
			DownloadTimeoutSeconds: defaultDownloadTimeoutSecond,
			MinIntervalMillis:      defaultMinIntervalMillis,
			RemoteComponents:       defaultRemoteComponents,
		},
		Audio: Audio{
			Extension:     defaultAudioExtension,
			Format:        defaultAudioFormat,
			FFprobeBinary: defaultFFprobeBinary,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
