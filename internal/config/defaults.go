package config

const (
	defaultDataDir    = "/var/lib/cfwai"
	defaultWAIOutTemp = "incomplete"

	defaultAgingRipenessPerDay = 4

	defaultDecisionQueueIntervalMinutes = 5
	defaultAgingQueueIntervalMinutes    = 5
	defaultDownloadQueueIntervalMinutes = 5

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultDownloaderBinary = "yt-dlp"

	defaultHTTPBind = "127.0.0.1:7890"
)

// Default returns the configuration every field falls back to before the
// TOML overlay and environment variables are applied.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			WAIOutTemp: defaultWAIOutTemp,
		},
		Aging: Aging{
			RipenessPerDay: defaultAgingRipenessPerDay,
		},
		Workflow: Workflow{
			RunDecisionQueue:      true,
			RunAgingQueue:         true,
			RunDownloadQueue:      true,
			DecisionQueueInterval: defaultDecisionQueueIntervalMinutes,
			AgingQueueInterval:    defaultAgingQueueIntervalMinutes,
			DownloadQueueInterval: defaultDownloadQueueIntervalMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Downloader: Downloader{
			Binary: defaultDownloaderBinary,
		},
		HTTP: HTTP{
			Bind: defaultHTTPBind,
		},
	}
}
