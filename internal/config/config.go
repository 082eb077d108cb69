package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths groups the directories and library-facing move paths the pipeline
// reads from and writes to.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	ConfDir      string `toml:"conf_dir"`
	SonarrInPath string `toml:"sonarr_in_path"`
	WAIOutPath   string `toml:"wai_out_path"`
	WAIOutTemp   string `toml:"wai_out_temp"`
}

// Sonarr groups the library adapter's connection settings.
type Sonarr struct {
	URL string `toml:"url"`
	API string `toml:"api_key"`
}

// Policy groups the decision-stage gates §4.6/§6 names.
type Policy struct {
	HonorUnmonitoredSeries bool `toml:"honor_unmonitored_series"`
	HonorUnmonitoredEps    bool `toml:"honor_unmonitored_episodes"`
	OverwriteEpisodes      bool `toml:"overwrite_episodes"`
	FlipFlopQueue          bool `toml:"flip_flop_queue"`
}

// Aging groups the aging-stage ripeness accounting parameters (§4.7).
type Aging struct {
	RipenessPerDay int `toml:"ripeness_per_day"`
}

// Workflow groups the three stages' run flags and wake intervals.
type Workflow struct {
	RunDecisionQueue       bool `toml:"run_decision_queue"`
	RunAgingQueue          bool `toml:"run_aging_queue"`
	RunDownloadQueue       bool `toml:"run_download_queue"`
	DecisionQueueInterval  int  `toml:"decision_queue_interval_minutes"`
	AgingQueueInterval     int  `toml:"aging_queue_interval_minutes"`
	DownloadQueueInterval  int  `toml:"download_queue_interval_minutes"`
}

// Logging groups log verbosity and format.
type Logging struct {
	DebugPrint bool   `toml:"debug_print"`
	Format     string `toml:"format"`
	Level      string `toml:"level"`
}

// Downloader groups the external download tool's binary path.
type Downloader struct {
	Binary string `toml:"binary"`
}

// HTTP groups the ingress server's bind address.
type HTTP struct {
	Bind string `toml:"bind"`
}

// Config is the full, normalized application configuration.
type Config struct {
	Paths      Paths
	Sonarr     Sonarr
	Policy     Policy
	Aging      Aging
	Workflow   Workflow
	Logging    Logging
	Downloader Downloader
	HTTP       HTTP
}

// Load builds a Config from repository defaults, an optional
// CONF_DIR/config.toml overlay, then environment variables (which always
// win), normalizes paths, and validates required fields.
func Load() (*Config, error) {
	cfg := Default()

	confDir := strings.TrimSpace(os.Getenv("CONF_DIR"))
	if confDir != "" {
		cfg.Paths.ConfDir = confDir
		if err := applyTOMLOverlay(&cfg, confDir); err != nil {
			return nil, err
		}
	}

	applyEnvOverlay(&cfg)
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyTOMLOverlay(cfg *Config, confDir string) error {
	path := filepath.Join(confDir, "config.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config overlay %s: %w", path, err)
	}

	var overlay struct {
		Paths      Paths      `toml:"paths"`
		Sonarr     Sonarr     `toml:"sonarr"`
		Policy     Policy     `toml:"policy"`
		Aging      Aging      `toml:"aging"`
		Workflow   Workflow   `toml:"workflow"`
		Logging    Logging    `toml:"logging"`
		Downloader Downloader `toml:"downloader"`
		HTTP       HTTP       `toml:"http"`
	}
	overlay.Policy = cfg.Policy
	overlay.Workflow = cfg.Workflow
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config overlay %s: %w", path, err)
	}

	mergeNonZero(&cfg.Paths, overlay.Paths)
	mergeNonZero(&cfg.Sonarr, overlay.Sonarr)
	cfg.Policy = overlay.Policy
	if overlay.Aging.RipenessPerDay != 0 {
		cfg.Aging.RipenessPerDay = overlay.Aging.RipenessPerDay
	}
	cfg.Workflow = overlay.Workflow
	mergeNonZero(&cfg.Logging, overlay.Logging)
	mergeNonZero(&cfg.Downloader, overlay.Downloader)
	mergeNonZero(&cfg.HTTP, overlay.HTTP)
	return nil
}

func applyEnvOverlay(cfg *Config) {
	setString(&cfg.Paths.DataDir, "DATA_DIR")
	setString(&cfg.Paths.SonarrInPath, "SONARR_IN_PATH")
	setString(&cfg.Paths.WAIOutPath, "WAI_OUT_PATH")
	setString(&cfg.Paths.WAIOutTemp, "WAI_OUT_TEMP")

	setString(&cfg.Sonarr.URL, "SONARR_URL")
	setString(&cfg.Sonarr.API, "SONARR_API")

	setBool(&cfg.Policy.HonorUnmonitoredSeries, "HONOR_UNMON_SERIES")
	setBool(&cfg.Policy.HonorUnmonitoredEps, "HONOR_UNMON_EPS")
	setBool(&cfg.Policy.OverwriteEpisodes, "OVERWRITE_EPS")
	setBool(&cfg.Policy.FlipFlopQueue, "FLIP_FLOP_QUEUE")

	setInt(&cfg.Aging.RipenessPerDay, "AGING_RIPENESS_PER_DAY")

	setBool(&cfg.Workflow.RunDecisionQueue, "RUN_DECISION_QUEUE")
	setBool(&cfg.Workflow.RunAgingQueue, "RUN_AGING_QUEUE")
	setBool(&cfg.Workflow.RunDownloadQueue, "RUN_DOWNLOAD_QUEUE")
	setInt(&cfg.Workflow.DecisionQueueInterval, "DECISION_QUEUE_INTERVAL")
	setInt(&cfg.Workflow.AgingQueueInterval, "AGING_QUEUE_INTERVAL")
	setInt(&cfg.Workflow.DownloadQueueInterval, "DOWNLOAD_QUEUE_INTERVAL")

	setBool(&cfg.Logging.DebugPrint, "DEBUG_PRINT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func mergeNonZero[T comparable](dst *T, overlay T) {
	var zero T
	if overlay != zero {
		*dst = overlay
	}
}
