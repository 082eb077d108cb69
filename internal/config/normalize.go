package config

import "path/filepath"

// normalize cleans the configured paths (filepath.Clean only; relative
// paths stay relative), places a relative WAIOutTemp under WAIOutPath, and
// fills the ripeness rate and queue intervals with their defaults when
// they are unset or not positive.
func normalize(cfg *Config) {
	cfg.Paths.DataDir = cleanPath(cfg.Paths.DataDir)
	cfg.Paths.ConfDir = cleanPath(cfg.Paths.ConfDir)
	cfg.Paths.SonarrInPath = cleanPath(cfg.Paths.SonarrInPath)
	cfg.Paths.WAIOutPath = cleanPath(cfg.Paths.WAIOutPath)

	if cfg.Paths.WAIOutTemp == "" {
		cfg.Paths.WAIOutTemp = defaultWAIOutTemp
	}
	if !filepath.IsAbs(cfg.Paths.WAIOutTemp) && cfg.Paths.WAIOutPath != "" {
		cfg.Paths.WAIOutTemp = filepath.Join(cfg.Paths.WAIOutPath, cfg.Paths.WAIOutTemp)
	}

	if cfg.Aging.RipenessPerDay <= 0 {
		cfg.Aging.RipenessPerDay = defaultAgingRipenessPerDay
	}
	if cfg.Workflow.DecisionQueueInterval <= 0 {
		cfg.Workflow.DecisionQueueInterval = defaultDecisionQueueIntervalMinutes
	}
	if cfg.Workflow.AgingQueueInterval <= 0 {
		cfg.Workflow.AgingQueueInterval = defaultAgingQueueIntervalMinutes
	}
	if cfg.Workflow.DownloadQueueInterval <= 0 {
		cfg.Workflow.DownloadQueueInterval = defaultDownloadQueueIntervalMinutes
	}
}

func cleanPath(p string) string {
	if p == "" {
		return p
	}
	return filepath.Clean(p)
}
