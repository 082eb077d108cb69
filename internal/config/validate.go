package config

import "fmt"

// validate enforces the fields the daemon cannot start without. A missing
// Sonarr URL or API key, or a missing Sonarr drop-in path, is fatal at
// startup rather than surfacing later as a failed request.
func validate(cfg *Config) error {
	var missing []string
	if cfg.Sonarr.URL == "" {
		missing = append(missing, "SONARR_URL")
	}
	if cfg.Sonarr.API == "" {
		missing = append(missing, "SONARR_API")
	}
	if cfg.Paths.SonarrInPath == "" {
		missing = append(missing, "SONARR_IN_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}
