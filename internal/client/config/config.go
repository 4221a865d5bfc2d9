// Package config loads runtime configuration for the ShelfTrack client.
// Sources are applied in order: built-in defaults, an optional JSON file
// (-c/-config), then command-line flags. Later sources win.
package config

// Config holds runtime settings for the client.
type Config struct {
	// ServerURL is the base URL of the backend, e.g. "http://127.0.0.1:8080".
	ServerURL string
	// CachePath is the SQLite file holding the local cache.
	CachePath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.CachePath = "shelftrack.db"
}

// LoadConfig builds the Config by applying defaults, JSON, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
