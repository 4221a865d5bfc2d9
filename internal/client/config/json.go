package config

import (
	"encoding/json"
	"os"

	"shelftrack/internal/flagx"
)

// jsonConfig is the DTO for the optional JSON config file:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "cache_path": "shelftrack.db"
//	}
type jsonConfig struct {
	ServerURL string `json:"server_url"`
	CachePath string `json:"cache_path"`
}

// parseJSON overlays Config with values from the file named by -c/-config.
// No file selected means no overlay. Read or parse failures panic; the
// caller asked for a specific file, so a broken one is not ignorable.
func parseJSON(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.CachePath != "" {
		cfg.CachePath = jc.CachePath
	}
}
