package config

import (
	"flag"
	"os"

	"shelftrack/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags:
//
//	-a string   base URL of the backend server
//	-f string   path to the local cache file
//
// Only the flags handled here are parsed; the rest of os.Args is filtered
// out so other components can define their own.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.CachePath, "f", cfg.CachePath, "path to the local cache file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
