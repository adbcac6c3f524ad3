// Package config resolves runtime settings for the curation server from
// the environment, with flag values taking precedence.
package config

import "time"

// Server holds the settings of the curation HTTP server.
type Server struct {
	// Addr is the listen address, host:port.
	Addr string
	// DBPath locates the SQLite mapping store. Empty selects the
	// in-memory store.
	DBPath string
	// ImportPath optionally seeds the store from an SSSOM TSV file on
	// startup.
	ImportPath string
	// Watch reloads ImportPath when the file changes.
	Watch bool
	// RateLimit caps requests per client IP per minute.
	RateLimit int
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	// LogLevel sets the zerolog level.
	LogLevel string
}

// FromEnv resolves the server settings from SSSOM_* environment
// variables.
func FromEnv() Server {
	return Server{
		Addr:            ParseString("SSSOM_ADDR", ":8080"),
		DBPath:          ParseString("SSSOM_DB", ""),
		ImportPath:      ParseString("SSSOM_IMPORT", ""),
		Watch:           ParseBool("SSSOM_WATCH", false),
		RateLimit:       ParseInt("SSSOM_RATE_LIMIT", 120),
		ShutdownTimeout: ParseDuration("SSSOM_SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        ParseString("LOG_LEVEL", "info"),
	}
}
