package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultSMTPPort is the default SMTP submission port.
	DefaultSMTPPort = 587

	// Database pool sizing.
	PoolMaxConns = 10
	PoolMinConns = 2
)
