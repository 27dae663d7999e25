package config

const (
	// DefaultDatabasePath is where the SQLite database lives unless overridden.
	DefaultDatabasePath = "./bookmart.db"
)
