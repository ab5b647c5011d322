package database

// DefaultMinConnections is the floor the pool keeps warm regardless of load
const DefaultMinConnections = 2

// Error messages for pool and migration failures
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToSetDialect      = "failed to set migration dialect"
	ErrMsgFailedToRunMigrations   = "failed to run migrations"
)

// Log messages
const (
	LogMsgConnected = "Connected to the database"
)
