package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections int32 = 2
	DefaultMaxConnections int32 = 10

	// DefaultStatementTimeout is applied as the session statement_timeout
	DefaultStatementTimeout = 30 * time.Second
	DefaultApplicationName  = "prize-arena"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToInitMigrations  = "failed to initialise migration provider"
	ErrMsgFailedToApplyMigrations = "failed to apply migrations"
	ErrMsgFailedToCloseMigrator   = "failed to close migration connection"
	ErrMsgFailedToConnectAdmin    = "failed to connect to maintenance database"
	ErrMsgFailedToCheckDatabase   = "failed to check database existence"
	ErrMsgFailedToCreateDatabase  = "failed to create database"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Applied migration"
	LogMsgSchemaUpToDate                  = "Database schema is up to date"
	LogMsgDatabaseCreated                 = "Created database"
)
