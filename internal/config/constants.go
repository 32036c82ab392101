package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the inventory database
	DefaultDatabasePath = "./bookshelf.db"
)

// Store drivers
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)
