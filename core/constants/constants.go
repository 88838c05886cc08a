package constants

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // in minutes
)

// Booking engine settings
const (
	// GridUnitMinutes is the time grid every interval snaps to
	GridUnitMinutes = 15
	// ComboMinTables / ComboMaxTables bound the combination search
	ComboMinTables = 2
	ComboMaxTables = 6
	// DefaultLockWaitSeconds bounds a single lock acquisition
	DefaultLockWaitSeconds = 5
	// IdempotencyTTLSeconds is how long a commit result is replayable
	IdempotencyTTLSeconds = 60
	// DefaultDiscoveryLimit caps the candidate list returned by discovery
	DefaultDiscoveryLimit = 50
)

// Background task types
const (
	TaskBlackoutCancelOverlaps = "blackout:cancel_overlaps"
)

// Context keys
const (
	ContextTokenData = "token_data"
)
