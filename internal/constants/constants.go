package constants

import "os"

// Application
const (
	AppName        = "sharegate"
	AppDisplayName = "Sharegate"
)

// Paths
const (
	ConfigDir      = ".config/sharegate"
	ConfigFile     = "config.yaml"
	DefaultDataDir = ".local/share/sharegate"
	InternalDir    = ".internal"
	LedgerDB       = "ledger.db"
)

// API
const (
	DefaultPort = 2371
)

// Identifier validation. Client IDs are caller-chosen handles; file names are
// arbitrary display names but must not carry path components.
const (
	ClientIDRegex  = `^[a-zA-Z0-9._@-]+$`
	MinClientIDLen = 1
	MaxClientIDLen = 128
	MaxFileNameLen = 255
)

// Request ledger states
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusDenied  = "denied"
	StatusRevoked = "revoked"
)

// Database pragmas applied to every connection
var SQLitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA cache_size=-8000", // 8MB per connection
	"PRAGMA foreign_keys=ON",
}

// Logging
const (
	DefaultLogLevel    = "debug"
	LogsDir            = "logs"
	LogsDirDebug       = "debug"
	LogsDirInfo        = "info"
	LogsDirWarn        = "warn"
	LogsDirError       = "error"
	LogFileExtension   = ".log"
	LogTimestampFormat = "2006-01-02 15:04:05"
)

// Timestamp rendering for the external file listing.
// "Unknown" is returned when last_modified was never recorded.
const (
	LastModifiedFormat  = "2006-01-02 15:04:05 UTC"
	LastModifiedUnknown = "Unknown"
)

// Shutdown
const (
	ShutdownTimeoutSecs = 10
)

// Pagination
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// File Permissions
const (
	DirPermissions  os.FileMode = 0755
	FilePermissions os.FileMode = 0644
)
