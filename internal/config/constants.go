package config

import "time"

// app constants
const (
	AppName = "logscope"
	Version = "0.1.0"

	ConfigFile = "logscope.yaml"
	EnvFile    = ".env"
	EnvPrefix  = "LOGSCOPE"
)

// logging constants
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatConsole

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// loader constants
var DefaultPatterns = []string{"*.jsonl", "*.log", "*.json"}

// feed constants
const (
	DefaultPollInterval = 2 * time.Second
	DefaultDebounce     = 100 * time.Millisecond
)

// bus constants
const (
	DefaultBusBuffer = 100
)

// export constants
const (
	DefaultExportDir = "."
	ExportFilePrefix = "logs-export-"
	ExportTimeFormat = "20060102-150405"
	ExportExtension  = ".json"
)

// session constants
const (
	ShutdownTimeout = 5 * time.Second
	FlushTimeout    = 2 * time.Second
)
