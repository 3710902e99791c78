package errors

import (
	"errors"
)

var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrInvalidConfig       = errors.New("invalid configuration")

	ErrInvalidLogFormat    = errors.New("logging format must be 'console' or 'json'")
	ErrInvalidPollInterval = errors.New("feed poll interval must be positive")
	ErrInvalidDebounce     = errors.New("feed debounce must not be negative")
	ErrInvalidCapacity     = errors.New("store capacity must not be negative")
	ErrInvalidBusBuffer    = errors.New("bus buffer must be positive")
	ErrPatternsRequired    = errors.New("loader requires at least one file pattern")
	ErrInvalidPattern      = errors.New("invalid file pattern")

	ErrMalformedEntry  = errors.New("malformed log entry")
	ErrUnknownLevel    = errors.New("unknown log level")
	ErrUnknownCategory = errors.New("unknown log category")

	ErrNotADirectory        = errors.New("not a directory")
	ErrFailedToReadLogFile  = errors.New("failed to read log file")
	ErrFailedToWatchFolder  = errors.New("failed to watch folder")
	ErrFailedToWriteExport  = errors.New("failed to write export")
	ErrFailedToEncodeExport = errors.New("failed to encode export")
	ErrNoFolderOpen         = errors.New("no folder is open")
	ErrSessionClosed        = errors.New("session is closed")

	ErrUnknownCommand = errors.New("unknown command")
	ErrFolderRequired = errors.New("folder argument is required")
)

var (
	As  = errors.As
	Is  = errors.Is
	New = errors.New
)
