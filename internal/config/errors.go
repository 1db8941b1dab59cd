package config

import "errors"

// Loading errors
var (
	ErrConfigFileNotFound = errors.New("configuration file not found")
	ErrUnsupportedFormat  = errors.New("unsupported configuration format")
	ErrConfigParse        = errors.New("configuration parse error")
	ErrEnvironmentVar     = errors.New("environment variable error")
)

// Validation errors
var (
	ErrInvalidMaxActors   = errors.New("invalid max actors")
	ErrInvalidMailboxSize = errors.New("invalid mailbox size")
	ErrInvalidIRQ         = errors.New("invalid irq line")
	ErrInvalidInterval    = errors.New("invalid sensor interval")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrMissingSubject     = errors.New("nats subject required")
)
