package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrInvalidAttempts = errors.New("pings per host must be at least 1")
	ErrInvalidWorkers  = errors.New("worker count must be at least 1")
	ErrInvalidTimeout  = errors.New("timeout must be greater than zero")
	ErrInvalidInterval = errors.New("interval must be greater than zero")
	ErrConfigInvalid   = errors.New("invalid configuration file")

	// Extraction errors
	ErrNotADirectory = errors.New("not a directory")

	// Provider errors
	ErrProviderUnsupported = errors.New("provider not supported")
	ErrProviderDisabled    = errors.New("provider is disabled in configuration")
	ErrProviderNoBaseURL   = errors.New("provider has no base_url configured")
	ErrNoVersionsFound     = errors.New("no version directories found in listing")

	// History errors
	ErrNoHistory = errors.New("no probe history available")
)

// ProviderError represents a provider-related error
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider '%s': %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// DownloadError represents a failure while fetching remote configuration files
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download '%s': %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ExtractError represents a failure reading a configuration directory
type ExtractError struct {
	Dir string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract '%s': %v", e.Dir, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
