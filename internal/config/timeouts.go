package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the deploy wait configuration.
// These values can be customized via environment variables.
type Timeouts struct {
	ChangeSet         time.Duration // Timeout for change set creation
	StackUpdate       time.Duration // Timeout for stack create/update to settle
	RetryMaxAttempts  int           // Maximum number of status polls per wait
	RetryInitialDelay time.Duration // Initial delay between status polls
	RetryMaxDelay     time.Duration // Upper bound of the poll delay
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - MAILCRON_TIMEOUT_CHANGE_SET (default: 5m)
//   - MAILCRON_TIMEOUT_STACK_UPDATE (default: 20m)
//   - MAILCRON_RETRY_MAX_ATTEMPTS (default: 60)
//   - MAILCRON_RETRY_INITIAL_DELAY (default: 2s)
//   - MAILCRON_RETRY_MAX_DELAY (default: 30s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ChangeSet:         parseDuration("MAILCRON_TIMEOUT_CHANGE_SET", 5*time.Minute),
		StackUpdate:       parseDuration("MAILCRON_TIMEOUT_STACK_UPDATE", 20*time.Minute),
		RetryMaxAttempts:  parseInt("MAILCRON_RETRY_MAX_ATTEMPTS", 60),
		RetryInitialDelay: parseDuration("MAILCRON_RETRY_INITIAL_DELAY", 2*time.Second),
		RetryMaxDelay:     parseDuration("MAILCRON_RETRY_MAX_DELAY", 30*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
