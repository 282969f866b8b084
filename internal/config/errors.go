package config

import "errors"

// Sentinel errors for configuration invariant violations.
var (
	ErrUnknownStage   = errors.New("unknown stage")
	ErrStageMismatch  = errors.New("settings and tags disagree on stage")
	ErrDuplicateStage = errors.New("stage registered twice")
	ErrMissingStage   = errors.New("stage not registered")
)
