package config

import (
	"fmt"
	"strings"
)

// Stage identifies a deployment environment.
type Stage string

const (
	StageStaging    Stage = "staging"
	StageProduction Stage = "production"
)

// AllStages returns every known stage in deployment order.
func AllStages() []Stage {
	return []Stage{StageStaging, StageProduction}
}

// ParseStage converts a string into a Stage, rejecting anything outside the enumeration.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !stage.Valid() {
		return "", fmt.Errorf("%w: %q (must be one of %v)", ErrUnknownStage, s, AllStages())
	}
	return stage, nil
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	switch s {
	case StageStaging, StageProduction:
		return true
	}
	return false
}

// IsProduction reports whether s is the production stage.
func (s Stage) IsProduction() bool {
	return s == StageProduction
}

func (s Stage) String() string {
	return string(s)
}
