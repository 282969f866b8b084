package config

import (
	"fmt"
	"sort"
)

// Settings is the stage-resolved runtime configuration handed to the worker.
type Settings struct {
	Stage      Stage
	APIBaseURL string
}

// StandardTags is the billing and ownership metadata applied to every
// resource of a stage.
type StandardTags struct {
	ApplicationTag    string
	BillingServiceTag string
	Stage             Stage
}

// StageConfig pairs the settings and tags of one stage.
type StageConfig struct {
	Settings Settings
	Tags     StandardTags
}

// Stage returns the stage both records agree on.
func (sc StageConfig) Stage() Stage {
	return sc.Settings.Stage
}

// Validate checks that the record describes a known stage and that
// settings and tags agree on it.
func (sc StageConfig) Validate() error {
	if !sc.Settings.Stage.Valid() {
		return fmt.Errorf("settings: %w: %q", ErrUnknownStage, sc.Settings.Stage)
	}
	if !sc.Tags.Stage.Valid() {
		return fmt.Errorf("tags: %w: %q", ErrUnknownStage, sc.Tags.Stage)
	}
	if sc.Settings.Stage != sc.Tags.Stage {
		return fmt.Errorf("%w: settings=%s tags=%s", ErrStageMismatch, sc.Settings.Stage, sc.Tags.Stage)
	}
	return nil
}

// Registry is an immutable table of stage configurations.
// The zero value is an empty registry.
type Registry struct {
	entries map[Stage]StageConfig
}

// NewRegistry validates the given entries and builds a registry from them.
// Every stage may be registered once.
func NewRegistry(entries ...StageConfig) (*Registry, error) {
	r := &Registry{entries: make(map[Stage]StageConfig, len(entries))}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.entries[e.Stage()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStage, e.Stage())
		}
		r.entries[e.Stage()] = e
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(entries ...StageConfig) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Application and billing identifiers shared by every stage.
const (
	ApplicationTag    = "mailcron"
	BillingServiceTag = "email-notifications"
)

// DefaultRegistry returns the stage table the stacks are deployed with.
func DefaultRegistry() *Registry {
	return MustNewRegistry(
		StageConfig{
			Settings: Settings{Stage: StageStaging, APIBaseURL: "https://api.staging.mailcron.example/api"},
			Tags:     StandardTags{ApplicationTag: ApplicationTag, BillingServiceTag: BillingServiceTag, Stage: StageStaging},
		},
		StageConfig{
			Settings: Settings{Stage: StageProduction, APIBaseURL: "https://api.mailcron.example/api"},
			Tags:     StandardTags{ApplicationTag: ApplicationTag, BillingServiceTag: BillingServiceTag, Stage: StageProduction},
		},
	)
}

// Lookup returns the configuration registered for stage.
func (r *Registry) Lookup(stage Stage) (StageConfig, error) {
	if !stage.Valid() {
		return StageConfig{}, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
	e, ok := r.entries[stage]
	if !ok {
		return StageConfig{}, fmt.Errorf("%w: %s", ErrMissingStage, stage)
	}
	return e, nil
}

// ResolveSettings returns the settings registered for stage.
func (r *Registry) ResolveSettings(stage Stage) (Settings, error) {
	e, err := r.Lookup(stage)
	if err != nil {
		return Settings{}, err
	}
	return e.Settings, nil
}

// ResolveTags returns the standard tags registered for stage.
func (r *Registry) ResolveTags(stage Stage) (StandardTags, error) {
	e, err := r.Lookup(stage)
	if err != nil {
		return StandardTags{}, err
	}
	return e.Tags, nil
}

// Stages returns the registered stages in deployment order
// (staging before production).
func (r *Registry) Stages() []Stage {
	order := make(map[Stage]int)
	for i, s := range AllStages() {
		order[s] = i
	}
	stages := make([]Stage, 0, len(r.entries))
	for s := range r.entries {
		stages = append(stages, s)
	}
	sort.Slice(stages, func(i, j int) bool { return order[stages[i]] < order[stages[j]] })
	return stages
}

// Select narrows the registry to the given stages. An empty selection keeps
// every stage.
func (r *Registry) Select(stages ...Stage) (*Registry, error) {
	if len(stages) == 0 {
		return r, nil
	}
	entries := make([]StageConfig, 0, len(stages))
	for _, s := range stages {
		e, err := r.Lookup(s)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return NewRegistry(entries...)
}
