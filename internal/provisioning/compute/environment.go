package compute

import (
	"fmt"
	"sort"

	"github.com/imamik/mailcron/internal/config"
)

// Environment variable names read by the worker.
const (
	EnvStage                   = "STAGE"
	EnvAPIBaseURL              = "API_BASE_URL"
	EnvOverwriteOutgoingEmails = "OVERWRITE_OUTGOING_EMAILS"
)

// NonProductionEmailRedirect receives every outgoing mail sent outside production.
const NonProductionEmailRedirect = "email-test@mailcron.example"

// RuntimeEnvironment is the immutable set of variables of a compute unit.
type RuntimeEnvironment struct {
	vars map[string]string
}

// BuildRuntimeEnvironment derives the worker environment of a stage. extra
// variables are copied first; the stage-controlled keys are written last so
// they cannot be overridden. apiBaseURL is passed through unvalidated.
func BuildRuntimeEnvironment(stage config.Stage, apiBaseURL string, extra map[string]string) (RuntimeEnvironment, error) {
	if !stage.Valid() {
		return RuntimeEnvironment{}, fmt.Errorf("%w: %q", config.ErrUnknownStage, stage)
	}

	vars := make(map[string]string, len(extra)+3)
	for k, v := range extra {
		vars[k] = v
	}

	vars[EnvStage] = stage.String()
	vars[EnvAPIBaseURL] = apiBaseURL
	vars[EnvOverwriteOutgoingEmails] = OutgoingEmailRedirect(stage)

	return RuntimeEnvironment{vars: vars}, nil
}

// OutgoingEmailRedirect returns the redirect target of stage: empty for
// production, the fixed test address otherwise.
func OutgoingEmailRedirect(stage config.Stage) string {
	if stage.IsProduction() {
		return ""
	}
	return NonProductionEmailRedirect
}

// Get returns the value of key and whether it is defined.
func (e RuntimeEnvironment) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Map returns a copy of the variables.
func (e RuntimeEnvironment) Map() map[string]string {
	out := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// Keys returns the variable names, sorted.
func (e RuntimeEnvironment) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that the stage-controlled keys are present and that only
// production sends mail unredirected.
func (e RuntimeEnvironment) Validate() error {
	stage, ok := e.vars[EnvStage]
	if !ok {
		return fmt.Errorf("runtime environment is missing %s", EnvStage)
	}
	redirect, ok := e.vars[EnvOverwriteOutgoingEmails]
	if !ok {
		return fmt.Errorf("runtime environment is missing %s", EnvOverwriteOutgoingEmails)
	}
	if redirect == "" && !config.Stage(stage).IsProduction() {
		return fmt.Errorf("%s may only be empty in production (stage %s)", EnvOverwriteOutgoingEmails, stage)
	}
	return nil
}
