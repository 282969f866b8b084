package provisioning

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Logger is the minimal printf-style logging interface.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "network", "compute")
	Message   string            // Human-readable message
	Resource  string            // Logical id or name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceDeclared indicates a resource was added to the template.
	EventResourceDeclared EventType = "resource.declared"
	// EventResourceResolved indicates an external resource was looked up.
	EventResourceResolved EventType = "resource.resolved"
	// EventResourceReused indicates a memoized lookup was reused.
	EventResourceReused EventType = "resource.reused"

	// EventTagsApplied indicates the standard tags were applied to a unit.
	EventTagsApplied EventType = "tags.applied"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver wraps l.
func NewLogObserver(l logr.Logger) *LogObserver {
	return &LogObserver{log: l}
}

// NewConsoleObserver writes human-readable lines to w, or one JSON object
// per line when asJSON is set.
func NewConsoleObserver(w io.Writer, asJSON bool) *LogObserver {
	opts := funcr.Options{LogTimestamp: true, TimestampFormat: time.TimeOnly}
	if asJSON {
		opts.TimestampFormat = time.RFC3339
		return NewLogObserver(funcr.NewJSON(func(obj string) {
			fmt.Fprintln(w, obj)
		}, opts))
	}
	return NewLogObserver(funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, opts))
}

// NewDiscardObserver returns an observer that drops everything.
func NewDiscardObserver() *LogObserver {
	return NewLogObserver(logr.Discard())
}

// Logr exposes the underlying logger.
func (o *LogObserver) Logr() logr.Logger {
	return o.log
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, sortedFields(event.Fields)...)

	if event.Type == EventPhaseFailed {
		o.log.Error(nil, event.Message, kv...)
		return
	}
	o.log.Info(event.Message, kv...)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{log: o.log.WithValues(sortedFields(fields)...)}
}

func sortedFields(fields map[string]string) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceDeclared logs a resource added to the template.
func LogResourceDeclared(observer Observer, phase, resourceType, logicalID string) {
	observer.Event(Event{
		Type:     EventResourceDeclared,
		Phase:    phase,
		Resource: logicalID,
		Message:  fmt.Sprintf("%s declared", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceResolved logs a successful external lookup.
func LogResourceResolved(observer Observer, phase, kind, id string) {
	observer.Event(Event{
		Type:     EventResourceResolved,
		Phase:    phase,
		Resource: id,
		Message:  fmt.Sprintf("%s resolved", kind),
		Fields: map[string]string{
			"kind": kind,
		},
	})
}

// LogResourceReused logs a remembered lookup outcome served again. err is the
// remembered failure, if any.
func LogResourceReused(observer Observer, phase, kind, id string, err error) {
	fields := map[string]string{"kind": kind, "outcome": "resolved"}
	if err != nil {
		fields["outcome"] = "failed"
	}
	observer.Event(Event{
		Type:     EventResourceReused,
		Phase:    phase,
		Resource: id,
		Message:  fmt.Sprintf("%s reused from earlier lookup", kind),
		Fields:   fields,
	})
}
