package provisioning

import (
	"context"
	"testing"

	"github.com/imamik/mailcron/internal/config"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	events   []Event
	messages []string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{fields: make(map[string]string)}
}

func (m *MockObserver) Printf(format string, _ ...interface{}) {
	m.messages = append(m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.events = append(m.events, event)
}

// WithFields returns the receiver so events stay observable from the test.
func (m *MockObserver) WithFields(fields map[string]string) Observer {
	for k, v := range fields {
		m.fields[k] = v
	}
	return m
}

func (m *MockObserver) eventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Account:       "123456789012",
		Region:        "eu-central-1",
		ParameterName: "/mailcron/smtp",
		Network:       config.NetworkConfig{ID: "vpc-0abc", Shared: true},
		Worker:        config.WorkerConfig{CodeBucket: "artifacts", CodeKey: "worker.zip"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func newTestContext(t *testing.T, stage config.Stage) (*Context, *MockObserver) {
	t.Helper()
	sc, err := config.DefaultRegistry().Lookup(stage)
	if err != nil {
		t.Fatal(err)
	}
	obs := NewMockObserver()
	return NewContext(context.Background(), testConfig(), sc, nil, obs, NewMetrics()), obs
}
