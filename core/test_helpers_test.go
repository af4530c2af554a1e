package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

// recordingAdapter counts outbound sends in place of a real provider call.
type recordingAdapter struct {
	key        string
	configured bool
	sendErr    error
	block      bool
	calls      *atomic.Int32
}

func (a *recordingAdapter) Key() string        { return a.key }
func (a *recordingAdapter) IsConfigured() bool { return a.configured }

func (a *recordingAdapter) SendEvent(ctx context.Context) error {
	a.calls.Add(1)
	if a.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return a.sendErr
}

type adapterRecorder struct {
	mu     sync.Mutex
	calls  map[string]*atomic.Int32
	inputs []AdapterInput
}

func newAdapterRecorder() *adapterRecorder {
	return &adapterRecorder{calls: map[string]*atomic.Int32{}}
}

func (r *adapterRecorder) factory(sendErr error, block bool) AdapterFactory {
	return func(in AdapterInput) (Adapter, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.inputs = append(r.inputs, in)
		counter, ok := r.calls[in.Definition.Key]
		if !ok {
			counter = &atomic.Int32{}
			r.calls[in.Definition.Key] = counter
		}
		missing := in.Settings.Missing(in.Definition.RequiredSettings())
		return &recordingAdapter{
			key:        in.Definition.Key,
			configured: len(missing) == 0,
			sendErr:    sendErr,
			block:      block,
			calls:      counter,
		}, nil
	}
}

func (r *adapterRecorder) sends(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counter, ok := r.calls[key]
	if !ok {
		return 0
	}
	return int(counter.Load())
}

func (r *adapterRecorder) totalSends() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, counter := range r.calls {
		total += int(counter.Load())
	}
	return total
}

func testIntegrationRegistry() *IntegrationRegistry {
	registry, err := NewIntegrationRegistry(
		IntegrationDefinition{
			Key:   "chat_a",
			Title: "Chat A",
			Settings: []SettingDefinition{
				{Key: "room_id", Title: "Room", Type: "string", Required: true},
				{Key: "room_token", Title: "Token", Type: "string", Required: true},
			},
			SupportedEventTypes: []string{EventRunCompletion, EventRunError, EventIntegrationTest},
		},
		IntegrationDefinition{
			Key:   "chat_b",
			Title: "Chat B",
			Settings: []SettingDefinition{
				{Key: "url", Title: "Webhook URL", Type: "string", Required: true},
			},
			SupportedEventTypes: []string{EventRunCompletion, EventIntegrationTest},
		},
		IntegrationDefinition{
			Key:                 "legacy",
			Title:               "Legacy",
			Incomplete:          true,
			SupportedEventTypes: []string{EventRunCompletion},
		},
	)
	if err != nil {
		panic(err)
	}
	return registry
}

func testEventRegistry() *EventRegistry {
	registry, err := NewEventRegistry(
		EventSchema{
			EventType: EventRunCompletion,
			Title:     "Run completed",
			Payload: []EventField{
				{Name: "frontend_url", Description: "run url"},
				{Name: "run", Description: "run details"},
			},
		},
		EventSchema{
			EventType: EventRunError,
			Title:     "Run errored",
			Payload: []EventField{
				{Name: "frontend_url", Description: "run url"},
				{Name: "run", Description: "run details"},
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return registry
}

var errProviderDown = errors.New("provider down")
