package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// TransportAdapter performs exactly one outbound call per Do.
type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// Adapter is the capability every integration variant implements. SendEvent
// must be a no-op when IsConfigured reports false or the event type is not
// in the adapter's allowlist.
type Adapter interface {
	Key() string
	IsConfigured() bool
	SendEvent(ctx context.Context) error
}

// AdapterInput carries the request scoped values an adapter is built from.
// Transport is optional; adapters fall back to their own default transport.
type AdapterInput struct {
	EventType     string
	Payload       Payload
	Settings      Settings
	OAuthConsumer OAuthConsumer
	Definition    IntegrationDefinition
	Transport     TransportAdapter
	Logger        Logger
}

type AdapterFactory func(in AdapterInput) (Adapter, error)

type IntegrationCatalog interface {
	Find(key string) (IntegrationDefinition, error)
	Exists(key string) bool
	Keys() []string
	All() []IntegrationDefinition
	PublicIntegrations() []IntegrationDefinition
}

type EventCatalog interface {
	Find(eventType string) (EventSchema, bool)
	All() []EventSchema
}

type Dispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) (DispatchResult, error)
}
