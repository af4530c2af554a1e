package common

import (
	"context"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/transport"
)

const (
	ProductName           = "Rainforest"
	SupportEmail          = "help@rainforestqa.com"
	RepeatedFailuresLabel = "RepeatedFailures"
)

// Base is embedded by every adapter. It owns the request scoped input and
// decides whether a send should happen at all.
type Base struct {
	In core.AdapterInput

	key             string
	supportedEvents []string
	transport       core.TransportAdapter
	logger          core.Logger
}

func NewBase(key string, in core.AdapterInput, supportedEvents ...string) Base {
	key = strings.TrimSpace(key)
	logger := in.Logger
	if logger == nil {
		logger = glog.Nop()
	}
	if fields, ok := logger.(core.FieldsLogger); ok {
		logger = fields.WithFields(map[string]any{
			"integration": key,
			"event_type":  in.EventType,
		})
	}
	adapter := in.Transport
	if adapter == nil {
		adapter = transport.NewRESTAdapter(nil)
	}
	return Base{
		In:              in,
		key:             key,
		supportedEvents: append([]string(nil), supportedEvents...),
		transport:       adapter,
		logger:          logger,
	}
}

func (b Base) Key() string {
	return b.key
}

// IsConfigured reports whether every required setting of the integration
// definition was supplied with a non-blank value.
func (b Base) IsConfigured() bool {
	return len(b.MissingSettings()) == 0
}

func (b Base) MissingSettings() []string {
	return b.In.Settings.Missing(b.In.Definition.RequiredSettings())
}

func (b Base) Supports(eventType string) bool {
	return slices.Contains(b.supportedEvents, strings.TrimSpace(eventType))
}

func (b Base) SupportedEvents() []string {
	return append([]string(nil), b.supportedEvents...)
}

// ShouldSend gates SendEvent. A false result has already been logged.
func (b Base) ShouldSend() bool {
	if missing := b.MissingSettings(); len(missing) > 0 {
		b.logger.Error("required settings were missing",
			"missing", strings.Join(missing, ", "),
			"settings", b.In.Settings.Redacted(),
		)
		return false
	}
	if !b.Supports(b.In.EventType) {
		b.logger.Info("event type not supported by integration", "supported", strings.Join(b.supportedEvents, ","))
		return false
	}
	return true
}

func (b Base) Logger() core.Logger {
	return b.logger
}

// SetTransport replaces the default transport. Adapters that derive a signed
// client at send time call it before their first request.
func (b *Base) SetTransport(adapter core.TransportAdapter) {
	if adapter != nil {
		b.transport = adapter
	}
}

func (b Base) Transport() core.TransportAdapter {
	return b.transport
}

func (b Base) Payload() core.Payload {
	return b.In.Payload
}

func (b Base) Setting(key string) string {
	return b.In.Settings.String(key)
}

// Do performs a single provider call. Transport failures that carry no relay
// error type are reported as ServiceError.
func (b Base) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	resp, err := b.transport.Do(ctx, req)
	if err != nil {
		if core.IsErrorType(err, core.ErrorService) {
			return core.TransportResponse{}, err
		}
		return core.TransportResponse{}, core.NewServiceError(b.key+": provider request failed", err)
	}
	return resp, nil
}

// Reject logs a provider rejection before it is classified.
func (b Base) Reject(api string, resp core.TransportResponse) {
	b.logger.Error(api+" API error",
		"status", resp.StatusCode,
		"body", truncate(string(resp.Body), 512),
	)
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
