package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Service is the integration dispatcher. It holds the immutable catalogs and
// the closed adapter factory table; everything else is request scoped.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorMapper     ErrorMapper
	integrations    IntegrationCatalog
	events          EventCatalog
	validator       PayloadValidator
	factories       map[string]AdapterFactory
	transport       TransportAdapter
	idGenerator     IDGenerator
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("relay", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil && builder.logger == nil {
		if named := provider.GetLogger("relay"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = relayErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.idGenerator == nil {
		builder.idGenerator = defaultServiceBuilder(cfg).idGenerator
	}
	if builder.integrations == nil {
		empty, _ := NewIntegrationRegistry()
		builder.integrations = empty
	}
	if builder.events == nil {
		empty, _ := NewEventRegistry()
		builder.events = empty
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	factories := make(map[string]AdapterFactory, len(builder.factories))
	for key, factory := range builder.factories {
		factories[key] = factory
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorMapper:     builder.errorMapper,
		integrations:    builder.integrations,
		events:          builder.events,
		validator:       NewPayloadValidator(builder.events),
		factories:       factories,
		transport:       builder.transport,
		idGenerator:     builder.idGenerator,
	}, nil
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Integrations() IntegrationCatalog {
	if s == nil {
		return nil
	}
	return s.integrations
}

func (s *Service) Events() EventCatalog {
	if s == nil {
		return nil
	}
	return s.events
}

func (s *Service) Logger() Logger {
	if s == nil || s.logger == nil {
		return glog.Nop()
	}
	return s.logger
}

// Dispatch validates the event and hands it to every requested integration in
// order. Under the halt policy the first failure stops the loop and is
// returned unmodified; under the continue policy every integration is
// attempted and all failures are joined. An unsupported integration key stops
// the loop under either policy.
func (s *Service) Dispatch(ctx context.Context, req DispatchRequest) (DispatchResult, error) {
	if s == nil {
		return DispatchResult{}, NewServiceError("core: dispatcher is not initialized", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	eventType := strings.TrimSpace(req.EventType)
	result := DispatchResult{
		DispatchID: s.idGenerator(),
		EventType:  eventType,
		Outcomes:   make([]IntegrationOutcome, 0, len(req.Integrations)),
	}
	fields := map[string]any{
		"dispatch_id":       result.DispatchID,
		"event_type":        eventType,
		"integration_count": len(req.Integrations),
	}

	if err := s.validator.Validate(eventType, req.Integrations, req.Payload); err != nil {
		s.observeOperation(ctx, startedAt, "dispatch", err, fields)
		return result, err
	}

	failures := make([]error, 0)
	for _, item := range req.Integrations {
		outcome := s.dispatchOne(ctx, result.DispatchID, eventType, req, item)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err == nil {
			continue
		}
		failures = append(failures, outcome.Err)
		// An unknown key means the request itself is wrong; nothing after it runs.
		if !s.config.continueOnFailure() || IsErrorType(outcome.Err, ErrorUnsupportedIntegration) {
			break
		}
	}

	fields["sent"] = result.Count(OutcomeSent)
	fields["skipped"] = result.Count(OutcomeSkipped)
	fields["failed"] = result.Count(OutcomeFailed)

	var err error
	switch len(failures) {
	case 0:
	case 1:
		err = failures[0]
	default:
		err = errors.Join(failures...)
	}
	s.observeOperation(ctx, startedAt, "dispatch", err, fields)
	return result, err
}

func (s *Service) dispatchOne(
	ctx context.Context,
	dispatchID string,
	eventType string,
	req DispatchRequest,
	item IntegrationRequest,
) IntegrationOutcome {
	startedAt := time.Now()
	key := strings.TrimSpace(item.Key)
	outcome := IntegrationOutcome{Key: key}
	fields := map[string]any{
		"dispatch_id": dispatchID,
		"event_type":  eventType,
		"integration": key,
	}
	finish := func(status OutcomeStatus, reason string, err error) IntegrationOutcome {
		outcome.Status = status
		outcome.Reason = reason
		outcome.Err = err
		outcome.DurationMS = time.Since(startedAt).Milliseconds()
		if status == OutcomeSkipped {
			s.observeSkip(ctx, reason, fields)
			return outcome
		}
		s.observeOperation(ctx, startedAt, "integration.send", err, fields)
		return outcome
	}

	definition, err := s.integrations.Find(key)
	if err != nil {
		return finish(OutcomeFailed, "unknown integration", NewUnsupportedIntegrationError(key))
	}
	factory, ok := s.factories[key]
	if !ok || factory == nil {
		return finish(OutcomeFailed, "no adapter bound", NewUnsupportedIntegrationError(key))
	}

	settings := NewSettings(item.Settings)
	adapter, err := factory(AdapterInput{
		EventType:     eventType,
		Payload:       req.Payload,
		Settings:      settings,
		OAuthConsumer: req.OAuthConsumer,
		Definition:    definition,
		Transport:     s.transport,
		Logger:        s.adapterLogger(key),
	})
	if err != nil {
		return finish(OutcomeFailed, "adapter construction failed", ensureTyped(err, key))
	}
	if adapter == nil {
		return finish(OutcomeFailed, "adapter construction failed", NewMisconfiguredIntegrationError(
			fmt.Sprintf("Integration %s could not be initialized", key), nil,
		))
	}

	if !adapter.IsConfigured() {
		missing := settings.Missing(definition.RequiredSettings())
		return finish(OutcomeSkipped, "missing required settings: "+strings.Join(missing, ", "), nil)
	}
	if !definition.SupportsEvent(eventType) {
		return finish(OutcomeSkipped, "event type not supported", nil)
	}

	adapterCtx, cancel := context.WithTimeout(ctx, s.config.AdapterTimeout())
	defer cancel()
	if err := adapter.SendEvent(adapterCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ErrorType(err) == "" {
			err = NewServiceError(fmt.Sprintf("Integration %s timed out", key), err)
		}
		return finish(OutcomeFailed, ErrorType(err), ensureTyped(err, key))
	}
	return finish(OutcomeSent, "", nil)
}

func (s *Service) adapterLogger(key string) Logger {
	if fieldsLogger, ok := s.logger.(FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{"integration": key})
	}
	return s.Logger()
}

// ensureTyped keeps relay errors intact and wraps anything else as a
// service error so callers can always classify the failure.
func ensureTyped(err error, key string) error {
	if err == nil {
		return nil
	}
	if ErrorType(err) != "" {
		return err
	}
	return NewServiceError(fmt.Sprintf("Integration %s failed: %s", key, err.Error()), err)
}

var _ Dispatcher = (*Service)(nil)
