package core

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"
)

const metricPrefix = "relay."

// Failures the caller can fix by changing the event or its settings. They are
// logged at warn; everything else points at the relay or a provider outage.
var callerErrorTypes = []string{
	"invalid_payload",
	"unsupported_integration",
	"user_configuration_error",
}

// observeOperation emits one log line, a counter and a duration histogram for
// a dispatch or a single integration send. Metric tags are limited to
// low-cardinality fields; dispatch ids only go to the log.
func (s *Service) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if s == nil {
		return
	}
	operation = normalizeOperation(operation)
	elapsed := time.Since(startedAt)

	status := "success"
	logFields := cloneFields(fields)
	logFields["operation"] = operation
	logFields["duration_ms"] = elapsed.Milliseconds()
	level := "info"
	if err != nil {
		status = "failure"
		logFields["error"] = err.Error()
		level = "error"
		if errorType := ErrorType(err); errorType != "" {
			logFields["error_type"] = errorType
			if slices.Contains(callerErrorTypes, errorType) {
				level = "warn"
			}
		}
	}
	logFields["status"] = status

	tags := metricTags(logFields, "integration", "event_type", "error_type")
	tags["operation"] = operation
	tags["status"] = status
	s.recordCounter(ctx, metricPrefix+operation+".total", 1, tags)
	s.recordHistogram(ctx, metricPrefix+operation+".duration_ms", float64(elapsed.Milliseconds()), tags)

	message := operation + " succeeded"
	if err != nil {
		message = operation + " failed"
	}
	s.logWithLevel(ctx, level, message, logFields)
}

// observeSkip records an integration that was not attempted. Skips are not
// failures and never reach the failure counters.
func (s *Service) observeSkip(ctx context.Context, reason string, fields map[string]any) {
	logFields := cloneFields(fields)
	logFields["reason"] = reason
	s.logInfo(ctx, "integration skipped", logFields)
	s.recordCounter(ctx, metricPrefix+"integration.skipped", 1, metricTags(logFields, "integration", "event_type"))
}

func (s *Service) logInfo(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "info", message, fields)
}

func (s *Service) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	args := flattenFields(fields)
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
		args = nil
	}
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (s *Service) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.IncCounter(ctx, name, value, cloneTags(tags))
}

func (s *Service) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.ObserveHistogram(ctx, name, value, cloneTags(tags))
}

// NopMetricsRecorder drops every measurement.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

var _ MetricsRecorder = NopMetricsRecorder{}

func metricTags(fields map[string]any, keys ...string) map[string]string {
	tags := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := fields[key].(string); ok && strings.TrimSpace(value) != "" {
			tags[key] = value
		}
	}
	return tags
}

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	return maps.Clone(tags)
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	return maps.Clone(fields)
}

func flattenFields(fields map[string]any) []any {
	keys := slices.Sorted(maps.Keys(fields))
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.ToLower(strings.TrimSpace(operation))
	operation = strings.NewReplacer(" ", "_", "-", "_").Replace(operation)
	if operation == "" {
		return "unknown"
	}
	return operation
}
