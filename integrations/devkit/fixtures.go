package devkit

import (
	"github.com/goliatone/go-relay/core"
)

// Fixture payloads mirror what the upstream test platform posts for each
// event type.
const (
	RunCompletionPayload = `{
  "frontend_url": "https://app.example.com/runs/123",
  "run": {
    "id": 123,
    "description": "nightly",
    "result": "failed",
    "time_taken": 3725,
    "total_tests": 3,
    "total_passed_tests": 1,
    "total_failed_tests": 1,
    "total_no_result_tests": 1,
    "environment": {"name": "QA"}
  }
}`

	RunErrorPayload = `{
  "frontend_url": "https://app.example.com/runs/123",
  "run": {"id": 123, "error_reason": "", "environment": {"name": "QA"}}
}`

	WebhookTimeoutPayload = `{
  "frontend_url": "https://app.example.com/runs/123",
  "run": {"id": 123, "description": "nightly", "environment": {"name": "QA"}}
}`

	RunTestFailurePayload = `{
  "frontend_url": "https://app.example.com/runs/123",
  "run": {"id": 123, "environment": {"name": "QA"}},
  "failed_test": {"id": 42, "title": "Checkout works", "frontend_url": "https://app.example.com/tests/42"},
  "browser": {"description": "Chrome 120"},
  "feedback": [
    {"worker_name": "Ana", "note": "Button missing"},
    {"worker_name": "Bo", "note": "Page 500"}
  ]
}`
)

var fixturePayloads = map[string]string{
	core.EventRunCompletion:   RunCompletionPayload,
	core.EventRunError:        RunErrorPayload,
	core.EventWebhookTimeout:  WebhookTimeoutPayload,
	core.EventRunTestFailure:  RunTestFailurePayload,
	core.EventIntegrationTest: `{}`,
}

func FixturePayload(eventType string) core.Payload {
	raw, ok := fixturePayloads[eventType]
	if !ok {
		raw = `{}`
	}
	return core.NewPayload([]byte(raw))
}

// Settings builds a settings list from alternating key, value pairs.
func Settings(pairs ...any) core.Settings {
	raw := make([]core.Setting, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		raw = append(raw, core.Setting{Key: key, Value: pairs[i+1]})
	}
	return core.NewSettings(raw)
}

// Definition builds a catalog entry whose required settings are keys.
func Definition(key string, events []string, required ...string) core.IntegrationDefinition {
	settings := make([]core.SettingDefinition, 0, len(required))
	for _, name := range required {
		settings = append(settings, core.SettingDefinition{Key: name, Title: name, Type: "string", Required: true})
	}
	return core.IntegrationDefinition{
		Key:                 key,
		Title:               key,
		Settings:            settings,
		SupportedEventTypes: append([]string(nil), events...),
	}
}

// Input assembles an adapter input around a fake transport.
func Input(eventType string, def core.IntegrationDefinition, settings core.Settings, transport core.TransportAdapter) core.AdapterInput {
	return core.AdapterInput{
		EventType:  eventType,
		Payload:    FixturePayload(eventType),
		Settings:   settings,
		Definition: def,
		Transport:  transport,
	}
}
