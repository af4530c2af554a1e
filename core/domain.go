package core

import (
	"slices"
	"strings"
)

const (
	EventRunCompletion   = "run_completion"
	EventRunError        = "run_error"
	EventWebhookTimeout  = "webhook_timeout"
	EventRunTestFailure  = "run_test_failure"
	EventIntegrationTest = "integration_test"
)

// Setting is one raw key/value pair as supplied by the caller. Values keep
// their decoded JSON shape.
type Setting struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// OAuthConsumer is the consumer identity shared by every integration in a
// request. Secrets maps a signature method to a PEM encoded private key.
type OAuthConsumer struct {
	Key     string            `json:"key"`
	Secrets map[string]string `json:"secrets"`
}

func (c OAuthConsumer) Secret(signatureMethod string) (string, bool) {
	if len(c.Secrets) == 0 {
		return "", false
	}
	secret, ok := c.Secrets[strings.TrimSpace(signatureMethod)]
	if !ok || strings.TrimSpace(secret) == "" {
		return "", false
	}
	return secret, true
}

type IntegrationRequest struct {
	Key      string    `json:"key"`
	Settings []Setting `json:"settings"`
}

// DispatchRequest is the validated unit of work handed to the dispatcher. A
// nil Integrations slice means the caller did not send a list at all.
type DispatchRequest struct {
	EventType     string
	Integrations  []IntegrationRequest
	Payload       Payload
	OAuthConsumer OAuthConsumer
}

type SettingDefinition struct {
	Key      string `json:"key" yaml:"key"`
	Title    string `json:"title" yaml:"title"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
}

type IntegrationDefinition struct {
	Key                 string              `json:"key" yaml:"-"`
	Title               string              `json:"title" yaml:"title"`
	Description         string              `json:"description,omitempty" yaml:"description"`
	Settings            []SettingDefinition `json:"settings" yaml:"settings"`
	SupportedEventTypes []string            `json:"supported_event_types" yaml:"supported_event_types"`
	Incomplete          bool                `json:"incomplete,omitempty" yaml:"incomplete"`
}

func (d IntegrationDefinition) RequiredSettings() []string {
	required := make([]string, 0, len(d.Settings))
	for _, setting := range d.Settings {
		if setting.Required {
			required = append(required, setting.Key)
		}
	}
	return required
}

func (d IntegrationDefinition) SupportsEvent(eventType string) bool {
	return slices.Contains(d.SupportedEventTypes, strings.TrimSpace(eventType))
}

type EventField struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type EventSchema struct {
	EventType string       `json:"event_type" yaml:"-"`
	Title     string       `json:"title" yaml:"title"`
	Payload   []EventField `json:"payload" yaml:"payload"`
}

func (e EventSchema) RequiredFields() []string {
	fields := make([]string, 0, len(e.Payload))
	for _, field := range e.Payload {
		fields = append(fields, field.Name)
	}
	return fields
}

type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

type IntegrationOutcome struct {
	Key        string        `json:"key"`
	Status     OutcomeStatus `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	Err        error         `json:"-"`
}

type DispatchResult struct {
	DispatchID string               `json:"dispatch_id"`
	EventType  string               `json:"event_type"`
	Outcomes   []IntegrationOutcome `json:"outcomes"`
}

func (r DispatchResult) Count(status OutcomeStatus) int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			count++
		}
	}
	return count
}
