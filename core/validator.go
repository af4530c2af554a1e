package core

import (
	"fmt"
	"strings"
)

// PayloadValidator checks an inbound event against the event schema catalog
// before any integration is resolved.
type PayloadValidator struct {
	events EventCatalog
}

func NewPayloadValidator(events EventCatalog) PayloadValidator {
	return PayloadValidator{events: events}
}

func (v PayloadValidator) Validate(eventType string, integrations []IntegrationRequest, payload Payload) error {
	eventType = strings.TrimSpace(eventType)
	if eventType == EventIntegrationTest {
		return nil
	}

	if v.events == nil {
		return NewInvalidPayloadError(fmt.Sprintf("Event %s is not supported", eventType))
	}
	schema, ok := v.events.Find(eventType)
	if !ok {
		return NewInvalidPayloadError(fmt.Sprintf("Event %s is not supported", eventType))
	}
	if !payload.IsObject() {
		return NewInvalidPayloadError("payload must be properly formatted JSON")
	}
	if integrations == nil {
		return NewInvalidPayloadError("integrations must be an array")
	}

	missing := make([]string, 0)
	for _, field := range schema.RequiredFields() {
		if !payload.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		quoted := make([]string, 0, len(missing))
		for _, key := range missing {
			quoted = append(quoted, "'"+key+"'")
		}
		return NewInvalidPayloadError(
			fmt.Sprintf("Payload for event %s did not contain required keys: %s", eventType, strings.Join(quoted, ", ")),
			missing...,
		)
	}
	return nil
}
