package core

import (
	"fmt"
	"strings"
)

// IntegrationRegistry is the immutable catalog of integrations. It is built
// once at startup and safe for concurrent readers.
type IntegrationRegistry struct {
	order       []string
	definitions map[string]IntegrationDefinition
}

func NewIntegrationRegistry(definitions ...IntegrationDefinition) (*IntegrationRegistry, error) {
	registry := &IntegrationRegistry{
		order:       make([]string, 0, len(definitions)),
		definitions: make(map[string]IntegrationDefinition, len(definitions)),
	}
	for _, definition := range definitions {
		key := strings.TrimSpace(definition.Key)
		if key == "" {
			return nil, fmt.Errorf("core: integration key is required")
		}
		if _, exists := registry.definitions[key]; exists {
			return nil, fmt.Errorf("core: integration already registered: %s", key)
		}
		definition.Key = key
		registry.order = append(registry.order, key)
		registry.definitions[key] = cloneDefinition(definition)
	}
	return registry, nil
}

func (r *IntegrationRegistry) Find(key string) (IntegrationDefinition, error) {
	key = strings.TrimSpace(key)
	if r == nil {
		return IntegrationDefinition{}, NewIntegrationNotFoundError(key)
	}
	definition, ok := r.definitions[key]
	if !ok {
		return IntegrationDefinition{}, NewIntegrationNotFoundError(key)
	}
	return cloneDefinition(definition), nil
}

func (r *IntegrationRegistry) Exists(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.definitions[strings.TrimSpace(key)]
	return ok
}

func (r *IntegrationRegistry) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

func (r *IntegrationRegistry) All() []IntegrationDefinition {
	if r == nil {
		return nil
	}
	out := make([]IntegrationDefinition, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, cloneDefinition(r.definitions[key]))
	}
	return out
}

// PublicIntegrations hides entries flagged incomplete. Incomplete entries
// remain resolvable through Find.
func (r *IntegrationRegistry) PublicIntegrations() []IntegrationDefinition {
	all := r.All()
	out := make([]IntegrationDefinition, 0, len(all))
	for _, definition := range all {
		if definition.Incomplete {
			continue
		}
		out = append(out, definition)
	}
	return out
}

func cloneDefinition(in IntegrationDefinition) IntegrationDefinition {
	out := in
	out.Settings = append([]SettingDefinition(nil), in.Settings...)
	out.SupportedEventTypes = append([]string(nil), in.SupportedEventTypes...)
	return out
}

type EventRegistry struct {
	order   []string
	schemas map[string]EventSchema
}

func NewEventRegistry(schemas ...EventSchema) (*EventRegistry, error) {
	registry := &EventRegistry{
		order:   make([]string, 0, len(schemas)),
		schemas: make(map[string]EventSchema, len(schemas)),
	}
	for _, schema := range schemas {
		eventType := strings.TrimSpace(schema.EventType)
		if eventType == "" {
			return nil, fmt.Errorf("core: event type is required")
		}
		if _, exists := registry.schemas[eventType]; exists {
			return nil, fmt.Errorf("core: event type already registered: %s", eventType)
		}
		schema.EventType = eventType
		schema.Payload = append([]EventField(nil), schema.Payload...)
		registry.order = append(registry.order, eventType)
		registry.schemas[eventType] = schema
	}
	return registry, nil
}

func (r *EventRegistry) Find(eventType string) (EventSchema, bool) {
	if r == nil {
		return EventSchema{}, false
	}
	schema, ok := r.schemas[strings.TrimSpace(eventType)]
	if !ok {
		return EventSchema{}, false
	}
	schema.Payload = append([]EventField(nil), schema.Payload...)
	return schema, true
}

func (r *EventRegistry) All() []EventSchema {
	if r == nil {
		return nil
	}
	out := make([]EventSchema, 0, len(r.order))
	for _, eventType := range r.order {
		schema, _ := r.Find(eventType)
		out = append(out, schema)
	}
	return out
}

var (
	_ IntegrationCatalog = (*IntegrationRegistry)(nil)
	_ EventCatalog       = (*EventRegistry)(nil)
)
