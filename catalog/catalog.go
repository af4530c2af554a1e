// Package catalog loads the static integration and event catalogs.
package catalog

import (
	"fmt"
	"io/fs"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
	"gopkg.in/yaml.v3"
)

const (
	IntegrationsFile = "data/integrations.yml"
	EventsFile       = "data/events.yml"
)

// Catalog is the immutable pair of registries the dispatcher reads from.
type Catalog struct {
	Integrations *core.IntegrationRegistry
	Events       *core.EventRegistry
}

// Load reads both catalogs from fsys.
func Load(fsys fs.FS) (Catalog, error) {
	if fsys == nil {
		return Catalog{}, catalogError("catalog: filesystem is required", nil)
	}
	rawIntegrations, err := fs.ReadFile(fsys, IntegrationsFile)
	if err != nil {
		return Catalog{}, catalogError("catalog: read "+IntegrationsFile, err)
	}
	rawEvents, err := fs.ReadFile(fsys, EventsFile)
	if err != nil {
		return Catalog{}, catalogError("catalog: read "+EventsFile, err)
	}

	definitions, err := ParseIntegrations(rawIntegrations)
	if err != nil {
		return Catalog{}, err
	}
	schemas, err := ParseEvents(rawEvents)
	if err != nil {
		return Catalog{}, err
	}

	integrations, err := core.NewIntegrationRegistry(definitions...)
	if err != nil {
		return Catalog{}, catalogError("catalog: build integration registry", err)
	}
	events, err := core.NewEventRegistry(schemas...)
	if err != nil {
		return Catalog{}, catalogError("catalog: build event registry", err)
	}
	return Catalog{Integrations: integrations, Events: events}, nil
}

// ParseIntegrations decodes a key -> definition mapping, keeping declaration
// order.
func ParseIntegrations(raw []byte) ([]core.IntegrationDefinition, error) {
	out := make([]core.IntegrationDefinition, 0)
	err := decodeOrdered(raw, func(key string, node *yaml.Node) error {
		var definition core.IntegrationDefinition
		if err := node.Decode(&definition); err != nil {
			return err
		}
		definition.Key = key
		out = append(out, definition)
		return nil
	})
	if err != nil {
		return nil, catalogError("catalog: parse integrations", err)
	}
	return out, nil
}

// ParseEvents decodes an event_type -> schema mapping, keeping declaration
// order.
func ParseEvents(raw []byte) ([]core.EventSchema, error) {
	out := make([]core.EventSchema, 0)
	err := decodeOrdered(raw, func(key string, node *yaml.Node) error {
		var schema core.EventSchema
		if err := node.Decode(&schema); err != nil {
			return err
		}
		schema.EventType = key
		out = append(out, schema)
		return nil
	})
	if err != nil {
		return nil, catalogError("catalog: parse events", err)
	}
	return out, nil
}

func decodeOrdered(raw []byte, visit func(key string, node *yaml.Node) error) error {
	var document yaml.Node
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return err
	}
	if len(document.Content) == 0 {
		return nil
	}
	root := document.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping at line %d", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if err := visit(keyNode.Value, valueNode); err != nil {
			return fmt.Errorf("%s (line %d): %w", keyNode.Value, keyNode.Line, err)
		}
	}
	return nil
}

func catalogError(message string, cause error) error {
	if cause == nil {
		return goerrors.New(message, goerrors.CategoryInternal).
			WithCode(http.StatusInternalServerError).
			WithTextCode(core.ErrorInternal)
	}
	return goerrors.Wrap(cause, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ErrorInternal)
}
