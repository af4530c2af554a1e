package query

import (
	"context"

	"github.com/goliatone/go-relay/core"
)

type ListIntegrationsQuery struct {
	catalog core.IntegrationCatalog
}

func NewListIntegrationsQuery(catalog core.IntegrationCatalog) *ListIntegrationsQuery {
	return &ListIntegrationsQuery{catalog: catalog}
}

func (q *ListIntegrationsQuery) Query(_ context.Context, msg ListIntegrationsMessage) ([]core.IntegrationDefinition, error) {
	if q == nil || q.catalog == nil {
		return nil, queryDependencyError("query: integration catalog is required")
	}
	if msg.IncludeIncomplete {
		return q.catalog.All(), nil
	}
	return q.catalog.PublicIntegrations(), nil
}

type GetIntegrationQuery struct {
	catalog core.IntegrationCatalog
}

func NewGetIntegrationQuery(catalog core.IntegrationCatalog) *GetIntegrationQuery {
	return &GetIntegrationQuery{catalog: catalog}
}

func (q *GetIntegrationQuery) Query(_ context.Context, msg GetIntegrationMessage) (core.IntegrationDefinition, error) {
	if q == nil || q.catalog == nil {
		return core.IntegrationDefinition{}, queryDependencyError("query: integration catalog is required")
	}
	if err := msg.Validate(); err != nil {
		return core.IntegrationDefinition{}, err
	}
	return q.catalog.Find(msg.Key)
}

type ListEventsQuery struct {
	catalog core.EventCatalog
}

func NewListEventsQuery(catalog core.EventCatalog) *ListEventsQuery {
	return &ListEventsQuery{catalog: catalog}
}

func (q *ListEventsQuery) Query(context.Context, ListEventsMessage) ([]core.EventSchema, error) {
	if q == nil || q.catalog == nil {
		return nil, queryDependencyError("query: event catalog is required")
	}
	return q.catalog.All(), nil
}
