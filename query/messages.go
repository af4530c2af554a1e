package query

import "strings"

const (
	TypeListIntegrations = "relay.query.integration.list"
	TypeGetIntegration   = "relay.query.integration.get"
	TypeListEvents       = "relay.query.event.list"
)

// ListIntegrationsMessage lists the catalog. Incomplete integrations are
// hidden unless IncludeIncomplete is set.
type ListIntegrationsMessage struct {
	IncludeIncomplete bool
}

func (ListIntegrationsMessage) Type() string { return TypeListIntegrations }

func (ListIntegrationsMessage) Validate() error { return nil }

type GetIntegrationMessage struct {
	Key string
}

func (GetIntegrationMessage) Type() string { return TypeGetIntegration }

func (m GetIntegrationMessage) Validate() error {
	if strings.TrimSpace(m.Key) == "" {
		return queryValidationError("key", "is required")
	}
	return nil
}

type ListEventsMessage struct{}

func (ListEventsMessage) Type() string { return TypeListEvents }

func (ListEventsMessage) Validate() error { return nil }
