package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-relay/core"
)

var (
	_ gocmd.Querier[ListIntegrationsMessage, []core.IntegrationDefinition] = (*ListIntegrationsQuery)(nil)
	_ gocmd.Querier[GetIntegrationMessage, core.IntegrationDefinition]     = (*GetIntegrationQuery)(nil)
	_ gocmd.Querier[ListEventsMessage, []core.EventSchema]                 = (*ListEventsQuery)(nil)
)
