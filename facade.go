package relay

import (
	"fmt"

	"github.com/goliatone/go-relay/adapters/gocommand"
	relaycommand "github.com/goliatone/go-relay/command"
	"github.com/goliatone/go-relay/core"
	relayquery "github.com/goliatone/go-relay/query"
)

// CommandQueryService is what the facade needs from the dispatcher.
type CommandQueryService interface {
	core.Dispatcher
	Integrations() core.IntegrationCatalog
	Events() core.EventCatalog
}

type Commands struct {
	SendEvent *relaycommand.SendEventCommand
}

type Queries struct {
	ListIntegrations *relayquery.ListIntegrationsQuery
	GetIntegration   *relayquery.GetIntegrationQuery
	ListEvents       *relayquery.ListEventsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("relay: command/query service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			SendEvent: relaycommand.NewSendEventCommand(service),
		},
		queries: Queries{
			ListIntegrations: relayquery.NewListIntegrationsQuery(service.Integrations()),
			GetIntegration:   relayquery.NewGetIntegrationQuery(service.Integrations()),
			ListEvents:       relayquery.NewListEventsQuery(service.Events()),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// Subscribe registers the facade handlers with the go-command dispatcher so
// messages can be sent through gocommand.Dispatch and gocommand.Query.
func (f *Facade) Subscribe(adapter *gocommand.RegistryAdapter) (gocommand.Subscriptions, error) {
	if f == nil {
		return nil, fmt.Errorf("relay: facade is nil")
	}
	subscriptions := make(gocommand.Subscriptions, 0, 4)
	release := func(err error) (gocommand.Subscriptions, error) {
		subscriptions.Unsubscribe()
		return nil, err
	}

	sub, err := gocommand.RegisterAndSubscribe(adapter, f.commands.SendEvent)
	if err != nil {
		return release(err)
	}
	subscriptions = append(subscriptions, sub)

	sub, err = gocommand.RegisterAndSubscribeQuery(adapter, f.queries.ListIntegrations)
	if err != nil {
		return release(err)
	}
	subscriptions = append(subscriptions, sub)

	sub, err = gocommand.RegisterAndSubscribeQuery(adapter, f.queries.GetIntegration)
	if err != nil {
		return release(err)
	}
	subscriptions = append(subscriptions, sub)

	sub, err = gocommand.RegisterAndSubscribeQuery(adapter, f.queries.ListEvents)
	if err != nil {
		return release(err)
	}
	subscriptions = append(subscriptions, sub)
	return subscriptions, nil
}
