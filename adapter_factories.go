package relay

import (
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/hipchat"
	"github.com/goliatone/go-relay/integrations/jira"
	"github.com/goliatone/go-relay/integrations/pivotaltracker"
	"github.com/goliatone/go-relay/integrations/slack"
	"github.com/goliatone/go-relay/integrations/telegram"
)

// AdapterFactories is the closed table binding catalog keys to adapters.
// A catalog key without an entry here is rejected as unsupported.
func AdapterFactories() map[string]core.AdapterFactory {
	return map[string]core.AdapterFactory{
		slack.Key:          SlackAdapter,
		hipchat.Key:        HipChatAdapter,
		telegram.Key:       TelegramAdapter,
		jira.Key:           JiraAdapter,
		pivotaltracker.Key: PivotalTrackerAdapter,
	}
}

func SlackAdapter(in core.AdapterInput) (core.Adapter, error) {
	return slack.New(in)
}

func HipChatAdapter(in core.AdapterInput) (core.Adapter, error) {
	return hipchat.New(in)
}

func TelegramAdapter(in core.AdapterInput) (core.Adapter, error) {
	return telegram.New(in)
}

func JiraAdapter(in core.AdapterInput) (core.Adapter, error) {
	return jira.New(in)
}

func PivotalTrackerAdapter(in core.AdapterInput) (core.Adapter, error) {
	return pivotaltracker.New(in)
}
