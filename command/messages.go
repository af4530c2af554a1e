package command

import (
	"strings"

	"github.com/goliatone/go-relay/core"
)

const (
	TypeSendEvent = "relay.command.event.send"
)

// SendEventMessage carries one inbound event. Payload validation against the
// event schema happens inside the dispatcher; Validate only checks the
// envelope.
type SendEventMessage struct {
	Request core.DispatchRequest
}

func (SendEventMessage) Type() string { return TypeSendEvent }

func (m SendEventMessage) Validate() error {
	if strings.TrimSpace(m.Request.EventType) == "" {
		return commandValidationError("event_type", "is required")
	}
	return nil
}
