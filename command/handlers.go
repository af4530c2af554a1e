package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-relay/core"
)

type SendEventCommand struct {
	dispatcher core.Dispatcher
}

func NewSendEventCommand(dispatcher core.Dispatcher) *SendEventCommand {
	return &SendEventCommand{dispatcher: dispatcher}
}

// Execute dispatches the event. The DispatchResult is stored in the context
// result collector even when dispatch fails, so callers can report partial
// outcomes.
func (c *SendEventCommand) Execute(ctx context.Context, msg SendEventMessage) error {
	if c == nil || c.dispatcher == nil {
		return commandDependencyError("command: dispatcher is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.dispatcher.Dispatch(ctx, msg.Request)
	storeResult(ctx, out)
	return err
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
