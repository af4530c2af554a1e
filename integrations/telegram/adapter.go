package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/common"
	"github.com/goliatone/go-relay/transport"
	"github.com/mymmrac/telego"
	ta "github.com/mymmrac/telego/telegoapi"
	tu "github.com/mymmrac/telego/telegoutil"
)

const Key = "telegram"

var SupportedEvents = []string{
	core.EventRunCompletion,
	core.EventRunError,
	core.EventWebhookTimeout,
	core.EventRunTestFailure,
	core.EventIntegrationTest,
}

var apiMessages = common.APIMessages{
	API:          "Telegram",
	Unauthorized: "The provided Telegram bot token is invalid.",
	Forbidden:    "The Telegram bot is not allowed to post in this chat.",
	NotFound:     "The provided Telegram chat was not found.",
}

// Adapter posts HTML messages through the Telegram Bot API.
type Adapter struct {
	common.Base
}

func New(in core.AdapterInput) (core.Adapter, error) {
	return &Adapter{Base: common.NewBase(Key, in, SupportedEvents...)}, nil
}

func (a *Adapter) SendEvent(ctx context.Context) error {
	if !a.ShouldSend() {
		return nil
	}
	text, ok := common.HTMLMessage(a.In.EventType, a.Payload())
	if !ok {
		return core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("Telegram has no message for event %s", a.In.EventType),
			nil,
		)
	}
	bot, err := telego.NewBot(a.Setting("bot_token"),
		telego.WithHTTPClient(transport.NewHTTPClient(a.Transport())),
		telego.WithDiscardLogger(),
	)
	if err != nil {
		return core.NewUserConfigurationError(apiMessages.Unauthorized, nil)
	}

	_, err = bot.SendMessage(ctx, tu.Message(chatID(a.Setting("chat_id")), text).WithParseMode(telego.ModeHTML))
	if err == nil {
		return nil
	}
	return a.classify(err)
}

func (a *Adapter) classify(err error) error {
	var apiErr *ta.Error
	if !errors.As(err, &apiErr) {
		if core.ErrorType(err) != "" {
			return err
		}
		return core.NewServiceError("Telegram request failed", err)
	}
	resp := core.TransportResponse{
		StatusCode: apiErr.ErrorCode,
		Body:       []byte(apiErr.Description),
	}
	a.Reject("Telegram", resp)
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Description), "chat not found") {
		return core.NewUserConfigurationError(apiMessages.NotFound, &resp)
	}
	return common.Classify(resp, apiMessages)
}

// chatID accepts a numeric id or an @channel username.
func chatID(value string) telego.ChatID {
	value = strings.TrimSpace(value)
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return tu.ID(id)
	}
	if !strings.HasPrefix(value, "@") {
		value = "@" + value
	}
	return tu.Username(value)
}

var _ core.Adapter = (*Adapter)(nil)
