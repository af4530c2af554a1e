package hipchat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/common"
	"github.com/goliatone/go-relay/transport"
)

const (
	Key              = "hip_chat"
	DefaultServerURL = "https://api.hipchat.com"
	Sender           = "Rainforest QA"
)

const (
	ColorGreen = "green"
	ColorRed   = "red"
)

var SupportedEvents = []string{
	core.EventRunCompletion,
	core.EventRunError,
	core.EventWebhookTimeout,
	core.EventRunTestFailure,
	core.EventIntegrationTest,
}

var apiMessages = common.APIMessages{
	API:          "HipChat",
	Unauthorized: "The provided HipChat room token is invalid.",
	NotFound:     "The provided HipChat room was not found.",
}

type Notification struct {
	From          string `json:"from"`
	Color         string `json:"color"`
	Message       string `json:"message"`
	Notify        bool   `json:"notify"`
	MessageFormat string `json:"message_format"`
}

// Adapter sends room notifications through the HipChat v2 API.
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
	notification, err := a.Notification()
	if err != nil {
		return err
	}
	req, err := transport.JSONRequest(http.MethodPost, a.endpoint(), notification, map[string]string{
		"Authorization": "Bearer " + a.Setting("room_token"),
	})
	if err != nil {
		return err
	}
	resp, err := a.Do(ctx, req)
	if err != nil {
		return err
	}
	if transport.IsSuccess(resp.StatusCode) {
		return nil
	}
	a.Reject("HipChat", resp)
	return common.Classify(resp, apiMessages)
}

func (a *Adapter) Notification() (Notification, error) {
	message, ok := common.HTMLMessage(a.In.EventType, a.Payload())
	if !ok {
		return Notification{}, core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("HipChat has no message for event %s", a.In.EventType),
			nil,
		)
	}
	return Notification{
		From:          Sender,
		Color:         color(a.In.EventType, a.Payload()),
		Message:       message,
		Notify:        true,
		MessageFormat: "html",
	}, nil
}

func (a *Adapter) endpoint() string {
	server := strings.TrimRight(strings.TrimSpace(a.Setting("server_url")), "/")
	if server == "" {
		server = DefaultServerURL
	}
	return server + "/v2/room/" + url.PathEscape(a.Setting("room_id")) + "/notification"
}

func color(eventType string, payload core.Payload) string {
	switch eventType {
	case core.EventRunCompletion:
		if common.Passed(payload) {
			return ColorGreen
		}
		return ColorRed
	case core.EventIntegrationTest:
		return ColorGreen
	default:
		return ColorRed
	}
}

var _ core.Adapter = (*Adapter)(nil)
