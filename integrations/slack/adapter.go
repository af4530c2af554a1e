package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/common"
	"github.com/goliatone/go-relay/transport"
)

const Key = "slack"

const (
	ColorGood   = "good"
	ColorDanger = "danger"
)

var SupportedEvents = []string{
	core.EventRunCompletion,
	core.EventRunError,
	core.EventWebhookTimeout,
	core.EventRunTestFailure,
	core.EventIntegrationTest,
}

var apiMessages = common.APIMessages{
	API:      "Slack",
	NotFound: "The provided Slack URL is invalid.",
}

type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type Attachment struct {
	Color    string  `json:"color"`
	Fields   []Field `json:"fields"`
	Fallback string  `json:"fallback"`
	Text     string  `json:"text"`
}

type Message struct {
	Attachments []Attachment `json:"attachments"`
}

type attachmentFormatter func(payload core.Payload) Attachment

var formatters = map[string]attachmentFormatter{
	core.EventRunCompletion:   runCompletionAttachment,
	core.EventRunError:        runErrorAttachment,
	core.EventWebhookTimeout:  webhookTimeoutAttachment,
	core.EventRunTestFailure:  runTestFailureAttachment,
	core.EventIntegrationTest: integrationTestAttachment,
}

var eventMessages = map[string]string{
	core.EventRunCompletion:  "is complete!",
	core.EventRunError:       "has encountered an error!",
	core.EventWebhookTimeout: "has timed out due to a webhook failure!\nIf you need a hand debugging it, please let us know via email at " + common.SupportEmail + ".",
	core.EventRunTestFailure: "has a failed test!",
}

// Adapter posts attachments to a Slack incoming webhook.
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
	message, err := a.Message()
	if err != nil {
		return err
	}
	req, err := transport.JSONRequest(http.MethodPost, a.Setting("url"), message, nil)
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
	a.Reject("Slack", resp)
	return classify(resp)
}

// Message builds the webhook body for the adapter's event.
func (a *Adapter) Message() (Message, error) {
	eventType := a.In.EventType
	format, ok := formatters[eventType]
	if !ok {
		return Message{}, core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("Slack has no message for event %s", eventType),
			nil,
		)
	}
	payload := a.Payload()
	attachment := format(payload)
	if eventType != core.EventIntegrationTest {
		attachment.Fallback = fallbackText(eventType)
		attachment.Text = messageText(eventType, payload)
	}
	return Message{Attachments: []Attachment{attachment}}, nil
}

func classify(resp core.TransportResponse) error {
	body := strings.TrimSpace(string(resp.Body))
	switch {
	case resp.StatusCode == http.StatusInternalServerError && body == "no_text":
		return core.NewUserConfigurationError("Invalid request to the Slack API (maybe the JSON structure is wrong?).", &resp)
	case resp.StatusCode == http.StatusNotFound && body == "Bad token":
		return core.NewUserConfigurationError(apiMessages.NotFound, &resp)
	}
	return common.Classify(resp, apiMessages)
}

func fallbackText(eventType string) string {
	return fmt.Sprintf("Your %s Run %s", common.ProductName, eventMessages[eventType])
}

func messageText(eventType string, payload core.Payload) string {
	run := "Run #" + payload.RunString("id")
	if description := strings.TrimSpace(payload.RunString("description")); description != "" {
		run += ": " + description
	}
	return fmt.Sprintf("Your %s Run (<%s | %s>) %s",
		common.ProductName,
		payload.String("frontend_url"),
		run,
		eventMessages[eventType],
	)
}

var _ core.Adapter = (*Adapter)(nil)
