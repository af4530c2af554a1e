package common

import (
	"fmt"
	"html"

	"github.com/goliatone/go-relay/core"
)

type htmlFormatter func(payload core.Payload) string

var htmlFormatters = map[string]htmlFormatter{
	core.EventRunCompletion: func(payload core.Payload) string {
		return fmt.Sprintf("%s is complete!\nResult: <b>%s</b>",
			htmlRunLink(payload),
			html.EscapeString(payload.RunString("result")),
		)
	},
	core.EventRunTestFailure: func(payload core.Payload) string {
		return fmt.Sprintf("%s has a failed test!\nFailed Test: <a href=\"%s\">%s</a>",
			htmlRunLink(payload),
			html.EscapeString(payload.String("failed_test.frontend_url")),
			html.EscapeString(payload.String("failed_test.title")),
		)
	},
	core.EventRunError: func(payload core.Payload) string {
		return fmt.Sprintf("%s has encountered an error!\nPlease contact %s for more details.",
			htmlRunLink(payload),
			SupportEmail,
		)
	},
	core.EventWebhookTimeout: func(payload core.Payload) string {
		return fmt.Sprintf("%s has timed out!\nPlease contact %s if you need help debugging this problem.",
			htmlRunLink(payload),
			SupportEmail,
		)
	},
	core.EventIntegrationTest: func(core.Payload) string {
		return fmt.Sprintf("Your %s integration works!", ProductName)
	},
}

// HTMLMessage renders the chat message for eventType using the small HTML
// subset chat services accept (a, b). ok is false for events with no message.
func HTMLMessage(eventType string, payload core.Payload) (message string, ok bool) {
	format, ok := htmlFormatters[eventType]
	if !ok {
		return "", false
	}
	return format(payload), true
}

func htmlRunLink(payload core.Payload) string {
	return fmt.Sprintf("%s <a href=\"%s\">Run #%s</a>",
		ProductName,
		html.EscapeString(payload.String("frontend_url")),
		html.EscapeString(payload.RunString("id")),
	)
}

// Passed reports whether the run in payload finished with a passing result.
func Passed(payload core.Payload) bool {
	return payload.RunString("result") == "passed"
}
