package common

import "github.com/goliatone/go-relay/core"

const IntegrationTestLabel = "Integration Test"

func RunLabel(payload core.Payload) string {
	return "Run" + payload.RunString("id")
}

func TestLabel(payload core.Payload) string {
	return "Test" + payload.String("failed_test.id")
}

// IssueLabel is the tracker label that identifies repeats of the same
// failure. Events without one return "".
func IssueLabel(eventType string, payload core.Payload) string {
	switch eventType {
	case core.EventWebhookTimeout:
		return RunLabel(payload)
	case core.EventRunTestFailure:
		return TestLabel(payload)
	case core.EventIntegrationTest:
		return IntegrationTestLabel
	default:
		return ""
	}
}
