package slack

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/common"
)

const defaultErrorReason = "Error reason was unspecified (please contact " + common.SupportEmail + " if you'd like help debugging this)"

// Run info and test counts alternate so Slack's two column layout pairs them.
func runCompletionAttachment(payload core.Payload) Attachment {
	run := payload.Run()
	total := run.Get("total_tests").Int()
	color := ColorDanger
	if run.Get("result").String() == "passed" {
		color = ColorGood
	}
	url := payload.String("frontend_url")
	return Attachment{
		Color: color,
		Fields: []Field{
			{Title: "Result", Value: common.Humanize(run.Get("result").String()), Short: true},
			testGroupField("Tests Passed", run.Get("total_passed_tests").Int(), total, url, "passed", "View all Passed tests"),
			{Title: "Duration", Value: common.HumanizeSeconds(run.Get("time_taken").Int()), Short: true},
			testGroupField("Tests Failed", run.Get("total_failed_tests").Int(), total, url, "failed", "View all Failed tests"),
			{Title: "Environment", Value: common.EnvironmentName(payload), Short: true},
			testGroupField("Other Results", run.Get("total_no_result_tests").Int(), total, url, "no_result", "View all tests with no result"),
		},
	}
}

func testGroupField(title string, count int64, total int64, url string, group string, label string) Field {
	return Field{
		Title: fmt.Sprintf("%s: %d - %d%%", title, count, common.TestPercentage(count, total)),
		Value: fmt.Sprintf("<%s?expandedGroups%%5B%%5D=%s | %s>", url, group, label),
		Short: true,
	}
}

func runErrorAttachment(payload core.Payload) Attachment {
	reason := strings.TrimSpace(payload.RunString("error_reason"))
	if reason == "" {
		reason = defaultErrorReason
	}
	return Attachment{
		Color:  ColorDanger,
		Fields: []Field{{Title: "Error Reason", Value: reason, Short: false}},
	}
}

func runTestFailureAttachment(payload core.Payload) Attachment {
	failed := payload.Get("failed_test")
	fields := []Field{
		{
			Title: "Failed Test",
			Value: fmt.Sprintf("<%s | Test #%s: %s>",
				failed.Get("frontend_url").String(),
				failed.Get("id").String(),
				failed.Get("title").String(),
			),
			Short: true,
		},
		{Title: "Environment", Value: common.EnvironmentName(payload), Short: true},
		{Title: "Browser", Value: payload.String("browser.description"), Short: true},
	}
	for _, feedback := range payload.Get("feedback").Array() {
		fields = append(fields, Field{
			Title: "Feedback from " + feedback.Get("worker_name").String(),
			Value: feedback.Get("note").String(),
			Short: false,
		})
	}
	return Attachment{Color: ColorDanger, Fields: fields}
}

func webhookTimeoutAttachment(payload core.Payload) Attachment {
	return Attachment{
		Color:  ColorDanger,
		Fields: []Field{{Title: "Environment", Value: common.EnvironmentName(payload), Short: false}},
	}
}

func integrationTestAttachment(core.Payload) Attachment {
	const text = "Your slack integration works!"
	return Attachment{
		Color:    ColorGood,
		Fields:   []Field{},
		Fallback: text,
		Text:     text,
	}
}
