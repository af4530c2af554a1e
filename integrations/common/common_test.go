package common

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/devkit"
)

func TestHumanizeSeconds(t *testing.T) {
	cases := map[int64]string{
		0:      "Error/Unknown",
		-5:     "Error/Unknown",
		45:     "45 seconds",
		60:     "1 minutes, 0 seconds",
		3600:   "1 hours, 0 minutes, 0 seconds",
		3725:   "1 hours, 2 minutes, 5 seconds",
		90061:  "1 days, 1 hours, 1 minutes, 1 seconds",
		172800: "2 days, 0 hours, 0 minutes, 0 seconds",
	}
	for input, want := range cases {
		if got := HumanizeSeconds(input); got != want {
			t.Fatalf("HumanizeSeconds(%d): expected %q, got %q", input, want, got)
		}
	}
}

func TestTestPercentage(t *testing.T) {
	cases := []struct {
		quantity, total int64
		want            int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 8, 13},
		{0, 10, 0},
	}
	for _, tc := range cases {
		if got := TestPercentage(tc.quantity, tc.total); got != tc.want {
			t.Fatalf("TestPercentage(%d, %d): expected %d, got %d", tc.quantity, tc.total, tc.want, got)
		}
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"no_result": "No result",
		"passed":    "Passed",
		"FAILED":    "Failed",
		"":          "",
	}
	for input, want := range cases {
		if got := Humanize(input); got != want {
			t.Fatalf("Humanize(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestLabels(t *testing.T) {
	timeout := devkit.FixturePayload(core.EventWebhookTimeout)
	if got := IssueLabel(core.EventWebhookTimeout, timeout); got != "Run123" {
		t.Fatalf("expected Run123, got %q", got)
	}
	failure := devkit.FixturePayload(core.EventRunTestFailure)
	if got := IssueLabel(core.EventRunTestFailure, failure); got != "Test42" {
		t.Fatalf("expected Test42, got %q", got)
	}
	if got := IssueLabel(core.EventIntegrationTest, core.NewPayload([]byte(`{}`))); got != IntegrationTestLabel {
		t.Fatalf("expected integration test label, got %q", got)
	}
	if got := IssueLabel(core.EventRunCompletion, timeout); got != "" {
		t.Fatalf("expected no label for run completion, got %q", got)
	}
	if got := RunInfo(timeout); got != "Run #123 (nightly)" {
		t.Fatalf("unexpected run info %q", got)
	}
	if got := RunInfo(failure); got != "Run #123" {
		t.Fatalf("unexpected run info without description %q", got)
	}
}

func TestClassify(t *testing.T) {
	messages := APIMessages{API: "Pivotal Tracker", NotFound: "The project ID provided was not found."}

	if err := Classify(core.TransportResponse{StatusCode: http.StatusNoContent}, messages); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	err := Classify(core.TransportResponse{StatusCode: http.StatusNotFound, Body: []byte("nope")}, messages)
	if !core.IsErrorType(err, core.ErrorUserConfiguration) {
		t.Fatalf("expected user configuration error, got %v", err)
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Message != "The project ID provided was not found." {
		t.Fatalf("unexpected message %v", err)
	}
	body, code, ok := core.ResponseDetails(err)
	if !ok || body != "nope" || code != http.StatusNotFound {
		t.Fatalf("expected response details, got %q %d %v", body, code, ok)
	}

	err = Classify(core.TransportResponse{StatusCode: http.StatusForbidden}, messages)
	if !core.IsErrorType(err, core.ErrorUserConfiguration) {
		t.Fatalf("expected user configuration error for 403, got %v", err)
	}

	err = Classify(core.TransportResponse{StatusCode: http.StatusInternalServerError}, messages)
	if !core.IsErrorType(err, core.ErrorMisconfiguredIntegration) {
		t.Fatalf("expected misconfigured integration error, got %v", err)
	}
	if !goerrors.As(err, &rich) || rich.Message != "Invalid request to the Pivotal Tracker API." {
		t.Fatalf("unexpected default message %v", err)
	}
}

func TestBase_ShouldSendGatesOnSettingsAndEvents(t *testing.T) {
	def := devkit.Definition("chat", []string{core.EventRunCompletion}, "url")

	unconfigured := NewBase("chat", devkit.Input(core.EventRunCompletion, def, devkit.Settings(), nil), core.EventRunCompletion)
	if unconfigured.IsConfigured() || unconfigured.ShouldSend() {
		t.Fatalf("expected unconfigured base to refuse sending")
	}

	configured := devkit.Settings("url", "https://hooks.example")
	unsupported := NewBase("chat", devkit.Input(core.EventRunError, def, configured, nil), core.EventRunCompletion)
	if !unsupported.IsConfigured() || unsupported.ShouldSend() {
		t.Fatalf("expected unsupported event to be refused")
	}

	ready := NewBase("chat", devkit.Input(core.EventRunCompletion, def, configured, nil), core.EventRunCompletion)
	if !ready.ShouldSend() {
		t.Fatalf("expected base to send")
	}
	if ready.Key() != "chat" || ready.Setting("url") != "https://hooks.example" {
		t.Fatalf("unexpected base accessors")
	}
	if ready.Transport() == nil || ready.Logger() == nil {
		t.Fatalf("expected default transport and logger")
	}
}

func TestBase_DoWrapsTransportFailures(t *testing.T) {
	def := devkit.Definition("chat", []string{core.EventRunCompletion}, "url")
	fake := devkit.NewFakeTransportAdapter(devkit.Fail(errors.New("dial tcp: connection refused")))
	base := NewBase("chat", devkit.Input(core.EventRunCompletion, def, devkit.Settings("url", "x"), fake), core.EventRunCompletion)

	_, err := base.Do(context.Background(), core.TransportRequest{URL: "https://hooks.example"})
	if !core.IsErrorType(err, core.ErrorService) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestHTMLMessage(t *testing.T) {
	message, ok := HTMLMessage(core.EventRunCompletion, devkit.FixturePayload(core.EventRunCompletion))
	if !ok {
		t.Fatalf("expected run completion message")
	}
	want := "Rainforest <a href=\"https://app.example.com/runs/123\">Run #123</a> is complete!\nResult: <b>failed</b>"
	if message != want {
		t.Fatalf("expected %q, got %q", want, message)
	}

	failure, _ := HTMLMessage(core.EventRunTestFailure, devkit.FixturePayload(core.EventRunTestFailure))
	if !strings.Contains(failure, "Failed Test: <a href=\"https://app.example.com/tests/42\">Checkout works</a>") {
		t.Fatalf("unexpected failure message %q", failure)
	}

	escaped, _ := HTMLMessage(core.EventRunTestFailure, core.NewPayload([]byte(`{"run":{"id":1},"failed_test":{"title":"<script>"}}`)))
	if strings.Contains(escaped, "<script>") {
		t.Fatalf("expected title to be escaped, got %q", escaped)
	}

	if _, ok := HTMLMessage("run_started", core.NewPayload(nil)); ok {
		t.Fatalf("expected no message for unknown event")
	}
}
