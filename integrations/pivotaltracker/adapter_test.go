package pivotaltracker

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/devkit"
)

const projectURL = "https://www.pivotaltracker.com/services/v5/projects/99"

func definition() core.IntegrationDefinition {
	return devkit.Definition(Key, SupportedEvents, "project_id", "api_token")
}

func send(t *testing.T, eventType string, fake *devkit.FakeTransportAdapter) error {
	t.Helper()
	adapter, err := New(devkit.Input(eventType, definition(), devkit.Settings("project_id", 99.0, "api_token", "tok"), fake))
	if err != nil {
		t.Fatalf("new pivotal tracker adapter: %v", err)
	}
	return adapter.SendEvent(context.Background())
}

func TestAdapter_CreatesStoryWhenNoOpenMatch(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(
		devkit.Respond(http.StatusOK, `{"stories":{"stories":[]}}`),
		devkit.Respond(http.StatusOK, `{"id":555}`),
	)
	if err := send(t, core.EventRunTestFailure, fake); err != nil {
		t.Fatalf("send event: %v", err)
	}
	if fake.Calls() != 2 {
		t.Fatalf("expected search and create, got %v", fake.Lines())
	}

	search := fake.Request(0)
	if search.Method != http.MethodGet || search.URL != projectURL+"/search" {
		t.Fatalf("unexpected search %s %s", search.Method, search.URL)
	}
	if search.Query["query"] != `label:"Test42" -state:delivered,accepted` {
		t.Fatalf("unexpected search query %q", search.Query["query"])
	}
	if search.Headers[TokenHeader] != "tok" {
		t.Fatalf("expected tracker token header")
	}

	create := fake.Request(1)
	if create.Method != http.MethodPost || create.URL != projectURL+"/stories" {
		t.Fatalf("unexpected create %s %s", create.Method, create.URL)
	}
	var story Story
	if err := json.Unmarshal(create.Body, &story); err != nil {
		t.Fatalf("decode story: %v", err)
	}
	if story.Name != "Rainforest found a bug in 'Checkout works'" || story.StoryType != "bug" {
		t.Fatalf("unexpected story %#v", story)
	}
	if story.Description != "Failed test title: Checkout works\nhttps://app.example.com/runs/123" {
		t.Fatalf("unexpected description %q", story.Description)
	}
	if len(story.Labels) != 1 || story.Labels[0] != "Test42" {
		t.Fatalf("unexpected labels %v", story.Labels)
	}
	if len(story.Comments) != 1 || story.Comments[0].Text != "Environment: QA" {
		t.Fatalf("unexpected comments %v", story.Comments)
	}
}

func TestAdapter_RelabelsOpenStory(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(
		devkit.Respond(http.StatusOK, `{"stories":{"stories":[{"id":321},{"id":322}]}}`),
		devkit.Respond(http.StatusOK, `{"id":321}`),
	)
	if err := send(t, core.EventWebhookTimeout, fake); err != nil {
		t.Fatalf("send event: %v", err)
	}
	if fake.Calls() != 2 {
		t.Fatalf("expected search and update only, got %v", fake.Lines())
	}
	update := fake.Request(1)
	if update.Method != http.MethodPut || update.URL != projectURL+"/stories/321" {
		t.Fatalf("unexpected update %s %s", update.Method, update.URL)
	}
	if string(update.Body) != `{"labels":["Run123","RepeatedFailures"]}` {
		t.Fatalf("unexpected update body %s", update.Body)
	}
}

func TestAdapter_WebhookTimeoutAndIntegrationTestStories(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(devkit.Respond(http.StatusOK, `{"stories":{"stories":[]}}`))
	if err := send(t, core.EventWebhookTimeout, fake); err != nil {
		t.Fatalf("send event: %v", err)
	}
	var story Story
	_ = json.Unmarshal(fake.Request(1).Body, &story)
	if story.Name != "Your Rainforest webhook has timed out" {
		t.Fatalf("unexpected name %q", story.Name)
	}
	if story.Description != "Your webhook has timed out for Run #123 (nightly). If you need help debugging, please contact us at help@rainforestqa.com" {
		t.Fatalf("unexpected description %q", story.Description)
	}

	probe := devkit.NewFakeTransportAdapter(devkit.Respond(http.StatusOK, `{"stories":{"stories":[]}}`))
	if err := send(t, core.EventIntegrationTest, probe); err != nil {
		t.Fatalf("send event: %v", err)
	}
	if probe.Request(0).Query["query"] != `label:"Integration Test" -state:delivered,accepted` {
		t.Fatalf("unexpected integration test query %q", probe.Request(0).Query["query"])
	}
	var created map[string]any
	_ = json.Unmarshal(probe.Request(1).Body, &created)
	if comments, ok := created["comments"].([]any); !ok || len(comments) != 0 {
		t.Fatalf("expected empty comments list, got %#v", created["comments"])
	}
}

func TestAdapter_ClassifiesRejections(t *testing.T) {
	cases := []struct {
		status   int
		textCode string
		message  string
	}{
		{http.StatusNotFound, core.ErrorUserConfiguration, "The project ID provided was not found."},
		{http.StatusForbidden, core.ErrorUserConfiguration, "The authorization token is invalid."},
		{http.StatusUnauthorized, core.ErrorUserConfiguration, "The authorization token is invalid."},
		{http.StatusInternalServerError, core.ErrorMisconfiguredIntegration, "Invalid request to the Pivotal Tracker API."},
	}
	for _, tc := range cases {
		fake := devkit.NewFakeTransportAdapter(devkit.Respond(tc.status, `{"code":"error"}`))
		err := send(t, core.EventRunTestFailure, fake)
		if !core.IsErrorType(err, tc.textCode) {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.textCode, err)
		}
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) || rich.Message != tc.message {
			t.Fatalf("status %d: unexpected message %v", tc.status, err)
		}
		if fake.Calls() != 1 {
			t.Fatalf("status %d: expected search only, got %v", tc.status, fake.Lines())
		}
	}
}

func TestAdapter_Conformance(t *testing.T) {
	err := devkit.ValidateAdapterConformance(
		context.Background(),
		New,
		definition(),
		[]core.Setting{{Key: "project_id", Value: "99"}, {Key: "api_token", Value: "tok"}},
		core.EventWebhookTimeout,
		core.EventRunCompletion,
	)
	if err != nil {
		t.Fatalf("conformance: %v", err)
	}
}
