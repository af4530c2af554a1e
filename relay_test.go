package relay

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/devkit"
)

const scenarioPayload = `{
  "run": {
    "id": 123,
    "result": "passed",
    "time_taken": 1503,
    "total_tests": 10,
    "total_passed_tests": 8,
    "total_failed_tests": 2,
    "total_no_result_tests": 0,
    "environment": {"name": "QA"}
  },
  "frontend_url": "http://x"
}`

func newTestService(t *testing.T, fake *devkit.FakeTransportAdapter, cfg Config) *Service {
	t.Helper()
	svc, err := New(cfg,
		WithTransport(fake),
		WithLogger(glog.Nop()),
		WithIDGenerator(func() string { return "dispatch-1" }),
	)
	if err != nil {
		t.Fatalf("new relay service: %v", err)
	}
	return svc
}

func TestNew_LoadsEmbeddedCatalogs(t *testing.T) {
	svc := newTestService(t, devkit.NewFakeTransportAdapter(), Config{})

	keys := svc.Integrations().Keys()
	if strings.Join(keys, ",") != "slack,hip_chat,telegram,jira,pivotal_tracker" {
		t.Fatalf("unexpected integration keys %v", keys)
	}
	for _, definition := range svc.Integrations().PublicIntegrations() {
		if definition.Key == "hip_chat" {
			t.Fatalf("expected hip_chat to be hidden from public integrations")
		}
	}
	if _, ok := svc.Events().Find(core.EventRunTestFailure); !ok {
		t.Fatalf("expected run_test_failure schema")
	}
	factories := AdapterFactories()
	for _, key := range keys {
		if factories[key] == nil {
			t.Fatalf("expected adapter factory for %s", key)
		}
	}
}

func TestDispatch_RunCompletionToSlack(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(devkit.Respond(http.StatusOK, "ok"))
	svc := newTestService(t, fake, Config{})

	result, err := svc.Dispatch(context.Background(), DispatchRequest{
		EventType: core.EventRunCompletion,
		Integrations: []IntegrationRequest{{
			Key:      "slack",
			Settings: []Setting{{Key: "url", Value: "https://x"}},
		}},
		Payload: core.NewPayload([]byte(scenarioPayload)),
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if fake.Calls() != 1 {
		t.Fatalf("expected exactly one outbound call, got %d", fake.Calls())
	}
	req := fake.Request(0)
	if req.Method != http.MethodPost || req.URL != "https://x" {
		t.Fatalf("unexpected request %s %s", req.Method, req.URL)
	}
	body := string(req.Body)
	if !strings.Contains(body, "Run #123") || !strings.Contains(body, "is complete!") {
		t.Fatalf("unexpected body %s", body)
	}
	if result.DispatchID != "dispatch-1" || result.Count(core.OutcomeSent) != 1 {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestDispatch_UnknownIntegrationKey(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter()
	svc := newTestService(t, fake, Config{})

	_, err := svc.Dispatch(context.Background(), DispatchRequest{
		EventType:    core.EventWebhookTimeout,
		Integrations: []IntegrationRequest{{Key: "unknown_key", Settings: []Setting{}}},
		Payload:      devkit.FixturePayload(core.EventWebhookTimeout),
	})
	if core.ErrorType(err) != "unsupported_integration" {
		t.Fatalf("expected unsupported integration error, got %v", err)
	}
	if fake.Calls() != 0 {
		t.Fatalf("expected zero outbound calls, got %d", fake.Calls())
	}
}

func TestDispatch_ContinuePolicyAttemptsEveryIntegration(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(
		devkit.Respond(http.StatusNotFound, "Bad token"),
		devkit.Respond(http.StatusInternalServerError, "boom"),
	)
	svc := newTestService(t, fake, Config{FailurePolicy: core.FailurePolicyContinue})

	result, err := svc.Dispatch(context.Background(), DispatchRequest{
		EventType: core.EventRunError,
		Integrations: []IntegrationRequest{
			{Key: "slack", Settings: []Setting{{Key: "url", Value: "https://a"}}},
			{Key: "pivotal_tracker", Settings: []Setting{{Key: "project_id", Value: "1"}}},
			{Key: "slack", Settings: []Setting{{Key: "url", Value: "https://b"}}},
		},
		Payload: devkit.FixturePayload(core.EventRunError),
	})
	if err == nil {
		t.Fatalf("expected joined failures")
	}
	if fake.Calls() != 2 {
		t.Fatalf("expected two outbound calls, got %d", fake.Calls())
	}
	if result.Count(core.OutcomeFailed) != 2 || result.Count(core.OutcomeSkipped) != 1 {
		t.Fatalf("unexpected outcomes %#v", result.Outcomes)
	}
	if !core.IsErrorType(err, core.ErrorUserConfiguration) {
		t.Fatalf("expected user configuration error to be findable, got %v", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Fatalf("expected two joined errors, got %v", err)
	}
}

func TestDispatch_HaltPolicyStopsAtFirstFailure(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(devkit.Respond(http.StatusNotFound, "Bad token"))
	svc := newTestService(t, fake, Config{})

	_, err := svc.Dispatch(context.Background(), DispatchRequest{
		EventType: core.EventRunError,
		Integrations: []IntegrationRequest{
			{Key: "slack", Settings: []Setting{{Key: "url", Value: "https://a"}}},
			{Key: "slack", Settings: []Setting{{Key: "url", Value: "https://b"}}},
		},
		Payload: devkit.FixturePayload(core.EventRunError),
	})
	if core.ErrorType(err) != "user_configuration_error" {
		t.Fatalf("expected user configuration error, got %v", err)
	}
	if fake.Calls() != 1 {
		t.Fatalf("expected dispatch to stop after one call, got %d", fake.Calls())
	}
}
