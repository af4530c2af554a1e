package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/devkit"
)

const botToken = "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsawx"

const sentMessage = `{"ok":true,"result":{"message_id":1,"date":1700000000,"chat":{"id":-1001,"type":"supergroup"}}}`

func definition() core.IntegrationDefinition {
	return devkit.Definition(Key, SupportedEvents, "bot_token", "chat_id")
}

func send(t *testing.T, eventType string, settings core.Settings, fake *devkit.FakeTransportAdapter) error {
	t.Helper()
	adapter, err := New(devkit.Input(eventType, definition(), settings, fake))
	if err != nil {
		t.Fatalf("new telegram adapter: %v", err)
	}
	return adapter.SendEvent(context.Background())
}

func TestAdapter_SendsHTMLMessage(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(devkit.Respond(http.StatusOK, sentMessage))
	if err := send(t, core.EventRunTestFailure, devkit.Settings("bot_token", botToken, "chat_id", "-1001"), fake); err != nil {
		t.Fatalf("send event: %v", err)
	}
	if fake.Calls() != 1 {
		t.Fatalf("expected one call, got %d", fake.Calls())
	}
	req := fake.Request(0)
	if !strings.HasSuffix(req.URL, "/bot"+botToken+"/sendMessage") {
		t.Fatalf("unexpected url %q", req.URL)
	}

	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["chat_id"] != float64(-1001) {
		t.Fatalf("expected numeric chat id, got %#v", body["chat_id"])
	}
	if body["parse_mode"] != "HTML" {
		t.Fatalf("expected html parse mode, got %#v", body["parse_mode"])
	}
	text, _ := body["text"].(string)
	if !strings.Contains(text, "has a failed test!") || !strings.Contains(text, "Checkout works") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestAdapter_UsernameChat(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(devkit.Respond(http.StatusOK, sentMessage))
	if err := send(t, core.EventIntegrationTest, devkit.Settings("bot_token", botToken, "chat_id", "qa_alerts"), fake); err != nil {
		t.Fatalf("send event: %v", err)
	}
	var body map[string]any
	_ = json.Unmarshal(fake.Request(0).Body, &body)
	if body["chat_id"] != "@qa_alerts" {
		t.Fatalf("expected username chat id, got %#v", body["chat_id"])
	}
}

func TestAdapter_InvalidTokenMakesNoCall(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter()
	err := send(t, core.EventRunError, devkit.Settings("bot_token", "not-a-token", "chat_id", "1"), fake)
	if !core.IsErrorType(err, core.ErrorUserConfiguration) {
		t.Fatalf("expected user configuration error, got %v", err)
	}
	if fake.Calls() != 0 {
		t.Fatalf("expected no calls, got %d", fake.Calls())
	}
}

func TestAdapter_ClassifiesAPIErrors(t *testing.T) {
	settings := devkit.Settings("bot_token", botToken, "chat_id", "1")
	cases := []struct {
		name     string
		status   int
		body     string
		textCode string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"ok":false,"error_code":401,"description":"Unauthorized"}`, core.ErrorUserConfiguration},
		{"blocked", http.StatusForbidden, `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`, core.ErrorUserConfiguration},
		{"chat not found", http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`, core.ErrorUserConfiguration},
		{"bad request", http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: can't parse entities"}`, core.ErrorMisconfiguredIntegration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := send(t, core.EventRunError, settings, devkit.NewFakeTransportAdapter(devkit.Respond(tc.status, tc.body)))
			if !core.IsErrorType(err, tc.textCode) {
				t.Fatalf("expected %s, got %v", tc.textCode, err)
			}
		})
	}
}

func TestAdapter_TransportFailureIsServiceError(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter(devkit.Fail(errors.New("dial tcp: i/o timeout")))
	err := send(t, core.EventRunError, devkit.Settings("bot_token", botToken, "chat_id", "1"), fake)
	if !core.IsErrorType(err, core.ErrorService) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestAdapter_Conformance(t *testing.T) {
	err := devkit.ValidateAdapterConformance(
		context.Background(),
		New,
		definition(),
		[]core.Setting{{Key: "bot_token", Value: botToken}, {Key: "chat_id", Value: "1"}},
		core.EventRunCompletion,
		"run_started",
	)
	if err != nil {
		t.Fatalf("conformance: %v", err)
	}
}
