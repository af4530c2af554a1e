package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
)

func TestRESTAdapter_DoSendsMethodHeadersAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}
		if got := r.URL.Query().Get("query"); got != `label:"Run1" -state:delivered` {
			t.Errorf("expected query value, got %q", got)
		}
		if got := r.Header.Get("X-TrackerToken"); got != "tok" {
			t.Errorf("expected header value, got %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if string(body) != "payload" {
			t.Errorf("expected request body payload, got %q", string(body))
		}
		w.Header().Set("X-Server", "ok")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("done"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	result, err := adapter.Do(context.Background(), core.TransportRequest{
		Method:  "post",
		URL:     server.URL,
		Query:   map[string]string{"query": `label:"Run1" -state:delivered`},
		Headers: map[string]string{"X-TrackerToken": "tok"},
		Body:    []byte("payload"),
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("perform rest request: %v", err)
	}
	if result.StatusCode != http.StatusAccepted {
		t.Fatalf("expected accepted status, got %d", result.StatusCode)
	}
	if string(result.Body) != "done" {
		t.Fatalf("unexpected response body: %q", string(result.Body))
	}
	if result.Headers["X-Server"] != "ok" {
		t.Fatalf("expected response header")
	}
}

func TestRESTAdapter_NonSuccessIsAResponseNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Bad token"))
	}))
	defer server.Close()

	result, err := NewRESTAdapter(server.Client()).Do(context.Background(), core.TransportRequest{URL: server.URL})
	if err != nil {
		t.Fatalf("expected response, got error %v", err)
	}
	if result.StatusCode != http.StatusNotFound || string(result.Body) != "Bad token" {
		t.Fatalf("unexpected response %d %q", result.StatusCode, string(result.Body))
	}
}

func TestRESTAdapter_DefaultHeadersDoNotOverrideRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("expected user agent %q, got %q", UserAgent, got)
		}
		if got := r.Header.Get("Accept"); got != "text/plain" {
			t.Errorf("expected request accept header to win, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := NewRESTAdapter(server.Client()).Do(context.Background(), core.TransportRequest{
		URL:     server.URL,
		Headers: map[string]string{"Accept": "text/plain"},
	})
	if err != nil {
		t.Fatalf("perform rest request: %v", err)
	}
}

func TestRESTAdapter_ClientFailureNamesHostOnly(t *testing.T) {
	_, err := NewRESTAdapter(failingDoer{}).Do(context.Background(), core.TransportRequest{
		URL: "https://hooks.example/services/T000/B000/secret",
	})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Metadata["host"] != "hooks.example" {
		t.Fatalf("expected host metadata, got %#v", rich.Metadata)
	}
	for _, value := range rich.Metadata {
		if text, ok := value.(string); ok && strings.Contains(text, "secret") {
			t.Fatalf("webhook path leaked into error metadata %#v", rich.Metadata)
		}
	}
}

func TestNewRESTAdapter_DefaultClientTimeout(t *testing.T) {
	adapter := NewRESTAdapter(nil)
	httpClient, ok := adapter.Client.(*http.Client)
	if !ok {
		t.Fatalf("expected default http client implementation")
	}
	if httpClient.Timeout != defaultRESTClientTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultRESTClientTimeout, httpClient.Timeout)
	}
	if adapter.MaxResponseBodyBytes != defaultRESTResponseBodyLimit {
		t.Fatalf("expected default response body limit %d, got %d", defaultRESTResponseBodyLimit, adapter.MaxResponseBodyBytes)
	}
}

func TestRESTAdapter_ResponseLimitReturnsRichError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	adapter.MaxResponseBodyBytes = 4

	_, err := adapter.Do(context.Background(), core.TransportRequest{Method: http.MethodGet, URL: server.URL})
	if err == nil {
		t.Fatalf("expected response body limit error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorService {
		t.Fatalf("expected %q text code, got %q", core.ErrorService, rich.TextCode)
	}
	if rich.Code != http.StatusBadGateway {
		t.Fatalf("expected %d code, got %d", http.StatusBadGateway, rich.Code)
	}
}

func TestRESTAdapter_RelativeURLRejected(t *testing.T) {
	_, err := NewRESTAdapter(nil).Do(context.Background(), core.TransportRequest{URL: "/relative/path"})
	if core.ErrorType(err) != "bad_input" {
		t.Fatalf("expected bad input error, got %v", err)
	}
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestRESTAdapter_ClientFailureIsExternal(t *testing.T) {
	_, err := NewRESTAdapter(failingDoer{}).Do(context.Background(), core.TransportRequest{URL: "https://hooks.example/x"})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryExternal || rich.TextCode != core.ErrorService {
		t.Fatalf("unexpected envelope %q %q", rich.Category, rich.TextCode)
	}
}

func TestJSONRequest_EncodesBodyAndHeaders(t *testing.T) {
	req, err := JSONRequest("post", " https://hooks.example/x ", map[string]any{"text": "hi"}, map[string]string{"Authorization": "Bearer t"})
	if err != nil {
		t.Fatalf("json request: %v", err)
	}
	if req.Method != http.MethodPost || req.URL != "https://hooks.example/x" {
		t.Fatalf("unexpected request line %s %s", req.Method, req.URL)
	}
	if string(req.Body) != `{"text":"hi"}` {
		t.Fatalf("unexpected body %q", string(req.Body))
	}
	if req.Headers["Content-Type"] != "application/json" || req.Headers["Authorization"] != "Bearer t" {
		t.Fatalf("unexpected headers %#v", req.Headers)
	}
}

func TestDryRunAdapter_RecordsAndSucceeds(t *testing.T) {
	adapter := NewDryRunAdapter(nil)
	res, err := adapter.Do(context.Background(), core.TransportRequest{Method: http.MethodPost, URL: "https://hooks.example/x"})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !IsSuccess(res.StatusCode) {
		t.Fatalf("expected success status, got %d", res.StatusCode)
	}
	if got := adapter.Requests(); len(got) != 1 || got[0].URL != "https://hooks.example/x" {
		t.Fatalf("unexpected recorded requests %#v", got)
	}
}

func TestAdapterRoundTripper_RoutesHTTPClientThroughAdapter(t *testing.T) {
	dryRun := NewDryRunAdapter(nil)
	client := NewHTTPClient(dryRun)

	resp, err := client.Post("https://api.telegram.example/bot1/sendMessage", "application/json", strings.NewReader(`{"chat_id":1}`))
	if err != nil {
		t.Fatalf("post through round tripper: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != `{"ok":true,"result":{}}` {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, string(body))
	}

	requests := dryRun.Requests()
	if len(requests) != 1 {
		t.Fatalf("expected one recorded request, got %d", len(requests))
	}
	if requests[0].Method != http.MethodPost || string(requests[0].Body) != `{"chat_id":1}` {
		t.Fatalf("unexpected recorded request %#v", requests[0])
	}
	if requests[0].Headers["Content-Type"] != "application/json" {
		t.Fatalf("expected content type header, got %#v", requests[0].Headers)
	}
}
