package devkit

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-relay/core"
)

const KindFake = "fake"

// TransportScript is one canned answer. Scripts are consumed in call order and
// the last one repeats once they run out.
type TransportScript struct {
	Response core.TransportResponse
	Err      error
}

func Respond(statusCode int, body string) TransportScript {
	return TransportScript{Response: core.TransportResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
	}}
}

func Fail(err error) TransportScript {
	return TransportScript{Err: err}
}

type FakeTransportAdapter struct {
	mu       sync.Mutex
	scripts  []TransportScript
	requests []core.TransportRequest
}

func NewFakeTransportAdapter(scripts ...TransportScript) *FakeTransportAdapter {
	return &FakeTransportAdapter{scripts: append([]TransportScript(nil), scripts...)}
}

func (*FakeTransportAdapter) Kind() string {
	return KindFake
}

func (a *FakeTransportAdapter) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil {
		return core.TransportResponse{}, fmt.Errorf("devkit: fake transport adapter is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return core.TransportResponse{}, err
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests = append(a.requests, cloneTransportRequest(req))
	index := len(a.requests) - 1
	if index < len(a.scripts) {
		script := a.scripts[index]
		return cloneTransportResponse(script.Response), script.Err
	}
	if len(a.scripts) > 0 {
		last := a.scripts[len(a.scripts)-1]
		return cloneTransportResponse(last.Response), last.Err
	}
	return core.TransportResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{},
		Body:       []byte(`{}`),
		Metadata:   map[string]any{"kind": KindFake},
	}, nil
}

func (a *FakeTransportAdapter) Requests() []core.TransportRequest {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]core.TransportRequest, 0, len(a.requests))
	for _, item := range a.requests {
		out = append(out, cloneTransportRequest(item))
	}
	return out
}

func (a *FakeTransportAdapter) Calls() int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

// Request returns the i-th recorded request, failing loudly when absent.
func (a *FakeTransportAdapter) Request(i int) core.TransportRequest {
	requests := a.Requests()
	if i < 0 || i >= len(requests) {
		panic(fmt.Sprintf("devkit: request %d not recorded (have %d)", i, len(requests)))
	}
	return requests[i]
}

// Lines renders recorded requests as "METHOD url" for compact assertions.
func (a *FakeTransportAdapter) Lines() []string {
	requests := a.Requests()
	out := make([]string, 0, len(requests))
	for _, req := range requests {
		out = append(out, strings.ToUpper(req.Method)+" "+req.URL)
	}
	return out
}

func cloneTransportRequest(in core.TransportRequest) core.TransportRequest {
	out := core.TransportRequest{
		Method:               in.Method,
		URL:                  in.URL,
		Headers:              map[string]string{},
		Query:                map[string]string{},
		Body:                 append([]byte(nil), in.Body...),
		Metadata:             map[string]any{},
		Timeout:              in.Timeout,
		MaxResponseBodyBytes: in.MaxResponseBodyBytes,
	}
	maps.Copy(out.Headers, in.Headers)
	maps.Copy(out.Query, in.Query)
	maps.Copy(out.Metadata, in.Metadata)
	return out
}

func cloneTransportResponse(in core.TransportResponse) core.TransportResponse {
	out := core.TransportResponse{
		StatusCode: in.StatusCode,
		Headers:    map[string]string{},
		Body:       append([]byte(nil), in.Body...),
		Metadata:   map[string]any{},
	}
	maps.Copy(out.Headers, in.Headers)
	maps.Copy(out.Metadata, in.Metadata)
	return out
}

var _ core.TransportAdapter = (*FakeTransportAdapter)(nil)
