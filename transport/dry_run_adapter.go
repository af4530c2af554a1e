package transport

import (
	"context"
	"net/http"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
)

const KindDryRun = "dry_run"

// DryRunAdapter answers every request with 200 and keeps what would have been
// sent. The CLI uses it to preview provider calls.
type DryRunAdapter struct {
	mu       sync.Mutex
	logger   core.Logger
	requests []core.TransportRequest
}

func NewDryRunAdapter(logger core.Logger) *DryRunAdapter {
	return &DryRunAdapter{logger: logger}
}

func (*DryRunAdapter) Kind() string {
	return KindDryRun
}

func (a *DryRunAdapter) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil {
		return core.TransportResponse{}, transportError(
			"transport: dry run adapter is nil",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindDryRun},
		)
	}
	a.mu.Lock()
	a.requests = append(a.requests, req)
	a.mu.Unlock()

	if a.logger != nil {
		a.logger.Info("dry run request",
			"method", strings.ToUpper(req.Method),
			"url", req.URL,
			"body_bytes", len(req.Body),
		)
	}
	return core.TransportResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(`{"ok":true,"result":{}}`),
		Metadata:   map[string]any{"kind": KindDryRun},
	}, nil
}

func (a *DryRunAdapter) Requests() []core.TransportRequest {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]core.TransportRequest(nil), a.requests...)
}

var _ core.TransportAdapter = (*DryRunAdapter)(nil)
