package transport

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
)

// AdapterRoundTripper lets SDK clients that only accept an *http.Client send
// through a TransportAdapter.
type AdapterRoundTripper struct {
	Adapter core.TransportAdapter
}

func NewHTTPClient(adapter core.TransportAdapter) *http.Client {
	return &http.Client{Transport: AdapterRoundTripper{Adapter: adapter}}
}

func (t AdapterRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Adapter == nil {
		return nil, transportError(
			"transport: round tripper adapter is required",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	var body []byte
	if req.Body != nil {
		read, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, transportWrapError(
				err,
				goerrors.CategoryBadInput,
				"transport: read request body",
				http.StatusBadRequest,
				map[string]any{"adapter": t.Adapter.Kind()},
			)
		}
		body = read
	}
	headers := make(map[string]string, len(req.Header))
	for key, values := range req.Header {
		headers[key] = strings.Join(values, ",")
	}

	resp, err := t.Adapter.Do(req.Context(), core.TransportRequest{
		Method:  req.Method,
		URL:     req.URL.String(),
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, err
	}

	header := make(http.Header, len(resp.Headers))
	for key, value := range resp.Headers {
		header.Set(key, value)
	}
	return &http.Response{
		Status:        http.StatusText(resp.StatusCode),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

var _ http.RoundTripper = AdapterRoundTripper{}
