package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
)

// JSONRequest builds a request whose body is payload encoded as JSON. A nil
// payload produces an empty body.
func JSONRequest(method string, url string, payload any, headers map[string]string) (core.TransportRequest, error) {
	req := core.TransportRequest{
		Method:  strings.ToUpper(strings.TrimSpace(method)),
		URL:     strings.TrimSpace(url),
		Headers: map[string]string{"Accept": "application/json"},
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return core.TransportRequest{}, transportWrapError(
				err,
				goerrors.CategoryBadInput,
				"transport: encode json body",
				http.StatusBadRequest,
				map[string]any{"adapter": KindREST},
			)
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}
	for key, value := range headers {
		req.Headers[key] = value
	}
	return req, nil
}

// IsSuccess reports a 2xx status.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
