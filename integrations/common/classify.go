package common

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/transport"
)

// APIMessages are the user facing messages for a provider's rejections.
// Empty fields fall back to generic wording built from API.
type APIMessages struct {
	API          string
	Unauthorized string
	Forbidden    string
	NotFound     string
	Invalid      string
}

func (m APIMessages) unauthorized() string {
	if m.Unauthorized != "" {
		return m.Unauthorized
	}
	return fmt.Sprintf("The %s API rejected the provided credentials.", m.API)
}

func (m APIMessages) forbidden() string {
	if m.Forbidden != "" {
		return m.Forbidden
	}
	return m.unauthorized()
}

func (m APIMessages) notFound() string {
	if m.NotFound != "" {
		return m.NotFound
	}
	return fmt.Sprintf("The %s resource could not be found.", m.API)
}

func (m APIMessages) invalid() string {
	if m.Invalid != "" {
		return m.Invalid
	}
	return fmt.Sprintf("Invalid request to the %s API.", m.API)
}

// Classify maps a provider response onto the relay error types. 2xx is nil.
func Classify(resp core.TransportResponse, messages APIMessages) error {
	if transport.IsSuccess(resp.StatusCode) {
		return nil
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return core.NewUserConfigurationError(messages.unauthorized(), &resp)
	case http.StatusForbidden:
		return core.NewUserConfigurationError(messages.forbidden(), &resp)
	case http.StatusNotFound:
		return core.NewUserConfigurationError(messages.notFound(), &resp)
	default:
		return core.NewMisconfiguredIntegrationError(messages.invalid(), &resp)
	}
}
