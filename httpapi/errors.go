package httpapi

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
	"github.com/labstack/echo/v4"
)

const invalidPayloadType = "invalid payload"

type errorResponse struct {
	Error              string  `json:"error"`
	Type               string  `json:"type"`
	FailedResponseBody *string `json:"failed_response_body"`
	FailedResponseCode *int    `json:"failed_response_code"`
}

func invalidRequest(c echo.Context, message string, errorType string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message, "type": errorType})
}

// renderError writes typed relay errors as 400 responses. Anything else is
// left to echo's error handler.
func renderError(c echo.Context, err error) error {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return err
	}
	errorType := core.ErrorType(rich)
	switch errorType {
	case "", "internal_error":
		return err
	case "invalid_payload":
		return invalidRequest(c, rich.Message, invalidPayloadType)
	case "not_found":
		return c.JSON(http.StatusNotFound, map[string]string{"error": rich.Message, "type": errorType})
	}

	resp := errorResponse{Error: rich.Message, Type: errorType}
	if body, code, ok := core.ResponseDetails(rich); ok {
		resp.FailedResponseBody = &body
		resp.FailedResponseCode = &code
	}
	return c.JSON(http.StatusBadRequest, resp)
}
