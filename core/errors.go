package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorInvalidPayload           = "RELAY_INVALID_PAYLOAD"
	ErrorUnsupportedIntegration   = "RELAY_UNSUPPORTED_INTEGRATION"
	ErrorUserConfiguration        = "RELAY_USER_CONFIGURATION_ERROR"
	ErrorMisconfiguredIntegration = "RELAY_MISCONFIGURED_INTEGRATION"
	ErrorService                  = "RELAY_SERVICE_ERROR"
	ErrorIntegrationNotFound      = "RELAY_INTEGRATION_NOT_FOUND"
	ErrorBadInput                 = "RELAY_BAD_INPUT"
	ErrorInternal                 = "RELAY_INTERNAL_ERROR"
	ErrorUnauthorized             = "RELAY_UNAUTHORIZED"
)

const (
	MetadataResponseBody = "response_body"
	MetadataResponseCode = "response_code"
	MetadataMissingKeys  = "missing_keys"
	MetadataIntegration  = "integration"
)

var errorTypes = map[string]string{
	ErrorInvalidPayload:           "invalid_payload",
	ErrorUnsupportedIntegration:   "unsupported_integration",
	ErrorUserConfiguration:        "user_configuration_error",
	ErrorMisconfiguredIntegration: "misconfigured_integration",
	ErrorService:                  "service_error",
	ErrorIntegrationNotFound:      "not_found",
	ErrorBadInput:                 "bad_input",
	ErrorInternal:                 "internal_error",
	ErrorUnauthorized:             "unauthorized",
}

func NewInvalidPayloadError(message string, missing ...string) *goerrors.Error {
	if len(missing) == 0 {
		return goerrors.New(message, goerrors.CategoryValidation).
			WithCode(http.StatusBadRequest).
			WithTextCode(ErrorInvalidPayload)
	}
	fields := make([]goerrors.FieldError, 0, len(missing))
	for _, key := range missing {
		fields = append(fields, goerrors.FieldError{Field: key, Message: "required key is missing"})
	}
	return goerrors.NewValidation(message, fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorInvalidPayload).
		WithSeverity(goerrors.SeverityError).
		WithMetadata(map[string]any{MetadataMissingKeys: append([]string(nil), missing...)})
}

func NewUnsupportedIntegrationError(key string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("Integration %s does not exist", key), goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorUnsupportedIntegration).
		WithMetadata(map[string]any{MetadataIntegration: key})
}

func NewIntegrationNotFoundError(key string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("Integration %q is not supported", key), goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(ErrorIntegrationNotFound).
		WithMetadata(map[string]any{MetadataIntegration: key})
}

// NewUserConfigurationError reports a provider rejection the caller can fix
// by correcting their settings. resp may be nil.
func NewUserConfigurationError(message string, resp *TransportResponse) *goerrors.Error {
	category := goerrors.CategoryBadInput
	code := http.StatusBadRequest
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			category, code = goerrors.CategoryAuth, http.StatusUnauthorized
		case http.StatusForbidden:
			category, code = goerrors.CategoryAuthz, http.StatusForbidden
		case http.StatusNotFound:
			category, code = goerrors.CategoryNotFound, http.StatusNotFound
		}
	}
	return withResponse(
		goerrors.New(message, category).
			WithCode(code).
			WithTextCode(ErrorUserConfiguration),
		resp,
	)
}

func NewMisconfiguredIntegrationError(message string, resp *TransportResponse) *goerrors.Error {
	return withResponse(
		goerrors.New(message, goerrors.CategoryOperation).
			WithCode(http.StatusUnprocessableEntity).
			WithTextCode(ErrorMisconfiguredIntegration),
		resp,
	)
}

func NewServiceError(message string, cause error) *goerrors.Error {
	if cause == nil {
		return goerrors.New(message, goerrors.CategoryExternal).
			WithCode(http.StatusBadGateway).
			WithTextCode(ErrorService)
	}
	return goerrors.Wrap(cause, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorService)
}

func withResponse(err *goerrors.Error, resp *TransportResponse) *goerrors.Error {
	if resp == nil {
		return err
	}
	return err.WithMetadata(map[string]any{
		MetadataResponseBody: string(resp.Body),
		MetadataResponseCode: resp.StatusCode,
	})
}

// ErrorType returns the wire type of a relay error, or an empty string when
// err carries no relay text code.
func ErrorType(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ""
	}
	return errorTypes[strings.TrimSpace(richErr.TextCode)]
}

func IsErrorType(err error, textCode string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}

// ResponseDetails extracts the failed provider response attached to err.
func ResponseDetails(err error) (body string, code int, ok bool) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || len(richErr.Metadata) == 0 {
		return "", 0, false
	}
	code, hasCode := richErr.Metadata[MetadataResponseCode].(int)
	body, hasBody := richErr.Metadata[MetadataResponseBody].(string)
	if !hasCode && !hasBody {
		return "", 0, false
	}
	return body, code, true
}

func relayErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "required") || strings.Contains(msg, "invalid") {
		return ensureErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryBadInput).WithTextCode(ErrorBadInput))
	}
	return ensureErrorEnvelope(goerrors.MapToError(err, goerrors.DefaultErrorMappers()))
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = relayHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		mapper = relayErrorMapper
	}
	if mapped := mapper(err); mapped != nil {
		return mapped
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryNotFound:
		return ErrorIntegrationNotFound
	case goerrors.CategoryExternal:
		return ErrorService
	default:
		return ErrorInternal
	}
}

func relayHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
