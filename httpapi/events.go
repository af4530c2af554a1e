package httpapi

import (
	"errors"
	"net/http"

	gocmd "github.com/goliatone/go-command"
	relaycommand "github.com/goliatone/go-relay/command"
	"github.com/goliatone/go-relay/core"
	relayquery "github.com/goliatone/go-relay/query"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
)

var envelopeKeys = []string{"event_type", "integrations", "payload", "oauth_consumer"}

func (s *Server) listEvents(c echo.Context) error {
	schemas, err := s.facade.Queries().ListEvents.Query(c.Request().Context(), relayquery.ListEventsMessage{})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, schemas)
}

func (s *Server) createEvent(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	req, err := DecodeEnvelope(body)
	if err != nil {
		var envelopeErr *EnvelopeError
		if errors.As(err, &envelopeErr) {
			return invalidRequest(c, envelopeErr.Message, envelopeErr.Type)
		}
		return err
	}

	collector := gocmd.NewResult[core.DispatchResult]()
	ctx := gocmd.ContextWithResult(c.Request().Context(), collector)
	err = s.facade.Commands().SendEvent.Execute(ctx, relaycommand.SendEventMessage{Request: req})
	if result, ok := collector.Load(); ok {
		s.logger.Info("event dispatched",
			"dispatch_id", result.DispatchID,
			"event_type", result.EventType,
			"sent", result.Count(core.OutcomeSent),
			"skipped", result.Count(core.OutcomeSkipped),
			"failed", result.Count(core.OutcomeFailed),
		)
	}
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "ok"})
}

// EnvelopeError rejects a request body before it reaches the dispatcher.
type EnvelopeError struct {
	Type    string
	Message string
}

func (e *EnvelopeError) Error() string {
	return e.Type + ": " + e.Message
}

// DecodeEnvelope parses an inbound event body. The body must be JSON and
// carry all four envelope keys.
func DecodeEnvelope(body []byte) (core.DispatchRequest, error) {
	if !gjson.ValidBytes(body) {
		return core.DispatchRequest{}, &EnvelopeError{Type: "parse_error", Message: "unable to parse request"}
	}
	envelope := gjson.ParseBytes(body)
	for _, key := range envelopeKeys {
		if !envelope.Get(key).Exists() {
			return core.DispatchRequest{}, &EnvelopeError{Type: "invalid_request", Message: "invalid request"}
		}
	}
	return decodeDispatchRequest(envelope), nil
}

// decodeDispatchRequest reads the inbound envelope. integrations that is not
// an array stays nil so the validator can reject it; settings may be either
// a [{key, value}] list or a plain object.
func decodeDispatchRequest(envelope gjson.Result) core.DispatchRequest {
	req := core.DispatchRequest{
		EventType: envelope.Get("event_type").String(),
		Payload:   core.NewPayload([]byte(envelope.Get("payload").Raw)),
	}

	if integrations := envelope.Get("integrations"); integrations.IsArray() {
		req.Integrations = make([]core.IntegrationRequest, 0)
		for _, item := range integrations.Array() {
			req.Integrations = append(req.Integrations, core.IntegrationRequest{
				Key:      item.Get("key").String(),
				Settings: decodeSettings(item.Get("settings")),
			})
		}
	}

	consumer := envelope.Get("oauth_consumer")
	req.OAuthConsumer.Key = consumer.Get("key").String()
	if secrets := consumer.Get("secrets"); secrets.IsObject() {
		req.OAuthConsumer.Secrets = map[string]string{}
		secrets.ForEach(func(method, secret gjson.Result) bool {
			req.OAuthConsumer.Secrets[method.String()] = secret.String()
			return true
		})
	}
	return req
}

func decodeSettings(raw gjson.Result) []core.Setting {
	settings := make([]core.Setting, 0)
	switch {
	case raw.IsArray():
		for _, item := range raw.Array() {
			settings = append(settings, core.Setting{
				Key:   item.Get("key").String(),
				Value: item.Get("value").Value(),
			})
		}
	case raw.IsObject():
		raw.ForEach(func(key, value gjson.Result) bool {
			settings = append(settings, core.Setting{Key: key.String(), Value: value.Value()})
			return true
		})
	}
	return settings
}
