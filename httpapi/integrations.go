package httpapi

import (
	"net/http"

	relayquery "github.com/goliatone/go-relay/query"
	"github.com/labstack/echo/v4"
)

func (s *Server) listIntegrations(c echo.Context) error {
	definitions, err := s.facade.Queries().ListIntegrations.Query(c.Request().Context(), relayquery.ListIntegrationsMessage{})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, definitions)
}

func (s *Server) showIntegration(c echo.Context) error {
	definition, err := s.facade.Queries().GetIntegration.Query(c.Request().Context(), relayquery.GetIntegrationMessage{
		Key: c.Param("key"),
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, definition)
}
