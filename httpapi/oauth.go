package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-relay/auth"
	"github.com/labstack/echo/v4"
)

const (
	sessionSettingsKey = "oauth_settings"
	sessionTokenKey    = "oauth_token"
	sessionSecretKey   = "oauth_token_secret"
	accessTokenPath    = "/oauth/access-token"
)

type requestTokenRequest struct {
	OAuthSettings auth.HandshakeSettings `json:"oauth_settings"`
	InstanceID    string                 `json:"instance_id" query:"instance_id"`
}

// requestToken starts the three-legged flow. The consumer settings and the
// request token are parked in a cookie session until the provider redirects
// back to accessToken.
func (s *Server) requestToken(c echo.Context) error {
	var in requestTokenRequest
	if err := c.Bind(&in); err != nil {
		return invalidRequest(c, "unable to parse request", "parse_error")
	}
	if in.InstanceID == "" {
		in.InstanceID = c.QueryParam("instance_id")
	}

	callback := s.publicURL(c) + accessTokenPath + "/?instance_id=" + url.QueryEscape(in.InstanceID)
	handshake, err := auth.NewOAuth1Handshake(in.OAuthSettings, callback)
	if err != nil {
		return renderError(c, err)
	}
	handshake.WithHTTPClient(s.handshakeClient)

	requested, err := handshake.RequestToken()
	if err != nil {
		return renderError(c, err)
	}

	settings, err := json.Marshal(in.OAuthSettings)
	if err != nil {
		return err
	}
	session, _ := s.sessions.Get(c.Request(), s.cfg.SessionName)
	session.Values[sessionSettingsKey] = string(settings)
	session.Values[sessionTokenKey] = requested.RequestToken
	session.Values[sessionSecretKey] = requested.RequestSecret
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"authorize_url": requested.AuthorizeURL})
}

// accessToken completes the flow and hands the tenant credentials back to the
// frontend through a redirect.
func (s *Server) accessToken(c echo.Context) error {
	session, _ := s.sessions.Get(c.Request(), s.cfg.SessionName)
	rawSettings, _ := session.Values[sessionSettingsKey].(string)
	requestToken, _ := session.Values[sessionTokenKey].(string)
	requestSecret, _ := session.Values[sessionSecretKey].(string)

	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	if rawSettings == "" || requestToken == "" {
		return invalidRequest(c, "oauth session expired", "invalid_request")
	}

	var settings auth.HandshakeSettings
	if err := json.Unmarshal([]byte(rawSettings), &settings); err != nil {
		return invalidRequest(c, "oauth session expired", "invalid_request")
	}
	handshake, err := auth.NewOAuth1Handshake(settings, "")
	if err != nil {
		return renderError(c, err)
	}
	handshake.WithHTTPClient(s.handshakeClient)

	access, err := handshake.AccessToken(requestToken, requestSecret, c.QueryParam("oauth_verifier"))
	if err != nil {
		return renderError(c, err)
	}

	params := url.Values{}
	params.Set("access_token", access.AccessToken)
	params.Set("access_secret", access.AccessSecret)
	params.Set("consumer_key", settings.ConsumerKey)
	params.Set("signature_method", settings.SignatureMethod)
	params.Set("instance_id", c.QueryParam("instance_id"))
	params.Set("callback_type", "oauth_token")
	return c.Redirect(http.StatusFound, s.cfg.FrontendURL+"/settings/integrations?"+params.Encode())
}

func (s *Server) publicURL(c echo.Context) string {
	if s.cfg.PublicURL != "" {
		return s.cfg.PublicURL
	}
	return c.Scheme() + "://" + strings.TrimRight(c.Request().Host, "/")
}
