package auth

import (
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
)

const (
	defaultRequestTokenPath = "/oauth/request_token"
	defaultAccessTokenPath  = "/oauth/access_token"
	defaultAuthorizePath    = "/oauth/authorize"
)

// HandshakeSettings describe the provider side of a three-legged OAuth1 flow.
// ConsumerSecret holds the consumer's PEM encoded RSA private key.
type HandshakeSettings struct {
	ConsumerKey      string `json:"consumer_key"`
	ConsumerSecret   string `json:"consumer_secret"`
	Site             string `json:"site"`
	SignatureMethod  string `json:"signature_method"`
	RequestTokenPath string `json:"request_token_path"`
	AccessTokenPath  string `json:"access_token_path"`
	AuthorizePath    string `json:"authorize_path"`
}

func (s HandshakeSettings) Validate() error {
	fields := make([]goerrors.FieldError, 0)
	if strings.TrimSpace(s.ConsumerKey) == "" {
		fields = append(fields, goerrors.FieldError{Field: "consumer_key", Message: "is required"})
	}
	if strings.TrimSpace(s.ConsumerSecret) == "" {
		fields = append(fields, goerrors.FieldError{Field: "consumer_secret", Message: "is required"})
	}
	if strings.TrimSpace(s.Site) == "" {
		fields = append(fields, goerrors.FieldError{Field: "site", Message: "is required"})
	}
	if method := strings.TrimSpace(s.SignatureMethod); method != "" && !strings.EqualFold(method, SignatureMethodRSASHA1) {
		fields = append(fields, goerrors.FieldError{Field: "signature_method", Message: "only RSA-SHA1 is supported"})
	}
	if len(fields) == 0 {
		return nil
	}
	return goerrors.NewValidation("auth: invalid oauth settings", fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

type RequestTokenResult struct {
	AuthorizeURL  string
	RequestToken  string
	RequestSecret string
}

type AccessTokenResult struct {
	AccessToken  string
	AccessSecret string
}

// OAuth1Handshake obtains per-tenant access tokens for RSA-SHA1 providers.
type OAuth1Handshake struct {
	settings HandshakeSettings
	config   *oauth1.Config
}

func NewOAuth1Handshake(settings HandshakeSettings, callbackURL string) (*OAuth1Handshake, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	privateKey, err := ParseRSAPrivateKey(settings.ConsumerSecret)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "auth: consumer secret is not a valid RSA key").
			WithCode(http.StatusBadRequest).
			WithTextCode(core.ErrorBadInput)
	}
	site := strings.TrimRight(strings.TrimSpace(settings.Site), "/")
	return &OAuth1Handshake{
		settings: settings,
		config: &oauth1.Config{
			ConsumerKey: strings.TrimSpace(settings.ConsumerKey),
			CallbackURL: strings.TrimSpace(callbackURL),
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: site + pathOrDefault(settings.RequestTokenPath, defaultRequestTokenPath),
				AuthorizeURL:    site + pathOrDefault(settings.AuthorizePath, defaultAuthorizePath),
				AccessTokenURL:  site + pathOrDefault(settings.AccessTokenPath, defaultAccessTokenPath),
			},
			Signer: &oauth1.RSASigner{PrivateKey: privateKey},
		},
	}, nil
}

// WithHTTPClient routes token exchanges through client.
func (h *OAuth1Handshake) WithHTTPClient(client *http.Client) *OAuth1Handshake {
	if h != nil && client != nil {
		h.config.HTTPClient = client
	}
	return h
}

func (h *OAuth1Handshake) Settings() HandshakeSettings {
	return h.settings
}

func (h *OAuth1Handshake) RequestToken() (RequestTokenResult, error) {
	requestToken, requestSecret, err := h.config.RequestToken()
	if err != nil {
		return RequestTokenResult{}, core.NewServiceError("auth: request token exchange failed", err)
	}
	authorizeURL, err := h.config.AuthorizationURL(requestToken)
	if err != nil {
		return RequestTokenResult{}, core.NewServiceError("auth: build authorization url", err)
	}
	return RequestTokenResult{
		AuthorizeURL:  authorizeURL.String(),
		RequestToken:  requestToken,
		RequestSecret: requestSecret,
	}, nil
}

func (h *OAuth1Handshake) AccessToken(requestToken string, requestSecret string, verifier string) (AccessTokenResult, error) {
	if strings.TrimSpace(requestToken) == "" || strings.TrimSpace(verifier) == "" {
		return AccessTokenResult{}, goerrors.New(
			"auth: request token and verifier are required",
			goerrors.CategoryBadInput,
		).WithCode(http.StatusBadRequest).WithTextCode(core.ErrorBadInput)
	}
	accessToken, accessSecret, err := h.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return AccessTokenResult{}, core.NewServiceError("auth: access token exchange failed", err)
	}
	return AccessTokenResult{AccessToken: accessToken, AccessSecret: accessSecret}, nil
}

func pathOrDefault(path string, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
