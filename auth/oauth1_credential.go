package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/dghubble/oauth1"
	"github.com/goliatone/go-relay/core"
)

const SignatureMethodRSASHA1 = "RSA-SHA1"

var requiredOAuthSettings = []string{"signature_method", "access_token", "access_secret"}

// OAuth1Credential is a delegated access token bound to the consumer that
// signs requests made with it.
type OAuth1Credential struct {
	ConsumerKey     string
	SignatureMethod string
	Token           *oauth1.Token

	config *oauth1.Config
}

// Client returns an http client that adds an OAuth1 Authorization header to
// every request. base, when set, performs the underlying round trips.
func (c *OAuth1Credential) Client(ctx context.Context, base *http.Client) *http.Client {
	if ctx == nil {
		ctx = context.Background()
	}
	if base != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, base)
	}
	return c.config.Client(ctx, c.Token)
}

// OAuth1CredentialProvider derives the credential once per adapter instance.
// Errors are memoized with the credential.
type OAuth1CredentialProvider struct {
	consumer core.OAuthConsumer
	settings map[string]any

	once       sync.Once
	credential *OAuth1Credential
	err        error
}

func NewOAuth1CredentialProvider(consumer core.OAuthConsumer, oauthSettings map[string]any) *OAuth1CredentialProvider {
	return &OAuth1CredentialProvider{consumer: consumer, settings: oauthSettings}
}

func (p *OAuth1CredentialProvider) AccessCredential(context.Context) (*OAuth1Credential, error) {
	if p == nil {
		return nil, core.NewMisconfiguredIntegrationError("OAuth credential provider is not configured", nil)
	}
	p.once.Do(func() {
		p.credential, p.err = p.build()
	})
	return p.credential, p.err
}

func (p *OAuth1CredentialProvider) build() (*OAuth1Credential, error) {
	if missing := missingKeys(p.settings, requiredOAuthSettings...); len(missing) > 0 {
		return nil, core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("OAuth settings missing values for: %s", strings.Join(missing, ", ")),
			nil,
		)
	}
	signatureMethod := readString(p.settings, "signature_method")
	if !strings.EqualFold(signatureMethod, SignatureMethodRSASHA1) {
		return nil, core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("Unsupported OAuth signature method: %s", signatureMethod),
			nil,
		)
	}
	if strings.TrimSpace(p.consumer.Key) == "" {
		return nil, core.NewMisconfiguredIntegrationError("OAuth consumer key is missing", nil)
	}
	secret, ok := p.consumer.Secret(signatureMethod)
	if !ok {
		return nil, core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("OAuth consumer has no private key for %s", signatureMethod),
			nil,
		)
	}
	privateKey, err := ParseRSAPrivateKey(secret)
	if err != nil {
		return nil, core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("OAuth consumer private key for %s could not be parsed", signatureMethod),
			nil,
		)
	}

	config := &oauth1.Config{
		ConsumerKey: strings.TrimSpace(p.consumer.Key),
		Signer:      &oauth1.RSASigner{PrivateKey: privateKey},
	}
	return &OAuth1Credential{
		ConsumerKey:     config.ConsumerKey,
		SignatureMethod: SignatureMethodRSASHA1,
		Token:           oauth1.NewToken(readString(p.settings, "access_token"), readString(p.settings, "access_secret")),
		config:          config,
	}, nil
}
