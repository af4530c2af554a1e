package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
)

const SignatureHeader = "X-SIGNATURE"

// SignatureVerifier checks the hex encoded HMAC-SHA256 of an inbound body.
type SignatureVerifier struct {
	Secret string
}

func NewSignatureVerifier(secret string) SignatureVerifier {
	return SignatureVerifier{Secret: secret}
}

func (v SignatureVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(v.Secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (v SignatureVerifier) Verify(body []byte, signature string) error {
	if strings.TrimSpace(v.Secret) == "" {
		return unauthorized("auth: signing key is not configured")
	}
	signature = strings.ToLower(strings.TrimSpace(signature))
	if signature == "" {
		return unauthorized("auth: " + SignatureHeader + " header is required")
	}
	decoded, err := hex.DecodeString(signature)
	if err != nil {
		return unauthorized("auth: signature is not hex encoded")
	}
	mac := hmac.New(sha256.New, []byte(v.Secret))
	_, _ = mac.Write(body)
	if subtle.ConstantTimeCompare(decoded, mac.Sum(nil)) != 1 {
		return unauthorized("auth: signature verification failed")
	}
	return nil
}

func unauthorized(message string) error {
	return goerrors.New(message, goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(core.ErrorUnauthorized)
}
