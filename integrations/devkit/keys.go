package devkit

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"

	"github.com/goliatone/go-relay/core"
)

var (
	rsaKeyOnce sync.Once
	rsaKeyPEM  string
)

// RSAKeyPEM returns a process wide PKCS#1 test key.
func RSAKeyPEM() string {
	rsaKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic("devkit: generate rsa key: " + err.Error())
		}
		rsaKeyPEM = string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		}))
	})
	return rsaKeyPEM
}

// OAuthConsumer is a consumer holding an RSA-SHA1 key.
func OAuthConsumer() core.OAuthConsumer {
	return core.OAuthConsumer{
		Key:     "relay-consumer",
		Secrets: map[string]string{"RSA-SHA1": RSAKeyPEM()},
	}
}

// OAuthSettings is a complete oauth_settings setting value.
func OAuthSettings() map[string]any {
	return map[string]any{
		"signature_method": "RSA-SHA1",
		"access_token":     "access-token",
		"access_secret":    "access-secret",
	}
}
