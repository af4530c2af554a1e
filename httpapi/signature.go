package httpapi

import (
	"bytes"
	"io"
	"net/http"

	"github.com/goliatone/go-relay/auth"
	"github.com/labstack/echo/v4"
)

// SignatureMiddleware rejects requests whose X-SIGNATURE header does not
// match the HMAC of the raw body. The body is restored for the next handler.
func SignatureMiddleware(verifier auth.SignatureVerifier, skip bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip {
				return next(c)
			}
			body, err := readBody(c)
			if err != nil {
				return err
			}
			if err := verifier.Verify(body, c.Request().Header.Get(auth.SignatureHeader)); err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"status": "unauthorized"})
			}
			return next(c)
		}
	}
}

func readBody(c echo.Context) ([]byte, error) {
	req := c.Request()
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
