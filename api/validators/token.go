package validators

import (
	"errors"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid auth token")

const bearerScheme = "bearer "

// BearerToken extracts the token from an Authorization header value. The scheme prefix is optional.
func BearerToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if len(token) >= len(bearerScheme) && strings.EqualFold(token[:len(bearerScheme)], bearerScheme) {
		token = strings.TrimSpace(token[len(bearerScheme):])
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidToken
	}
	return token, nil
}

// RequestToken reads the bearer token of r as an unauthorized API error when absent or malformed.
func RequestToken(r *http.Request) (string, error) {
	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing credentials")
	}
	return token, nil
}
