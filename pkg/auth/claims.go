package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
)

// ErrMalformedClaims is returned for a correctly signed token that does not name a user and a known role.
var ErrMalformedClaims = errors.New("access token claims are malformed")

// AccessTokenPayload is what the auth service supplies when minting.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.Role
	// JTI binds the token to its refresh session. Empty means a random id.
	JTI string
}

// AccessTokenClaims is the body of every access token. The role is a snapshot taken at
// login; handlers trust it for authorization until the token expires.
type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *AccessTokenClaims) check() error {
	if c.UserID == uuid.Nil || !c.Role.IsValid() || c.Subject != c.UserID.String() {
		return ErrMalformedClaims
	}
	return nil
}
