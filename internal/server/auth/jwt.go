// Package auth implements the session token codec: stateless signing and
// verification of the JWTs carried by the token cookie and the
// Authorization header.
package auth

import (
	"errors"
	"time"

	"github.com/delcom/marketplace/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered claim set; the subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with an HMAC secret supplied by
// configuration. The payload is {sub: userID, iat: now, exp: now+validity}.
type Codec struct {
	secret   []byte
	validity time.Duration
}

// NewCodec constructs a Codec. The secret comes from configuration; the
// validity is the fixed token lifetime (24h in the default config).
func NewCodec(secret []byte, validity time.Duration) *Codec {
	return &Codec{secret: secret, validity: validity}
}

// Issue produces a signed token for the given user id.
func (c *Codec) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
	})

	return token.SignedString(c.secret)
}

// Validate reports whether the token is structurally sound and carries a
// valid signature. With ignoreExpiration set, an expired but otherwise
// well-signed token still validates; that mode exists for callers that
// cross-check the token against the server-side registry and only need to
// know the token was ever legitimately issued.
func (c *Codec) Validate(tokenString string, ignoreExpiration bool) bool {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ignoreExpiration {
		options = append(options, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, c.keyFunc, options...)
	return err == nil && token.Valid
}

// ExtractUserID verifies the token (expiration enforced) and returns the
// user id from the subject claim. Any failure — malformed token, bad
// signature, expiry, or a subject that is not a UUID — yields an error and
// never a partial id. Expired tokens map to common.ErrTokenExpired; all
// other failures map to common.ErrInvalidToken.
func (c *Codec) ExtractUserID(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", common.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", common.ErrInvalidToken
	}

	return id.String(), nil
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	return c.secret, nil
}
