package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the numeric subject (user id) and the expiry.
// The sub claim is a JSON number rather than the RFC 7519 string form;
// tokens issued by earlier deployments use that shape.
type Claims struct {
	Sub int              `json:"sub"`
	Exp *jwt.NumericDate `json:"exp,omitempty"`
	Iat *jwt.NumericDate `json:"iat,omitempty"`
	Nbf *jwt.NumericDate `json:"nbf,omitempty"`
	Iss string           `json:"iss,omitempty"`
	Aud jwt.ClaimStrings `json:"aud,omitempty"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.Exp, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.Iat, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return c.Nbf, nil }
func (c Claims) GetIssuer() (string, error)                   { return c.Iss, nil }
func (c Claims) GetSubject() (string, error)                  { return strconv.Itoa(c.Sub), nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return c.Aud, nil }

var signingMethod = jwt.SigningMethodHS256

// GenerateToken signs an HS256 token for userID expiring at expiresAt.
func GenerateToken(userID int, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(signingMethod, Claims{
		Sub: userID,
		Exp: jwt.NewNumericDate(expiresAt),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies tokenString and returns its subject.
// Every failure matches common.ErrInvalidToken; expired tokens also match
// common.ErrTokenExpired.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Sub <= 0 {
		return 0, common.ErrInvalidToken
	}

	return claims.Sub, nil
}
