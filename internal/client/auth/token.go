// Package auth mints and parses the signed session token that identifies the
// current user.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard claims plus the user identifier. Subject holds
// the same identifier in decimal form.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// GenerateToken returns an HS256 token for userID valid for validity.
func GenerateToken(userID int64, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims.
// An expired token yields common.ErrTokenExpired, any other defect
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken is a shortcut for ParseToken(...).UserID.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
