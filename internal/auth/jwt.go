package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the caller category carried in the token. Every protected
// operation requires exactly one of these.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleSociety   Role = "society"
	RoleMember    Role = "member"
)

type Claims struct {
	SubjectID uint `json:"subject_id"`
	Role      Role `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, subjectID uint, role Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 10 * time.Hour
	}
	now := time.Now()
	claims := &Claims{
		SubjectID: subjectID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
