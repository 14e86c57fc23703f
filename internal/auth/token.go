package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/traindesk/api-crm/internal/models"
)

// Claims carried by an access token: who the user is and which role the
// dashboard renders for.
type Claims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AccessTTL is the access token lifetime.
const AccessTTL = 15 * time.Minute

func secret() []byte {
	if s := os.Getenv("AUTH_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	// dev fallback; set AUTH_JWT_SECRET in any real deployment
	return []byte("dev-secret-change-me")
}

func issuer() string {
	if v := os.Getenv("AUTH_JWT_ISSUER"); v != "" {
		return v
	}
	return "traindesk-api"
}

// GenerateAccessToken signs an HS256 token for the given user.
func GenerateAccessToken(userID string, role models.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret())
}

// ParseAndValidate checks signature, issuer and expiry.
func ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	c, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	if c.Issuer != issuer() {
		return nil, errors.New("invalid issuer")
	}
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return nil, errors.New("token expired")
	}
	return c, nil
}
