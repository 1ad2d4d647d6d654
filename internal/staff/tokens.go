package staff

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gatepass/internal/platform/middleware"
	dErrors "gatepass/pkg/domainerrors"
)

// TokenService mints and validates staff access tokens. It satisfies the
// middleware.TokenValidator interface.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenService(signingKey string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{signingKey: []byte(signingKey), ttl: ttl}
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint issues an access token for the given staffer.
func (t *TokenService) Mint(staffID, role string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to sign access token", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies an access token.
func (t *TokenService) ValidateToken(tokenString string) (*middleware.Claims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	}
	return &middleware.Claims{UserID: claims.Subject, Role: claims.Role}, nil
}
