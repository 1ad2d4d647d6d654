// Package filetoken mints and verifies the short-lived JWTs that gate access
// to generated visitor cards and uploaded profile photos. The token itself
// names the file it unlocks, so no server-side state is needed.
package filetoken

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "gatepass/pkg/domainerrors"
)

const (
	TypeVisitorCard = "visitor_card"
	TypeUserImage   = "user_image"
)

// Claims is the payload carried by a file access token.
type Claims struct {
	FilePath  string `json:"file_path"`
	TokenType string `json:"type"`
	UserID    string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies file access tokens.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

func NewService(signingKey string, ttl time.Duration) *Service {
	return &Service{signingKey: []byte(signingKey), ttl: ttl}
}

// MintVisitorCard issues a token granting access to a visitor card file.
func (s *Service) MintVisitorCard(filePath, userID string) (string, error) {
	return s.mint(filePath, TypeVisitorCard, userID)
}

// MintUserImage issues a token granting access to an uploaded profile photo.
func (s *Service) MintUserImage(filePath string) (string, error) {
	return s.mint(filePath, TypeUserImage, "")
}

func (s *Service) mint(filePath, tokenType, userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		FilePath:  filePath,
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to sign file token", err)
	}
	return signed, nil
}

// Verify parses tokenString and checks that it grants expectedType access.
// Expired and malformed tokens map to 403s with the details clients rely on.
func (s *Service) Verify(tokenString, expectedType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.Wrap(dErrors.CodeForbidden, "Token has expired", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeForbidden, "Invalid token", err)
	}
	if !token.Valid || claims.TokenType != expectedType || claims.FilePath == "" {
		return nil, dErrors.New(dErrors.CodeForbidden, "Invalid token")
	}
	return claims, nil
}

// ValidatePath confirms that path stays inside one of the allowed directories.
// Tokens are minted server-side, but the check keeps a tampered or replayed
// payload from walking the filesystem.
func ValidatePath(path string, allowedDirs ...string) error {
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return dErrors.New(dErrors.CodeForbidden, "Invalid token")
	}
	for _, dir := range allowedDirs {
		if strings.HasPrefix(clean, filepath.Clean(dir)+string(filepath.Separator)) {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeForbidden, "Invalid token")
}
