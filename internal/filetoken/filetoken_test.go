package filetoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gatepass/pkg/domainerrors"
)

func TestMintAndVerifyVisitorCard(t *testing.T) {
	svc := NewService("test-key", time.Hour)

	token, err := svc.MintVisitorCard("static/cards/alice_card_1.png", "user-1")
	require.NoError(t, err)

	claims, err := svc.Verify(token, TypeVisitorCard)
	require.NoError(t, err)
	assert.Equal(t, "static/cards/alice_card_1.png", claims.FilePath)
	assert.Equal(t, TypeVisitorCard, claims.TokenType)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	svc := NewService("test-key", time.Hour)

	token, err := svc.MintUserImage("static/uploads/photo.png")
	require.NoError(t, err)

	_, err = svc.Verify(token, TypeVisitorCard)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
	assert.Equal(t, "Invalid token", dErrors.DetailOf(err))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-key", -time.Minute)

	token, err := svc.MintVisitorCard("static/cards/x.png", "")
	require.NoError(t, err)

	_, err = svc.Verify(token, TypeVisitorCard)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
	assert.Equal(t, "Token has expired", dErrors.DetailOf(err))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	minter := NewService("key-a", time.Hour)
	verifier := NewService("key-b", time.Hour)

	token, err := minter.MintVisitorCard("static/cards/x.png", "")
	require.NoError(t, err)

	_, err = verifier.Verify(token, TypeVisitorCard)
	require.Error(t, err)
	assert.Equal(t, "Invalid token", dErrors.DetailOf(err))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService("test-key", time.Hour)

	_, err := svc.Verify("not.a.token", TypeVisitorCard)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"card under allowed dir", "static/cards/a.png", false},
		{"upload under allowed dir", "static/uploads/b.png", false},
		{"traversal", "static/cards/../../etc/passwd", true},
		{"absolute", "/etc/passwd", true},
		{"outside allowed dirs", "static/other/a.png", true},
		{"bare dir", "static/cards", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path, "static/cards", "static/uploads")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
