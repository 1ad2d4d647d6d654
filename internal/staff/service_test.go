package staff

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gatepass/pkg/domainerrors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() *Service {
	return NewService(NewMemoryStore(), NewTokenService("test-key", time.Hour), nil, testLogger())
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Grace",
		Email:    "Grace@Example.com",
		Password: "correct-horse",
		Role:     RoleSecurity,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()

	st, err := svc.Register(context.Background(), validInput(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", st.Email)
	assert.NotEmpty(t, st.PasswordHash)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "grace@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, st.ID, result.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		detail string
	}{
		{"missing name", func(i *RegisterInput) { i.Name = " " }, "Missing required fields"},
		{"missing email", func(i *RegisterInput) { i.Email = "" }, "Missing required fields"},
		{"bad role", func(i *RegisterInput) { i.Role = "root" }, "Role must be admin or security"},
		{"short password", func(i *RegisterInput) { i.Password = "short" }, "Password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.Register(context.Background(), input, "admin-1")
			require.Error(t, err)
			assert.Equal(t, tt.detail, dErrors.DetailOf(err))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), validInput(), "admin-1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validInput(), "admin-1")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeConflict))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), validInput(), "admin-1")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "grace@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", dErrors.DetailOf(err))

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", dErrors.DetailOf(err))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-key", time.Hour)

	signed, err := tokens.Mint("staff-1", RoleAdmin)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenRejectsExpired(t *testing.T) {
	tokens := NewTokenService("test-key", time.Hour)
	expired := &TokenService{signingKey: []byte("test-key"), ttl: -time.Minute}

	signed, err := expired.Mint("staff-1", RoleAdmin)
	require.NoError(t, err)

	_, err = tokens.ValidateToken(signed)
	assert.Error(t, err)
}

func TestAllowedEvents(t *testing.T) {
	svc := newTestService()

	input := validInput()
	input.AllowedEvents = []int64{1, 3}
	st, err := svc.Register(context.Background(), input, "admin-1")
	require.NoError(t, err)

	allowed, err := svc.AllowedEvents(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, allowed)

	updated, err := svc.UpdateAllowedEvents(context.Background(), st.ID, []int64{2}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, updated.AllowedEvents)
}

func TestDelete(t *testing.T) {
	svc := newTestService()

	st, err := svc.Register(context.Background(), validInput(), "admin-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), st.ID, "admin-1"))

	err = svc.Delete(context.Background(), st.ID, "admin-1")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}
