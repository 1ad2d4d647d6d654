package mailer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		first string
		last  string
	}{
		{"alice.doe@example.com", "Alice", "Doe"},
		{"bob@example.com", "Bob", "Visitor"},
		{"jean-luc.picard@example.com", "Jean", "Picard"},
		{"@example.com", "Visitor", "Visitor"},
	}
	for _, tt := range tests {
		first, last := DeriveNameFromEmail(tt.email)
		assert.Equal(t, tt.first, first, tt.email)
		assert.Equal(t, tt.last, last, tt.email)
	}
}

func TestSendCardReadyWithoutRelay(t *testing.T) {
	m := New("", "noreply@example.com", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, m.SendCardReady(context.Background(), "alice@example.com", "Alice"))
}
