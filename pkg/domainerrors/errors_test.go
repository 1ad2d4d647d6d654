package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesCodeThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "event not found")
	wrapped := fmt.Errorf("check event: %w", base)

	assert.True(t, Is(wrapped, CodeNotFound))
	assert.False(t, Is(wrapped, CodeBadRequest))
	assert.False(t, Is(errors.New("plain"), CodeNotFound))
}

func TestCodeAndDetailDefaults(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, "internal server error", DetailOf(errors.New("boom")))

	err := New(CodeForbidden, "Token has expired")
	assert.Equal(t, CodeForbidden, CodeOf(err))
	assert.Equal(t, "Token has expired", DetailOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeInternal, "failed to fetch tourists", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to fetch tourists")
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code))
	}
}
