package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("browser.click", ErrElementNotFound, "e3")
	assert.True(t, errors.Is(err, ErrElementNotFound))
	assert.Contains(t, err.Error(), "browser.click")
	assert.Contains(t, err.Error(), "e3")
}

func TestErrorCodeOf(t *testing.T) {
	assert.Equal(t, CodeElementNotFound, ErrorCodeOf(ErrElementNotFound))
	assert.Equal(t, CodeNavTimeout, ErrorCodeOf(fmt.Errorf("goto: %w", ErrNavTimeout)))
	assert.Equal(t, CodeNoSession, ErrorCodeOf(NewDomainError("tool.click", ErrNoSession, "")))
	assert.Equal(t, CodeUnknown, ErrorCodeOf(errors.New("boom")))
	assert.Equal(t, CodeUnknown, ErrorCodeOf(nil))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(ErrBrowserUnavailable))
	assert.True(t, IsRetryableError(WrapOp("goto", ErrNavTimeout)))
	assert.False(t, IsRetryableError(ErrElementNotFound))
	assert.False(t, IsRetryableError(nil))
}

func TestWrapOp(t *testing.T) {
	assert.Nil(t, WrapOp("op", nil))
	assert.EqualError(t, WrapOp("op", errors.New("x")), "op: x")
}
