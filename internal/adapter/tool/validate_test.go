package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireField(t *testing.T) {
	assert.NoError(t, RequireField("url", "https://example.com"))
	assert.EqualError(t, RequireField("url", ""), "'url' is required")
}

func TestValidatePositive(t *testing.T) {
	assert.NoError(t, ValidatePositive("width", 1))
	assert.Error(t, ValidatePositive("width", 0))
	assert.Error(t, ValidatePositive("width", -5))
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange("width", 1280, 1, 7680))
	assert.Error(t, ValidateRange("width", 0, 1, 7680))
	assert.Error(t, ValidateRange("width", 9000, 1, 7680))
}

func TestValidateEnum(t *testing.T) {
	assert.NoError(t, ValidateEnum("button", "left", "left", "right", "middle"))
	assert.NoError(t, ValidateEnum("button", "", "left", "right"))
	assert.Error(t, ValidateEnum("button", "top", "left", "right"))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("url", "https://example.com/path"))
	assert.NoError(t, ValidateURL("url", "http://localhost:8080"))
	assert.NoError(t, ValidateURL("url", ""))
	assert.Error(t, ValidateURL("url", "ftp://example.com"))
	assert.Error(t, ValidateURL("url", "example.com"))
	assert.Error(t, ValidateURL("url", "https://"))
}

func TestValidateAll(t *testing.T) {
	first := errors.New("first")
	assert.NoError(t, ValidateAll(nil, nil))
	assert.Equal(t, first, ValidateAll(nil, first, errors.New("second")))
}
