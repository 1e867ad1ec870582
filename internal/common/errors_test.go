// ABOUTME: Tests for the shared validation error helpers
// ABOUTME: Verifies messages and unwrapping through fmt.Errorf chains

package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	err := Required("fullName", "Full Name")
	assert.Equal(t, "fullName", err.Field)
	assert.Equal(t, "Full Name is required", err.Error())
}

func TestInvalid(t *testing.T) {
	assert.Equal(t, "Email is invalid", Invalid("email", "Email").Error())
}

func TestAsValidation(t *testing.T) {
	wrapped := fmt.Errorf("creating note: %w", Required("title", "Title"))

	ve, ok := AsValidation(wrapped)
	require.True(t, ok)
	assert.Equal(t, "title", ve.Field)

	_, ok = AsValidation(errors.New("boom"))
	assert.False(t, ok)
}
