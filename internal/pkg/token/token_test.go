package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", 1)

	signed, err := m.Generate("507f1f77bcf86cd799439011", "supplier@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Validate(signed)
	require.NoError(t, err)
	require.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	require.Equal(t, "supplier@example.com", claims.Email)
}

func TestValidateWrongSecret(t *testing.T) {
	m := NewManager("test-secret", 1)
	signed, err := m.Generate("507f1f77bcf86cd799439011", "supplier@example.com")
	require.NoError(t, err)

	other := NewManager("other-secret", 1)
	_, err = other.Validate(signed)
	require.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	m := NewManager("test-secret", 1)
	_, err := m.Validate("not-a-token")
	require.Error(t, err)
}
