package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "manager", "stockflow", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "manager", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "admin", "stockflow", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "admin", "stockflow", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "admin", "stockflow", 5)
	assert.Error(t, err)
}
