package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traindesk/api-crm/internal/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("u-1", models.RoleSalesManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleSalesManager, claims.Role)
}

func TestParseAndValidateRejectsGarbage(t *testing.T) {
	_, err := ParseAndValidate("not-a-token")
	assert.Error(t, err)
}
