package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
)

func TestValidateToken_RoundTrip(t *testing.T) {
	svc := New("test-signing-key")
	principal := domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}

	token, err := svc.Generate(principal, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal.ID.String(), claims.UserID)
	assert.Equal(t, "buyer", claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := New("test-signing-key")
	token, err := svc.Generate(domain.Principal{ID: domain.NewUserID(), Role: domain.RoleCreator}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateToken_WrongKey(t *testing.T) {
	token, err := New("key-a").Generate(domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}, time.Hour)
	require.NoError(t, err)

	_, err = New("key-b").ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := New("key").ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
