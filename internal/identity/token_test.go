package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-do-not-use"

func TestAccessToken_RoundTrip(t *testing.T) {
	raw, err := MakeAccessToken("subject-42", KindPatient, testSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "subject-42", claims.SubjectID)
	assert.Equal(t, string(KindPatient), claims.Kind)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	raw, err := MakeAccessToken("subject-42", KindHospital, testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(raw, "some-other-secret")
	assert.Error(t, err)
}

func TestAccessToken_Expired(t *testing.T) {
	raw, err := MakeAccessToken("subject-42", KindPatient, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(raw, testSecret)
	assert.Error(t, err)
}

func TestAccessToken_Garbage(t *testing.T) {
	_, err := ParseAccessToken("not.a.jwt", testSecret)
	assert.Error(t, err)
}

func TestRefreshToken_HashIsStable(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, raw, hash)

	// the stored hash must be recomputable from the raw token alone
	assert.Equal(t, hash, HashRefreshToken(raw))
}

func TestRefreshToken_Unique(t *testing.T) {
	a, _, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, _, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
