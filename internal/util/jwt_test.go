package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	token, exp, err := GenerateSessionToken("s1", "a1", "secret", time.Hour)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "s1", claims.SessionID)
	require.Equal(t, "a1", claims.AttemptID)

	_, err = ParseSessionToken(token, "other")
	require.Error(t, err)

	expired, _, err := GenerateSessionToken("s1", "a1", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken(expired, "secret")
	require.Error(t, err)
}

func TestParseLimit(t *testing.T) {
	require.Equal(t, 50, ParseLimit("", 50, 200))
	require.Equal(t, 50, ParseLimit("-1", 50, 200))
	require.Equal(t, 10, ParseLimit("10", 50, 200))
	require.Equal(t, 200, ParseLimit("1000", 50, 200))
}
