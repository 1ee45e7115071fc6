package token

import (
	"testing"
	"time"

	domain "wellness/portal/internal/domain/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "portal")

	raw, err := m.Generate("u-1", domain.StagePending)
	require.NoError(t, err)

	session, err := m.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.Session{UserID: "u-1", Stage: domain.StagePending}, session)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	raw, err := NewJWTManager("other", time.Hour, "portal").Generate("u-1", domain.StageAuthenticated)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour, "portal").Validate(raw)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, "portal")
	raw, err := m.Generate("u-1", domain.StageAuthenticated)
	require.NoError(t, err)

	_, err = m.Validate(raw)
	assert.Error(t, err)
}
