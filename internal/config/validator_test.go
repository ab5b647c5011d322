package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnv(t *testing.T) {
	t.Run("memory mode needs nothing", func(t *testing.T) {
		clearEnvVars(t)

		assert.NoError(t, ValidateEnv())
	})

	t.Run("postgres mode requires database variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PERSISTENCE_MODE", "postgres")
		t.Setenv("DB_USER", "user")
		t.Setenv("DB_HOST", "localhost")

		err := ValidateEnv()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
		assert.Contains(t, err.Error(), "DB_NAME")
		assert.NotContains(t, err.Error(), "DB_USER,")
	})

	t.Run("postgres mode passes with all variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PERSISTENCE_MODE", "postgres")
		t.Setenv("DB_USER", "user")
		t.Setenv("DB_PASSWORD", "pass")
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_NAME", "colorrush")

		assert.NoError(t, ValidateEnv())
	})
}

func TestValidateEnvWithWarnings(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("PERSISTENCE_MODE", "postgres")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "change_this_secure_password")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "colorrush")

	warnings, err := ValidateEnvWithWarnings()

	require.NoError(t, err)
	assert.Len(t, warnings, 2)
}
