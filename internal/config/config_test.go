package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("MINDSIGHT_TEST_DIR", "/data")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"tilde", "~", home},
		{"tilde prefix", "~/models/intent.gob", filepath.Join(home, "models/intent.gob")},
		{"env var", "$MINDSIGHT_TEST_DIR/intents.json", "/data/intents.json"},
		{"absolute", "/etc/mindsight.yaml", "/etc/mindsight.yaml"},
		{"tilde in middle", "a/~/b", "a/~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.path))
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, "cautious", v.GetString(KeyFailurePolicy))
	assert.Equal(t, 800, v.GetInt(KeyIterations))
	assert.Equal(t, 3, v.GetInt(KeyRecommendLimit))
	assert.Equal(t, "console", v.GetString(KeyLogFormat))
	require.NoError(t, Validate(v))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"no catalog", KeyCatalogPath, ""},
		{"no model", KeyModelPath, ""},
		{"split too large", KeyValidationSplit, 1.0},
		{"negative split", KeyValidationSplit, -0.1},
		{"zero iterations", KeyIterations, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)
			assert.Error(t, Validate(v))
		})
	}
}
