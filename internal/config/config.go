// Package config holds the configuration keys and defaults of the mindsight
// command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides, so that
// MINDSIGHT_MODEL_PATH sets model.path.
const EnvPrefix = "MINDSIGHT"

// Configuration keys.
const (
	KeyCatalogPath     = "catalog.path"
	KeyModelPath       = "model.path"
	KeyStopWords       = "vectorizer.stop_words"
	KeyIterations      = "training.iterations"
	KeyLearningRate    = "training.learning_rate"
	KeyL2              = "training.l2"
	KeyValidationSplit = "training.validation_split"
	KeySeed            = "training.seed"
	KeyFailurePolicy   = "risk.failure_policy"
	KeyRecommendLimit  = "recommend.limit"
	KeyLexiconPath     = "sentiment.lexicon_path"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyCatalogPath, "intents.json")
	v.SetDefault(KeyModelPath, "~/.config/mindsight/intent.gob")
	v.SetDefault(KeyStopWords, "")
	v.SetDefault(KeyIterations, 800)
	v.SetDefault(KeyLearningRate, 1.0)
	v.SetDefault(KeyL2, 0.001)
	v.SetDefault(KeyValidationSplit, 0.0)
	v.SetDefault(KeySeed, 42)
	v.SetDefault(KeyFailurePolicy, "cautious")
	v.SetDefault(KeyRecommendLimit, 3)
	v.SetDefault(KeyLexiconPath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Dir returns the default configuration directory, $HOME/.config/mindsight.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mindsight"), nil
}

// Validate checks values that cannot be corrected later.
func Validate(v *viper.Viper) error {
	if v.GetString(KeyCatalogPath) == "" {
		return fmt.Errorf("%s must be set", KeyCatalogPath)
	}
	if v.GetString(KeyModelPath) == "" {
		return fmt.Errorf("%s must be set", KeyModelPath)
	}
	if split := v.GetFloat64(KeyValidationSplit); split < 0 || split >= 1 {
		return fmt.Errorf("%s must be in [0, 1), got %v", KeyValidationSplit, split)
	}
	if v.GetInt(KeyIterations) <= 0 {
		return fmt.Errorf("%s must be positive", KeyIterations)
	}
	return nil
}
