package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tsawler/mindsight"
	"github.com/tsawler/mindsight/internal/config"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func newLogHandler(w io.Writer, level, format string) (slog.Handler, error) {
	// Parse log level
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	switch format {
	case "console":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

func catalogPath() string {
	return config.ExpandPath(viper.GetString(config.KeyCatalogPath))
}

func modelPath() string {
	return config.ExpandPath(viper.GetString(config.KeyModelPath))
}

// trainingConfig builds the trainer settings from configuration.
func trainingConfig() mindsight.TrainingConfig {
	cfg := mindsight.DefaultTrainingConfig()
	cfg.Iterations = viper.GetInt(config.KeyIterations)
	cfg.LearningRate = viper.GetFloat64(config.KeyLearningRate)
	cfg.RegularizationL2 = viper.GetFloat64(config.KeyL2)
	cfg.ValidationSplit = viper.GetFloat64(config.KeyValidationSplit)
	cfg.Seed = viper.GetInt64(config.KeySeed)
	cfg.StopWords = viper.GetString(config.KeyStopWords)
	cfg.Logger = slog.Default()
	return cfg
}

// loadEngine loads the catalog and model named in configuration and builds
// an analysis engine from them.
func loadEngine() (*mindsight.Engine, error) {
	catalog, err := mindsight.LoadCatalog(catalogPath())
	if err != nil {
		return nil, err
	}

	model, err := mindsight.ModelFromDisk(modelPath())
	if err != nil {
		return nil, fmt.Errorf("%w (run 'mindsight train' first)", err)
	}

	policy, ok := mindsight.ParseFailurePolicy(viper.GetString(config.KeyFailurePolicy))
	if !ok {
		return nil, mindsight.NewConfigurationError(config.KeyFailurePolicy,
			fmt.Errorf("unknown failure policy %q", viper.GetString(config.KeyFailurePolicy)))
	}

	opts := []mindsight.EngineOption{
		mindsight.WithLogger(slog.Default()),
		mindsight.WithFailurePolicy(policy),
		mindsight.WithRecommendationLimit(viper.GetInt(config.KeyRecommendLimit)),
	}

	if lexicon := viper.GetString(config.KeyLexiconPath); lexicon != "" {
		sa, err := mindsight.NewSentimentAnalyzerWithExternal(mindsight.DefaultSentimentConfig(), config.ExpandPath(lexicon))
		if err != nil {
			return nil, mindsight.NewConfigurationError(lexicon, err)
		}
		opts = append(opts, mindsight.WithSentimentAnalyzer(sa))
	}

	engine, err := mindsight.NewEngine(catalog, model, opts...)
	if err != nil {
		return nil, err
	}

	slog.Debug("engine loaded",
		"catalog", filepath.Base(catalogPath()),
		"intents", catalog.Len(),
		"model", model.Name)
	return engine, nil
}
