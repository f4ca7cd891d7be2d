package mindsight

import (
	"errors"
	"fmt"
)

// Configuration errors. These are fatal at startup.
var (
	ErrInvalidCatalog    = errors.New("invalid intent catalog")
	ErrArtifactMissing   = errors.New("model artifact not found")
	ErrArtifactCorrupt   = errors.New("model artifact corrupt")
	ErrModelNotLoaded    = errors.New("model not loaded")
	ErrEmptyTrainingData = errors.New("training data is empty")
	ErrLabelMismatch     = errors.New("model labels do not match catalog")
)

// Inference errors. These are recovered per message.
var (
	ErrInferencePanic = errors.New("inference panicked")
)

// ConfigurationError reports a missing or invalid catalog or model artifact.
type ConfigurationError struct {
	Source string // file or component that failed
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("configuration error in %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError wraps err with the source that produced it.
func NewConfigurationError(source string, err error) error {
	return &ConfigurationError{Source: source, Err: err}
}

// InferenceError reports a failure while scoring a single message.
type InferenceError struct {
	Stage string // "intent", "sentiment", "emotion", "risk"
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s inference failed: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsInferenceError reports whether err is, or wraps, an InferenceError.
func IsInferenceError(err error) bool {
	var infErr *InferenceError
	return errors.As(err, &infErr)
}

// recoverInference converts a panic in the current goroutine into an
// InferenceError stored in *errp. It must be deferred directly.
func recoverInference(stage string, errp *error) {
	if r := recover(); r != nil {
		*errp = &InferenceError{
			Stage: stage,
			Err:   fmt.Errorf("%w: %v", ErrInferencePanic, r),
		}
	}
}
