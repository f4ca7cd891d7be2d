package mindsight

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// An EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSentimentAnalyzer replaces the built-in sentiment analyzer.
func WithSentimentAnalyzer(sa *SentimentAnalyzer) EngineOption {
	return func(e *Engine) {
		e.sentiment = sa
	}
}

// WithFailurePolicy sets the risk reported when risk scoring fails.
func WithFailurePolicy(p FailurePolicy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithRecommendationLimit sets how many exercises Analyze returns.
func WithRecommendationLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.limit = limit
	}
}

// WithRecommender replaces the built-in exercise catalog.
func WithRecommender(r *Recommender) EngineOption {
	return func(e *Engine) {
		e.recommender = r
	}
}

// WithResponsePicker sets the function used to choose among an intent's
// responses. pick(n) must return a value in [0, n).
func WithResponsePicker(pick func(n int) int) EngineOption {
	return func(e *Engine) {
		e.pick = pick
	}
}

// An Engine analyzes messages against a loaded catalog and model. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	catalog     *Catalog
	model       *Model
	sentiment   *SentimentAnalyzer
	risk        *RiskScorer
	recommender *Recommender
	policy      FailurePolicy
	limit       int
	pick        func(n int) int
	logger      *slog.Logger
}

// NewEngine validates catalog and model and builds an Engine. Every label
// of model must be a catalog tag.
func NewEngine(catalog *Catalog, model *Model, opts ...EngineOption) (*Engine, error) {
	if catalog == nil {
		return nil, NewConfigurationError("catalog", fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog))
	}
	if model == nil || model.classifier == nil {
		return nil, NewConfigurationError("model", ErrModelNotLoaded)
	}
	for _, label := range model.Labels() {
		if !catalog.Has(label) {
			return nil, NewConfigurationError(model.Name, fmt.Errorf("%w: unknown tag %q", ErrLabelMismatch, label))
		}
	}

	e := &Engine{
		catalog: catalog,
		model:   model,
		policy:  FailCautious,
		limit:   DefaultRecommendationLimit,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.sentiment == nil {
		e.sentiment = NewSentimentAnalyzer(DefaultSentimentConfig())
	}
	if e.recommender == nil {
		e.recommender = defaultRecommender
	}
	e.risk = NewRiskScorer(e.sentiment)

	return e, nil
}

// Catalog returns the engine's intent catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Model returns the engine's intent model.
func (e *Engine) Model() *Model {
	return e.model
}

// An Analysis is the complete result for one message. Every field is
// populated even when a stage fails.
type Analysis struct {
	ID              string              `json:"id"`
	Text            string              `json:"text"`
	Intent          IntentMatch         `json:"intent"`
	Response        string              `json:"response"`
	Sentiment       SentimentScore      `json:"-"`
	Polarity        float64             `json:"polarity"`
	Subjectivity    float64             `json:"subjectivity"`
	Emotions        EmotionDistribution `json:"emotions"`
	DominantEmotion string              `json:"dominant_emotion"`
	Risk            RiskSignal          `json:"risk"`
	Recommendations []Recommendation    `json:"recommendations"`
	Resources       *ResourceBundle     `json:"resources,omitempty"`
	Degraded        bool                `json:"degraded"`
	Errors          []error             `json:"-"`
	Duration        time.Duration       `json:"-"`
}

// PredictIntent classifies text with the engine's model.
func (e *Engine) PredictIntent(text string) IntentMatch {
	return e.model.PredictIntent(text)
}

// Respond returns a reply for a prediction.
func (e *Engine) Respond(match IntentMatch) string {
	return e.catalog.Response(match.Tag, e.pick)
}

// Analyze runs every scorer on text. It never fails: stage failures are
// recorded in Errors and replaced by placeholder values.
func (e *Engine) Analyze(text string) Analysis {
	start := time.Now()
	a := Analysis{
		ID:   uuid.NewString(),
		Text: text,
	}

	fail := func(err error) {
		a.Degraded = true
		a.Errors = append(a.Errors, err)
		e.logger.Warn("analysis stage failed", "id", a.ID, "error", err)
	}

	msg, err := NewMessage(text)
	if err != nil {
		fail(&InferenceError{Stage: "tokenize", Err: err})
		msg = fallbackMessage(text)
	}

	// Sentiment and emotions
	score, err := e.sentiment.Analyze(msg)
	if err != nil {
		fail(err)
		a.Emotions = NeutralEmotions()
	} else {
		a.Emotions = e.sentiment.emotions(msg.Text, score)
	}
	a.Sentiment = score
	a.Polarity = score.Polarity
	a.Subjectivity = score.Subjectivity
	a.DominantEmotion = a.Emotions.Dominant()

	// Risk
	signal, err := e.risk.Assess(msg, score)
	if err != nil {
		fail(err)
		signal = e.policy.Signal()
	}
	a.Risk = signal

	// Intent
	a.Intent = e.PredictIntent(msg.Text)
	if a.Intent.Kind == Failed {
		fail(a.Intent.Err)
	}
	a.Response = e.Respond(a.Intent)

	// Recommendations
	a.Recommendations = e.recommender.Recommend(signal.Level, a.Emotions, e.limit)
	a.Resources = EmergencyResources(signal.Level)

	a.Duration = time.Since(start)

	if signal.Category == RiskHigh {
		e.logger.Warn("high risk message",
			"id", a.ID,
			"level", signal.Level,
			"crisis_override", signal.CrisisOverride,
			"keywords", signal.Factors.KeywordsFound)
	}
	e.logger.Debug("message analyzed",
		"id", a.ID,
		"intent", a.Intent.Tag,
		"confidence", a.Intent.Confidence,
		"risk", signal.Level,
		"category", signal.Category,
		"emotion", a.DominantEmotion,
		"duration", a.Duration)

	return a
}

// fallbackMessage parses text without sentence segmentation. If that fails
// too, the message carries the raw text and no tokens.
func fallbackMessage(text string) *Message {
	if msg, err := NewMessage(text, WithSegmentation(false)); err == nil {
		return msg
	}
	return &Message{Raw: text, Text: text}
}

// AnalyzeBatch analyzes texts on up to workers goroutines, preserving input
// order. It stops early only when ctx is done.
func (e *Engine) AnalyzeBatch(ctx context.Context, texts []string, workers int) ([]Analysis, error) {
	results := make([]Analysis, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Analyze(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
