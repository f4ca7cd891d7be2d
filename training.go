package mindsight

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TrainingConfig contains configuration for intent classifier training
type TrainingConfig struct {
	Iterations       int
	LearningRate     float64
	RegularizationL2 float64
	EarlyStopping    bool
	Tolerance        float64 // loss change below which an epoch counts as stalled
	Patience         int
	ValidationSplit  float64 // fraction of each intent's patterns held out
	Seed             int64   // seed for the validation shuffle
	StopWords        string  // ISO 639-1 code for stop-word removal, "" to keep all
	Context          context.Context
	Logger           *slog.Logger
	ProgressCallback func(epoch int, loss float64, accuracy float64)
}

// DefaultTrainingConfig returns a default training configuration
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:       800,
		LearningRate:     1.0,
		RegularizationL2: 0.001,
		EarlyStopping:    true,
		Tolerance:        1e-7,
		Patience:         10,
		ValidationSplit:  0,
		Seed:             42,
		Context:          context.Background(),
	}
}

// TrainingMetrics contains metrics from training
type TrainingMetrics struct {
	FinalLoss       float64
	FinalAccuracy   float64
	EpochsCompleted int
	TrainingTime    time.Duration
	Converged       bool
	Samples         int
	Features        int
	Validation      *ValidationResult // nil when nothing was held out
}

// ValidationResult contains held-out metrics
type ValidationResult struct {
	Accuracy float64
	Loss     float64
	Samples  int
}

// Trainer fits intent classifiers
type Trainer struct {
	config TrainingConfig
}

// NewTrainer creates a new trainer with the given configuration
func NewTrainer(config TrainingConfig) *Trainer {
	if config.Context == nil {
		config.Context = context.Background()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Trainer{config: config}
}

type sample struct {
	text  string
	label int
}

// TrainIntentClassifier fits a class-balanced softmax regression to the
// patterns in catalog.
func (t *Trainer) TrainIntentClassifier(catalog *Catalog) (*intentClassifier, TrainingMetrics, error) {
	startTime := time.Now()
	var metrics TrainingMetrics

	if catalog == nil || catalog.Len() == 0 {
		return nil, metrics, ErrEmptyTrainingData
	}

	labels := catalog.Tags()
	trainSet, validSet := t.split(catalog)
	if len(trainSet) == 0 {
		return nil, metrics, ErrEmptyTrainingData
	}

	docs := make([]string, len(trainSet))
	for i, s := range trainSet {
		docs[i] = s.text
	}

	clf := &intentClassifier{
		vec:    fitVectorizer(docs, t.config.StopWords),
		labels: labels,
	}
	if clf.vec.size() == 0 {
		return nil, metrics, fmt.Errorf("%w: no usable terms in patterns", ErrEmptyTrainingData)
	}

	x := clf.design(docs)
	n, d := x.Dims()
	k := len(labels)
	metrics.Samples = n
	metrics.Features = d - 1

	y := mat.NewDense(n, k, nil)
	for i, s := range trainSet {
		y.Set(i, s.label, 1)
	}
	sw := balancedWeights(trainSet, k)
	totalWeight := floats.Sum(sw)

	w := mat.NewDense(d, k, nil)
	clf.weights = w

	var (
		z       = mat.NewDense(n, k, nil)
		p       = mat.NewDense(n, k, nil)
		resid   = mat.NewDense(n, k, nil)
		grad    = mat.NewDense(d, k, nil)
		prev    = math.Inf(1)
		stalled int
	)

	t.config.Logger.Debug("training intent classifier",
		"samples", n, "features", d-1, "labels", k)

	for epoch := 0; epoch < t.config.Iterations; epoch++ {
		// Check for cancellation
		select {
		case <-t.config.Context.Done():
			return nil, metrics, t.config.Context.Err()
		default:
		}

		z.Mul(x, w)
		var loss float64
		correct := 0
		for i := 0; i < n; i++ {
			row := p.RawRowView(i)
			softmax(row, z.RawRowView(i))
			if floats.MaxIdx(row) == trainSet[i].label {
				correct++
			}
			loss -= sw[i] * math.Log(math.Max(row[trainSet[i].label], 1e-12))
			for j := 0; j < k; j++ {
				resid.Set(i, j, sw[i]*(row[j]-y.At(i, j)))
			}
		}
		loss /= totalWeight

		grad.Mul(x.T(), resid)
		grad.Scale(1/totalWeight, grad)
		// L2 penalty, bias row excluded
		for r := 0; r < d-1; r++ {
			for j := 0; j < k; j++ {
				wv := w.At(r, j)
				loss += 0.5 * t.config.RegularizationL2 * wv * wv
				grad.Set(r, j, grad.At(r, j)+t.config.RegularizationL2*wv)
			}
		}

		grad.Scale(t.config.LearningRate, grad)
		w.Sub(w, grad)

		accuracy := float64(correct) / float64(n)

		// Progress callback
		if t.config.ProgressCallback != nil {
			t.config.ProgressCallback(epoch, loss, accuracy)
		}

		metrics.EpochsCompleted = epoch + 1
		metrics.FinalLoss = loss
		metrics.FinalAccuracy = accuracy

		// Early stopping
		if t.config.EarlyStopping {
			if math.Abs(prev-loss) < t.config.Tolerance {
				stalled++
				if stalled >= t.config.Patience {
					metrics.Converged = true
					break
				}
			} else {
				stalled = 0
			}
		}
		prev = loss
	}

	if len(validSet) > 0 {
		v := t.validate(clf, validSet)
		metrics.Validation = &v
	}
	metrics.TrainingTime = time.Since(startTime)

	t.config.Logger.Info("intent classifier trained",
		"epochs", metrics.EpochsCompleted,
		"loss", metrics.FinalLoss,
		"accuracy", metrics.FinalAccuracy,
		"converged", metrics.Converged)

	return clf, metrics, nil
}

// split holds out ValidationSplit of each intent's patterns, keeping at
// least one pattern per intent for training.
func (t *Trainer) split(catalog *Catalog) (train, valid []sample) {
	rng := rand.New(rand.NewSource(t.config.Seed))
	for label, in := range catalog.intents {
		patterns := append([]string(nil), in.Patterns...)
		holdOut := 0
		if t.config.ValidationSplit > 0 {
			rng.Shuffle(len(patterns), func(i, j int) {
				patterns[i], patterns[j] = patterns[j], patterns[i]
			})
			holdOut = int(float64(len(patterns)) * t.config.ValidationSplit)
			if holdOut >= len(patterns) {
				holdOut = len(patterns) - 1
			}
		}
		for i, p := range patterns {
			s := sample{text: p, label: label}
			if i < holdOut {
				valid = append(valid, s)
			} else {
				train = append(train, s)
			}
		}
	}
	return train, valid
}

// balancedWeights returns n/(k*n_c) for each sample of class c.
func balancedWeights(samples []sample, k int) []float64 {
	counts := make([]int, k)
	for _, s := range samples {
		counts[s.label]++
	}
	present := 0
	for _, c := range counts {
		if c > 0 {
			present++
		}
	}
	weights := make([]float64, len(samples))
	for i, s := range samples {
		weights[i] = float64(len(samples)) / (float64(present) * float64(counts[s.label]))
	}
	return weights
}

// validate scores a classifier on held-out samples
func (t *Trainer) validate(clf *intentClassifier, data []sample) ValidationResult {
	correct := 0
	loss := 0.0
	for _, s := range data {
		probs := clf.probabilities(clf.vec.transform(s.text))
		if floats.MaxIdx(probs) == s.label {
			correct++
		}
		loss -= math.Log(math.Max(probs[s.label], 1e-12))
	}
	return ValidationResult{
		Accuracy: float64(correct) / float64(len(data)),
		Loss:     loss / float64(len(data)),
		Samples:  len(data),
	}
}

// EvaluationSample is one pattern checked against a trained model.
type EvaluationSample struct {
	Tag        string
	Pattern    string
	Predicted  string
	Confidence float64
}

// Correct reports whether the prediction matched the pattern's intent.
func (s EvaluationSample) Correct() bool {
	return s.Tag == s.Predicted
}

// EvaluationReport summarizes how a model classifies the catalog patterns.
type EvaluationReport struct {
	Accuracy float64
	Samples  []EvaluationSample // every pattern, in catalog order
	First    []EvaluationSample // the first pattern of each intent
}

// Evaluate classifies every catalog pattern with model.
func Evaluate(model *Model, catalog *Catalog) EvaluationReport {
	var report EvaluationReport
	correct := 0
	for _, in := range catalog.intents {
		for i, pattern := range in.Patterns {
			match := model.PredictIntent(pattern)
			s := EvaluationSample{
				Tag:        in.Tag,
				Pattern:    pattern,
				Predicted:  match.Tag,
				Confidence: match.Confidence,
			}
			if s.Correct() {
				correct++
			}
			report.Samples = append(report.Samples, s)
			if i == 0 {
				report.First = append(report.First, s)
			}
		}
	}
	if len(report.Samples) > 0 {
		report.Accuracy = float64(correct) / float64(len(report.Samples))
	}
	return report
}
