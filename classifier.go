package mindsight

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ConfidenceThreshold is the probability a prediction must exceed to be
// reported as a catalog tag.
const ConfidenceThreshold = 0.3

// MatchKind says how an intent prediction resolved.
type MatchKind int

const (
	Matched MatchKind = iota // a catalog tag above the confidence threshold
	NoMatch                  // the best tag was not confident enough
	Failed                   // prediction could not run
)

func (k MatchKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case NoMatch:
		return NoMatchTag
	default:
		return ErrorTag
	}
}

// MarshalText encodes the kind by name.
func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// An IntentMatch is the result of classifying one message.
//
// Tag is a catalog tag when Kind is Matched, NoMatchTag when Kind is NoMatch
// and ErrorTag when Kind is Failed, in which case Err holds an
// *InferenceError.
type IntentMatch struct {
	Kind       MatchKind          `json:"kind"`
	Tag        string             `json:"tag"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Err        error              `json:"-"`
}

func failedMatch(err error) IntentMatch {
	if !IsInferenceError(err) {
		err = &InferenceError{Stage: "intent", Err: err}
	}
	return IntentMatch{Kind: Failed, Tag: ErrorTag, Err: err}
}

// intentClassifier is a multinomial logistic regression over TF-IDF
// features. The last row of weights holds the per-label bias.
type intentClassifier struct {
	vec     *vectorizer
	weights *mat.Dense
	labels  []string
}

// design builds the feature matrix for docs with a trailing bias column.
func (c *intentClassifier) design(docs []string) *mat.Dense {
	d := c.vec.size()
	x := mat.NewDense(len(docs), d+1, nil)
	for i, doc := range docs {
		row := c.vec.transform(doc)
		for j, val := range row {
			if val != 0 {
				x.Set(i, j, val)
			}
		}
		x.Set(i, d, 1)
	}
	return x
}

// probabilities returns the label distribution for one feature vector.
func (c *intentClassifier) probabilities(features []float64) []float64 {
	d := c.vec.size()
	x := mat.NewVecDense(d+1, nil)
	for j, val := range features {
		x.SetVec(j, val)
	}
	x.SetVec(d, 1)

	z := mat.NewVecDense(len(c.labels), nil)
	z.MulVec(c.weights.T(), x)
	probs := make([]float64, len(c.labels))
	softmax(probs, z.RawVector().Data)
	return probs
}

// Predict classifies text. It never panics and never returns an error
// directly; failures resolve to the error sentinel.
func (c *intentClassifier) Predict(text string) (match IntentMatch) {
	if c == nil || c.vec == nil || c.weights == nil || len(c.labels) == 0 {
		return failedMatch(ErrModelNotLoaded)
	}

	var err error
	defer func() {
		if err != nil {
			match = failedMatch(err)
		}
	}()
	defer recoverInference("intent", &err)

	probs := c.probabilities(c.vec.transform(text))
	best := floats.MaxIdx(probs)
	if math.IsNaN(probs[best]) {
		err = &InferenceError{Stage: "intent", Err: fmt.Errorf("non-finite probability for %q", c.labels[best])}
		return match
	}

	scores := make(map[string]float64, len(probs))
	for i, p := range probs {
		scores[c.labels[i]] = p
	}

	match = IntentMatch{
		Kind:       Matched,
		Tag:        c.labels[best],
		Confidence: probs[best],
		Scores:     scores,
	}
	if probs[best] <= ConfidenceThreshold {
		match.Kind = NoMatch
		match.Tag = NoMatchTag
	}
	return match
}

// softmax writes the normalized exponentials of z into dst.
func softmax(dst, z []float64) {
	maxZ := floats.Max(z)
	var sum float64
	for i, v := range z {
		dst[i] = math.Exp(v - maxZ)
		sum += dst[i]
	}
	floats.Scale(1/sum, dst)
}
