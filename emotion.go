package mindsight

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Emotion labels produced by the emotion mapping.
const (
	EmotionJoy       = "joy"
	EmotionOptimism  = "optimism"
	EmotionNeutral   = "neutral"
	EmotionSadness   = "sadness"
	EmotionFear      = "fear"
	EmotionAnger     = "anger"
	EmotionCuriosity = "curiosity"
	EmotionCalm      = "calm"
)

// An EmotionDistribution maps emotion labels to non-negative weights. It
// always contains EmotionNeutral.
type EmotionDistribution map[string]float64

// NeutralEmotions is the distribution for empty text or failed analysis.
func NeutralEmotions() EmotionDistribution {
	return EmotionDistribution{EmotionNeutral: 1.0}
}

// RawEmotionProfile returns the fixed emotion weights for a polarity and
// subjectivity pair. The weights are not normalized: the strongly positive
// profile sums to 1.6.
func RawEmotionProfile(polarity, subjectivity float64) EmotionDistribution {
	switch {
	case polarity > 0.3:
		return EmotionDistribution{EmotionJoy: 0.8, EmotionOptimism: 0.6, EmotionNeutral: 0.2}
	case polarity > 0.1:
		return EmotionDistribution{EmotionJoy: 0.5, EmotionNeutral: 0.5}
	case polarity < -0.3:
		return EmotionDistribution{EmotionSadness: 0.8, EmotionFear: 0.5, EmotionAnger: 0.3}
	case polarity < -0.1:
		return EmotionDistribution{EmotionSadness: 0.6, EmotionNeutral: 0.4}
	case subjectivity > 0.5:
		return EmotionDistribution{EmotionCuriosity: 0.6, EmotionNeutral: 0.4}
	default:
		return EmotionDistribution{EmotionNeutral: 0.9, EmotionCalm: 0.1}
	}
}

// EmotionsFor maps a sentiment score onto a normalized distribution that
// sums to 1 and always carries a neutral entry.
func EmotionsFor(score SentimentScore) EmotionDistribution {
	return RawEmotionProfile(score.Polarity, score.Subjectivity).Normalized()
}

// Normalized returns a copy of d scaled to sum to 1, with neutral present.
func (d EmotionDistribution) Normalized() EmotionDistribution {
	sum := d.Sum()
	if sum <= 0 {
		return NeutralEmotions()
	}
	out := make(EmotionDistribution, len(d)+1)
	for label, w := range d {
		if w > 0 {
			out[label] = w / sum
		} else {
			out[label] = 0
		}
	}
	if _, ok := out[EmotionNeutral]; !ok {
		out[EmotionNeutral] = 0
	}
	return out
}

// Sum returns the total of the positive weights.
func (d EmotionDistribution) Sum() float64 {
	var sum float64
	for _, w := range d {
		if w > 0 {
			sum += w
		}
	}
	return sum
}

// Dominant returns the label with the largest weight, breaking ties
// alphabetically. An empty distribution is neutral.
func (d EmotionDistribution) Dominant() string {
	best := EmotionNeutral
	bestWeight := -1.0
	for _, label := range d.Labels() {
		if w := d[label]; w > bestWeight {
			best, bestWeight = label, w
		}
	}
	return best
}

// Labels returns the labels of d in alphabetical order.
func (d EmotionDistribution) Labels() []string {
	labels := make([]string, 0, len(d))
	for label := range d {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// AnalyzeEmotions returns the emotion distribution of text. Short text and
// failures yield NeutralEmotions.
func (sa *SentimentAnalyzer) AnalyzeEmotions(text string) EmotionDistribution {
	score, err := sa.AnalyzeText(text)
	if err != nil {
		return NeutralEmotions()
	}
	return sa.emotions(text, score)
}

// DominantEmotion returns the strongest emotion label of text.
func (sa *SentimentAnalyzer) DominantEmotion(text string) string {
	return sa.AnalyzeEmotions(text).Dominant()
}

// emotions short-circuits near-empty text to NeutralEmotions before mapping.
func (sa *SentimentAnalyzer) emotions(text string, score SentimentScore) EmotionDistribution {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < sa.config.MinTextLength {
		return NeutralEmotions()
	}
	return EmotionsFor(score)
}
