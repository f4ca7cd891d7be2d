package mindsight

import (
	"math"
	"testing"
)

func TestRawEmotionProfile(t *testing.T) {
	tests := []struct {
		polarity     float64
		subjectivity float64
		dominant     string
		sum          float64
		desc         string
	}{
		{0.8, 0.9, EmotionJoy, 1.6, "Strongly positive"},
		{0.2, 0.5, EmotionJoy, 1.0, "Mildly positive"},
		{-0.6, 0.9, EmotionSadness, 1.6, "Strongly negative"},
		{-0.2, 0.5, EmotionSadness, 1.0, "Mildly negative"},
		{0.0, 0.8, EmotionCuriosity, 1.0, "Subjective neutral"},
		{0.0, 0.1, EmotionNeutral, 1.0, "Objective neutral"},
		{0.3, 0.0, EmotionJoy, 1.0, "Boundary 0.3 is mildly positive"},
		{-0.1, 0.0, EmotionNeutral, 1.0, "Boundary -0.1 is neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			raw := RawEmotionProfile(tt.polarity, tt.subjectivity)
			if got := raw.Dominant(); got != tt.dominant {
				t.Errorf("Dominant() = %q, want %q", got, tt.dominant)
			}
			if math.Abs(raw.Sum()-tt.sum) > 1e-9 {
				t.Errorf("Sum() = %v, want %v", raw.Sum(), tt.sum)
			}
		})
	}
}

func TestEmotionsForNormalized(t *testing.T) {
	for _, polarity := range []float64{-0.9, -0.2, 0, 0.2, 0.9} {
		emotions := EmotionsFor(SentimentScore{Polarity: polarity, Subjectivity: 0.6})
		if math.Abs(emotions.Sum()-1) > 1e-9 {
			t.Errorf("polarity %v: sum %v", polarity, emotions.Sum())
		}
		if _, ok := emotions[EmotionNeutral]; !ok {
			t.Errorf("polarity %v: neutral missing from %v", polarity, emotions)
		}
		for label, w := range emotions {
			if w < 0 || w > 1 {
				t.Errorf("polarity %v: %s = %v", polarity, label, w)
			}
		}
	}
}

func TestDominantTieBreak(t *testing.T) {
	d := EmotionDistribution{EmotionNeutral: 0.5, EmotionJoy: 0.5}
	if got := d.Dominant(); got != EmotionJoy {
		t.Errorf("Dominant() = %q, want %q", got, EmotionJoy)
	}
	if got := (EmotionDistribution{}).Dominant(); got != EmotionNeutral {
		t.Errorf("empty Dominant() = %q", got)
	}
}

func TestAnalyzeEmotions(t *testing.T) {
	analyzer := NewSentimentAnalyzer(DefaultSentimentConfig())

	tests := []struct {
		text     string
		expected string
		desc     string
	}{
		{"I feel hopeless and worthless", EmotionSadness, "Negative text"},
		{"I am so happy and grateful", EmotionJoy, "Positive text"},
		{"hi", EmotionNeutral, "Short text"},
		{"", EmotionNeutral, "Empty text"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := analyzer.DominantEmotion(tt.text); got != tt.expected {
				t.Errorf("DominantEmotion(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}

	if got := analyzer.AnalyzeEmotions(""); len(got) != 1 || got[EmotionNeutral] != 1 {
		t.Errorf("AnalyzeEmotions(\"\") = %v", got)
	}
}
