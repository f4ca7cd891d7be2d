package mindsight

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		text     string
		category RiskCategory
		override bool
		desc     string
	}{
		{"I want to kill myself", RiskHigh, true, "Crisis phrase"},
		{"I think everyone would be better off dead without me", RiskHigh, true, "Indirect crisis phrase"},
		{"Sometimes I just want to end it all", RiskHigh, true, "End it all"},
		{"I feel hopeless and depressed, please help me!!", RiskMedium, false, "Distress with urgency"},
		{"I had a nice day at the park with friends", RiskLow, false, "Everyday message"},
		{"", RiskLow, false, "Empty text"},
	}

	scorer := NewRiskScorer(nil)

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			signal, err := scorer.AssessRisk(tt.text)
			if err != nil {
				t.Fatalf("AssessRisk(%q): %v", tt.text, err)
			}
			if signal.Category != tt.category {
				t.Errorf("Category = %s (level %.2f), want %s", signal.Category, signal.Level, tt.category)
			}
			if signal.CrisisOverride != tt.override {
				t.Errorf("CrisisOverride = %v, want %v", signal.CrisisOverride, tt.override)
			}
			if signal.Level < 0 || signal.Level > MaxRiskLevel {
				t.Errorf("Level %v out of range", signal.Level)
			}
			if math.Round(signal.Level*100)/100 != signal.Level {
				t.Errorf("Level %v has more than two decimals", signal.Level)
			}
			if CategoryForLevel(signal.Level) != signal.Category {
				t.Errorf("Category %s does not match level %v", signal.Category, signal.Level)
			}
		})
	}
}

func TestRiskComponents(t *testing.T) {
	scorer := NewRiskScorer(nil)

	t.Run("Empty text scores zero", func(t *testing.T) {
		signal, _ := scorer.AssessRisk("")
		if signal.Level != 0 || signal.Category != RiskLow || len(signal.Factors.KeywordsFound) != 0 || signal.ShapeScore != 0 {
			t.Errorf("got %+v", signal)
		}
	})

	t.Run("Long neutral text", func(t *testing.T) {
		signal, _ := scorer.AssessRisk(strings.Repeat("the ", 150))
		if signal.ShapeScore != 1 || signal.Level != 0.1 || signal.Category != RiskLow {
			t.Errorf("shape %v level %v category %s", signal.ShapeScore, signal.Level, signal.Category)
		}
	})

	t.Run("Short text", func(t *testing.T) {
		signal, _ := scorer.AssessRisk("hmm")
		if signal.ShapeScore != 2 {
			t.Errorf("ShapeScore = %v, want 2", signal.ShapeScore)
		}
	})

	t.Run("Contractions match folded keywords", func(t *testing.T) {
		signal, _ := scorer.AssessRisk("I can't cope with this anymore")
		if !contains(signal.Factors.KeywordsFound, "cant cope") {
			t.Errorf("keywords = %v", signal.Factors.KeywordsFound)
		}
		if !contains(signal.Factors.UrgencyIndicators, "cannot_cope") {
			t.Errorf("urgency = %v", signal.Factors.UrgencyIndicators)
		}
	})

	t.Run("Keyword repeats are capped", func(t *testing.T) {
		signal, _ := scorer.AssessRisk("so alone alone alone alone alone here")
		if signal.KeywordScore != 9 {
			t.Errorf("KeywordScore = %v, want 9", signal.KeywordScore)
		}
	})

	t.Run("Components are capped", func(t *testing.T) {
		text := "suicide suicide kill myself hopeless worthless help help help now emergency!!!! ???? !!!!"
		signal, _ := scorer.AssessRisk(text)
		if signal.KeywordScore != maxKeywordScore || signal.UrgencyScore != maxUrgencyScore {
			t.Errorf("keyword %v urgency %v", signal.KeywordScore, signal.UrgencyScore)
		}
		if signal.Level > MaxRiskLevel || signal.Category != RiskHigh {
			t.Errorf("level %v category %s", signal.Level, signal.Category)
		}
	})

	t.Run("Sentiment risk", func(t *testing.T) {
		signal, _ := scorer.AssessRisk("I feel terrible")
		if math.Abs(signal.SentimentRisk-3) > 1e-9 || signal.Factors.SentimentIntensity != -1 {
			t.Errorf("sentiment risk %v intensity %v", signal.SentimentRisk, signal.Factors.SentimentIntensity)
		}
	})
}

func TestCategoryForLevel(t *testing.T) {
	tests := []struct {
		level    float64
		expected RiskCategory
	}{
		{0, RiskLow},
		{3.99, RiskLow},
		{4, RiskMedium},
		{6.99, RiskMedium},
		{7, RiskHigh},
		{10, RiskHigh},
	}
	for _, tt := range tests {
		if got := CategoryForLevel(tt.level); got != tt.expected {
			t.Errorf("CategoryForLevel(%v) = %s, want %s", tt.level, got, tt.expected)
		}
	}
}

func TestFailurePolicy(t *testing.T) {
	tests := []struct {
		value    string
		level    float64
		category RiskCategory
		ok       bool
	}{
		{"", MediumRiskThreshold, RiskMedium, true},
		{"cautious", MediumRiskThreshold, RiskMedium, true},
		{" LOW ", 0, RiskLow, true},
		{"panic", 0, "", false},
	}
	for _, tt := range tests {
		policy, ok := ParseFailurePolicy(tt.value)
		if ok != tt.ok {
			t.Errorf("ParseFailurePolicy(%q) ok = %v", tt.value, ok)
			continue
		}
		if !ok {
			continue
		}
		signal := policy.Signal()
		if signal.Level != tt.level || signal.Category != tt.category || !signal.Degraded {
			t.Errorf("%q: got %+v", tt.value, signal)
		}
	}
}

// brokenRiskScorer panics inside urgency matching.
func brokenRiskScorer() *RiskScorer {
	return &RiskScorer{
		sentiment: NewSentimentAnalyzer(DefaultSentimentConfig()),
		urgency:   []urgencyPattern{{name: "broken", weight: 1}},
	}
}

func TestAssessRecoversPanic(t *testing.T) {
	msg, err := NewMessage("please help me now")
	if err != nil {
		t.Fatal(err)
	}

	signal, err := brokenRiskScorer().Assess(msg, SentimentScore{})
	if !IsInferenceError(err) {
		t.Fatalf("expected InferenceError, got %v", err)
	}
	if !errors.Is(err, ErrInferencePanic) {
		t.Errorf("expected ErrInferencePanic, got %v", err)
	}
	if signal.Category != "" || signal.Level != 0 || signal.KeywordScore != 0 || signal.Factors.KeywordsFound != nil {
		t.Errorf("expected zero signal, got %+v", signal)
	}
}
