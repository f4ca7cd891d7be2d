package mindsight

import (
	"math"
	"sync"
	"testing"
)

func TestSentimentPolarity(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		delta    float64
		desc     string
	}{
		{"I am so happy today", 0.96, 0.01, "Intensified positive"},
		{"I feel terrible", -1.0, 0.01, "Strong negative sentiment"},
		{"I don't feel good", -0.35, 0.01, "Contracted negation"},
		{"I am not happy", -0.4, 0.01, "Negation of positive"},
		{"Not now, I am happy", 0.8, 0.01, "Negation stops at a comma"},
		{"extremely sad", -0.75, 0.01, "Intensifier"},
		{"slightly sad", -0.35, 0.01, "Diminisher"},
		{"The weather report", 0.0, 0.001, "No sentiment words"},
		{"ok", 0.0, 0.001, "Shorter than three characters"},
		{"", 0.0, 0.001, "Empty text"},
	}

	analyzer := NewSentimentAnalyzer(DefaultSentimentConfig())

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			score, err := analyzer.AnalyzeText(tt.text)
			if err != nil {
				t.Fatalf("AnalyzeText(%q): %v", tt.text, err)
			}
			if math.Abs(score.Polarity-tt.expected) > tt.delta {
				t.Errorf("Text: %q\nExpected polarity: %.2f ± %.2f\nGot: %.2f",
					tt.text, tt.expected, tt.delta, score.Polarity)
			}
			if score.Polarity < -1 || score.Polarity > 1 || score.Subjectivity < 0 || score.Subjectivity > 1 {
				t.Errorf("score out of range: %+v", score)
			}
		})
	}
}

func TestSentimentClass(t *testing.T) {
	tests := []struct {
		text     string
		expected SentimentClass
		desc     string
	}{
		{"This is wonderful", StrongPositive, "Strong positive"},
		{"It is fine", Positive, "Positive"},
		{"This is awful", StrongNegative, "Strong negative"},
		{"I am sad", Negative, "Negative"},
		{"good but bad", Mixed, "Balanced positive and negative"},
		{"a table", Neutral, "Neutral"},
	}

	analyzer := NewSentimentAnalyzer(DefaultSentimentConfig())

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			score, _ := analyzer.AnalyzeText(tt.text)
			if score.Dominant != tt.expected {
				t.Errorf("Text: %q\nExpected %s, got %s (polarity %.2f)",
					tt.text, tt.expected, score.Dominant, score.Polarity)
			}
		})
	}
}

func TestSentimentFeatures(t *testing.T) {
	analyzer := NewSentimentAnalyzer(DefaultSentimentConfig())
	score, err := analyzer.AnalyzeText("I am really happy. I am not sad.")
	if err != nil {
		t.Fatal(err)
	}

	if len(score.Features.Intensifiers) != 1 || score.Features.Intensifiers[0].Word != "happy" {
		t.Errorf("intensifiers = %+v", score.Features.Intensifiers)
	}
	if len(score.Features.Negations) != 1 {
		t.Errorf("negations = %+v", score.Features.Negations)
	}
	if len(score.Features.PositiveWords) != 2 || len(score.Features.NegativeWords) != 0 {
		t.Errorf("positive %d, negative %d", len(score.Features.PositiveWords), len(score.Features.NegativeWords))
	}
	// Two sentiment words over eight tokens
	if math.Abs(score.Confidence-0.5) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.5", score.Confidence)
	}
}

func TestExternalLexicon(t *testing.T) {
	analyzer, err := NewSentimentAnalyzerWithExternal(DefaultSentimentConfig(), "testdata/lexicon.json")
	if err != nil {
		t.Fatalf("loading lexicon: %v", err)
	}

	tests := []struct {
		text     string
		expected float64
		desc     string
	}{
		{"a stellar day", 0.9, "Added word"},
		{"nope, stellar", 0.9, "Added negation outside scope"},
		{"nope stellar", -0.45, "Added negation"},
		{"utterly gloomy", -0.9, "Added modifier"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := analyzer.AnalyzeSentimentIntensity(tt.text); math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("%q: polarity %.2f, want %.2f", tt.text, got, tt.expected)
			}
		})
	}

	if _, err := NewSentimentAnalyzerWithExternal(DefaultSentimentConfig(), "testdata/missing.json"); err == nil {
		t.Error("expected error for missing lexicon file")
	}
}

func TestLexiconCustomWords(t *testing.T) {
	lexicon := LoadSentimentLexicon()
	size := lexicon.GetLexiconSize()

	lexicon.AddCustomWord("Sunny", 2.0, 0.5)
	if lexicon.GetLexiconSize() != size+1 || !lexicon.HasWord("sunny") {
		t.Fatal("custom word not added")
	}
	if got := lexicon.GetSentiment("sunny"); got != 1.0 {
		t.Errorf("sentiment not clamped: %v", got)
	}

	lexicon.AddCustomNegation("nah")
	if !lexicon.IsNegation("nah") {
		t.Error("custom negation not added")
	}
	lexicon.AddCustomModifier("mega", 0.6)
	if lexicon.GetModifierStrength("mega") != 0.6 {
		t.Error("custom modifier not added")
	}
}

func TestConcurrentAnalysis(t *testing.T) {
	analyzer := NewSentimentAnalyzer(DefaultSentimentConfig())
	want := analyzer.AnalyzeSentimentIntensity("I feel hopeless and alone")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := analyzer.AnalyzeSentimentIntensity("I feel hopeless and alone"); got != want {
				t.Errorf("concurrent polarity %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkSentimentAnalysis(b *testing.B) {
	analyzer := NewSentimentAnalyzer(DefaultSentimentConfig())
	text := "I've been feeling really overwhelmed lately, and I can't seem to sleep. Everything feels hopeless."
	for i := 0; i < b.N; i++ {
		analyzer.AnalyzeText(text)
	}
}
