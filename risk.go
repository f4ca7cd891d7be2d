package mindsight

import (
	"math"
	"regexp"
	"strings"
)

// Component weights of the combined risk level.
const (
	keywordWeight   = 0.4
	sentimentWeight = 0.3
	urgencyWeight   = 0.2
	shapeWeight     = 0.1

	maxKeywordScore = 10.0
	maxUrgencyScore = 5.0
	maxShapeScore   = 3.0

	maxKeywordRepeats = 3
	sentimentCutoff   = -0.2
)

// RiskFactors lists what contributed to a risk signal.
type RiskFactors struct {
	KeywordsFound      []string `json:"keywords_found"`
	CrisisPhrases      []string `json:"crisis_phrases,omitempty"`
	SentimentIntensity float64  `json:"sentiment_intensity"` // polarity rounded to 2 decimals
	UrgencyIndicators  []string `json:"urgency_indicators"`
}

// HasUrgency reports whether any urgency marker matched.
func (f RiskFactors) HasUrgency() bool {
	return len(f.UrgencyIndicators) > 0
}

// A RiskSignal is the 0-10 risk assessment of a single message.
type RiskSignal struct {
	KeywordScore   float64      `json:"keyword_score"`  // [0, 10]
	SentimentRisk  float64      `json:"sentiment_risk"` // [0, 3]
	UrgencyScore   float64      `json:"urgency_score"`  // [0, 5]
	ShapeScore     float64      `json:"shape_score"`    // [0, 3]
	Level          float64      `json:"risk_level"`     // [0, 10], 2 decimals
	Category       RiskCategory `json:"risk_category"`
	Factors        RiskFactors  `json:"factors"`
	CrisisOverride bool         `json:"crisis_override"` // a crisis phrase raised Level to HighRiskThreshold
	Degraded       bool         `json:"degraded"`        // Level comes from a FailurePolicy, not from scoring
}

type riskKeyword struct {
	phrase string
	weight float64
}

type urgencyPattern struct {
	name   string
	re     *regexp.Regexp
	weight float64
}

// riskKeywords are matched as substrings of the folded text.
var riskKeywords = []riskKeyword{
	{"suicide", 10},
	{"kill myself", 9},
	{"want to die", 9},
	{"harm myself", 9},
	{"better off dead", 9},
	{"end my life", 9},
	{"end it all", 8},
	{"hopeless", 7},
	{"depressed", 6},
	{"worthless", 6},
	{"cant cope", 6},
	{"panic", 5},
	{"overwhelmed", 5},
	{"terrified", 5},
	{"anxious", 4},
	{"help me", 4},
	{"scared", 4},
	{"alone", 3},
	{"crying", 3},
}

// crisisPhrases force at least a high risk level on their own.
var crisisPhrases = []string{
	"suicide",
	"kill myself",
	"want to die",
	"end it all",
	"end my life",
	"harm myself",
	"better off dead",
}

var urgencyPatterns = []urgencyPattern{
	{"urgent_word", regexp.MustCompile(`\b(help|emergency|urgent|now|immediately)\b`), 3},
	{"repeated_exclamation", regexp.MustCompile(`!{2,}`), 2},
	{"cannot_cope", regexp.MustCompile(`\b(cant|cannot).*cope\b`), 4},
	{"please_help", regexp.MustCompile(`\b(please).*help\b`), 3},
	{"need_help", regexp.MustCompile(`\b(need).*help\b`), 3},
}

// RiskScorer combines keyword, sentiment, urgency and text-shape signals.
type RiskScorer struct {
	sentiment *SentimentAnalyzer
	keywords  []riskKeyword
	crisis    []string
	urgency   []urgencyPattern
}

// NewRiskScorer creates a scorer that uses sa for the sentiment signal.
func NewRiskScorer(sa *SentimentAnalyzer) *RiskScorer {
	if sa == nil {
		sa = NewSentimentAnalyzer(DefaultSentimentConfig())
	}
	return &RiskScorer{
		sentiment: sa,
		keywords:  riskKeywords,
		crisis:    crisisPhrases,
		urgency:   urgencyPatterns,
	}
}

// AssessRisk parses and scores text.
func (rs *RiskScorer) AssessRisk(text string) (RiskSignal, error) {
	msg, err := NewMessage(text)
	if err != nil {
		return RiskSignal{}, &InferenceError{Stage: "risk", Err: err}
	}
	score, err := rs.sentiment.Analyze(msg)
	if err != nil {
		return RiskSignal{}, err
	}
	return rs.Assess(msg, score)
}

// Assess scores a parsed message given its sentiment. On failure the
// returned signal is zero and err is an *InferenceError; callers choose the
// fallback through a FailurePolicy.
func (rs *RiskScorer) Assess(msg *Message, sentiment SentimentScore) (signal RiskSignal, err error) {
	defer func() {
		if err != nil {
			signal = RiskSignal{}
		}
	}()
	defer recoverInference("risk", &err)

	signal.Category = RiskLow
	if msg.IsBlank() {
		return signal, nil
	}

	text := msg.Folded()

	signal.KeywordScore, signal.Factors.KeywordsFound = rs.keywordScore(text)
	signal.SentimentRisk = sentimentRisk(sentiment.Polarity)
	signal.UrgencyScore, signal.Factors.UrgencyIndicators = rs.urgencyScore(text)
	signal.ShapeScore = shapeScore(msg)
	signal.Factors.SentimentIntensity = round2(sentiment.Polarity)

	total := signal.KeywordScore*keywordWeight +
		signal.SentimentRisk*sentimentWeight +
		signal.UrgencyScore*urgencyWeight +
		signal.ShapeScore*shapeWeight
	level := math.Min(MaxRiskLevel, total)

	for _, phrase := range rs.crisis {
		if strings.Contains(text, phrase) {
			signal.Factors.CrisisPhrases = append(signal.Factors.CrisisPhrases, phrase)
		}
	}
	if len(signal.Factors.CrisisPhrases) > 0 && level < HighRiskThreshold {
		level = HighRiskThreshold
		signal.CrisisOverride = true
	}

	signal.Level = round2(level)
	signal.Category = CategoryForLevel(signal.Level)
	return signal, nil
}

// keywordScore adds weight × min(count, 3) per phrase, capped at 10.
func (rs *RiskScorer) keywordScore(text string) (float64, []string) {
	var score float64
	var found []string
	for _, kw := range rs.keywords {
		count := strings.Count(text, kw.phrase)
		if count == 0 {
			continue
		}
		found = append(found, kw.phrase)
		score += kw.weight * float64(minInt(count, maxKeywordRepeats))
	}
	return math.Min(maxKeywordScore, score), found
}

// urgencyScore adds a fixed weight per marker match, capped at 5.
func (rs *RiskScorer) urgencyScore(text string) (float64, []string) {
	var score float64
	var found []string
	for _, p := range rs.urgency {
		matches := p.re.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		found = append(found, p.name)
		score += p.weight * float64(len(matches))
	}
	return math.Min(maxUrgencyScore, score), found
}

// sentimentRisk is |polarity| × 3 for clearly negative text, else 0.
func sentimentRisk(polarity float64) float64 {
	if polarity < sentimentCutoff {
		return math.Abs(polarity) * 3
	}
	return 0
}

// shapeScore rewards terse or very long messages and heavy punctuation.
func shapeScore(msg *Message) float64 {
	var score float64
	words := msg.WordCount()
	if words < 3 {
		score += 2
	} else if words > 100 {
		score++
	}
	if strings.Count(msg.Text, "?") > 3 || strings.Count(msg.Text, "!") > 3 {
		score += 2
	}
	return math.Min(maxShapeScore, score)
}

// FailurePolicy decides the risk signal reported when scoring fails.
type FailurePolicy string

const (
	// FailCautious reports medium risk so that general support resources
	// are still surfaced.
	FailCautious FailurePolicy = "cautious"
	// FailLow reports zero risk.
	FailLow FailurePolicy = "low"
)

// ParseFailurePolicy converts a configuration value into a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, bool) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case FailCautious, "":
		return FailCautious, true
	case FailLow:
		return FailLow, true
	}
	return "", false
}

// Signal returns the placeholder signal for a failed assessment.
func (p FailurePolicy) Signal() RiskSignal {
	if p == FailLow {
		return RiskSignal{Level: 0, Category: RiskLow, Degraded: true}
	}
	return RiskSignal{Level: MediumRiskThreshold, Category: RiskMedium, Degraded: true}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
