package mindsight

// A Token represents an individual word of a message.
type Token struct {
	Text  string // The token's lowercased content.
	Start int    // Start position in the sanitized text
	End   int    // End position in the sanitized text
}

// A Sentence represents a segmented portion of a message.
type Sentence struct {
	Text  string // The sentence's text.
	Start int    // Start position in the sanitized text
	End   int    // End position in the sanitized text
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// Language represents supported languages
type Language string

const (
	English Language = "en"
)

// SentimentScore represents the sentiment analysis results
type SentimentScore struct {
	// Primary sentiment metrics
	Polarity     float64 // -1.0 (negative) to 1.0 (positive)
	Subjectivity float64 // 0.0 (objective) to 1.0 (subjective)
	Intensity    float64 // 0.0 (neutral) to 1.0 (strong)
	Confidence   float64 // 0.0 to 1.0 lexicon coverage

	Dominant SentimentClass

	// Contributing factors
	Features SentimentFeatures
}

// SentimentClass represents sentiment categories
type SentimentClass string

const (
	StrongPositive SentimentClass = "strong_positive"
	Positive       SentimentClass = "positive"
	Neutral        SentimentClass = "neutral"
	Negative       SentimentClass = "negative"
	StrongNegative SentimentClass = "strong_negative"
	Mixed          SentimentClass = "mixed" // For conflicting sentiments
)

// SentimentFeatures tracks contributing factors
type SentimentFeatures struct {
	PositiveWords []WordContribution
	NegativeWords []WordContribution
	Negations     []NegationScope
	Intensifiers  []IntensifierEffect
}

// WordContribution represents a word's sentiment contribution
type WordContribution struct {
	Word          string
	Position      int
	BaseScore     float64
	AdjustedScore float64
	Subjectivity  float64
}

// NegationScope represents the scope of a negation
type NegationScope struct {
	Position int
	Scope    int
}

// IntensifierEffect represents the effect of an intensifier
type IntensifierEffect struct {
	Word     string
	Position int
	Factor   float64
}

// RiskCategory is the three-tier bucket derived from a risk level.
type RiskCategory string

const (
	RiskLow    RiskCategory = "low"
	RiskMedium RiskCategory = "medium"
	RiskHigh   RiskCategory = "high"
)

// Risk level thresholds shared by the risk scorer and the recommendation
// selector.
const (
	HighRiskThreshold   = 7.0
	MediumRiskThreshold = 4.0
	MaxRiskLevel        = 10.0
)

// CategoryForLevel maps a 0-10 risk level onto its category.
func CategoryForLevel(level float64) RiskCategory {
	switch {
	case level >= HighRiskThreshold:
		return RiskHigh
	case level >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
