package mindsight

import (
	"math"
	"strings"
	"unicode/utf8"
)

// SentimentAnalyzer performs lexicon-based sentiment analysis
type SentimentAnalyzer struct {
	lexicon *SentimentLexicon
	config  SentimentConfig
}

// SentimentConfig configures sentiment analysis
type SentimentConfig struct {
	NegationWindow int     // Words to check for negation
	ModifierWindow int     // Words to check for intensifiers and diminishers
	NegationFactor float64 // Multiplier applied to a negated word's polarity
	MinTextLength  int     // Shorter trimmed text is neutral without analysis
	MixedRatio     float64 // Positive/negative strength ratio above which a message is mixed
}

// DefaultSentimentConfig returns standard configuration
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		NegationWindow: 3,
		ModifierWindow: 2,
		NegationFactor: -0.5,
		MinTextLength:  3,
		MixedRatio:     0.7,
	}
}

// NewSentimentAnalyzer creates a sentiment analyzer over the built-in lexicon
func NewSentimentAnalyzer(config SentimentConfig) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		lexicon: LoadSentimentLexicon(),
		config:  config,
	}
}

// NewSentimentAnalyzerWithExternal creates a sentiment analyzer with external lexicon support
func NewSentimentAnalyzerWithExternal(config SentimentConfig, externalLexiconPath string) (*SentimentAnalyzer, error) {
	lexicon, err := LoadSentimentLexiconWithExternal(externalLexiconPath)
	if err != nil {
		return nil, err
	}

	return &SentimentAnalyzer{
		lexicon: lexicon,
		config:  config,
	}, nil
}

// NewSentimentAnalyzerWithLexicon creates a sentiment analyzer over lexicon
func NewSentimentAnalyzerWithLexicon(config SentimentConfig, lexicon *SentimentLexicon) *SentimentAnalyzer {
	return &SentimentAnalyzer{lexicon: lexicon, config: config}
}

// Lexicon returns the analyzer's lexicon
func (sa *SentimentAnalyzer) Lexicon() *SentimentLexicon {
	return sa.lexicon
}

// AnalyzeSentimentIntensity returns the polarity of text in [-1, 1].
func (sa *SentimentAnalyzer) AnalyzeSentimentIntensity(text string) float64 {
	score, err := sa.AnalyzeText(text)
	if err != nil {
		return 0
	}
	return score.Polarity
}

// AnalyzeText parses and scores text.
func (sa *SentimentAnalyzer) AnalyzeText(text string) (SentimentScore, error) {
	msg, err := NewMessage(text)
	if err != nil {
		return neutralScore(), &InferenceError{Stage: "sentiment", Err: err}
	}
	return sa.Analyze(msg)
}

// Analyze scores a parsed message. A failure returns a neutral score
// together with an *InferenceError.
func (sa *SentimentAnalyzer) Analyze(msg *Message) (score SentimentScore, err error) {
	defer func() {
		if err != nil {
			score = neutralScore()
		}
	}()
	defer recoverInference("sentiment", &err)

	if utf8.RuneCountInString(strings.TrimSpace(msg.Text)) < sa.config.MinTextLength {
		return neutralScore(), nil
	}

	var contribs []WordContribution
	var features SentimentFeatures

	// Negation and modifier scope stops at sentence boundaries
	for _, sent := range msg.Sentences() {
		tokens := msg.sentenceTokens(sent)
		for i, token := range tokens {
			entry, ok := sa.lexicon.Lookup(token.Text)
			if !ok || entry.Sentiment == 0 {
				continue
			}

			modified, subjectivity, factor := sa.applyModifiers(entry, msg, tokens, i)
			if factor != 0 {
				features.Intensifiers = append(features.Intensifiers, IntensifierEffect{
					Word:     token.Text,
					Position: token.Start,
					Factor:   factor,
				})
			}

			if sa.checkNegation(msg, tokens, i) {
				modified *= sa.config.NegationFactor
				features.Negations = append(features.Negations, NegationScope{
					Position: token.Start,
					Scope:    sa.config.NegationWindow,
				})
			}

			contrib := WordContribution{
				Word:          token.Text,
				Position:      token.Start,
				BaseScore:     entry.Sentiment,
				AdjustedScore: modified,
				Subjectivity:  subjectivity,
			}
			contribs = append(contribs, contrib)
			if modified > 0 {
				features.PositiveWords = append(features.PositiveWords, contrib)
			} else if modified < 0 {
				features.NegativeWords = append(features.NegativeWords, contrib)
			}
		}
	}

	if len(contribs) == 0 {
		return neutralScore(), nil
	}

	var (
		polaritySum     float64
		subjectivitySum float64
		magnitudeSum    float64
	)
	for _, c := range contribs {
		polaritySum += c.AdjustedScore
		subjectivitySum += c.Subjectivity
		magnitudeSum += math.Abs(c.AdjustedScore)
	}
	n := float64(len(contribs))

	score = SentimentScore{
		Polarity:     clamp(polaritySum/n, -1, 1),
		Subjectivity: clamp(subjectivitySum/n, 0, 1),
		Intensity:    clamp(magnitudeSum/n, 0, 1),
		Features:     features,
	}
	if len(msg.tokens) > 0 {
		score.Confidence = math.Min(1.0, 2*n/float64(len(msg.tokens)))
	}
	score.Dominant = sa.classify(score)

	return score, nil
}

// checkNegation detects negation in the preceding context
func (sa *SentimentAnalyzer) checkNegation(msg *Message, tokens []*Token, position int) bool {
	start := maxInt(0, position-sa.config.NegationWindow)

	for i := position - 1; i >= start; i-- {
		// A clause boundary between negation and target ends the scope
		if isClauseBoundary(msg.between(tokens[i], tokens[i+1])) || isClauseWord(tokens[i].Text) {
			return false
		}
		if sa.isNegationAt(tokens, i) {
			return true
		}
	}
	return false
}

// isNegationAt reports whether tokens[i] negates. Contractions such as
// "don't" tokenize as ["don", "t"].
func (sa *SentimentAnalyzer) isNegationAt(tokens []*Token, i int) bool {
	if sa.lexicon.IsNegation(tokens[i].Text) {
		return true
	}
	return tokens[i].Text == "t" && i > 0 && strings.HasSuffix(tokens[i-1].Text, "n")
}

// applyModifiers adjusts polarity and subjectivity for a preceding
// intensifier or diminisher. It returns the applied factor, 0 if none.
func (sa *SentimentAnalyzer) applyModifiers(entry LexiconEntry, msg *Message, tokens []*Token, position int) (float64, float64, float64) {
	start := maxInt(0, position-sa.config.ModifierWindow)

	for i := position - 1; i >= start; i-- {
		if isClauseBoundary(msg.between(tokens[i], tokens[i+1])) {
			break
		}
		if modifier := sa.lexicon.GetModifierStrength(tokens[i].Text); modifier != 0 {
			return entry.Sentiment * (1 + modifier), clamp(entry.Subjectivity*(1+modifier), 0, 1), modifier
		}
	}
	return entry.Sentiment, entry.Subjectivity, 0
}

// classify determines the sentiment class, flagging messages whose positive
// and negative strength are close as mixed.
func (sa *SentimentAnalyzer) classify(score SentimentScore) SentimentClass {
	if len(score.Features.PositiveWords) > 0 && len(score.Features.NegativeWords) > 0 {
		posStrength := 0.0
		negStrength := 0.0
		for _, word := range score.Features.PositiveWords {
			posStrength += math.Abs(word.AdjustedScore)
		}
		for _, word := range score.Features.NegativeWords {
			negStrength += math.Abs(word.AdjustedScore)
		}
		ratio := math.Min(posStrength, negStrength) / math.Max(posStrength, negStrength)
		if ratio > sa.config.MixedRatio {
			return Mixed
		}
	}
	return classifyPolarity(score.Polarity, score.Intensity)
}

// Helper functions

func neutralScore() SentimentScore {
	return SentimentScore{Dominant: Neutral}
}

// isClauseBoundary checks whether the text between two tokens closes a clause
func isClauseBoundary(gap string) bool {
	return strings.ContainsAny(gap, ",;:.!?")
}

// isClauseWord checks if a token is a conjunction that starts a new clause
func isClauseWord(word string) bool {
	switch word {
	case "but", "however", "although", "though":
		return true
	}
	return false
}

// classifyPolarity determines the sentiment class from polarity and intensity
func classifyPolarity(polarity, intensity float64) SentimentClass {
	if math.Abs(polarity) < 0.1 {
		return Neutral
	}

	if polarity > 0 {
		if intensity > 0.6 && polarity > 0.5 {
			return StrongPositive
		}
		return Positive
	}

	if intensity > 0.6 && polarity < -0.5 {
		return StrongNegative
	}
	return Negative
}

// maxInt returns the maximum of two integers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
