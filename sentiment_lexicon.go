package mindsight

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// SentimentLexicon manages sentiment word lists
type SentimentLexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
	mutex     sync.RWMutex
}

// LexiconEntry represents a word's sentiment information
type LexiconEntry struct {
	Word         string
	Sentiment    float64 // -1 to 1
	Subjectivity float64 // 0 to 1
	Domain       string  // Domain specificity
}

// ExternalLexicon represents the JSON structure for external lexicon files
type ExternalLexicon struct {
	Languages map[string]LanguageLexicon `json:"languages"`
}

// LanguageLexicon contains all word categories for a specific language
type LanguageLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
}

// WordEntry represents a sentiment word in JSON format
type WordEntry struct {
	Word         string  `json:"word"`
	Sentiment    float64 `json:"sentiment"`
	Subjectivity float64 `json:"subjectivity"`
	Domain       string  `json:"domain,omitempty"`
}

// ModifierEntry represents a modifier word in JSON format
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

// Default strengths for modifiers listed without a factor.
const (
	defaultIntensifier = 0.3
	defaultDiminisher  = -0.3
)

// LoadSentimentLexicon loads the built-in English lexicon
func LoadSentimentLexicon() *SentimentLexicon {
	lexicon := &SentimentLexicon{}
	lexicon.loadEnglishLexicon()
	lexicon.loadEnglishModifiers()
	lexicon.loadEnglishNegations()
	return lexicon
}

// LoadSentimentLexiconWithExternal loads lexicon with optional external file support
func LoadSentimentLexiconWithExternal(externalPath string) (*SentimentLexicon, error) {
	lexicon := LoadSentimentLexicon()

	if externalPath != "" {
		if err := lexicon.LoadExternalLexicon(externalPath, English); err != nil {
			return nil, fmt.Errorf("failed to load external lexicon: %w", err)
		}
	}

	return lexicon, nil
}

// LoadExternalLexicon loads and merges external lexicon data
func (sl *SentimentLexicon) LoadExternalLexicon(filepath string, lang Language) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("error reading lexicon file: %w", err)
	}
	return sl.MergeJSON(data, lang)
}

// MergeJSON merges an external lexicon document into the lexicon.
func (sl *SentimentLexicon) MergeJSON(data []byte, lang Language) error {
	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	if langData, exists := external.Languages[languageToJSONKey(lang)]; exists {
		sl.mergeLanguageData(langData)
	}
	return nil
}

// languageToJSONKey converts Language constants to JSON keys
func languageToJSONKey(lang Language) string {
	switch lang {
	case English:
		return "english"
	default:
		return strings.ToLower(string(lang))
	}
}

// mergeLanguageData merges external language data with existing lexicon
func (sl *SentimentLexicon) mergeLanguageData(data LanguageLexicon) {
	for _, entry := range data.Words {
		sl.words[strings.ToLower(entry.Word)] = LexiconEntry{
			Word:         entry.Word,
			Sentiment:    clamp(entry.Sentiment, -1, 1),
			Subjectivity: clamp(entry.Subjectivity, 0, 1),
			Domain:       entry.Domain,
		}
	}

	for _, modifier := range data.Modifiers {
		sl.modifiers[strings.ToLower(modifier.Word)] = modifier.Factor
	}
	for _, intensifier := range data.Intensifiers {
		sl.modifiers[strings.ToLower(intensifier)] = defaultIntensifier
	}
	for _, diminisher := range data.Diminishers {
		sl.modifiers[strings.ToLower(diminisher)] = defaultDiminisher
	}

	for _, negation := range data.Negations {
		sl.negations[strings.ToLower(negation)] = true
	}
}

func general(word string, sentiment, subjectivity float64) LexiconEntry {
	return LexiconEntry{Word: word, Sentiment: sentiment, Subjectivity: subjectivity, Domain: "general"}
}

func clinical(word string, sentiment, subjectivity float64) LexiconEntry {
	return LexiconEntry{Word: word, Sentiment: sentiment, Subjectivity: subjectivity, Domain: "mental_health"}
}

// loadEnglishLexicon loads English sentiment words
func (sl *SentimentLexicon) loadEnglishLexicon() {
	list := []LexiconEntry{
		// Strong positive words
		general("wonderful", 1.0, 1.0),
		general("excellent", 1.0, 1.0),
		general("awesome", 1.0, 1.0),
		general("perfect", 1.0, 1.0),
		general("best", 1.0, 0.3),
		general("beautiful", 0.85, 1.0),
		general("great", 0.8, 0.75),
		general("happy", 0.8, 1.0),
		general("joy", 0.8, 0.7),
		general("joyful", 0.8, 0.9),
		general("proud", 0.8, 1.0),

		// Moderate positive words
		general("good", 0.7, 0.6),
		general("loved", 0.7, 0.8),
		general("grateful", 0.7, 0.8),
		general("nice", 0.6, 1.0),
		general("amazing", 0.6, 0.9),
		general("cheerful", 0.6, 0.8),
		general("hopeful", 0.6, 0.8),
		general("optimistic", 0.6, 0.8),
		general("thankful", 0.6, 0.8),
		general("love", 0.5, 0.6),
		general("glad", 0.5, 1.0),
		general("better", 0.5, 0.5),
		general("okay", 0.5, 0.5),
		general("ok", 0.5, 0.5),
		general("peaceful", 0.5, 0.7),
		general("relieved", 0.5, 0.7),
		general("confident", 0.5, 0.7),
		general("motivated", 0.5, 0.7),
		general("safe", 0.5, 0.5),
		general("supported", 0.5, 0.6),

		// Mild positive words
		general("fantastic", 0.4, 0.9),
		general("fine", 0.4, 0.5),
		general("relaxed", 0.4, 0.6),
		general("excited", 0.4, 0.8),
		general("content", 0.4, 0.6),
		general("enjoy", 0.4, 0.5),
		general("improving", 0.4, 0.5),
		general("strong", 0.4, 0.7),
		general("calm", 0.3, 0.6),
		general("positive", 0.3, 0.5),
		general("fun", 0.3, 0.2),
		general("thanks", 0.2, 0.2),
		general("thank", 0.2, 0.2),

		// Strong negative words
		general("terrible", -1.0, 1.0),
		general("awful", -1.0, 1.0),
		general("horrible", -1.0, 1.0),
		general("worst", -1.0, 1.0),
		clinical("suicidal", -1.0, 1.0),
		general("miserable", -0.9, 1.0),
		clinical("terrified", -0.9, 1.0),
		clinical("hopeless", -0.8, 0.9),
		clinical("worthless", -0.8, 0.9),
		general("hate", -0.8, 0.9),
		general("kill", -0.8, 0.6),
		clinical("suicide", -0.8, 0.7),

		// Moderate negative words
		general("bad", -0.7, 0.67),
		clinical("depressed", -0.7, 0.8),
		clinical("helpless", -0.7, 0.9),
		clinical("desperate", -0.7, 0.9),
		general("painful", -0.7, 0.8),
		general("frightened", -0.7, 0.9),
		general("sick", -0.7, 0.8),
		general("die", -0.7, 0.6),
		general("unhappy", -0.6, 0.9),
		clinical("lonely", -0.6, 0.8),
		clinical("scared", -0.6, 0.9),
		clinical("afraid", -0.6, 0.9),
		clinical("panic", -0.6, 0.8),
		clinical("overwhelmed", -0.6, 0.8),
		clinical("exhausted", -0.6, 0.8),
		clinical("ashamed", -0.6, 0.8),
		clinical("trapped", -0.6, 0.7),
		general("angry", -0.6, 0.9),
		general("mad", -0.6, 1.0),
		general("hurt", -0.6, 0.8),
		general("pain", -0.6, 0.7),
		general("useless", -0.6, 0.8),
		general("failure", -0.6, 0.7),
		general("frustrated", -0.6, 0.8),
		general("worse", -0.6, 0.6),
		general("fear", -0.6, 0.7),
		general("dead", -0.6, 0.5),
		general("death", -0.6, 0.5),

		// Mild negative words
		general("sad", -0.5, 1.0),
		clinical("anxious", -0.5, 0.8),
		clinical("anxiety", -0.5, 0.7),
		clinical("worried", -0.5, 0.8),
		clinical("stressed", -0.5, 0.8),
		clinical("crying", -0.5, 0.7),
		clinical("cry", -0.5, 0.7),
		clinical("guilty", -0.5, 0.8),
		clinical("struggling", -0.5, 0.7),
		general("upset", -0.5, 0.8),
		general("difficult", -0.5, 0.8),
		general("broken", -0.5, 0.6),
		clinical("alone", -0.4, 0.6),
		clinical("worry", -0.4, 0.7),
		clinical("stress", -0.4, 0.6),
		clinical("tired", -0.4, 0.7),
		clinical("nervous", -0.4, 0.8),
		clinical("empty", -0.4, 0.5),
		clinical("numb", -0.4, 0.6),
		clinical("struggle", -0.4, 0.6),
		general("weak", -0.4, 0.6),
		general("hard", -0.3, 0.5),
		general("confused", -0.3, 0.6),

		// Context-dependent words
		general("down", -0.16, 0.29),
	}

	sl.words = make(map[string]LexiconEntry, len(list))
	for _, e := range list {
		sl.words[e.Word] = e
	}
}

// loadEnglishModifiers loads English modifiers
func (sl *SentimentLexicon) loadEnglishModifiers() {
	sl.modifiers = map[string]float64{
		// Intensifiers (increase by factor)
		"very":       0.3,
		"really":     0.3,
		"so":         0.2,
		"too":        0.2,
		"pretty":     0.2,
		"super":      0.3,
		"totally":    0.4,
		"completely": 0.4,
		"deeply":     0.4,
		"extremely":  0.5,
		"incredibly": 0.5,
		"absolutely": 0.5,

		// Diminishers (decrease by factor)
		"slightly": -0.3,
		"somewhat": -0.3,
		"little":   -0.3,
		"bit":      -0.3,
		"kinda":    -0.3,
		"rather":   -0.2,
		"fairly":   -0.2,
		"barely":   -0.5,
	}
}

// loadEnglishNegations loads English negation words
func (sl *SentimentLexicon) loadEnglishNegations() {
	sl.negations = map[string]bool{
		"not": true, "no": true, "never": true, "nothing": true,
		"nobody": true, "none": true, "neither": true, "nor": true,
		"cannot": true, "without": true, "hardly": true,
		"cant": true, "dont": true, "doesnt": true, "didnt": true,
		"isnt": true, "wasnt": true, "arent": true, "werent": true,
		"wont": true, "wouldnt": true, "couldnt": true, "shouldnt": true,
		"havent": true, "hasnt": true, "hadnt": true, "aint": true,
	}
}

// Lookup returns the entry for word.
func (sl *SentimentLexicon) Lookup(word string) (LexiconEntry, bool) {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	entry, exists := sl.words[strings.ToLower(word)]
	return entry, exists
}

// GetSentiment returns sentiment score for a word
func (sl *SentimentLexicon) GetSentiment(word string) float64 {
	entry, _ := sl.Lookup(word)
	return entry.Sentiment
}

// IsNegation checks if word is a negation
func (sl *SentimentLexicon) IsNegation(word string) bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.negations[strings.ToLower(word)]
}

// GetModifierStrength returns modifier strength
func (sl *SentimentLexicon) GetModifierStrength(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.modifiers[strings.ToLower(word)]
}

// AddCustomWord allows adding domain-specific words
func (sl *SentimentLexicon) AddCustomWord(word string, sentiment, subjectivity float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.words[strings.ToLower(word)] = LexiconEntry{
		Word:         word,
		Sentiment:    clamp(sentiment, -1, 1),
		Subjectivity: clamp(subjectivity, 0, 1),
		Domain:       "custom",
	}
}

// AddCustomModifier adds a custom modifier
func (sl *SentimentLexicon) AddCustomModifier(word string, strength float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.modifiers[strings.ToLower(word)] = strength
}

// AddCustomNegation adds a custom negation word
func (sl *SentimentLexicon) AddCustomNegation(word string) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.negations[strings.ToLower(word)] = true
}

// GetLexiconSize returns the number of words in the lexicon
func (sl *SentimentLexicon) GetLexiconSize() int {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return len(sl.words)
}

// HasWord checks if a word exists in the lexicon
func (sl *SentimentLexicon) HasWord(word string) bool {
	_, exists := sl.Lookup(word)
	return exists
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
