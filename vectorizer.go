package mindsight

import (
	"math"
	"sort"
	"strings"

	"github.com/bbalet/stopwords"
)

// vectorizer maps normalized text onto TF-IDF weighted unigram and bigram
// features. It is read-only once fitted.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	stopWords  string // ISO 639-1 code, "" keeps every token
}

// isStopWord reports whether word is a stop word in langCode.
func isStopWord(word, langCode string) bool {
	if langCode == "" {
		return false
	}
	// The stopwords library removes stop words rather than listing them, so a
	// word that cleans to nothing is one.
	return strings.TrimSpace(stopwords.CleanString(word, langCode, false)) == ""
}

// terms returns the unigrams followed by the adjacent bigrams of text.
func terms(text, stopLang string) []string {
	words := Tokenize(text)
	if stopLang != "" {
		kept := words[:0]
		for _, w := range words {
			if !isStopWord(w, stopLang) {
				kept = append(kept, w)
			}
		}
		words = kept
	}

	out := make([]string, 0, 2*len(words))
	out = append(out, words...)
	for i := 1; i < len(words); i++ {
		out = append(out, words[i-1]+" "+words[i])
	}
	return out
}

// fitVectorizer learns the vocabulary and smoothed idf weights of docs.
func fitVectorizer(docs []string, stopLang string) *vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range terms(doc, stopLang) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	v := &vectorizer{
		vocabulary: make(map[string]int, len(vocab)),
		idf:        make([]float64, len(vocab)),
		stopWords:  stopLang,
	}
	n := float64(len(docs))
	for i, term := range vocab {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// size returns the number of features.
func (v *vectorizer) size() int {
	return len(v.idf)
}

// transform returns the L2-normalized TF-IDF vector of text. Terms outside
// the fitted vocabulary are ignored.
func (v *vectorizer) transform(text string) []float64 {
	vec := make([]float64, v.size())
	for _, term := range terms(text, v.stopWords) {
		if idx, ok := v.vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i, tf := range vec {
		if tf == 0 {
			continue
		}
		vec[i] = tf * v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
