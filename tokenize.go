package mindsight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TokenTester reports whether a rune belongs inside a token.
type TokenTester func(rune) bool

// wordTokenizer splits text into lowercase word tokens. Every rune that is
// not a word character separates tokens.
type wordTokenizer struct {
	sanitizer *strings.Replacer
	form      norm.Form
	isWord    TokenTester
}

type TokenizerOptFunc func(*wordTokenizer)

// Use the provided sanitizer.
func UsingSanitizer(x *strings.Replacer) TokenizerOptFunc {
	return func(tokenizer *wordTokenizer) {
		tokenizer.sanitizer = x
	}
}

// UsingNormalForm sets the Unicode normalization form applied before splitting.
func UsingNormalForm(x norm.Form) TokenizerOptFunc {
	return func(tokenizer *wordTokenizer) {
		tokenizer.form = x
	}
}

// UsingWordTester replaces the test for runes that belong inside a token.
func UsingWordTester(x TokenTester) TokenizerOptFunc {
	return func(tokenizer *wordTokenizer) {
		tokenizer.isWord = x
	}
}

// Constructor for default wordTokenizer
func NewWordTokenizer(opts ...TokenizerOptFunc) *wordTokenizer {
	tok := new(wordTokenizer)

	// Set default parameters
	tok.sanitizer = sanitizer
	tok.form = norm.NFKC
	tok.isWord = isWordRune

	for _, applyOpt := range opts {
		applyOpt(tok)
	}

	return tok
}

// Sanitize applies quote folding and Unicode normalization. Token offsets
// refer to the string returned here.
func (t *wordTokenizer) Sanitize(text string) string {
	return t.form.String(t.sanitizer.Replace(text))
}

// Tokenize splits text into a slice of lowercase word tokens.
func (t *wordTokenizer) Tokenize(text string) []*Token {
	return t.tokenizeClean(t.Sanitize(text))
}

func (t *wordTokenizer) tokenizeClean(clean string) []*Token {
	var tokens []*Token

	start := -1
	for index := 0; index < len(clean); {
		r, size := utf8.DecodeRuneInString(clean[index:])
		if t.isWord(r) {
			if start < 0 {
				start = index
			}
		} else if start >= 0 {
			tokens = addToken(clean, start, index, tokens)
			start = -1
		}
		index += size
	}
	if start >= 0 {
		tokens = addToken(clean, start, len(clean), tokens)
	}

	return tokens
}

func addToken(clean string, start, end int, toks []*Token) []*Token {
	return append(toks, &Token{
		Text:  strings.ToLower(clean[start:end]),
		Start: start,
		End:   end,
	})
}

// isWordRune matches the \w class extended to Unicode letters and digits.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var defaultTokenizer = NewWordTokenizer()

// Tokenize splits text into lowercase word tokens using the default tokenizer.
func Tokenize(text string) []string {
	toks := defaultTokenizer.Tokenize(text)
	words := make([]string, len(toks))
	for i, tok := range toks {
		words[i] = tok.Text
	}
	return words
}

// Normalize returns the tokens of text joined by single spaces.
func Normalize(text string) string {
	return strings.Join(Tokenize(text), " ")
}

var sanitizer = strings.NewReplacer(
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"&rsquo;", "'")
