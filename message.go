package mindsight

import (
	"context"
	"strings"
	"sync"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A MessageOpt represents a setting that changes the message parsing process.
//
// For example, it might disable sentence segmentation:
//
//	msg, err := mindsight.NewMessage("...", mindsight.WithSegmentation(false))
type MessageOpt func(msg *Message, opts *MessageOpts)

// MessageOpts controls the Message creation process:
type MessageOpts struct {
	Segment   bool            // If true, split the message into sentences
	Tokenizer *wordTokenizer  // Tokenizer to use
	Context   context.Context // Context for cancellation
}

// UsingTokenizer specifies the tokenizer to use.
func UsingTokenizer(tok *wordTokenizer) MessageOpt {
	return func(msg *Message, opts *MessageOpts) {
		opts.Tokenizer = tok
	}
}

// WithSegmentation can enable (the default) or disable sentence segmentation.
func WithSegmentation(include bool) MessageOpt {
	return func(msg *Message, opts *MessageOpts) {
		opts.Segment = include
	}
}

// WithContext sets the context for message parsing
func WithContext(ctx context.Context) MessageOpt {
	return func(msg *Message, opts *MessageOpts) {
		opts.Context = ctx
	}
}

// A Message is a single parsed user utterance shared by every scorer.
type Message struct {
	Raw  string // The text as received.
	Text string // Sanitized text; token and sentence offsets refer to it.

	folded    string
	sentences []Sentence
	tokens    []*Token
}

// Tokens returns the message's tokens.
func (msg *Message) Tokens() []Token {
	tokens := make([]Token, 0, len(msg.tokens))
	for _, tok := range msg.tokens {
		tokens = append(tokens, *tok)
	}
	return tokens
}

// Words returns the token texts in order.
func (msg *Message) Words() []string {
	words := make([]string, len(msg.tokens))
	for i, tok := range msg.tokens {
		words[i] = tok.Text
	}
	return words
}

// Sentences returns the message's sentences.
func (msg *Message) Sentences() []Sentence {
	return msg.sentences
}

// Normalized returns the tokens joined by single spaces.
func (msg *Message) Normalized() string {
	return strings.Join(msg.Words(), " ")
}

// Folded returns the lowercased text with apostrophes removed, so that
// "can't cope" and "cant cope" read the same.
func (msg *Message) Folded() string {
	return msg.folded
}

// WordCount returns the number of whitespace-separated words.
func (msg *Message) WordCount() int {
	return len(strings.Fields(msg.Text))
}

// IsBlank reports whether the message has no non-space characters.
func (msg *Message) IsBlank() bool {
	return strings.TrimSpace(msg.Text) == ""
}

var defaultOpts = MessageOpts{
	Segment: true,
	Context: context.Background(),
}

var (
	segmenterOnce sync.Once
	segmenter     *sentences.DefaultSentenceTokenizer
	segmenterErr  error
)

func loadSegmenter() (*sentences.DefaultSentenceTokenizer, error) {
	segmenterOnce.Do(func() {
		segmenter, segmenterErr = english.NewSentenceTokenizer(nil)
	})
	return segmenter, segmenterErr
}

var apostrophes = strings.NewReplacer("'", "", "’", "")

// NewMessage parses text according to the user-specified options.
func NewMessage(text string, opts ...MessageOpt) (*Message, error) {
	msg := Message{Raw: text}

	base := defaultOpts
	for _, applyOpt := range opts {
		applyOpt(&msg, &base)
	}
	if base.Tokenizer == nil {
		base.Tokenizer = defaultTokenizer
	}

	// Check for cancellation
	select {
	case <-base.Context.Done():
		return nil, base.Context.Err()
	default:
	}

	msg.Text = base.Tokenizer.Sanitize(text)
	msg.folded = apostrophes.Replace(strings.ToLower(msg.Text))
	msg.tokens = base.Tokenizer.tokenizeClean(msg.Text)

	if msg.IsBlank() {
		return &msg, nil
	}

	if base.Segment {
		seg, err := loadSegmenter()
		if err != nil {
			return nil, err
		}
		msg.sentences = locateSentences(msg.Text, seg.Tokenize(msg.Text))
	}
	if len(msg.sentences) == 0 {
		msg.sentences = []Sentence{{Text: msg.Text, Start: 0, End: len(msg.Text)}}
	}

	return &msg, nil
}

// locateSentences anchors segmenter output to byte offsets in text.
func locateSentences(text string, found []*sentences.Sentence) []Sentence {
	out := make([]Sentence, 0, len(found))
	cursor := 0
	for _, s := range found {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		idx := strings.Index(text[cursor:], trimmed)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(trimmed)
		out = append(out, Sentence{Text: trimmed, Start: start, End: end})
		cursor = end
	}
	return out
}

// sentenceTokens returns the tokens that fall inside sent.
func (msg *Message) sentenceTokens(sent Sentence) []*Token {
	var toks []*Token
	for _, tok := range msg.tokens {
		if tok.Start >= sent.Start && tok.End <= sent.End {
			toks = append(toks, tok)
		}
	}
	return toks
}

// between returns the raw text separating two tokens.
func (msg *Message) between(a, b *Token) string {
	if a.End > b.Start {
		return ""
	}
	return msg.Text[a.End:b.Start]
}
