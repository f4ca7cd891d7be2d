package mindsight

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel tags returned by the intent classifier instead of a catalog tag.
const (
	NoMatchTag = "no_match"
	ErrorTag   = "error"
)

// Fixed replies for the sentinel tags and for tags missing from the catalog.
const (
	NoMatchResponse    = "I'm sorry, I don't understand. Can you rephrase?"
	ErrorResponse      = "I encountered an error processing your request. Please try again."
	UnknownTagResponse = "Something went wrong!"
)

// An Intent is a named category of user utterance with example patterns and
// candidate replies.
type Intent struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Patterns  []string `json:"patterns" yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
}

// catalogFile is the on-disk shape. Intents is a pointer so a missing key can
// be told apart from an empty list.
type catalogFile struct {
	Intents *[]Intent `json:"intents" yaml:"intents"`
}

// A Catalog is a validated, immutable set of intents.
type Catalog struct {
	intents []Intent
	byTag   map[string]int
}

// NewCatalog validates intents and builds a Catalog from them.
func NewCatalog(intents []Intent) (*Catalog, error) {
	c := &Catalog{
		intents: make([]Intent, 0, len(intents)),
		byTag:   make(map[string]int, len(intents)),
	}
	if len(intents) == 0 {
		return nil, fmt.Errorf("%w: no intents defined", ErrInvalidCatalog)
	}
	for i, in := range intents {
		tag := strings.TrimSpace(in.Tag)
		switch {
		case tag == "":
			return nil, fmt.Errorf("%w: intent #%d has an empty tag", ErrInvalidCatalog, i)
		case tag == NoMatchTag || tag == ErrorTag:
			return nil, fmt.Errorf("%w: tag %q is reserved", ErrInvalidCatalog, tag)
		case len(nonBlank(in.Patterns)) == 0:
			return nil, fmt.Errorf("%w: no patterns found for intent %q", ErrInvalidCatalog, tag)
		case len(nonBlank(in.Responses)) == 0:
			return nil, fmt.Errorf("%w: no responses found for intent %q", ErrInvalidCatalog, tag)
		}
		if _, dup := c.byTag[tag]; dup {
			return nil, fmt.Errorf("%w: duplicate tag %q", ErrInvalidCatalog, tag)
		}
		c.byTag[tag] = len(c.intents)
		c.intents = append(c.intents, Intent{
			Tag:       tag,
			Patterns:  nonBlank(in.Patterns),
			Responses: nonBlank(in.Responses),
		})
	}
	return c, nil
}

// ParseCatalog decodes a catalog document. format is "json" or "yaml".
func ParseCatalog(data []byte, format string) (*Catalog, error) {
	var file catalogFile
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &file)
	case "json":
		err = json.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q", ErrInvalidCatalog, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if file.Intents == nil {
		return nil, fmt.Errorf("%w: 'intents' key not found", ErrInvalidCatalog)
	}
	return NewCatalog(*file.Intents)
}

// LoadCatalog reads a JSON or YAML catalog from path, picking the decoder by
// file extension.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigurationError(path, fmt.Errorf("%w: %v", ErrInvalidCatalog, err))
	}
	c, err := ParseCatalog(data, catalogFormat(path))
	if err != nil {
		return nil, NewConfigurationError(path, err)
	}
	return c, nil
}

// LoadCatalogFS reads a catalog named name from filesys.
func LoadCatalogFS(filesys fs.FS, name string) (*Catalog, error) {
	data, err := fs.ReadFile(filesys, name)
	if err != nil {
		return nil, NewConfigurationError(name, fmt.Errorf("%w: %v", ErrInvalidCatalog, err))
	}
	c, err := ParseCatalog(data, catalogFormat(name))
	if err != nil {
		return nil, NewConfigurationError(name, err)
	}
	return c, nil
}

func catalogFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Intents returns a copy of the catalog's intents in file order.
func (c *Catalog) Intents() []Intent {
	out := make([]Intent, len(c.intents))
	for i, in := range c.intents {
		out[i] = Intent{
			Tag:       in.Tag,
			Patterns:  append([]string(nil), in.Patterns...),
			Responses: append([]string(nil), in.Responses...),
		}
	}
	return out
}

// Tags returns the catalog tags in file order.
func (c *Catalog) Tags() []string {
	tags := make([]string, len(c.intents))
	for i, in := range c.intents {
		tags[i] = in.Tag
	}
	return tags
}

// Has reports whether tag is defined in the catalog.
func (c *Catalog) Has(tag string) bool {
	_, ok := c.byTag[tag]
	return ok
}

// Len returns the number of intents.
func (c *Catalog) Len() int {
	return len(c.intents)
}

// Response picks a reply for tag. pick(n) must return a value in [0, n); a nil
// pick draws uniformly at random.
func (c *Catalog) Response(tag string, pick func(n int) int) string {
	switch tag {
	case NoMatchTag:
		return NoMatchResponse
	case ErrorTag:
		return ErrorResponse
	}
	idx, ok := c.byTag[tag]
	if !ok {
		return UnknownTagResponse
	}
	if pick == nil {
		pick = rand.IntN
	}
	responses := c.intents[idx].Responses
	return responses[pick(len(responses))]
}

// Responses returns a copy of the candidate replies for tag.
func (c *Catalog) Responses(tag string) []string {
	idx, ok := c.byTag[tag]
	if !ok {
		return nil
	}
	return append([]string(nil), c.intents[idx].Responses...)
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
