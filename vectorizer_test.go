package mindsight

import (
	"math"
	"reflect"
	"testing"
)

func TestTerms(t *testing.T) {
	tests := []struct {
		text     string
		stop     string
		expected []string
		desc     string
	}{
		{"I feel sad", "", []string{"i", "feel", "sad", "i feel", "feel sad"}, "Unigrams then bigrams"},
		{"Sad", "", []string{"sad"}, "Single word"},
		{"the happy dog", "en", []string{"happy", "dog", "happy dog"}, "Stop words removed"},
		{"", "", []string{}, "Empty text"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := terms(tt.text, tt.stop)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("terms(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestFitVectorizer(t *testing.T) {
	v := fitVectorizer([]string{"hello there", "hello"}, "")

	if v.size() != 3 {
		t.Fatalf("size() = %d, want 3", v.size())
	}
	if idx, ok := v.vocabulary["hello"]; !ok || v.idf[idx] != 1 {
		t.Errorf("idf(hello) = %v, want 1", v.idf[idx])
	}
	want := math.Log(3.0/2.0) + 1
	if idx := v.vocabulary["there"]; math.Abs(v.idf[idx]-want) > 1e-12 {
		t.Errorf("idf(there) = %v, want %v", v.idf[idx], want)
	}
}

func TestTransform(t *testing.T) {
	v := fitVectorizer([]string{"hello there", "hello", "good morning"}, "")

	vec := v.transform("Hello there!")
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("squared norm = %v, want 1", norm)
	}

	for i, x := range v.transform("completely unseen words") {
		if x != 0 {
			t.Errorf("feature %d = %v for unseen text", i, x)
		}
	}
}
