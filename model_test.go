package mindsight

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
)

var (
	trainOnce    sync.Once
	trainCatalog *Catalog
	trainModel   *Model
	trainErr     error
)

// trainedModel returns a model trained once on testdata/intents.json.
func trainedModel(t testing.TB) (*Catalog, *Model) {
	t.Helper()
	trainOnce.Do(func() {
		trainCatalog, trainErr = LoadCatalog("testdata/intents.json")
		if trainErr != nil {
			return
		}
		trainModel, trainErr = ModelFromData("intents", UsingIntents(trainCatalog))
	})
	if trainErr != nil {
		t.Fatalf("training failed: %v", trainErr)
	}
	return trainCatalog, trainModel
}

func TestPredictIntent(t *testing.T) {
	_, model := trainedModel(t)

	tests := []struct {
		text string
		tag  string
		kind MatchKind
		desc string
	}{
		{"hello", "greeting", Matched, "Greeting"},
		{"thank you so much", "thanks", Matched, "Thanks"},
		{"I feel sad", "feeling_bad", Matched, "Feeling bad"},
		{"goodbye", "goodbye", Matched, "Goodbye"},
		{"xyzzy plugh", NoMatchTag, NoMatch, "Gibberish"},
		{"", NoMatchTag, NoMatch, "Empty text"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			match := model.PredictIntent(tt.text)
			if match.Tag != tt.tag || match.Kind != tt.kind {
				t.Errorf("PredictIntent(%q) = %s/%s (%.3f), want %s/%s",
					tt.text, match.Kind, match.Tag, match.Confidence, tt.kind, tt.tag)
			}
			if tt.kind == Matched && match.Confidence <= ConfidenceThreshold {
				t.Errorf("confidence %.3f is not above the threshold", match.Confidence)
			}
			var sum float64
			for _, p := range match.Scores {
				sum += p
			}
			if sum < 0.999 || sum > 1.001 {
				t.Errorf("scores sum to %v", sum)
			}
		})
	}
}

func TestPredictWithoutModel(t *testing.T) {
	var model *Model
	match := model.PredictIntent("hello")
	if match.Kind != Failed || match.Tag != ErrorTag {
		t.Errorf("got %s/%s, want error", match.Kind, match.Tag)
	}
	if !errors.Is(match.Err, ErrModelNotLoaded) || !IsInferenceError(match.Err) {
		t.Errorf("unexpected error %v", match.Err)
	}
}

func TestModelRoundTrip(t *testing.T) {
	_, model := trainedModel(t)
	path := filepath.Join(t.TempDir(), "models", "intent.gob")

	if err := model.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := ModelFromDisk(path)
	if err != nil {
		t.Fatalf("ModelFromDisk: %v", err)
	}
	if loaded.Name != model.Name {
		t.Errorf("Name = %q, want %q", loaded.Name, model.Name)
	}

	for _, text := range []string{"hello", "I am so stressed", "bye", "qwerty"} {
		a, b := model.PredictIntent(text), loaded.PredictIntent(text)
		if a.Tag != b.Tag || a.Confidence != b.Confidence {
			t.Errorf("%q: original %s %.6f, loaded %s %.6f", text, a.Tag, a.Confidence, b.Tag, b.Confidence)
		}
	}
}

func TestModelFromFS(t *testing.T) {
	_, model := trainedModel(t)
	var buf bytes.Buffer
	if err := model.encode(&buf); err != nil {
		t.Fatal(err)
	}

	fsys := fstest.MapFS{
		"assets/models/intent.gob": {Data: buf.Bytes()},
		"assets/readme.txt":        {Data: []byte("not a model")},
	}
	loaded, err := ModelFromFS("intent.gob", fsys)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.PredictIntent("hello").Tag; got != "greeting" {
		t.Errorf("PredictIntent(hello) = %q", got)
	}

	_, err = ModelFromFS("missing.gob", fsys)
	if !errors.Is(err, ErrArtifactMissing) {
		t.Errorf("expected ErrArtifactMissing, got %v", err)
	}
}

func TestModelFromDiskErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.gob")
	if err := os.WriteFile(corrupt, []byte("definitely not gob"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path     string
		expected error
		desc     string
	}{
		{filepath.Join(dir, "absent.gob"), ErrArtifactMissing, "Missing artifact"},
		{corrupt, ErrArtifactCorrupt, "Corrupt artifact"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := ModelFromDisk(tt.path)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
			if !IsConfigurationError(err) {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
		})
	}
}

func TestArtifactValidation(t *testing.T) {
	valid := func() modelArtifact {
		return modelArtifact{
			Version:    artifactVersion,
			Vocabulary: map[string]int{"a": 0, "b": 1},
			IDF:        []float64{1, 1},
			Rows:       3,
			Cols:       2,
			Weights:    make([]float64, 6),
			Labels:     []string{"x", "y"},
		}
	}

	tests := []struct {
		mutate func(*modelArtifact)
		desc   string
	}{
		{func(a *modelArtifact) { a.Version = 99 }, "Unknown version"},
		{func(a *modelArtifact) { a.Labels = nil }, "No labels"},
		{func(a *modelArtifact) { a.Labels = []string{"x", "x"} }, "Duplicate labels"},
		{func(a *modelArtifact) { a.IDF = []float64{1} }, "Vocabulary size mismatch"},
		{func(a *modelArtifact) { a.Vocabulary["b"] = 0 }, "Duplicate index"},
		{func(a *modelArtifact) { a.Rows = 2 }, "Wrong dimensions"},
		{func(a *modelArtifact) { a.Weights = a.Weights[:5] }, "Short weights"},
	}

	base := valid()
	if err := base.validate(); err != nil {
		t.Fatalf("valid artifact rejected: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			art := valid()
			tt.mutate(&art)
			if err := art.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWriteUnloadedModel(t *testing.T) {
	var model *Model
	if err := model.Write(filepath.Join(t.TempDir(), "m.gob")); !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("expected ErrModelNotLoaded, got %v", err)
	}
}

func BenchmarkPredictIntent(b *testing.B) {
	_, model := trainedModel(b)
	for i := 0; i < b.N; i++ {
		model.PredictIntent("I have been feeling anxious about work")
	}
}
