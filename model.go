package mindsight

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// artifactVersion is bumped whenever the on-disk layout changes.
const artifactVersion = 1

// A Model holds a trained intent classifier.
type Model struct {
	Name string

	classifier *intentClassifier
	metrics    TrainingMetrics
}

// DataSource provides training data to a Model.
type DataSource func(model *Model) error

// UsingIntents trains the intent classifier from a catalog.
func UsingIntents(catalog *Catalog) DataSource {
	return UsingIntentsAndConfig(catalog, DefaultTrainingConfig())
}

// UsingIntentsAndConfig trains the intent classifier from a catalog with a
// custom training configuration.
func UsingIntentsAndConfig(catalog *Catalog, config TrainingConfig) DataSource {
	return func(model *Model) error {
		clf, metrics, err := NewTrainer(config).TrainIntentClassifier(catalog)
		if err != nil {
			return err
		}
		model.classifier = clf
		model.metrics = metrics
		return nil
	}
}

// ModelFromData creates a new Model from user-provided training data.
func ModelFromData(name string, sources ...DataSource) (*Model, error) {
	model := &Model{Name: name}
	for _, source := range sources {
		if err := source(model); err != nil {
			return nil, err
		}
	}
	if model.classifier == nil {
		return nil, ErrEmptyTrainingData
	}
	return model, nil
}

// ModelFromDisk loads a Model artifact from the user-provided location.
func ModelFromDisk(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewConfigurationError(path, ErrArtifactMissing)
		}
		return nil, NewConfigurationError(path, fmt.Errorf("%w: %v", ErrArtifactMissing, err))
	}
	defer f.Close()

	model, err := readModel(f)
	if err != nil {
		return nil, NewConfigurationError(path, err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return model, nil
}

// ModelFromFS loads the artifact file called name from anywhere in filesys.
func ModelFromFS(name string, filesys fs.FS) (*Model, error) {
	// Locate a file matching name within filesys
	var found string
	err := fs.WalkDir(filesys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Artifact located. Exit tree traversal
		if !d.IsDir() && d.Name() == name {
			found = path
			return io.EOF
		}

		return nil
	})
	if err != nil && err != io.EOF {
		return nil, NewConfigurationError(name, fmt.Errorf("%w: %v", ErrArtifactMissing, err))
	}
	if found == "" {
		return nil, NewConfigurationError(name, ErrArtifactMissing)
	}

	data, err := fs.ReadFile(filesys, found)
	if err != nil {
		return nil, NewConfigurationError(found, fmt.Errorf("%w: %v", ErrArtifactMissing, err))
	}
	model, err := readModel(bytes.NewReader(data))
	if err != nil {
		return nil, NewConfigurationError(found, err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return model, nil
}

// Write saves a Model to the user-provided file path.
func (m *Model) Write(path string) error {
	if m == nil || m.classifier == nil {
		return ErrModelNotLoaded
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Labels returns the intent tags the classifier was trained on.
func (m *Model) Labels() []string {
	if m == nil || m.classifier == nil {
		return nil
	}
	return append([]string(nil), m.classifier.labels...)
}

// Metrics returns the training metrics of a freshly trained model. Models
// loaded from disk report zero metrics.
func (m *Model) Metrics() TrainingMetrics {
	if m == nil {
		return TrainingMetrics{}
	}
	return m.metrics
}

// PredictIntent classifies text, resolving to the error sentinel when the
// model is missing.
func (m *Model) PredictIntent(text string) IntentMatch {
	if m == nil {
		return failedMatch(ErrModelNotLoaded)
	}
	return m.classifier.Predict(text)
}

// modelArtifact is the gob-encoded form of a Model.
type modelArtifact struct {
	Version    int
	Name       string
	Vocabulary map[string]int
	IDF        []float64
	StopWords  string
	Rows, Cols int
	Weights    []float64
	Labels     []string
}

func (m *Model) encode(w io.Writer) error {
	clf := m.classifier
	rows, cols := clf.weights.Dims()
	art := modelArtifact{
		Version:    artifactVersion,
		Name:       m.Name,
		Vocabulary: clf.vec.vocabulary,
		IDF:        clf.vec.idf,
		StopWords:  clf.vec.stopWords,
		Rows:       rows,
		Cols:       cols,
		Weights:    mat.DenseCopyOf(clf.weights).RawMatrix().Data,
		Labels:     clf.labels,
	}
	return gob.NewEncoder(w).Encode(&art)
}

func readModel(r io.Reader) (*Model, error) {
	var art modelArtifact
	if err := gob.NewDecoder(r).Decode(&art); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if err := art.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}

	return &Model{
		Name: art.Name,
		classifier: &intentClassifier{
			vec: &vectorizer{
				vocabulary: art.Vocabulary,
				idf:        art.IDF,
				stopWords:  art.StopWords,
			},
			weights: mat.NewDense(art.Rows, art.Cols, art.Weights),
			labels:  art.Labels,
		},
	}, nil
}

// validate checks the artifact's internal consistency.
func (art *modelArtifact) validate() error {
	if art.Version != artifactVersion {
		return fmt.Errorf("unsupported artifact version %d", art.Version)
	}
	if len(art.Labels) == 0 {
		return errors.New("no labels")
	}
	seen := make(map[string]bool, len(art.Labels))
	for _, l := range art.Labels {
		if l == "" || seen[l] {
			return fmt.Errorf("invalid or duplicate label %q", l)
		}
		seen[l] = true
	}
	if len(art.IDF) == 0 || len(art.Vocabulary) != len(art.IDF) {
		return fmt.Errorf("vocabulary has %d terms but %d idf weights", len(art.Vocabulary), len(art.IDF))
	}
	used := make([]bool, len(art.IDF))
	for term, idx := range art.Vocabulary {
		if idx < 0 || idx >= len(used) || used[idx] {
			return fmt.Errorf("term %q has invalid index %d", term, idx)
		}
		used[idx] = true
	}
	if art.Rows != len(art.IDF)+1 || art.Cols != len(art.Labels) {
		return fmt.Errorf("weights are %dx%d, want %dx%d", art.Rows, art.Cols, len(art.IDF)+1, len(art.Labels))
	}
	if len(art.Weights) != art.Rows*art.Cols {
		return fmt.Errorf("weights hold %d values, want %d", len(art.Weights), art.Rows*art.Cols)
	}
	for _, vals := range [][]float64{art.Weights, art.IDF} {
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New("non-finite parameter")
			}
		}
	}
	return nil
}
