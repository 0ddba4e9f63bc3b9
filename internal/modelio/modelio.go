// Package modelio reads and writes trained models as JSON files.
package modelio

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

// Write encodes m as indented JSON.
func Write(w io.Writer, m *model.Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.Wrapf(err, "failed to encode model %s", m.ID)
	}
	return nil
}

// Read decodes and checks a model.
func Read(r io.Reader) (*model.Model, error) {
	var m model.Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse model")
	}
	if err := Check(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Parse is Read over an in-memory payload.
func Parse(data []byte) (*model.Model, error) {
	var m model.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse model")
	}
	if err := Check(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveFile writes m to path, creating parent directories.
func SaveFile(path string, m *model.Model) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory %q", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create model file %q", path)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close model file %q", path)
}

// LoadFile reads the model stored at path.
func LoadFile(path string) (*model.Model, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %q", path)
	}
	m, err := Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "model file %q", path)
	}
	return m, nil
}

// Check verifies that a decoded model is usable by an encoder: a valid
// alphabet, dense ranks, and merge results that concatenate their pair.
func Check(m *model.Model) error {
	if m.Vocab == nil {
		return errors.New("model has no vocabulary")
	}
	a, err := alphabet.New(m.Alphabet, m.Symbols)
	if err != nil {
		return errors.Wrap(err, "model alphabet")
	}
	for _, s := range a.Symbols() {
		if _, ok := m.Vocab.ID(s); !ok {
			return errors.Errorf("vocabulary is missing base symbol %q", s)
		}
	}
	for i, r := range m.Merges {
		if r.Rank != i {
			return errors.Errorf("merge %d has rank %d", i, r.Rank)
		}
		if r.Result != r.Left+r.Right {
			return errors.Errorf("merge %d: %q is not %q+%q", i, r.Result, r.Left, r.Right)
		}
	}
	return nil
}
