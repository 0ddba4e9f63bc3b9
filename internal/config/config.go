// Package config loads the tokenizer configuration record from YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

const (
	DefaultMotifWeight   = 2.5
	DefaultPenaltyWeight = 10.0
	DefaultVocabSize     = 1000
	DefaultMinFreq       = 2
	DefaultCacheSize     = 4096
)

// Modes for characters outside the alphabet.
const (
	ModeStrict  = "strict"
	ModeLenient = "lenient"
)

// Error is a configuration error: a missing required field or an out of
// range value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Config is the tokenizer configuration record.
type Config struct {
	MotifWeight   float64 `yaml:"motif_weight" json:"motif_weight"`
	PenaltyWeight float64 `yaml:"penalty_weight" json:"penalty_weight"`
	Alphabet      string  `yaml:"alphabet" json:"alphabet"`
	Symbols       string  `yaml:"symbols" json:"symbols,omitempty"`
	Mode          string  `yaml:"mode" json:"mode"`
	Wildcard      string  `yaml:"wildcard" json:"wildcard"`
	VocabSize     int     `yaml:"vocab_size" json:"vocab_size"`
	MinFreq       int     `yaml:"min_freq" json:"min_freq"`
	Workers       int     `yaml:"workers" json:"workers"`
	CacheSize     int     `yaml:"cache_size" json:"cache_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MotifWeight:   DefaultMotifWeight,
		PenaltyWeight: DefaultPenaltyWeight,
		Alphabet:      alphabet.RNA,
		Mode:          ModeStrict,
		Wildcard:      alphabet.DefaultWildcard(alphabet.RNA),
		VocabSize:     DefaultVocabSize,
		MinFreq:       DefaultMinFreq,
		CacheSize:     DefaultCacheSize,
	}
}

// Weights returns the scoring weights.
func (c Config) Weights() model.Weights {
	return model.Weights{MotifWeight: c.MotifWeight, PenaltyWeight: c.PenaltyWeight}
}

// Lenient reports whether unknown characters become placeholders.
func (c Config) Lenient() bool {
	return c.Mode == ModeLenient
}

// NewAlphabet builds the declared alphabet.
func (c Config) NewAlphabet() (*alphabet.Alphabet, error) {
	a, err := alphabet.New(c.Alphabet, c.Symbols)
	if err != nil {
		return nil, &Error{Field: "alphabet", Reason: err.Error()}
	}
	return a, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := ValidateWeights(c.Weights()); err != nil {
		return err
	}
	if c.Mode != ModeStrict && c.Mode != ModeLenient {
		return &Error{Field: "mode", Reason: fmt.Sprintf("must be strict or lenient, got %q", c.Mode)}
	}
	if c.VocabSize < 0 {
		return &Error{Field: "vocab_size", Reason: "must not be negative"}
	}
	if c.MinFreq < 0 {
		return &Error{Field: "min_freq", Reason: "must not be negative"}
	}
	if c.Workers < 0 {
		return &Error{Field: "workers", Reason: "must not be negative"}
	}
	if c.CacheSize < 0 {
		return &Error{Field: "cache_size", Reason: "must not be negative"}
	}
	a, err := c.NewAlphabet()
	if err != nil {
		return err
	}
	if len([]rune(c.Wildcard)) != 1 {
		return &Error{Field: "wildcard", Reason: fmt.Sprintf("must be a single character, got %q", c.Wildcard)}
	}
	if a.Covers(c.Wildcard) {
		return &Error{Field: "wildcard", Reason: fmt.Sprintf("%q is part of the alphabet", c.Wildcard)}
	}
	return nil
}

// ValidateWeights checks the reloadable scoring weights.
func ValidateWeights(w model.Weights) error {
	if !(w.MotifWeight > 0) {
		return &Error{Field: "motif_weight", Reason: fmt.Sprintf("must be positive, got %v", w.MotifWeight)}
	}
	if !(w.PenaltyWeight >= 0) {
		return &Error{Field: "penalty_weight", Reason: fmt.Sprintf("must not be negative, got %v", w.PenaltyWeight)}
	}
	return nil
}

// fileConfig mirrors Config with pointers so required fields can be detected.
type fileConfig struct {
	MotifWeight   *float64 `yaml:"motif_weight"`
	PenaltyWeight *float64 `yaml:"penalty_weight"`
	Alphabet      *string  `yaml:"alphabet"`
	Symbols       *string  `yaml:"symbols"`
	Mode          *string  `yaml:"mode"`
	Wildcard      *string  `yaml:"wildcard"`
	VocabSize     *int     `yaml:"vocab_size"`
	MinFreq       *int     `yaml:"min_freq"`
	Workers       *int     `yaml:"workers"`
	CacheSize     *int     `yaml:"cache_size"`
}

// Parse decodes a YAML configuration record. motif_weight and
// penalty_weight are required; everything else falls back to Default.
func Parse(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, &Error{Field: "yaml", Reason: err.Error()}
	}
	if fc.MotifWeight == nil {
		return Config{}, &Error{Field: "motif_weight", Reason: "required field missing"}
	}
	if fc.PenaltyWeight == nil {
		return Config{}, &Error{Field: "penalty_weight", Reason: "required field missing"}
	}

	c := Default()
	c.MotifWeight = *fc.MotifWeight
	c.PenaltyWeight = *fc.PenaltyWeight
	if fc.Alphabet != nil {
		c.Alphabet = strings.ToLower(strings.TrimSpace(*fc.Alphabet))
		c.Wildcard = alphabet.DefaultWildcard(c.Alphabet)
	}
	if fc.Symbols != nil {
		c.Symbols = *fc.Symbols
	}
	if fc.Mode != nil {
		c.Mode = strings.ToLower(strings.TrimSpace(*fc.Mode))
	}
	if fc.Wildcard != nil && *fc.Wildcard != "" {
		c.Wildcard = *fc.Wildcard
	}
	if fc.VocabSize != nil {
		c.VocabSize = *fc.VocabSize
	}
	if fc.MinFreq != nil {
		c.MinFreq = *fc.MinFreq
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.CacheSize != nil {
		c.CacheSize = *fc.CacheSize
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Source yields the current configuration record. ReloadConfig re-reads it.
type Source interface {
	Load() (Config, error)
}

// FileSource reads the record from a YAML file on every Load.
type FileSource struct {
	Path string
}

func (s FileSource) Load() (Config, error) {
	return Load(s.Path)
}

// Static always returns the same record.
type Static Config

func (s Static) Load() (Config, error) {
	c := Config(s)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
