package motif

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

var (
	// ErrNotFound is returned when no motif has the requested name.
	ErrNotFound = errors.New("motif not found")
	// ErrImmutable is returned when a write targets a core motif.
	ErrImmutable = errors.New("core motifs are immutable")
)

// Validate normalizes and checks a user supplied motif.
func Validate(m model.Motif) (model.Motif, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Pattern = alphabet.Normalize(m.Pattern)
	if m.Name == "" {
		return m, fmt.Errorf("motif name is required")
	}
	if m.Pattern == "" {
		return m, fmt.Errorf("motif %s: pattern is required", m.Name)
	}
	if strings.ContainsFunc(m.Pattern, func(r rune) bool { return r == ' ' || r == '\t' }) {
		return m, fmt.Errorf("motif %s: pattern contains whitespace", m.Name)
	}
	if m.Category == "" {
		m.Category = model.CategoryCustom
	}
	if _, err := model.ParseCategory(string(m.Category)); err != nil {
		return m, fmt.Errorf("motif %s: %w", m.Name, err)
	}
	if m.Weight != nil && !(*m.Weight > 0) {
		return m, fmt.Errorf("motif %s: weight must be positive, got %v", m.Name, *m.Weight)
	}
	m.Builtin = false
	return m, nil
}

// Catalogue is an in-memory motif table: the core motifs plus a mutable set
// of custom motifs. It is safe for concurrent use.
type Catalogue struct {
	mu     sync.RWMutex
	core   map[string]model.Motif
	custom map[string]model.Motif
}

// NewCatalogue returns a catalogue, seeded with Builtins when builtins is true.
func NewCatalogue(builtins bool) *Catalogue {
	c := &Catalogue{
		core:   make(map[string]model.Motif),
		custom: make(map[string]model.Motif),
	}
	if builtins {
		for _, m := range Builtins() {
			c.core[m.Name] = m
		}
	}
	return c
}

// List returns every motif, sorted by name.
func (c *Catalogue) List(ctx context.Context) ([]model.Motif, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Motif, 0, len(c.core)+len(c.custom))
	for _, m := range c.core {
		out = append(out, m)
	}
	for _, m := range c.custom {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the motif called name.
func (c *Catalogue) Get(ctx context.Context, name string) (model.Motif, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if m, ok := c.core[name]; ok {
		return m, nil
	}
	if m, ok := c.custom[name]; ok {
		return m, nil
	}
	return model.Motif{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Upsert adds or replaces a custom motif.
func (c *Catalogue) Upsert(ctx context.Context, m model.Motif) (model.Motif, error) {
	m, err := Validate(m)
	if err != nil {
		return m, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.core[m.Name]; ok {
		return m, fmt.Errorf("%w: %s", ErrImmutable, m.Name)
	}
	now := time.Now().UTC()
	if prev, ok := c.custom[m.Name]; ok && prev.CreatedAt != nil {
		m.CreatedAt = prev.CreatedAt
	} else {
		m.CreatedAt = &now
	}
	m.UpdatedAt = &now
	c.custom[m.Name] = m
	return m, nil
}

// Remove deletes a custom motif.
func (c *Catalogue) Remove(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.core[name]; ok {
		return fmt.Errorf("%w: %s", ErrImmutable, name)
	}
	if _, ok := c.custom[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(c.custom, name)
	return nil
}

// Load merges custom motifs from a tabular source. Rows naming a core motif
// are skipped with a warning; malformed rows are skipped and reported.
func (c *Catalogue) Load(ctx context.Context, r io.Reader) ([]FormatError, error) {
	rows, warnings, err := ReadTable(r)
	if err != nil {
		return warnings, err
	}
	for _, row := range rows {
		if _, err := c.Upsert(ctx, row.Motif); err != nil {
			warnings = append(warnings, FormatError{Row: row.Line, Name: row.Motif.Name, Reason: err.Error()})
		}
	}
	return warnings, nil
}

// Save writes the custom motifs as a table. Core motifs are not written.
func (c *Catalogue) Save(ctx context.Context, w io.Writer) error {
	all, err := c.List(ctx)
	if err != nil {
		return err
	}
	var custom []model.Motif
	for _, m := range all {
		if !m.Builtin {
			custom = append(custom, m)
		}
	}
	return WriteTable(w, custom)
}
