// Package motif holds the motif catalogue and locates motif occurrences in
// tokenized sequences.
package motif

import "github.com/rcliao/motifbpe/internal/model"

// Builtins returns the core seed and conserved motifs. They are immutable,
// never persisted, and never overwritten by a load.
func Builtins() []model.Motif {
	return []model.Motif{
		// Seed regions (nucleotides 2-8) of well-studied miRNAs.
		{Name: "seed_let7", Pattern: "GAGGUAG", Category: model.CategorySeed, Builtin: true},
		{Name: "seed_mir16", Pattern: "AGCAGCA", Category: model.CategorySeed, Builtin: true},
		{Name: "seed_mir21", Pattern: "AGCUUAU", Category: model.CategorySeed, Builtin: true},
		{Name: "seed_mir155", Pattern: "UAAUGCU", Category: model.CategorySeed, Builtin: true},

		{Name: "conserved_1", Pattern: "UGUGA", Category: model.CategoryConserved, Builtin: true},
		{Name: "conserved_2", Pattern: "AUGCA", Category: model.CategoryConserved, Builtin: true},
		{Name: "conserved_3", Pattern: "UGUGAUA", Category: model.CategoryConserved, Builtin: true},
		{Name: "conserved_4", Pattern: "AGCUAC", Category: model.CategoryConserved, Builtin: true},
	}
}

// IsBuiltin reports whether name belongs to a core motif.
func IsBuiltin(name string) bool {
	for _, m := range Builtins() {
		if m.Name == name {
			return true
		}
	}
	return false
}
