package alphabet

import (
	"errors"
	"testing"

	"github.com/rcliao/motifbpe/internal/model"
)

func TestPresets(t *testing.T) {
	a := MustNew(RNA, "")
	if a.String() != "ACGU" {
		t.Errorf("expected ACGU, got %q", a.String())
	}
	p := MustNew(Protein, "")
	if p.Len() != 20 {
		t.Errorf("expected 20 amino acids, got %d", p.Len())
	}
}

func TestCustomSortedAndDeduped(t *testing.T) {
	a, err := New(Custom, "xaugcx")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.String() != "ACGUX" {
		t.Errorf("expected ACGUX, got %q", a.String())
	}
}

func TestUnknownPreset(t *testing.T) {
	if _, err := New("klingon", ""); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestSplitStrict(t *testing.T) {
	a := MustNew(RNA, "")
	syms, err := a.Split(" augc\n", false)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(syms) != 4 || syms[0] != "A" || syms[3] != "C" {
		t.Errorf("unexpected symbols %v", syms)
	}

	_, err = a.Split("AUTGC", false)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ae.Char != 'T' || ae.Offset != 2 {
		t.Errorf("expected T at offset 2, got %q at %d", ae.Char, ae.Offset)
	}
}

func TestSplitLenient(t *testing.T) {
	a := MustNew(RNA, "")
	syms, err := a.Split("AUTGC", true)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(syms) != 5 || syms[2] != model.UnknownSymbol {
		t.Errorf("expected placeholder at 2, got %v", syms)
	}
}

func TestNormalizeFullWidth(t *testing.T) {
	if got := Normalize("ＡＵＧＣ"); got != "AUGC" {
		t.Errorf("expected AUGC, got %q", got)
	}
}

func TestCovers(t *testing.T) {
	a := MustNew(RNA, "")
	if !a.Covers("UGUGA") {
		t.Error("expected UGUGA to be covered")
	}
	if a.Covers("NNNN") || a.Covers("") {
		t.Error("expected NNNN and empty to be uncovered")
	}
}
