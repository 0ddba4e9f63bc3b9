package seqio

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const fastaText = `>mir21 hsa-miR-21-5p
UAGCUUAUCAGA
CUGAUGUUGA

>let7 hsa-let-7a
UGAGGUAGUAGGUUGUAUAGUU
`

func TestReadFasta(t *testing.T) {
	recs, err := Read(strings.NewReader(fastaText))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []Record{
		{ID: "mir21", Seq: "UAGCUUAUCAGACUGAUGUUGA"},
		{ID: "let7", Seq: "UGAGGUAGUAGGUUGUAUAGUU"},
	}
	if !reflect.DeepEqual(recs, want) {
		t.Errorf("got %+v", recs)
	}
}

func TestReadLines(t *testing.T) {
	recs, err := Read(strings.NewReader("# corpus\nAUGC\n\n  GGCC  \n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := Sequences(recs); !reflect.DeepEqual(got, []string{"AUGC", "GGCC"}) {
		t.Errorf("got %v", got)
	}
	if recs[1].ID != "line4" {
		t.Errorf("expected line4, got %s", recs[1].ID)
	}
}

func TestReadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.fa.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(fh)
	gw.Write([]byte(fastaText))
	gw.Close()
	fh.Close()

	recs, err := ReadFiles([]string{path, path})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 4 || recs[2].ID != "mir21" {
		t.Errorf("unexpected records %+v", recs)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.fa")); err == nil {
		t.Error("expected error")
	}
}
