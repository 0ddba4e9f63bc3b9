// Package seqio reads training and evaluation corpora: FASTA, or plain text
// with one sequence per line. Files ending in .gz are decompressed and "-"
// reads standard input.
package seqio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one sequence and its identifier. Plain-text records are named
// by line number.
type Record struct {
	ID  string
	Seq string
}

// Read parses r. A first non-blank line starting with '>' selects FASTA;
// otherwise every non-blank line not starting with '#' is a sequence.
func Read(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var (
		recs    []Record
		fasta   bool
		decided bool
		id      string
		buf     strings.Builder
		lineNo  int
	)
	flush := func() {
		if id != "" {
			recs = append(recs, Record{ID: id, Seq: buf.String()})
		}
		buf.Reset()
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !decided {
			fasta = line[0] == '>'
			decided = true
		}
		if !fasta {
			if line[0] == '#' {
				continue
			}
			recs = append(recs, Record{ID: fmt.Sprintf("line%d", lineNo), Seq: line})
			continue
		}
		if line[0] == '>' {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				id = fmt.Sprintf("record%d", len(recs)+1)
			} else {
				id = fields[0]
			}
			continue
		}
		buf.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sequences: %w", err)
	}
	if fasta {
		flush()
	}
	return recs, nil
}

// ReadFile reads the corpus at path.
func ReadFile(path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadFiles concatenates the corpora at paths, in order.
func ReadFiles(paths []string) ([]Record, error) {
	var all []Record
	for _, p := range paths {
		recs, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	return all, nil
}

// Sequences returns the sequence strings of recs.
func Sequences(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Seq
	}
	return out
}

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return fh, nil
}
