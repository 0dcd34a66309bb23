// Package csvfile reads and atomically rewrites header-first CSV tables.
// Every failure wraps domain.ErrIO.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	types "github.com/yungbote/contactbook-backend/internal/domain"
)

// Table is a parsed file: records in file order plus a column lookup built
// from the header.
type Table struct {
	Records [][]string
	Lines   []int
	col     map[string]int
}

// Get returns the named column of rec.
func (t *Table) Get(rec []string, name string) string {
	return rec[t.col[name]]
}

// Read parses path. Extra columns are tolerated; a missing required column,
// a row with the wrong field count, or bad quoting makes the file corrupt.
// An empty file reads as an empty table.
func Read(path string, required []string) (*Table, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", types.ErrIO, name, err)
	}
	defer f.Close()

	t := &Table{col: map[string]int{}}
	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		for i, c := range required {
			t.col[c] = i
		}
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s header: %v", types.ErrIO, name, err)
	}
	for i, c := range header {
		t.col[c] = i
	}
	for _, c := range required {
		if _, ok := t.col[c]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", types.ErrIO, name, c)
		}
	}
	r.FieldsPerRecord = len(header)

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrIO, name, err)
		}
		line, _ := r.FieldPos(0)
		t.Records = append(t.Records, rec)
		t.Lines = append(t.Lines, line)
	}
}

// Replace writes header+records to a temp file beside path and renames it into
// place, so readers see either the old or the new content.
func Replace(path string, header []string, records [][]string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", types.ErrIO, err)
	}
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				_ = tmp.Close()
			}
			_ = os.Remove(tmp.Name())
		}
	}()

	w := newWriter(tmp)
	if err = w.Write(header); err != nil {
		return fmt.Errorf("%w: write header: %v", types.ErrIO, err)
	}
	if err = w.WriteAll(records); err != nil {
		return fmt.Errorf("%w: write rows: %v", types.ErrIO, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", types.ErrIO, err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", types.ErrIO, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: chmod: %v", types.ErrIO, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename: %v", types.ErrIO, err)
	}
	return nil
}

// Append adds one record to the end of an existing file.
func Append(path string, record []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", types.ErrIO, filepath.Base(path), err)
	}
	w := newWriter(f)
	if err := w.Write(record); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: append: %v", types.ErrIO, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: append: %v", types.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", types.ErrIO, err)
	}
	return nil
}

// EnsureFile creates the parent directory and, when path is absent, a file
// holding only the header. It reports whether the file was created.
func EnsureFile(path string, header []string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("%w: create data dir: %v", types.ErrIO, err)
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("%w: stat %s: %v", types.ErrIO, filepath.Base(path), err)
	}
	if err := Replace(path, header, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Write renders header+records to w in the on-disk dialect.
func Write(out io.Writer, header []string, records [][]string) error {
	w := newWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	return w.WriteAll(records)
}

// Files use CRLF row endings so existing files survive a read-then-rewrite
// byte-identical.
func newWriter(out io.Writer) *csv.Writer {
	w := csv.NewWriter(out)
	w.UseCRLF = true
	return w
}
