package csvfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	types "github.com/yungbote/contactbook-backend/internal/domain"
)

var header = []string{"a", "b"}

func TestEnsureFileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "t.csv")
	created, err := EnsureFile(path, header)
	if err != nil || !created {
		t.Fatalf("EnsureFile: created=%v err=%v", created, err)
	}
	if err := Append(path, []string{"1", "2"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	created, err = EnsureFile(path, header)
	if err != nil || created {
		t.Fatalf("EnsureFile again: created=%v err=%v", created, err)
	}
	tbl, err := Read(path, header)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tbl.Records) != 1 || tbl.Get(tbl.Records[0], "b") != "2" {
		t.Fatalf("existing content lost: %+v", tbl.Records)
	}
}

func TestReadToleratesReorderedAndExtraColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	if err := os.WriteFile(path, []byte("b,extra,a\r\nB1,x,A1\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Read(path, header)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := tbl.Get(tbl.Records[0], "a"); got != "A1" {
		t.Fatalf("column a: want=%q got=%q", "A1", got)
	}
}

func TestReadCorrupt(t *testing.T) {
	cases := map[string]string{
		"missing_column": "a\r\n1\r\n",
		"short_row":      "a,b\r\n1\r\n",
		"bare_quote":     "a,b\r\n1,x\"y\r\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "t.csv")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Read(path, header); !errors.Is(err, types.ErrIO) {
				t.Fatalf("Read: want ErrIO, got %v", err)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.csv"), header)
	if !errors.Is(err, types.ErrIO) {
		t.Fatalf("Read: want ErrIO, got %v", err)
	}
}

func TestReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.csv")
	if err := Replace(path, header, [][]string{{"1", "2"}, {"3", "4"}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("want only the target file, got %d entries", len(entries))
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "a,b\r\n1,2\r\n3,4\r\n" {
		t.Fatalf("unexpected content %q", raw)
	}
}
