package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/raysh454/ptrprobe/internal/model"
	"github.com/raysh454/ptrprobe/internal/report"
)

func TestWrite_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := report.Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("got %q, want %q", buf.String(), "[]\n")
	}
}

func TestWrite_ExtendedAndBasicShapes(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := report.Write(&buf, []model.ResultRecord{
		{Domain: "host.example.com", URL: "http://host.example.com/wp-content/plugins/embedpress/readme.txt?a=1&b=2", Version: "4.2.1"},
		{Domain: "basic.example.com"},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := `[
    {
        "domain": "host.example.com",
        "url": "http://host.example.com/wp-content/plugins/embedpress/readme.txt?a=1&b=2",
        "version": "4.2.1"
    },
    {
        "domain": "basic.example.com"
    }
]
`
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteFile_ReplacesAtomically(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "output.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	recs := []model.ResultRecord{{Domain: "a.example", URL: "http://a.example/r", Version: "1.0"}}
	if err := report.WriteFile(path, recs); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []model.ResultRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(got) != 1 || got[0] != recs[0] {
		t.Errorf("got %+v, want %+v", got, recs)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, found %d entries", len(entries))
	}
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing", "output.json")
	if err := report.WriteFile(path, nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
