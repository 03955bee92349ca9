package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReportsEveryCheck(t *testing.T) {
	var order []string
	checks := []Check{
		{Name: "a", Run: func() (string, error) { order = append(order, "a"); return "fine", nil }},
		{Name: "b", Run: func() (string, error) { order = append(order, "b"); return "", errors.New("broken") }},
		{Name: "c", Run: func() (string, error) { order = append(order, "c"); return "fine", nil }},
	}
	results, ok := Run(checks)
	if ok {
		t.Error("Run reported success with a failing check")
	}
	if strings.Join(order, "") != "abc" {
		t.Errorf("ran %v, want every check in order", order)
	}
	if results[1].OK || results[1].Detail != "broken" {
		t.Errorf("result b = %+v", results[1])
	}
	if !results[2].OK {
		t.Errorf("result c = %+v", results[2])
	}
}

func TestCheckConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.toml")
	data := `
[[commands]]
hotkey = "Q"
script = "true"

[[commands]]
hotkey = "NoSuchKey"
script = "true"
colour = "red"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	detail, err := checkConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "2 command(s), 1 with unknown keys, 1 unknown field(s)"
	if detail != want {
		t.Errorf("detail = %q, want %q", detail, want)
	}

	if _, err := checkConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing config passed")
	}
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	if _, err := checkWritable(dir); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
	if _, err := checkWritable(filepath.Join(dir, "nope")); err == nil {
		t.Error("nonexistent dir reported writable")
	}
}
