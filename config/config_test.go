package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 4000 || c.Height != 4000 {
		t.Errorf("default size = %dx%d, want 4000x4000", c.Width, c.Height)
	}
	if c.Threads != runtime.NumCPU() {
		t.Errorf("default threads = %d, want %d", c.Threads, runtime.NumCPU())
	}
	if c.OutDir != "out" || c.Filename != "julia" {
		t.Errorf("default output = %s/%s, want out/julia", c.OutDir, c.Filename)
	}
	if c.NoVis || c.Pgm || c.Gops || len(c.Reports) != 0 {
		t.Errorf("unexpected default switches %+v", c)
	}
	if c.Log.Mode != "console" {
		t.Errorf("default log mode = %q, want console", c.Log.Mode)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "julia.json")
	data := `{
		"Width": 800,
		"Height": 600,
		"Threads": 6,
		"Pgm": true,
		"Reports": ["summary.json"],
		"Log": {"Encoding": "plain", "Level": "error"}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 800 || c.Height != 600 || c.Threads != 6 || !c.Pgm {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.Filename != "julia" {
		t.Errorf("Filename = %q, want default julia", c.Filename)
	}
	if len(c.Reports) != 1 || c.Reports[0] != "summary.json" {
		t.Errorf("Reports = %v", c.Reports)
	}
	if c.Log.Encoding != "plain" || c.Log.Level != "error" {
		t.Errorf("log settings not applied: %+v", c.Log)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loading a missing file succeeded")
	}
}
