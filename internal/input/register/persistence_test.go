package register

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registers.json")

	s := NewStore()
	_ = s.Set('q', []string{"ihello<esc>"})
	s.AddHistory(':', "write")
	s.AddHistory(':', "quit")

	if err := Save(s, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewStore()
	if err := Load(loaded, path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := loaded.Main('q'); got != "ihello<esc>" {
		t.Errorf("Main('q') = %q", got)
	}
	hist := loaded.Get(':')
	if len(hist) != 2 || hist[0] != "write" || hist[1] != "quit" {
		t.Errorf("history = %v", hist)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore()
	if err := Load(s, filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Errorf("Load of missing file should not error, got %v", err)
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Load(NewStore(), path); err == nil {
		t.Error("Load of malformed file should fail")
	}
}

func TestLoadFutureVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registers.json")
	data := `{"version": 99, "registers": []}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Load(NewStore(), path); err == nil {
		t.Error("Load of future version should fail")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "registers.json")

	if err := Save(NewStore(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("register file not created: %v", err)
	}
}
