package parser

import (
	"path/filepath"
	"testing"
)

func TestStore_Lifecycle(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "active_parser.go"))

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("fresh store: got ok=%v err=%v, want absent override", ok, err)
	}

	if err := store.Save("package parser"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	source, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load after Save: got ok=%v err=%v", ok, err)
	}
	if source != "package parser" {
		t.Errorf("source: got %q", source)
	}

	// Overwrite replaces the prior override.
	if err := store.Save("package parser2"); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	source, _, _ = store.Load()
	if source != "package parser2" {
		t.Errorf("source after overwrite: got %q", source)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("Load after Clear: override still present")
	}

	// Clearing again is a no-op.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestStore_Active(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "active_parser.go"))

	active, err := store.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active.Name() != "rule-based" {
		t.Errorf("default parser: got %q, want %q", active.Name(), "rule-based")
	}

	if err := store.Save("package parser"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	active, err = store.Active()
	if err != nil {
		t.Fatalf("Active with override: %v", err)
	}
	if active.Name() != "human-promoted" {
		t.Errorf("override parser: got %q, want %q", active.Name(), "human-promoted")
	}
}
