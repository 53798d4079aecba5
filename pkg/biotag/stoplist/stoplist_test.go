package stoplist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestManagerBasics(t *testing.T) {
	m := NewManager([]string{"Was", " can "})
	if !m.IsStop("WAS") || !m.IsStop("can") {
		t.Error("terms should match case-insensitively")
	}
	m.Add("set", Reason{Note: "gene symbol collision"})
	m.Remove("was")
	if m.IsStop("was") {
		t.Error("removed term still stopped")
	}
	if r, ok := m.Why("SET"); !ok || r.Note != "gene symbol collision" {
		t.Errorf("Why(SET) = %+v, %v", r, ok)
	}
	if got := m.All(); !reflect.DeepEqual(got, []string{"can", "set"}) {
		t.Errorf("All() = %v", got)
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if m.IsStop("anything") {
		t.Error("nil manager stops nothing")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.yaml")
	if err := os.WriteFile(path, []byte("terms: [was, can]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r, ok := m.Why("can"); !ok || r.Source != path {
		t.Errorf("reason = %+v", r)
	}
}
