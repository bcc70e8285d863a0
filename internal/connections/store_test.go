package connections

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "db_connections.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSaveGetDeleteRoundTrip(t *testing.T) {
	s := newTestStore(t)
	d := Descriptor{Name: "prod", Driver: "mssql", DSN: "sqlserver://host?database=x"}
	if err := s.Save(d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get("prod")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != d {
		t.Errorf("Get = %+v, want %+v", got, d)
	}

	if err := s.Delete("prod"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("prod"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing: err = %v, want ErrNotFound", err)
	}
}

func TestListSorted(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(Descriptor{Name: name, Driver: "sqlite", DSN: name + ".db"}); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].Name != "alpha" || list[2].Name != "zeta" {
		t.Errorf("List = %+v, want sorted by name", list)
	}
}

func TestSaveRequiresName(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(Descriptor{Driver: "sqlite"}); err == nil {
		t.Error("expected error saving a nameless descriptor")
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conns.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Save(Descriptor{Name: "kept", Driver: "postgres", DSN: "postgres://x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Get("kept"); err != nil {
		t.Errorf("descriptor lost across reopen: %v", err)
	}
}
