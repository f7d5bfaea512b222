package storage

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestMigrationsOrdered(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("applied %d migrations, want 2", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Errorf("migrations not in ascending order: %v", versions)
			break
		}
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := openTestStore(t)

	v, ok, err := s.Load("ptm_events")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Errorf("ok = true for missing key, value %q", v)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save("ptm_jobs", `[{"id":"a"}]`); err != nil {
		t.Fatalf("Save: %v", err)
	}
	v, ok, err := s.Load("ptm_jobs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("ok = false after Save")
	}
	if v != `[{"id":"a"}]` {
		t.Errorf("value = %q", v)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save("k", "1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save("k", "2"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	slots, err := s.ListSlots()
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if slots[0].Value != "2" {
		t.Errorf("value = %q, want %q", slots[0].Value, "2")
	}
	if slots[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s1.Save("ptm_todos", "[]"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.Load("ptm_todos")
	if err != nil || !ok || v != "[]" {
		t.Errorf("Load after reopen = (%q, %v, %v)", v, ok, err)
	}
}

func TestDeleteSlot(t *testing.T) {
	s := openTestStore(t)

	if err := s.DeleteSlot("nope"); err != ErrNotFound {
		t.Errorf("DeleteSlot(missing) = %v, want ErrNotFound", err)
	}
	if err := s.Save("k", "v"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.DeleteSlot("k"); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}
	if _, err := s.GetSlot("k"); err != ErrNotFound {
		t.Errorf("GetSlot after delete = %v, want ErrNotFound", err)
	}
}
