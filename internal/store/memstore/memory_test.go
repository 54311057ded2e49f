package memstore

import (
	"errors"
	"testing"

	"github.com/yiblet/sipp/internal/store"
)

func TestCreateListOrder(t *testing.T) {
	m := NewMemoryStore()

	for _, n := range []string{"a", "b", "c"} {
		if _, err := m.Create(n, n+" body"); err != nil {
			t.Fatalf("Create(%s) error = %v", n, err)
		}
	}

	list, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 snippets, got %d", len(list))
	}
	if list[0].Name != "c" || list[2].Name != "a" {
		t.Errorf("expected newest first, got %s..%s", list[0].Name, list[2].Name)
	}
}

func TestRoundTrip(t *testing.T) {
	m := NewMemoryStore()

	created, err := m.Create("a.py", "print(1)")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := m.GetByShortID(created.ShortID)
	if err != nil {
		t.Fatalf("GetByShortID() error = %v", err)
	}
	if got.Name != "a.py" || got.Content != "print(1)" {
		t.Errorf("expected a.py/print(1), got %s/%s", got.Name, got.Content)
	}

	// Returned values are copies.
	got.Name = "mutated"
	again, _ := m.GetByShortID(created.ShortID)
	if again.Name != "a.py" {
		t.Errorf("store was mutated through a returned pointer: %s", again.Name)
	}
}

func TestDeleteAndUpdateMissing(t *testing.T) {
	m := NewMemoryStore()
	s, _ := m.Create("x", "y")

	if ok, _ := m.DeleteByShortID(s.ShortID); !ok {
		t.Error("expected first delete to report true")
	}
	if ok, _ := m.DeleteByShortID(s.ShortID); ok {
		t.Error("expected second delete to report false")
	}
	if _, err := m.UpdateByShortID(s.ShortID, "n", "c"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	m := NewMemoryStore()

	ids := []string{"AAAAAAAAAA", "AAAAAAAAAA", "BBBBBBBBBB"}
	m.newShortID = func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	first, err := m.Create("one", "1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := m.Create("two", "2")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.ShortID != "AAAAAAAAAA" || second.ShortID != "BBBBBBBBBB" {
		t.Errorf("unexpected short ids %s, %s", first.ShortID, second.ShortID)
	}
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	m := NewMemoryStore()
	m.newShortID = func() (string, error) { return "AAAAAAAAAA", nil }

	if _, err := m.Create("one", "1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := m.Create("two", "2"); err == nil {
		t.Error("expected an error when every short id collides")
	}
}
