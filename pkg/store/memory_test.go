package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	doc := Document{
		ID:        "d1",
		Title:     "Login flow",
		Source:    "graph TD\n    A[Start] --> B[End]",
		CreatedAt: time.Now(),
	}
	if err := s.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Login flow" {
		t.Errorf("Get title = %q", got.Title)
	}

	doc.Title = "Signup flow"
	if err := s.Update(ctx, doc); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = s.Get(ctx, "d1")
	if got.Title != "Signup flow" {
		t.Errorf("Update not applied: %q", got.Title)
	}

	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: %v", err)
	}
	if err := s.Update(ctx, Document{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: %v", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "b2", CreatedAt: base.Add(time.Hour)}, // same timestamp as b
	}
	for _, d := range docs {
		if err := s.Create(ctx, d); err != nil {
			t.Fatalf("Create %s: %v", d.ID, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []string{"a", "b", "b2", "c"}
	if len(list) != len(wantOrder) {
		t.Fatalf("List returned %d docs", len(list))
	}
	for i, want := range wantOrder {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestMemoryStoreListEmpty(t *testing.T) {
	list, err := NewMemoryStore().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d", len(list))
	}
}
