package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lovespace/internal/store"
)

func TestSaveAndQueryNewestFirst(t *testing.T) {
	clock := time.Date(2026, time.January, 4, 10, 0, 0, 0, time.UTC)
	s := New(WithNow(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	ctx := context.Background()

	first, err := s.Save(ctx, store.KindDiary, "code", map[string]any{"text": "first"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := s.Save(ctx, store.KindDiary, "code", map[string]any{"text": "second"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("records should get distinct ids")
	}

	got, err := s.Query(ctx, store.KindDiary, "code")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Fields["text"] != "second" || got[1].Fields["text"] != "first" {
		t.Error("expected newest first")
	}
	if got[0].CreatedAt != "2026-01-04 10:02:00" {
		t.Errorf("CreatedAt = %q", got[0].CreatedAt)
	}
}

func TestQueryEmptyPartition(t *testing.T) {
	s := New()
	if _, err := s.Query(context.Background(), store.KindDiary, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPartitionsAreIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Save(ctx, store.KindDiary, "ours", map[string]any{"text": "hi"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Query(ctx, store.KindDiary, "theirs"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()
	obj, err := s.Save(ctx, store.KindPlanTask, "code", map[string]any{"completed": "false", "description": "d"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Update(ctx, store.KindPlanTask, "code", obj.ID, map[string]any{"completed": "true"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.Query(ctx, store.KindPlanTask, "code")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got[0].Fields["completed"] != "true" {
		t.Errorf("completed = %v", got[0].Fields["completed"])
	}
	if got[0].Fields["description"] != "d" {
		t.Error("untouched fields must survive an update")
	}
	if err := s.Update(ctx, store.KindPlanTask, "code", "missing", map[string]any{"completed": "true"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDestroy(t *testing.T) {
	s := New()
	ctx := context.Background()
	obj, err := s.Save(ctx, store.KindDiary, "code", map[string]any{"text": "bye"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Destroy(ctx, store.KindDiary, "code", obj.ID); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := s.Query(ctx, store.KindDiary, "code"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
	if err := s.Destroy(ctx, store.KindDiary, "code", obj.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestFieldLimit(t *testing.T) {
	s := New(WithFieldLimit(5))
	ctx := context.Background()
	if _, err := s.Save(ctx, store.KindPhoto, "code", map[string]any{"photoBase64": "toolongpayload"}); !errors.Is(err, store.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if _, err := s.Save(ctx, store.KindPhoto, "code", map[string]any{"photoBase64": "ok"}); err != nil {
		t.Fatalf("small payload: %v", err)
	}
}

func TestCopyOnRead(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Save(ctx, store.KindDiary, "code", map[string]any{"text": "original"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Query(ctx, store.KindDiary, "code")
	got[0].Fields["text"] = "mutated"
	again, _ := s.Query(ctx, store.KindDiary, "code")
	if again[0].Fields["text"] != "original" {
		t.Fatal("caller mutation leaked into the store")
	}
}
