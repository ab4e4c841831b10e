// Package store defines the document-store port the sync layer talks to.
// Implementations live in subpackages; callers never depend on a concrete
// backend.
package store

import (
	"context"
	"errors"
)

// Kind names a record collection. The values are wire-level table names
// shared with pre-existing partitions, so they must not change.
type Kind string

const (
	KindDiary      Kind = "Diary"
	KindPlanTask   Kind = "PlanTask"
	KindAccounting Kind = "Accounting"
	KindMood       Kind = "MoodEntry"
	KindPhoto      Kind = "PhotoEntry"
)

// Kinds returns every collection a partition can hold.
func Kinds() []Kind {
	return []Kind{KindDiary, KindPlanTask, KindAccounting, KindMood, KindPhoto}
}

// Object is a raw stored record: identity, creation timestamp and an opaque
// field map. Typed decoding happens above this layer.
type Object struct {
	ID        string
	CreatedAt string
	Fields    map[string]any
}

var (
	// ErrNotFound covers both a missing record and a partition that has
	// never been written to.
	ErrNotFound = errors.New("not found")
	// ErrTooLarge is returned when a field exceeds the backend's size cap.
	ErrTooLarge = errors.New("field exceeds backend size limit")
)

// Store is the persistence port. partition is the couple's shared secret
// code; every operation is scoped to it.
type Store interface {
	// Query returns the partition's records of one kind, newest first.
	// A partition with no such records returns ErrNotFound.
	Query(ctx context.Context, kind Kind, partition string) ([]Object, error)
	// Save persists fields as a new record and returns it with its
	// assigned ID and CreatedAt.
	Save(ctx context.Context, kind Kind, partition string, fields map[string]any) (Object, error)
	// Update replaces the named fields on an existing record.
	Update(ctx context.Context, kind Kind, partition, id string, fields map[string]any) error
	// Destroy deletes a record.
	Destroy(ctx context.Context, kind Kind, partition, id string) error
}
