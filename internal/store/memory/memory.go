// Package memory is an in-memory Store used by tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"lovespace/internal/core"
	"lovespace/internal/store"
)

type Store struct {
	mu sync.RWMutex
	// records per partition per kind, oldest first
	records map[string]map[store.Kind][]store.Object

	now        func() time.Time
	fieldLimit int
}

type Option func(*Store)

// WithNow fixes the clock, so tests get deterministic CreatedAt values.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithFieldLimit caps the length of string field values, mimicking the
// remote backend's per-field size limit.
func WithFieldLimit(n int) Option {
	return func(s *Store) { s.fieldLimit = n }
}

func New(opts ...Option) *Store {
	s := &Store{
		records: make(map[string]map[store.Kind][]store.Object),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Query(ctx context.Context, kind store.Kind, partition string) ([]store.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[partition][kind]
	if len(recs) == 0 {
		return nil, store.ErrNotFound
	}
	out := make([]store.Object, len(recs))
	for i, r := range recs {
		out[len(recs)-1-i] = copyObject(r)
	}
	return out, nil
}

func (s *Store) Save(ctx context.Context, kind store.Kind, partition string, fields map[string]any) (store.Object, error) {
	if err := s.checkFields(fields); err != nil {
		return store.Object{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obj := store.Object{
		ID:        uuid.New().String(),
		CreatedAt: core.FormatTimestamp(s.now()),
		Fields:    copyFields(fields),
	}
	if s.records[partition] == nil {
		s.records[partition] = make(map[store.Kind][]store.Object)
	}
	s.records[partition][kind] = append(s.records[partition][kind], obj)
	return copyObject(obj), nil
}

func (s *Store) Update(ctx context.Context, kind store.Kind, partition, id string, fields map[string]any) error {
	if err := s.checkFields(fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[partition][kind]
	for i := range recs {
		if recs[i].ID == id {
			for k, v := range fields {
				recs[i].Fields[k] = v
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Destroy(ctx context.Context, kind store.Kind, partition, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[partition][kind]
	for i := range recs {
		if recs[i].ID == id {
			s.records[partition][kind] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) checkFields(fields map[string]any) error {
	if s.fieldLimit <= 0 {
		return nil
	}
	for k, v := range fields {
		if str, ok := v.(string); ok && len(str) > s.fieldLimit {
			return fmt.Errorf("field %s: %w", k, store.ErrTooLarge)
		}
	}
	return nil
}

func copyObject(o store.Object) store.Object {
	o.Fields = copyFields(o.Fields)
	return o
}

func copyFields(f map[string]any) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
