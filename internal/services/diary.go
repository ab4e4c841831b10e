package services

import (
	"context"
	"fmt"

	"lovespace/internal/amqp"
	"lovespace/internal/core"
	"lovespace/internal/store"
)

// Diary returns a partition's diary entries, newest first.
func (s *SpaceService) Diary(ctx context.Context, partition string) ([]core.DiaryEntry, error) {
	objs, err := s.objects(ctx, store.KindDiary, partition)
	if err != nil {
		return nil, err
	}
	out := make([]core.DiaryEntry, 0, len(objs))
	for _, o := range objs {
		out = append(out, core.DecodeDiaryEntry(o.ID, o.CreatedAt, o.Fields))
	}
	return out, nil
}

// AddDiaryEntry validates and persists an entry, returning it with its
// assigned identity.
func (s *SpaceService) AddDiaryEntry(ctx context.Context, e core.DiaryEntry) (core.DiaryEntry, error) {
	if err := e.Validate(); err != nil {
		return core.DiaryEntry{}, err
	}
	obj, err := s.store.Save(ctx, store.KindDiary, e.SecretCode, e.Fields())
	if err != nil {
		return core.DiaryEntry{}, fmt.Errorf("save diary entry: %w", err)
	}
	e.ID = obj.ID
	e.CreatedAt = obj.CreatedAt
	s.afterWrite(ctx, store.KindDiary, e.SecretCode, amqp.ActionCreated, e.ID)
	return e, nil
}

// DeleteDiaryEntry removes an entry; only its author may do so.
func (s *SpaceService) DeleteDiaryEntry(ctx context.Context, partition, id string, requester core.Role) error {
	return s.destroyOwned(ctx, store.KindDiary, partition, id, requester)
}
