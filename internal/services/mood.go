package services

import (
	"context"
	"fmt"

	"lovespace/internal/amqp"
	"lovespace/internal/core"
	"lovespace/internal/imaging"
	"lovespace/internal/store"
)

// Moods returns a partition's mood entries, newest first.
func (s *SpaceService) Moods(ctx context.Context, partition string) ([]core.MoodEntry, error) {
	objs, err := s.objects(ctx, store.KindMood, partition)
	if err != nil {
		return nil, err
	}
	out := make([]core.MoodEntry, 0, len(objs))
	for _, o := range objs {
		out = append(out, core.DecodeMoodEntry(o.ID, o.CreatedAt, o.Fields))
	}
	return out, nil
}

// AddMoodEntry persists a mood log. When imageData is non-empty it is
// compressed and embedded alongside the note.
func (s *SpaceService) AddMoodEntry(ctx context.Context, m core.MoodEntry, imageData []byte) (core.MoodEntry, error) {
	if len(imageData) > 0 {
		res, err := imaging.Compress(imageData, s.photos)
		if err != nil {
			return core.MoodEntry{}, err
		}
		m.PhotoBase64 = res.Base64
	}
	if m.Weight == 0 {
		m.Weight = m.Mood.Weight()
	}
	if err := m.Validate(); err != nil {
		return core.MoodEntry{}, err
	}
	obj, err := s.store.Save(ctx, store.KindMood, m.SecretCode, m.Fields())
	if err != nil {
		return core.MoodEntry{}, fmt.Errorf("save mood entry: %w", err)
	}
	m.ID = obj.ID
	m.CreatedAt = obj.CreatedAt
	s.afterWrite(ctx, store.KindMood, m.SecretCode, amqp.ActionCreated, m.ID)
	return m, nil
}

// DeleteMoodEntry removes an entry; only its author may do so.
func (s *SpaceService) DeleteMoodEntry(ctx context.Context, partition, id string, requester core.Role) error {
	return s.destroyOwned(ctx, store.KindMood, partition, id, requester)
}
