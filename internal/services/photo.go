package services

import (
	"context"
	"fmt"

	"lovespace/internal/amqp"
	"lovespace/internal/core"
	"lovespace/internal/imaging"
	"lovespace/internal/store"
)

// Photos returns a partition's photo entries, newest first.
func (s *SpaceService) Photos(ctx context.Context, partition string) ([]core.PhotoEntry, error) {
	objs, err := s.objects(ctx, store.KindPhoto, partition)
	if err != nil {
		return nil, err
	}
	out := make([]core.PhotoEntry, 0, len(objs))
	for _, o := range objs {
		out = append(out, core.DecodePhotoEntry(o.ID, o.CreatedAt, o.Fields))
	}
	return out, nil
}

// AddPhoto compresses imageData and persists the result. When imageData is
// nil the entry must already carry a URL or an inline payload.
func (s *SpaceService) AddPhoto(ctx context.Context, p core.PhotoEntry, imageData []byte) (core.PhotoEntry, error) {
	if len(imageData) > 0 {
		res, err := imaging.Compress(imageData, s.photos)
		if err != nil {
			return core.PhotoEntry{}, err
		}
		p.Base64 = res.Base64
	}
	if err := p.Validate(); err != nil {
		return core.PhotoEntry{}, err
	}
	obj, err := s.store.Save(ctx, store.KindPhoto, p.SecretCode, p.Fields())
	if err != nil {
		return core.PhotoEntry{}, fmt.Errorf("save photo: %w", err)
	}
	p.ID = obj.ID
	p.CreatedAt = obj.CreatedAt
	s.afterWrite(ctx, store.KindPhoto, p.SecretCode, amqp.ActionCreated, p.ID)
	return p, nil
}

// DeletePhoto removes a photo; only its author may do so.
func (s *SpaceService) DeletePhoto(ctx context.Context, partition, id string, requester core.Role) error {
	return s.destroyOwned(ctx, store.KindPhoto, partition, id, requester)
}
