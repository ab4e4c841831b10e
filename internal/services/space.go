// Package services holds the couple-space sync layer: every read goes
// through the cache, every write goes to the store, invalidates the cache
// and notifies other instances.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"lovespace/internal/amqp"
	"lovespace/internal/cache"
	"lovespace/internal/core"
	"lovespace/internal/imaging"
	"lovespace/internal/store"
)

// ErrNotOwner is returned when a partner tries to delete a record the other
// partner wrote.
var ErrNotOwner = errors.New("record belongs to the other partner")

const defaultCacheSize = 256

// SpaceService orchestrates reads and writes for couple spaces. The AMQP
// client is optional; without it, other instances converge via TTL expiry.
type SpaceService struct {
	store       store.Store
	cache       *cache.LRUCache[[]store.Object]
	amqpClient  *amqp.Client
	photos      imaging.Policy
	anniversary time.Time
}

func NewSpaceService(st store.Store, ttl time.Duration, amqpClient *amqp.Client, photos imaging.Policy, anniversary time.Time) *SpaceService {
	return &SpaceService{
		store:       st,
		cache:       cache.NewLRUCache[[]store.Object](defaultCacheSize, ttl),
		amqpClient:  amqpClient,
		photos:      photos,
		anniversary: anniversary,
	}
}

// cacheKeySep joins partition and kind in cache keys. A control byte
// cannot appear in a secret code, so keys never alias across partitions.
const cacheKeySep = "\x00"

func cacheKey(partition string, kind store.Kind) string {
	return partition + cacheKeySep + string(kind)
}

// objects is the cache-aside read path. A fetch failure falls back to the
// stale copy when one is retained; a partition the store has never seen
// reads as empty, not as an error.
func (s *SpaceService) objects(ctx context.Context, kind store.Kind, partition string) ([]store.Object, error) {
	key := cacheKey(partition, kind)
	if objs, ok := s.cache.Get(key); ok {
		return objs, nil
	}

	objs, err := s.store.Query(ctx, kind, partition)
	switch {
	case errors.Is(err, store.ErrNotFound):
		objs = []store.Object{}
	case err != nil:
		if stale, _, ok := s.cache.GetStale(key); ok {
			slog.WarnContext(ctx, "Store fetch failed, serving stale cache",
				"kind", kind, "error", err)
			return stale, nil
		}
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}

	s.cache.Set(key, objs)
	return objs, nil
}

// Invalidate drops every cached view of a partition.
func (s *SpaceService) Invalidate(partition string) {
	s.cache.DeletePrefix(partition + cacheKeySep)
}

// InvalidateKind drops one cached collection.
func (s *SpaceService) InvalidateKind(partition string, kind store.Kind) {
	s.cache.Delete(cacheKey(partition, kind))
}

// RefreshAll re-fetches every collection of a partition concurrently. It is
// the pull-to-refresh path: failures surface instead of falling back.
func (s *SpaceService) RefreshAll(ctx context.Context, partition string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range store.Kinds() {
		kind := kind
		g.Go(func() error {
			objs, err := s.store.Query(ctx, kind, partition)
			if errors.Is(err, store.ErrNotFound) {
				objs = []store.Object{}
			} else if err != nil {
				return fmt.Errorf("refresh %s: %w", kind, err)
			}
			s.cache.Set(cacheKey(partition, kind), objs)
			return nil
		})
	}
	return g.Wait()
}

// HandleRecordChange applies a change notification from another instance.
func (s *SpaceService) HandleRecordChange(msg *amqp.RecordChangeMessage) error {
	s.InvalidateKind(msg.Partition, store.Kind(msg.Kind))
	return nil
}

// CleanCache drops cache entries past the stale-retention window.
func (s *SpaceService) CleanCache() int {
	return s.cache.CleanExpired()
}

func (s *SpaceService) publishChange(ctx context.Context, kind store.Kind, partition, action, id string) {
	if s.amqpClient == nil {
		return
	}
	msg := amqp.NewRecordChangeMessage(string(kind), partition, action, id)
	if err := s.amqpClient.PublishRecordChange(ctx, msg); err != nil {
		// The write already succeeded; peers converge via TTL.
		slog.ErrorContext(ctx, "Failed to publish record change",
			"kind", kind, "action", action, "id", id, "error", err)
	}
}

// afterWrite is the common tail of every mutation.
func (s *SpaceService) afterWrite(ctx context.Context, kind store.Kind, partition, action, id string) {
	s.InvalidateKind(partition, kind)
	s.publishChange(ctx, kind, partition, action, id)
}

// destroyShared deletes a record regardless of which partner wrote it.
// Tasks and expenses are joint property; only personal records (diary,
// mood, photo) go through destroyOwned.
func (s *SpaceService) destroyShared(ctx context.Context, kind store.Kind, partition, id string) error {
	objs, err := s.objects(ctx, kind, partition)
	if err != nil {
		return err
	}
	for _, o := range objs {
		if o.ID != id {
			continue
		}
		if err := s.store.Destroy(ctx, kind, partition, id); err != nil {
			return fmt.Errorf("destroy %s: %w", kind, err)
		}
		s.afterWrite(ctx, kind, partition, amqp.ActionDeleted, id)
		return nil
	}
	return store.ErrNotFound
}

// destroyOwned deletes a record after checking the requester wrote it.
func (s *SpaceService) destroyOwned(ctx context.Context, kind store.Kind, partition, id string, requester core.Role) error {
	objs, err := s.objects(ctx, kind, partition)
	if err != nil {
		return err
	}
	for _, o := range objs {
		if o.ID != id {
			continue
		}
		if author, _ := o.Fields["author"].(string); core.Role(author) != requester {
			return ErrNotOwner
		}
		if err := s.store.Destroy(ctx, kind, partition, id); err != nil {
			return fmt.Errorf("destroy %s: %w", kind, err)
		}
		s.afterWrite(ctx, kind, partition, amqp.ActionDeleted, id)
		return nil
	}
	return store.ErrNotFound
}

func (s *SpaceService) Close() error {
	if s.amqpClient != nil {
		return s.amqpClient.Close()
	}
	return nil
}
