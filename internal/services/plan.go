package services

import (
	"context"
	"fmt"
	"strconv"

	"lovespace/internal/amqp"
	"lovespace/internal/core"
	"lovespace/internal/store"
)

// Tasks returns a partition's plan tasks, newest first.
func (s *SpaceService) Tasks(ctx context.Context, partition string) ([]core.PlanTask, error) {
	objs, err := s.objects(ctx, store.KindPlanTask, partition)
	if err != nil {
		return nil, err
	}
	out := make([]core.PlanTask, 0, len(objs))
	for _, o := range objs {
		out = append(out, core.DecodePlanTask(o.ID, o.CreatedAt, o.Fields))
	}
	return out, nil
}

func (s *SpaceService) AddPlanTask(ctx context.Context, t core.PlanTask) (core.PlanTask, error) {
	if err := t.Validate(); err != nil {
		return core.PlanTask{}, err
	}
	obj, err := s.store.Save(ctx, store.KindPlanTask, t.SecretCode, t.Fields())
	if err != nil {
		return core.PlanTask{}, fmt.Errorf("save plan task: %w", err)
	}
	t.ID = obj.ID
	t.CreatedAt = obj.CreatedAt
	s.afterWrite(ctx, store.KindPlanTask, t.SecretCode, amqp.ActionCreated, t.ID)
	return t, nil
}

// ToggleTask flips a task's completed flag and returns the new state.
// Either partner may toggle; completion is shared work.
func (s *SpaceService) ToggleTask(ctx context.Context, partition, id string) (bool, error) {
	tasks, err := s.Tasks(ctx, partition)
	if err != nil {
		return false, err
	}
	for _, t := range tasks {
		if t.ID != id {
			continue
		}
		next := !t.Completed
		fields := map[string]any{"completed": strconv.FormatBool(next)}
		if err := s.store.Update(ctx, store.KindPlanTask, partition, id, fields); err != nil {
			return false, fmt.Errorf("toggle task: %w", err)
		}
		s.afterWrite(ctx, store.KindPlanTask, partition, amqp.ActionUpdated, id)
		return next, nil
	}
	return false, store.ErrNotFound
}

// DeletePlanTask removes a task. Either partner may delete; plans are
// shared work like toggling.
func (s *SpaceService) DeletePlanTask(ctx context.Context, partition, id string) error {
	return s.destroyShared(ctx, store.KindPlanTask, partition, id)
}
