package services

import (
	"context"
	"fmt"
	"log/slog"

	"lovespace/internal/amqp"
	"lovespace/internal/core"
	"lovespace/internal/store"
)

// Accounting returns a partition's expense entries, newest first. Entries
// whose stored amount cannot be parsed are kept with a zero amount so the
// rest of the ledger still renders.
func (s *SpaceService) Accounting(ctx context.Context, partition string) ([]core.AccountingEntry, error) {
	objs, err := s.objects(ctx, store.KindAccounting, partition)
	if err != nil {
		return nil, err
	}
	out := make([]core.AccountingEntry, 0, len(objs))
	for _, o := range objs {
		e, ok := core.DecodeAccountingEntry(o.ID, o.CreatedAt, o.Fields)
		if !ok {
			slog.WarnContext(ctx, "Accounting entry has unparseable amount",
				"id", o.ID, "amount", o.Fields["amount"])
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *SpaceService) AddAccountingEntry(ctx context.Context, e core.AccountingEntry) (core.AccountingEntry, error) {
	if err := e.Validate(); err != nil {
		return core.AccountingEntry{}, err
	}
	obj, err := s.store.Save(ctx, store.KindAccounting, e.SecretCode, e.Fields())
	if err != nil {
		return core.AccountingEntry{}, fmt.Errorf("save accounting entry: %w", err)
	}
	e.ID = obj.ID
	e.CreatedAt = obj.CreatedAt
	s.afterWrite(ctx, store.KindAccounting, e.SecretCode, amqp.ActionCreated, e.ID)
	return e, nil
}

// DeleteAccountingEntry removes an entry. Either partner may delete; the
// ledger belongs to both.
func (s *SpaceService) DeleteAccountingEntry(ctx context.Context, partition, id string) error {
	return s.destroyShared(ctx, store.KindAccounting, partition, id)
}
