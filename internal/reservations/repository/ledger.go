package repository

import (
	"context"
	"sort"

	mongotx "bonzai/pkg/db/mongo"
)

// AvailabilityLedger applies a set of per-room-type availability deltas and
// the caller's booking-record writes as one atomic unit: either every delta
// lands with no counter going negative and fn succeeds, or nothing is
// applied. Independent per-type conditional writes would leave partial
// reservations behind when one type is oversubscribed; the multi-document
// transaction closes that hole.
type AvailabilityLedger interface {
	Apply(ctx context.Context, deltas map[int]int, fn mongotx.TransactionFunc) error
}

type mongoAvailabilityLedger struct {
	inventory RoomInventoryStore
	txManager mongotx.TransactionManager
}

func NewAvailabilityLedger(inventory RoomInventoryStore, txManager mongotx.TransactionManager) AvailabilityLedger {
	return &mongoAvailabilityLedger{
		inventory: inventory,
		txManager: txManager,
	}
}

// Apply runs reservations (negative deltas) before releases and fn, in
// ascending room-type order so concurrent transactions touch counters in
// the same sequence. A delta of zero is skipped.
func (l *mongoAvailabilityLedger) Apply(ctx context.Context, deltas map[int]int, fn mongotx.TransactionFunc) error {
	roomTypeIDs := make([]int, 0, len(deltas))
	for roomTypeID := range deltas {
		roomTypeIDs = append(roomTypeIDs, roomTypeID)
	}
	sort.Ints(roomTypeIDs)

	return l.txManager.ExecuteTransaction(ctx, func(sessCtx mongotx.SessionContext) error {
		for _, roomTypeID := range roomTypeIDs {
			delta := deltas[roomTypeID]
			switch {
			case delta < 0:
				if err := l.inventory.Reserve(sessCtx, roomTypeID, -delta); err != nil {
					return err
				}
			case delta > 0:
				if err := l.inventory.Release(sessCtx, roomTypeID, delta); err != nil {
					return err
				}
			}
		}

		if fn != nil {
			return fn(sessCtx)
		}
		return nil
	})
}
