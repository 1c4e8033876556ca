package mongo

import (
	"context"
	"fmt"

	apperrors "bonzai/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// SessionContext aliases the driver's session context so callers outside
// the storage layer don't import the driver for signatures alone.
type SessionContext = mongo.SessionContext

// TransactionFunc runs inside one multi-document transaction. Every write
// issued through the session context commits or aborts as a unit.
type TransactionFunc func(ctx SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{client: client}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
