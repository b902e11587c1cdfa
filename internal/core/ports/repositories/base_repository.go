package repositories

import (
	"context"
)

// TxFunc runs inside a single storage transaction. Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, tx JournalTxRepository) error

// TransactionManager owns the transaction boundary for journal writes.
type TransactionManager interface {
	// WithTx runs fn inside one transaction, committing when fn returns nil and rolling back
	// when it returns an error or panics.
	WithTx(ctx context.Context, fn TxFunc) error
}
