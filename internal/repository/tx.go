package repository

import "context"

// TxRepositories are repositories bound to a single database transaction.
type TxRepositories struct {
	Payments PaymentRepository
	Orders   OrderRepository
}

// TxRunner runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
