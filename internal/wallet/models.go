// Package wallet is the ledger service: it owns each user's custodial balance
// and applies every mutation as a single atomic read-modify-write against that
// user's row. Amounts are int64 cents everywhere so arithmetic stays exact.
package wallet

import (
	"context"

	"richideia/pkg/domain"
)

// Store mutates balances. Implementations must serialize concurrent mutations
// on the same user and enforce the non-negative balance invariant themselves;
// callers never pre-read and then write.
type Store interface {
	// Credit atomically adds amountCents, creating the wallet row when absent.
	Credit(ctx context.Context, userID domain.UserID, amountCents int64) (int64, error)
	// Debit atomically subtracts amountCents. Returns
	// sentinel.ErrInsufficientBalance when the balance cannot cover it.
	Debit(ctx context.Context, userID domain.UserID, amountCents int64) error
	// Balance reads the current balance; a user without a wallet row has zero.
	Balance(ctx context.Context, userID domain.UserID) (int64, error)
}
