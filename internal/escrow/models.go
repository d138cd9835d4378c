// Package escrow orchestrates the purchase: one unit of work debits the
// buyer, opens the transaction in escrow, pins the commission, notarizes the
// contract and notifies both parties. Funds debited into escrow stay there;
// no settlement or refund path exists yet.
package escrow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"richideia/pkg/domain"
)

type Status string

const (
	StatusEscrow    Status = "escrow"
	StatusCompleted Status = "completed"
	StatusDisputed  Status = "disputed"
	StatusCancelled Status = "cancelled"
)

// commissionDivisor pins the platform fee at 10% of the sale price.
const commissionDivisor = 10

// CommissionFor snapshots the platform fee at purchase time. The snapshot is
// stored on the transaction so a later fee change never rewrites history.
func CommissionFor(amountCents int64) int64 {
	return amountCents / commissionDivisor
}

// Transaction is the escrow record. AmountCents and CommissionCents are
// immutable snapshots of the idea price and fee at purchase time.
type Transaction struct {
	ID              domain.TransactionID
	BuyerID         domain.UserID
	SellerID        domain.UserID
	IdeaID          domain.IdeaID
	AmountCents     int64
	CommissionCents int64
	Status          Status
	CreatedAt       time.Time
}

// Contract is the notarized proof bound to exactly one transaction.
type Contract struct {
	ID            domain.ContractID
	TransactionID domain.TransactionID
	Hash          string
	CreatedAt     time.Time
}

// contractHash digests the immutable facts of the deal. Recomputing it over a
// stored transaction must reproduce the stored hash.
func contractHash(t Transaction) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%d|%d",
		t.ID, t.BuyerID, t.SellerID, t.IdeaID, t.AmountCents, t.CreatedAt.UnixNano())))
	return hex.EncodeToString(sum[:])
}

type Store interface {
	CreateTransaction(ctx context.Context, t Transaction) error
	CreateContract(ctx context.Context, c Contract) error
	FindTransaction(ctx context.Context, id domain.TransactionID) (Transaction, error)
	// ListByUser returns transactions where the user is buyer or seller,
	// newest first.
	ListByUser(ctx context.Context, userID domain.UserID) ([]Transaction, error)
	FindContractByTransaction(ctx context.Context, txID domain.TransactionID) (Contract, error)
}
