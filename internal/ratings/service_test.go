package ratings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richideia/internal/escrow"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
)

func seedTransaction(t *testing.T, store *escrow.InMemoryStore, buyer, seller domain.UserID) escrow.Transaction {
	t.Helper()
	txn := escrow.Transaction{
		ID:              domain.NewTransactionID(),
		BuyerID:         buyer,
		SellerID:        seller,
		IdeaID:          domain.NewIdeaID(),
		AmountCents:     30_000,
		CommissionCents: 3_000,
		Status:          escrow.StatusEscrow,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.CreateTransaction(context.Background(), txn))
	return txn
}

func TestRate_BothPartiesOnceEach(t *testing.T) {
	ctx := context.Background()
	txStore := escrow.NewInMemoryStore()
	svc := NewService(NewInMemoryStore(), txStore)
	buyer := domain.NewUserID()
	seller := domain.NewUserID()
	txn := seedTransaction(t, txStore, buyer, seller)

	fromBuyer, err := svc.Rate(ctx, buyer, txn.ID, 5, "smooth deal")
	require.NoError(t, err)
	assert.Equal(t, seller, fromBuyer.ToUserID)

	fromSeller, err := svc.Rate(ctx, seller, txn.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, buyer, fromSeller.ToUserID)

	_, err = svc.Rate(ctx, buyer, txn.ID, 3, "changed my mind")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestRate_NonPartyForbidden(t *testing.T) {
	ctx := context.Background()
	txStore := escrow.NewInMemoryStore()
	svc := NewService(NewInMemoryStore(), txStore)
	txn := seedTransaction(t, txStore, domain.NewUserID(), domain.NewUserID())

	_, err := svc.Rate(ctx, domain.NewUserID(), txn.ID, 5, "drive-by")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestRate_ScoreBounds(t *testing.T) {
	ctx := context.Background()
	txStore := escrow.NewInMemoryStore()
	svc := NewService(NewInMemoryStore(), txStore)
	buyer := domain.NewUserID()
	txn := seedTransaction(t, txStore, buyer, domain.NewUserID())

	for _, score := range []int{0, -1, 6} {
		_, err := svc.Rate(ctx, buyer, txn.ID, score, "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func TestRate_UnknownTransaction(t *testing.T) {
	svc := NewService(NewInMemoryStore(), escrow.NewInMemoryStore())

	_, err := svc.Rate(context.Background(), domain.NewUserID(), domain.NewTransactionID(), 5, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestForUser_Average(t *testing.T) {
	ctx := context.Background()
	txStore := escrow.NewInMemoryStore()
	svc := NewService(NewInMemoryStore(), txStore)
	seller := domain.NewUserID()

	for _, score := range []int{5, 4} {
		buyer := domain.NewUserID()
		txn := seedTransaction(t, txStore, buyer, seller)
		_, err := svc.Rate(ctx, buyer, txn.ID, score, "")
		require.NoError(t, err)
	}

	summary, err := svc.ForUser(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	empty, err := svc.ForUser(ctx, domain.NewUserID())
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)
}
