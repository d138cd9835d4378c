package ratings

import (
	"context"
	"errors"
	"strings"
	"time"

	"richideia/internal/escrow"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/sentinel"
)

// TransactionReader is the escrow slice the service needs to tie a rating to
// a real deal.
type TransactionReader interface {
	FindTransaction(ctx context.Context, id domain.TransactionID) (escrow.Transaction, error)
}

type Service struct {
	store        Store
	transactions TransactionReader
}

func NewService(store Store, transactions TransactionReader) *Service {
	return &Service{store: store, transactions: transactions}
}

// Rate files a rating against the counterparty of one of the rater's
// transactions. One rating per rater per transaction.
func (s *Service) Rate(ctx context.Context, raterID domain.UserID, transactionID domain.TransactionID, score int, comment string) (Rating, error) {
	if score < 1 || score > 5 {
		return Rating{}, dErrors.New(dErrors.CodeValidation, "score must be between 1 and 5")
	}

	t, err := s.transactions.FindTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Rating{}, dErrors.New(dErrors.CodeNotFound, "transaction not found")
		}
		return Rating{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transaction")
	}

	var target domain.UserID
	switch raterID {
	case t.BuyerID:
		target = t.SellerID
	case t.SellerID:
		target = t.BuyerID
	default:
		return Rating{}, dErrors.New(dErrors.CodeForbidden, "only a party to the transaction may rate it")
	}

	r := Rating{
		ID:            domain.NewRatingID(),
		TransactionID: transactionID,
		FromUserID:    raterID,
		ToUserID:      target,
		Score:         score,
		Comment:       strings.TrimSpace(comment),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Rating{}, dErrors.New(dErrors.CodeConflict, "transaction already rated")
		}
		return Rating{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store rating")
	}
	return r, nil
}

// ForUser returns the ratings a user received plus their average score.
func (s *Service) ForUser(ctx context.Context, userID domain.UserID) (Summary, error) {
	received, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ratings")
	}
	summary := Summary{Ratings: received, Count: len(received)}
	if summary.Count > 0 {
		var total int
		for _, r := range received {
			total += r.Score
		}
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}
