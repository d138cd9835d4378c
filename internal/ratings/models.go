// Package ratings records post-deal reputation. A rating is bound to one
// transaction and can only be filed by one of its parties, once.
package ratings

import (
	"context"
	"time"

	"richideia/pkg/domain"
)

type Rating struct {
	ID            domain.RatingID
	TransactionID domain.TransactionID
	FromUserID    domain.UserID
	ToUserID      domain.UserID
	Score         int
	Comment       string
	CreatedAt     time.Time
}

type Store interface {
	// Create returns sentinel.ErrConflict when the rater already filed a
	// rating for this transaction.
	Create(ctx context.Context, r Rating) error
	// ListForUser returns ratings received by the user, newest first.
	ListForUser(ctx context.Context, userID domain.UserID) ([]Rating, error)
}

// Summary is the aggregate a profile page shows.
type Summary struct {
	Ratings []Rating
	Average float64
	Count   int
}
