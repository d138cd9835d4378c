// Package messaging holds the per-idea channels. Access to a channel follows
// the disclosure gate: whoever may see the full idea may read and write its
// channel, nobody else may do either.
package messaging

import (
	"context"
	"time"

	"richideia/pkg/domain"
)

type Message struct {
	ID         domain.MessageID
	IdeaID     domain.IdeaID
	SenderID   domain.UserID
	ReceiverID domain.UserID
	Content    string
	CreatedAt  time.Time
}

type Store interface {
	Create(ctx context.Context, m Message) error
	// ListByIdea returns the channel in chronological order.
	ListByIdea(ctx context.Context, ideaID domain.IdeaID) ([]Message, error)
}

// Thread is one active conversation: an idea plus the counterparty on the
// other side of a signed NDA.
type Thread struct {
	IdeaID         domain.IdeaID
	IdeaTitle      string
	CounterpartyID domain.UserID
	SignedAt       time.Time
}
