// Package nda is the consent registry: one immutable signature per
// (user, idea) pair, enforced by the storage layer so concurrent duplicate
// signs resolve to exactly one winner. There is no revocation.
package nda

import (
	"context"
	"time"

	"richideia/pkg/domain"
)

// NDA is a signed confidentiality agreement. Immutable once created.
type NDA struct {
	ID       domain.NDAID
	UserID   domain.UserID
	IdeaID   domain.IdeaID
	SignedAt time.Time
	IP       string
}

// Store persists signatures. Create must enforce the (user, idea) uniqueness
// constraint itself and return sentinel.ErrConflict for duplicates, including
// ones racing an in-flight insert; a prior read is not an acceptable check.
type Store interface {
	Create(ctx context.Context, nda NDA) error
	Find(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID) (NDA, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]NDA, error)
	ListByIdeas(ctx context.Context, ideaIDs []domain.IdeaID) ([]NDA, error)
}
