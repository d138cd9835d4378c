// Package catalog is the idea collaborator: it owns the records the trust core
// reads (price, creator, status) and the protected description the disclosure
// gate decides over. Search and presentation live elsewhere.
package catalog

import (
	"context"
	"time"

	"richideia/pkg/domain"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Idea is a listed idea. Description is the protected field: partial
// projections must never carry it.
type Idea struct {
	ID            domain.IdeaID
	CreatorID     domain.UserID
	Title         string
	ProblemSolved string
	Sector        string
	PriceCents    int64
	MaturityLevel string
	Description   string
	Status        Status
	CreatedAt     time.Time
}

type Store interface {
	Create(ctx context.Context, idea Idea) error
	FindByID(ctx context.Context, id domain.IdeaID) (Idea, error)
	ListActive(ctx context.Context) ([]Idea, error)
	ListByCreator(ctx context.Context, creatorID domain.UserID) ([]Idea, error)
}
