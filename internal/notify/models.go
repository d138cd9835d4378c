// Package notify is the notification record sink. Writers fire and forget;
// the orchestrator inserts records inside its unit of work and never waits on
// delivery.
package notify

import (
	"context"
	"time"

	"richideia/pkg/domain"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
)

// Notification is append-only except for the is_read flag.
type Notification struct {
	ID        domain.NotificationID
	UserID    domain.UserID
	Title     string
	Message   string
	Type      Type
	IsRead    bool
	CreatedAt time.Time
}

type Store interface {
	Create(ctx context.Context, n Notification) error
	// ListByUser returns the newest notifications first, capped by limit.
	ListByUser(ctx context.Context, userID domain.UserID, limit int) ([]Notification, error)
	// MarkRead flips is_read for a notification owned by userID. Returns
	// sentinel.ErrNotFound when the id does not exist or belongs to another user.
	MarkRead(ctx context.Context, userID domain.UserID, id domain.NotificationID) error
}
