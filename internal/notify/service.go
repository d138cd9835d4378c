package notify

import (
	"context"
	"errors"

	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/sentinel"
)

// defaultListLimit matches the original feed size.
const defaultListLimit = 20

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the user's latest notifications.
func (s *Service) List(ctx context.Context, userID domain.UserID) ([]Notification, error) {
	out, err := s.store.ListByUser(ctx, userID, defaultListLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return out, nil
}

// MarkRead flips the read flag on one of the user's own notifications.
func (s *Service) MarkRead(ctx context.Context, userID domain.UserID, id domain.NotificationID) error {
	if err := s.store.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
	}
	return nil
}
