// Package domain holds the identifier and principal types shared by every
// module. IDs are distinct UUID types so a transaction id can never be passed
// where an idea id is expected; the compiler enforces the distinction.
package domain

import (
	"github.com/google/uuid"

	dErrors "richideia/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	IdeaID         uuid.UUID
	TransactionID  uuid.UUID
	ContractID     uuid.UUID
	NDAID          uuid.UUID
	MessageID      uuid.UUID
	NotificationID uuid.UUID
	RatingID       uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id IdeaID) String() string         { return uuid.UUID(id).String() }
func (id TransactionID) String() string  { return uuid.UUID(id).String() }
func (id ContractID) String() string     { return uuid.UUID(id).String() }
func (id NDAID) String() string          { return uuid.UUID(id).String() }
func (id MessageID) String() string      { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id RatingID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id IdeaID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id TransactionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewIdeaID() IdeaID                 { return IdeaID(uuid.New()) }
func NewTransactionID() TransactionID   { return TransactionID(uuid.New()) }
func NewContractID() ContractID         { return ContractID(uuid.New()) }
func NewNDAID() NDAID                   { return NDAID(uuid.New()) }
func NewMessageID() MessageID           { return MessageID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }
func NewRatingID() RatingID             { return RatingID(uuid.New()) }

// parseUUID enforces the trust-boundary invariant: IDs arriving from external
// input must be valid, non-empty, non-nil UUIDs.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be the nil UUID")
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func ParseIdeaID(s string) (IdeaID, error) {
	u, err := parseUUID(s, "idea id")
	return IdeaID(u), err
}

func ParseTransactionID(s string) (TransactionID, error) {
	u, err := parseUUID(s, "transaction id")
	return TransactionID(u), err
}

func ParseNotificationID(s string) (NotificationID, error) {
	u, err := parseUUID(s, "notification id")
	return NotificationID(u), err
}
