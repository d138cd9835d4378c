package wallet

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"richideia/internal/outbox"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/sentinel"
	platformtx "richideia/pkg/platform/tx"
)

var tracer = otel.Tracer("richideia/wallet")

// Service exposes the ledger operations. Deposit is the only one reachable
// from the presentation layer; Debit and Credit serve the purchase
// orchestrator inside its unit of work.
type Service struct {
	store  Store
	events outbox.Store
	runner platformtx.Runner
}

// Option configures the Service.
type Option func(*Service)

// WithEvents makes every successful deposit emit a wallet.deposited outbox
// event. The credit and the event commit as one unit of work: if the append
// fails, the whole deposit rolls back and reports failure.
func WithEvents(events outbox.Store, runner platformtx.Runner) Option {
	return func(s *Service) {
		s.events = events
		s.runner = runner
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deposit credits the user's wallet. Amounts at or below zero are rejected
// before any write happens.
func (s *Service) Deposit(ctx context.Context, userID domain.UserID, amountCents int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "wallet.Deposit",
		trace.WithAttributes(attribute.Int64("amount_cents", amountCents)))
	defer span.End()

	if amountCents <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "deposit amount must be positive")
	}
	if s.events == nil {
		newBalance, err := s.store.Credit(ctx, userID, amountCents)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit wallet")
		}
		return newBalance, nil
	}

	// The credit and its wallet.deposited event are one unit of work.
	var newBalance int64
	ctx = platformtx.WithLockKey(ctx, userID.String())
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		balance, err := s.store.Credit(ctx, userID, amountCents)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit wallet")
		}
		newBalance = balance
		event, err := outbox.NewEvent("wallet", userID.String(), outbox.EventWalletDeposited, map[string]any{
			"user_id":      userID.String(),
			"amount_cents": amountCents,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build deposit event")
		}
		if err := s.events.Append(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to queue deposit event")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Debit subtracts from the user's balance, failing without side effects when
// funds are insufficient. The store arbitrates concurrent debits.
func (s *Service) Debit(ctx context.Context, userID domain.UserID, amountCents int64) error {
	if amountCents <= 0 {
		return dErrors.New(dErrors.CodeValidation, "debit amount must be positive")
	}
	if err := s.store.Debit(ctx, userID, amountCents); err != nil {
		if errors.Is(err, sentinel.ErrInsufficientBalance) {
			return dErrors.New(dErrors.CodeInsufficientFunds, "insufficient funds in wallet")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to debit wallet")
	}
	return nil
}

// Credit adds to the user's balance unconditionally.
func (s *Service) Credit(ctx context.Context, userID domain.UserID, amountCents int64) error {
	if amountCents <= 0 {
		return dErrors.New(dErrors.CodeValidation, "credit amount must be positive")
	}
	if _, err := s.store.Credit(ctx, userID, amountCents); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit wallet")
	}
	return nil
}

// Balance reads the current balance.
func (s *Service) Balance(ctx context.Context, userID domain.UserID) (int64, error) {
	balance, err := s.store.Balance(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	return balance, nil
}
