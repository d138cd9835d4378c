package escrow

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"richideia/internal/catalog"
	"richideia/internal/notify"
	"richideia/internal/outbox"
	"richideia/internal/platform/metrics"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/sentinel"
	platformtx "richideia/pkg/platform/tx"
)

var tracer = otel.Tracer("richideia/escrow")

// IdeaReader is the slice of the catalog the orchestrator needs.
type IdeaReader interface {
	FindByID(ctx context.Context, id domain.IdeaID) (catalog.Idea, error)
}

// Wallet is the ledger surface used inside the unit of work.
type Wallet interface {
	Debit(ctx context.Context, userID domain.UserID, amountCents int64) error
	Balance(ctx context.Context, userID domain.UserID) (int64, error)
}

// Notifier records notification rows inside the unit of work.
type Notifier interface {
	Create(ctx context.Context, n notify.Notification) error
}

// Service runs the purchase as one atomic unit of work. Every write inside
// Buy joins the same transaction; a failure at any step leaves no trace.
type Service struct {
	store         Store
	ideas         IdeaReader
	wallet        Wallet
	notifications Notifier
	events        outbox.Store
	runner        platformtx.Runner
	metrics       *metrics.Metrics
}

func NewService(store Store, ideas IdeaReader, wallet Wallet, notifications Notifier, events outbox.Store, runner platformtx.Runner, m *metrics.Metrics) *Service {
	return &Service{
		store:         store,
		ideas:         ideas,
		wallet:        wallet,
		notifications: notifications,
		events:        events,
		runner:        runner,
		metrics:       m,
	}
}

// PurchaseReceipt is returned to the buyer after a committed purchase.
type PurchaseReceipt struct {
	Transaction Transaction
	Contract    Contract
}

// Buy purchases the idea for its current listed price. On success the buyer
// has been debited, the transaction sits in escrow with the commission
// snapshot pinned, the contract is notarized and both parties have a
// notification row. On any failure none of those writes survive.
func (s *Service) Buy(ctx context.Context, buyerID domain.UserID, ideaID domain.IdeaID) (PurchaseReceipt, error) {
	ctx, span := tracer.Start(ctx, "escrow.Buy",
		trace.WithAttributes(attribute.String("idea_id", ideaID.String())))
	defer span.End()

	idea, err := s.ideas.FindByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return PurchaseReceipt{}, s.reject("idea_not_found", dErrors.New(dErrors.CodeNotFound, "idea not found"))
		}
		return PurchaseReceipt{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load idea")
	}
	if idea.CreatorID == buyerID {
		return PurchaseReceipt{}, s.reject("self_purchase", dErrors.New(dErrors.CodeValidation, "you cannot buy your own idea"))
	}

	now := time.Now().UTC()
	transaction := Transaction{
		ID:              domain.NewTransactionID(),
		BuyerID:         buyerID,
		SellerID:        idea.CreatorID,
		IdeaID:          idea.ID,
		AmountCents:     idea.PriceCents,
		CommissionCents: CommissionFor(idea.PriceCents),
		Status:          StatusEscrow,
		CreatedAt:       now,
	}
	contract := Contract{
		ID:            domain.NewContractID(),
		TransactionID: transaction.ID,
		Hash:          contractHash(transaction),
		CreatedAt:     now,
	}

	ctx = platformtx.WithLockKey(ctx, buyerID.String())
	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.wallet.Debit(ctx, buyerID, transaction.AmountCents); err != nil {
			return err
		}
		if err := s.store.CreateTransaction(ctx, transaction); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to open escrow transaction")
		}
		if err := s.store.CreateContract(ctx, contract); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to notarize contract")
		}
		if err := s.notifyParties(ctx, transaction, idea); err != nil {
			return err
		}
		return s.appendEvent(ctx, transaction)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInsufficientFunds) {
			return PurchaseReceipt{}, s.reject("insufficient_funds", err)
		}
		return PurchaseReceipt{}, s.reject("internal", err)
	}

	if s.metrics != nil {
		s.metrics.Purchases.Inc()
	}
	return PurchaseReceipt{Transaction: transaction, Contract: contract}, nil
}

func (s *Service) notifyParties(ctx context.Context, t Transaction, idea catalog.Idea) error {
	seller := notify.Notification{
		ID:        domain.NewNotificationID(),
		UserID:    t.SellerID,
		Title:     "Idea sold",
		Message:   "Your idea \"" + idea.Title + "\" was purchased; funds are held in escrow.",
		Type:      notify.TypeSuccess,
		CreatedAt: t.CreatedAt,
	}
	buyer := notify.Notification{
		ID:        domain.NewNotificationID(),
		UserID:    t.BuyerID,
		Title:     "Purchase confirmed",
		Message:   "Your purchase of \"" + idea.Title + "\" is confirmed; funds are held in escrow.",
		Type:      notify.TypeSuccess,
		CreatedAt: t.CreatedAt,
	}
	if err := s.notifications.Create(ctx, seller); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to notify seller")
	}
	if err := s.notifications.Create(ctx, buyer); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to notify buyer")
	}
	return nil
}

func (s *Service) appendEvent(ctx context.Context, t Transaction) error {
	if s.events == nil {
		return nil
	}
	event, err := outbox.NewEvent("transaction", t.ID.String(), outbox.EventPurchaseEscrowed, map[string]any{
		"transaction_id":   t.ID.String(),
		"buyer_id":         t.BuyerID.String(),
		"seller_id":        t.SellerID.String(),
		"idea_id":          t.IdeaID.String(),
		"amount_cents":     t.AmountCents,
		"commission_cents": t.CommissionCents,
		"status":           string(t.Status),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build purchase event")
	}
	if err := s.events.Append(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record purchase event")
	}
	return nil
}

func (s *Service) reject(reason string, err error) error {
	if s.metrics != nil {
		s.metrics.PurchaseFailures.WithLabelValues(reason).Inc()
	}
	return err
}

// Get loads a transaction visible only to its parties.
func (s *Service) Get(ctx context.Context, principal domain.Principal, id domain.TransactionID) (Transaction, error) {
	t, err := s.store.FindTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Transaction{}, dErrors.New(dErrors.CodeNotFound, "transaction not found")
		}
		return Transaction{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transaction")
	}
	if t.BuyerID != principal.ID && t.SellerID != principal.ID && !principal.Role.Elevated() {
		return Transaction{}, dErrors.New(dErrors.CodeForbidden, "not a party to this transaction")
	}
	return t, nil
}

// History lists the user's transactions, newest first.
func (s *Service) History(ctx context.Context, userID domain.UserID) ([]Transaction, error) {
	out, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transactions")
	}
	return out, nil
}
