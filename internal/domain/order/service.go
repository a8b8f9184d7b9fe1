package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/kart-chat/internal/domain/menu"
)

// Outcome classifies a checkout result.
type Outcome int

const (
	// OutcomeNothing means there was no order with lines to place.
	OutcomeNothing Outcome = iota
	// OutcomePlaced means the pending order was placed by this call.
	OutcomePlaced
	// OutcomeAlreadyPlaced means the latest order was already placed.
	OutcomeAlreadyPlaced
	// OutcomeAlreadyPaid means the latest order was already paid.
	OutcomeAlreadyPaid
)

// CheckoutResult is the result of Checkout. Reference is set for every
// outcome except OutcomeNothing.
type CheckoutResult struct {
	Outcome   Outcome
	Reference string
	Total     int64
	Order     *Order
}

// CancelResult is the result of CancelCurrent.
type CancelResult struct {
	Cancelled bool
	Order     *Order
}

// Service is the order lifecycle engine. Every mutating operation runs inside
// Store.Atomic so that operations on one session are serialized.
type Service struct {
	menu   menu.Repository
	orders Store
	minter Minter
	now    func() time.Time
	newID  func() string
}

// NewService creates an order Service.
func NewService(items menu.Repository, orders Store, minter Minter) *Service {
	return &Service{
		menu:   items,
		orders: orders,
		minter: minter,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// AddItem adds one unit of the menu item to the session's pending order,
// creating the order if the session has none.
func (s *Service) AddItem(ctx context.Context, sessionKey string, code int) (*Order, error) {
	item, err := s.menu.GetByCode(ctx, code)
	if err != nil {
		return nil, errors.Wrapf(err, "get menu item %d", code)
	}

	var result *Order
	err = s.orders.Atomic(ctx, sessionKey, func(ctx context.Context, tx Tx) error {
		o, err := tx.Pending(ctx, sessionKey)
		created := false
		switch {
		case errors.Is(err, ErrNotFound):
			now := s.now().UTC()
			o = &Order{
				ID:         s.newID(),
				SessionKey: sessionKey,
				Lines:      []Line{},
				Status:     StatusPending,
				CreatedAt:  now,
			}
			created = true
		case err != nil:
			return errors.Wrap(err, "get pending order")
		}

		o.add(*item)
		o.UpdatedAt = s.now().UTC()

		if created {
			if err := tx.Create(ctx, o); err != nil {
				return errors.Wrap(err, "create order")
			}
		} else if err := tx.Update(ctx, o); err != nil {
			return errors.Wrap(err, "update order")
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelCurrent cancels the session's pending order. Having nothing to cancel
// is not an error.
func (s *Service) CancelCurrent(ctx context.Context, sessionKey string) (*CancelResult, error) {
	var result CancelResult
	err := s.orders.Atomic(ctx, sessionKey, func(ctx context.Context, tx Tx) error {
		o, err := tx.Pending(ctx, sessionKey)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "get pending order")
		}
		if err := o.transition(StatusCancelled); err != nil {
			return err
		}
		o.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, o); err != nil {
			return errors.Wrap(err, "update order")
		}
		result = CancelResult{Cancelled: true, Order: o}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Cancelled {
		zctx.From(ctx).Info("Order cancelled",
			zap.String("sid", sessionKey),
			zap.String("order_id", result.Order.ID),
		)
	}
	return &result, nil
}

// Checkout places the session's pending order. When there is no pending order
// but the latest order is already placed or paid, its reference is returned
// unchanged, so repeated checkouts are idempotent.
func (s *Service) Checkout(ctx context.Context, sessionKey string) (*CheckoutResult, error) {
	var result CheckoutResult
	err := s.orders.Atomic(ctx, sessionKey, func(ctx context.Context, tx Tx) error {
		o, err := tx.Pending(ctx, sessionKey)
		switch {
		case errors.Is(err, ErrNotFound):
			return s.previousCheckout(ctx, tx, sessionKey, &result)
		case err != nil:
			return errors.Wrap(err, "get pending order")
		}
		if o.IsEmpty() {
			result = CheckoutResult{Outcome: OutcomeNothing}
			return nil
		}
		if err := s.Place(o); err != nil {
			return err
		}
		if err := tx.Update(ctx, o); err != nil {
			return errors.Wrap(err, "update order")
		}
		result = CheckoutResult{
			Outcome:   OutcomePlaced,
			Reference: o.Reference,
			Total:     o.Total,
			Order:     o,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Outcome == OutcomePlaced {
		zctx.From(ctx).Info("Order placed",
			zap.String("sid", sessionKey),
			zap.String("order_id", result.Order.ID),
			zap.String("reference", result.Reference),
			zap.Int64("total", result.Total),
		)
	}
	return &result, nil
}

func (s *Service) previousCheckout(ctx context.Context, tx Tx, sessionKey string, result *CheckoutResult) error {
	o, err := tx.Latest(ctx, sessionKey, StatusPlaced, StatusPaid, StatusCancelled)
	if errors.Is(err, ErrNotFound) {
		*result = CheckoutResult{Outcome: OutcomeNothing}
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "get latest order")
	}
	switch o.Status {
	case StatusPlaced:
		*result = CheckoutResult{Outcome: OutcomeAlreadyPlaced, Reference: o.Reference, Total: o.Total, Order: o}
	case StatusPaid:
		*result = CheckoutResult{Outcome: OutcomeAlreadyPaid, Reference: o.Reference, Total: o.Total, Order: o}
	default:
		*result = CheckoutResult{Outcome: OutcomeNothing}
	}
	return nil
}

// Place moves a pending order to placed and mints its reference if it has
// none. The caller persists the order.
func (s *Service) Place(o *Order) error {
	if err := o.transition(StatusPlaced); err != nil {
		return err
	}
	if o.Reference == "" {
		o.Reference = s.minter.Mint(o.SessionKey)
	}
	o.UpdatedAt = s.now().UTC()
	return nil
}

// Current returns the session's pending order, or the empty-cart sentinel.
func (s *Service) Current(ctx context.Context, sessionKey string) (*Order, error) {
	o, err := s.orders.Pending(ctx, sessionKey)
	if errors.Is(err, ErrNotFound) {
		return Empty(sessionKey), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get pending order")
	}
	return o, nil
}

// History returns the session's placed, paid and cancelled orders, newest
// first.
func (s *Service) History(ctx context.Context, sessionKey string) ([]Order, error) {
	orders, err := s.orders.History(ctx, sessionKey)
	if err != nil {
		return nil, errors.Wrap(err, "get order history")
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// MarkPaid marks the placed order carrying reference as paid. Marking an
// already paid order returns it unchanged.
func (s *Service) MarkPaid(ctx context.Context, reference string) (*Order, error) {
	found, err := s.orders.ByReference(ctx, reference)
	if err != nil {
		return nil, errors.Wrap(err, "get order by reference")
	}

	var (
		result  *Order
		changed bool
	)
	err = s.orders.Atomic(ctx, found.SessionKey, func(ctx context.Context, tx Tx) error {
		o, err := tx.ByReference(ctx, reference)
		if err != nil {
			return errors.Wrap(err, "get order by reference")
		}
		result = o
		if o.Status == StatusPaid {
			return nil
		}
		if err := o.transition(StatusPaid); err != nil {
			return err
		}
		now := s.now().UTC()
		o.PaidAt = &now
		o.UpdatedAt = now
		if err := tx.Update(ctx, o); err != nil {
			return errors.Wrap(err, "update order")
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		zctx.From(ctx).Info("Order paid",
			zap.String("sid", result.SessionKey),
			zap.String("reference", reference),
		)
	}
	return result, nil
}
