package order

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/kart-chat/internal/domain/menu"
)

// ErrNotFound is returned when no order matches a lookup.
var ErrNotFound = errors.New("order not found")

// Status is the lifecycle state of an order.
type Status string

const (
	// StatusNone marks the empty-cart sentinel. It is never persisted.
	StatusNone      Status = "none"
	StatusPending   Status = "pending"
	StatusPlaced    Status = "placed"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPlaced, StatusCancelled},
	StatusPlaced:    {StatusPaid},
	StatusPaid:      {},
	StatusCancelled: {},
}

// CanTransition reports whether an order in s may move to to.
func (s Status) CanTransition(to Status) bool {
	return slices.Contains(transitions[s], to)
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// HistoryStatuses are the statuses visible in order history.
var HistoryStatuses = []Status{StatusPlaced, StatusPaid, StatusCancelled}

// InvalidTransitionError is returned when a status change is not allowed.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition from %s to %s", e.From, e.To)
}

// Line is one distinct menu item in an order. UnitPrice is the catalog price
// captured when the line was created.
type Line struct {
	Code      int    `json:"code"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Order is a session's order. Total always equals the sum of
// Quantity*UnitPrice over Lines.
type Order struct {
	ID         string
	SessionKey string
	Lines      []Line
	Total      int64
	Status     Status
	Reference  string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Empty returns the empty-cart sentinel for a session.
func Empty(sessionKey string) *Order {
	return &Order{
		SessionKey: sessionKey,
		Lines:      []Line{},
		Status:     StatusNone,
	}
}

// IsEmpty reports whether the order has no lines.
func (o *Order) IsEmpty() bool {
	return len(o.Lines) == 0
}

// Clone returns a deep copy of o.
func (o *Order) Clone() *Order {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	return &c
}

// add increments the line for item or appends a new one.
func (o *Order) add(item menu.Item) {
	for i := range o.Lines {
		if o.Lines[i].Code == item.Code {
			o.Lines[i].Quantity++
			o.Total += o.Lines[i].UnitPrice
			return
		}
	}
	o.Lines = append(o.Lines, Line{
		Code:      item.Code,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
	})
	o.Total += item.Price
}

// transition moves o to status to, enforcing the lifecycle graph.
func (o *Order) transition(to Status) error {
	if !o.Status.CanTransition(to) {
		return &InvalidTransitionError{From: o.Status, To: to}
	}
	o.Status = to
	return nil
}

// Reader defines order lookups. All methods return ErrNotFound when nothing
// matches, except History which returns an empty slice.
type Reader interface {
	// Pending returns the session's pending order.
	Pending(ctx context.Context, sessionKey string) (*Order, error)
	// Latest returns the session's most recently updated order whose status
	// is one of statuses.
	Latest(ctx context.Context, sessionKey string, statuses ...Status) (*Order, error)
	// ByReference returns the order carrying reference.
	ByReference(ctx context.Context, reference string) (*Order, error)
	// History returns the session's orders in HistoryStatuses, newest first
	// by creation time.
	History(ctx context.Context, sessionKey string) ([]Order, error)
}

// Tx is a Reader that can write while holding a session's lock.
type Tx interface {
	Reader
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
}

// Store persists orders.
type Store interface {
	Reader
	// Atomic runs fn with exclusive access to the session's orders. Writes
	// made through tx are committed only if fn returns nil.
	Atomic(ctx context.Context, sessionKey string, fn func(ctx context.Context, tx Tx) error) error
}
