package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/order"
)

// DefaultMaxInput is the largest accepted numeric input.
const DefaultMaxInput = 999

// Options is the fixed list of commands shown to the user.
var Options = []string{
	"Select 1 to Place an order",
	"Select 99 to checkout order",
	"Select 98 to see order history",
	"Select 97 to see current order",
	"Select 0 to cancel order",
}

// Engine is the subset of the order lifecycle used by the dispatcher.
type Engine interface {
	AddItem(ctx context.Context, sessionKey string, code int) (*order.Order, error)
	CancelCurrent(ctx context.Context, sessionKey string) (*order.CancelResult, error)
	Checkout(ctx context.Context, sessionKey string) (*order.CheckoutResult, error)
	Current(ctx context.Context, sessionKey string) (*order.Order, error)
	History(ctx context.Context, sessionKey string) ([]order.Order, error)
}

var _ Engine = (*order.Service)(nil)

// Reply is the structured response to one chat input. Fields other than
// SessionKey and Message are set only when the command produced them.
type Reply struct {
	SessionKey string
	Message    string
	Options    []string
	Menu       []menu.Item
	Current    *order.Order
	History    []order.Order
	Reference  string
	Total      *int64
}

// Config tunes the dispatcher.
type Config struct {
	MaxInput int
}

// Dispatcher maps chat input to catalog and lifecycle operations.
type Dispatcher struct {
	menu     menu.Repository
	engine   Engine
	maxInput int
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(items menu.Repository, engine Engine, cfg Config) *Dispatcher {
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = DefaultMaxInput
	}
	return &Dispatcher{
		menu:     items,
		engine:   engine,
		maxInput: cfg.MaxInput,
	}
}

// Handle interprets input for the session. Invalid input and "nothing to do"
// cases produce a reply, not an error.
func (d *Dispatcher) Handle(ctx context.Context, sessionKey, input string) (*Reply, error) {
	cmd := Parse(input, d.maxInput)
	zctx.From(ctx).Debug("Chat command",
		zap.String("sid", sessionKey),
		zap.Stringer("kind", cmd.Kind),
		zap.Int("code", cmd.Code),
	)

	switch cmd.Kind {
	case KindBrowse:
		return d.browse(ctx, sessionKey)
	case KindCheckout:
		return d.checkout(ctx, sessionKey)
	case KindHistory:
		return d.history(ctx, sessionKey)
	case KindCurrent:
		return d.current(ctx, sessionKey)
	case KindCancel:
		return d.cancel(ctx, sessionKey)
	case KindSelect:
		return d.selectItem(ctx, sessionKey, cmd.Code)
	default:
		return &Reply{
			SessionKey: sessionKey,
			Message:    "Invalid input. Please choose one of the options below.",
			Options:    Options,
		}, nil
	}
}

func (d *Dispatcher) browse(ctx context.Context, sessionKey string) (*Reply, error) {
	items, err := d.menu.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu")
	}
	return &Reply{
		SessionKey: sessionKey,
		Message:    "Please select an item number to add to your order.",
		Menu:       items,
	}, nil
}

func (d *Dispatcher) checkout(ctx context.Context, sessionKey string) (*Reply, error) {
	res, err := d.engine.Checkout(ctx, sessionKey)
	if err != nil {
		return nil, errors.Wrap(err, "checkout")
	}
	switch res.Outcome {
	case order.OutcomeNothing:
		return &Reply{
			SessionKey: sessionKey,
			Message:    "No order to place. Select 1 to see the menu.",
			Options:    Options,
		}, nil
	case order.OutcomeAlreadyPaid:
		total := res.Total
		return &Reply{
			SessionKey: sessionKey,
			Message:    fmt.Sprintf("Order %s is already paid. Total: %s.", res.Reference, FormatMoney(res.Total)),
			Reference:  res.Reference,
			Total:      &total,
			Options:    Options,
		}, nil
	default:
		total := res.Total
		return &Reply{
			SessionKey: sessionKey,
			Message: fmt.Sprintf(
				"Order placed. Total: %s. Reference: %s. Select Pay with Paystack to complete payment.",
				FormatMoney(res.Total), res.Reference,
			),
			Reference: res.Reference,
			Total:     &total,
		}, nil
	}
}

func (d *Dispatcher) history(ctx context.Context, sessionKey string) (*Reply, error) {
	orders, err := d.engine.History(ctx, sessionKey)
	if err != nil {
		return nil, errors.Wrap(err, "history")
	}
	if len(orders) == 0 {
		return &Reply{
			SessionKey: sessionKey,
			Message:    "You have no order history yet.",
			Options:    Options,
		}, nil
	}
	return &Reply{
		SessionKey: sessionKey,
		Message:    fmt.Sprintf("You have %d past order(s).", len(orders)),
		History:    orders,
	}, nil
}

func (d *Dispatcher) current(ctx context.Context, sessionKey string) (*Reply, error) {
	o, err := d.engine.Current(ctx, sessionKey)
	if err != nil {
		return nil, errors.Wrap(err, "current order")
	}
	if o.IsEmpty() {
		return &Reply{
			SessionKey: sessionKey,
			Message:    "Your cart is empty.",
			Current:    o,
			Options:    Options,
		}, nil
	}
	return &Reply{
		SessionKey: sessionKey,
		Message:    "Current order: " + Summary(o),
		Current:    o,
	}, nil
}

func (d *Dispatcher) cancel(ctx context.Context, sessionKey string) (*Reply, error) {
	res, err := d.engine.CancelCurrent(ctx, sessionKey)
	if err != nil {
		return nil, errors.Wrap(err, "cancel order")
	}
	msg := "No current order to cancel."
	if res.Cancelled {
		msg = "Order cancelled."
	}
	return &Reply{
		SessionKey: sessionKey,
		Message:    msg,
		Options:    Options,
	}, nil
}

func (d *Dispatcher) selectItem(ctx context.Context, sessionKey string, code int) (*Reply, error) {
	item, err := d.menu.GetByCode(ctx, code)
	if errors.Is(err, menu.ErrNotFound) {
		return &Reply{
			SessionKey: sessionKey,
			Message:    "Invalid selection. Choose from the menu options.",
			Options:    Options,
		}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get menu item")
	}

	o, err := d.engine.AddItem(ctx, sessionKey, item.Code)
	if err != nil {
		return nil, errors.Wrap(err, "add item")
	}
	return &Reply{
		SessionKey: sessionKey,
		Message:    fmt.Sprintf("%s added to your order. %s", item.Name, Summary(o)),
		Current:    o,
	}, nil
}

// FormatMoney renders a catalog amount with two decimals.
func FormatMoney(amount int64) string {
	return decimal.NewFromInt(amount).StringFixed(2)
}

// Summary renders the lines and total of an order on one line.
func Summary(o *order.Order) string {
	var b strings.Builder
	for i, l := range o.Lines {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s x%d", l.Name, l.Quantity)
	}
	if b.Len() > 0 {
		b.WriteString(". ")
	}
	b.WriteString("Total: ")
	b.WriteString(FormatMoney(o.Total))
	return b.String()
}
