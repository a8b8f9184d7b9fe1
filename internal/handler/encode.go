package handler

import (
	"time"

	"github.com/xenking/kart-chat/internal/domain/chat"
	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/order"
	"github.com/xenking/kart-chat/internal/oas"
)

func optString(s string) oas.OptString {
	if s == "" {
		return oas.OptString{}
	}
	return oas.NewOptString(s)
}

func optTime(t time.Time) oas.OptString {
	if t.IsZero() {
		return oas.OptString{}
	}
	return oas.NewOptString(t.UTC().Format(time.RFC3339))
}

func menuItems(items []menu.Item) []oas.MenuItem {
	out := make([]oas.MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, oas.MenuItem{
			Code:        it.Code,
			Name:        it.Name,
			Price:       it.Price,
			Description: optString(it.Description),
		})
	}
	return out
}

func orderOf(o *order.Order) oas.Order {
	lines := make([]oas.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, oas.OrderLine{
			Code:     l.Code,
			Name:     l.Name,
			Price:    l.UnitPrice,
			Quantity: l.Quantity,
		})
	}
	out := oas.Order{
		ID:        optString(o.ID),
		Status:    string(o.Status),
		Lines:     lines,
		Total:     o.Total,
		Reference: optString(o.Reference),
		CreatedAt: optTime(o.CreatedAt),
	}
	if o.PaidAt != nil {
		out.PaidAt = optTime(*o.PaidAt)
	}
	return out
}

// chatReply carries only the fields the command produced.
func chatReply(r *chat.Reply) *oas.ChatReply {
	out := &oas.ChatReply{
		Sid:       r.SessionKey,
		Message:   r.Message,
		Options:   r.Options,
		Reference: optString(r.Reference),
	}
	if r.Menu != nil {
		out.Menu = menuItems(r.Menu)
	}
	if r.Current != nil {
		out.Current = oas.NewOptOrder(orderOf(r.Current))
	}
	if r.History != nil {
		out.History = make([]oas.Order, 0, len(r.History))
		for i := range r.History {
			out.History = append(out.History, orderOf(&r.History[i]))
		}
	}
	if r.Total != nil {
		out.Total = oas.NewOptInt64(*r.Total)
	}
	return out
}
