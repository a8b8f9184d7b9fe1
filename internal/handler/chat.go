package handler

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"

	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/oas"
)

// GetMenu lists the catalog, installing the default items on first use.
func (h *Handler) GetMenu(ctx context.Context) (*oas.MenuResponse, error) {
	seeded, err := menu.EnsureSeeded(ctx, h.catalog, menu.DefaultItems)
	if err != nil {
		return nil, err
	}
	if seeded {
		zctx.From(ctx).Info("Menu seeded")
	}

	items, err := h.catalog.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu")
	}
	return &oas.MenuResponse{Menu: menuItems(items)}, nil
}

// Chat handles one chat input for the caller's session.
func (h *Handler) Chat(ctx context.Context, req oas.OptChatRequest) (*oas.ChatReply, error) {
	ctx, sid, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	var input string
	if r, ok := req.Get(); ok {
		input = chatInput(r.Input)
	}

	reply, err := h.chat.Handle(ctx, sid, input)
	if err != nil {
		return nil, err
	}
	return chatReply(reply), nil
}

// chatInput accepts a JSON string or number. Any other type, or a missing
// field, yields "" which the dispatcher answers with the options list.
func chatInput(raw jx.Raw) string {
	if len(raw) == 0 {
		return ""
	}
	d := jx.DecodeBytes(raw)
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return ""
		}
		return s
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}
