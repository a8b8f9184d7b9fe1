//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"testing"
)

func verify(c *client, reference string) *http.Response {
	return c.do(http.MethodGet, "/api/pay/verify?reference="+url.QueryEscape(reference), nil)
}

func TestPayment_FullScenario(t *testing.T) {
	c := newClient(t)
	c.chat("10")
	c.chat("10")
	placed := c.chat("99")

	started := expectJSON[payInitResponse](t,
		c.do(http.MethodPost, "/api/pay/init", map[string]string{"reference": placed.Reference}), http.StatusOK)
	if started.Reference != placed.Reference || started.AuthorizationURL == "" || started.AccessCode == "" {
		t.Fatalf("unexpected init response: %+v", started)
	}
	tr, ok := gateway.Transaction(placed.Reference)
	if !ok {
		t.Fatal("gateway transaction not opened")
	}
	if tr.AmountMinor != 500000 {
		t.Fatalf("expected amount 500000, got %d", tr.AmountMinor)
	}

	notYet := expectJSON[payVerifyResponse](t, verify(c, placed.Reference), http.StatusBadRequest)
	if notYet.Status == "paid" || notYet.Message != "Payment not successful" {
		t.Fatalf("unexpected verify before payment: %+v", notYet)
	}

	gateway.Complete(placed.Reference)
	paid := expectJSON[payVerifyResponse](t, verify(c, placed.Reference), http.StatusOK)
	if paid.Status != "paid" {
		t.Fatalf("expected paid, got %+v", paid)
	}
	calls := gateway.VerifyCalls(placed.Reference)

	again := expectJSON[payVerifyResponse](t, verify(c, placed.Reference), http.StatusOK)
	if again.Status != "paid" {
		t.Fatalf("expected paid, got %+v", again)
	}
	if got := gateway.VerifyCalls(placed.Reference); got != calls {
		t.Fatalf("paid order re-verified at gateway: %d calls, want %d", got, calls)
	}

	history := c.chat("98")
	if len(history.History) != 1 || history.History[0].Status != "paid" || history.History[0].PaidAt == "" {
		t.Fatalf("expected paid order with paidAt, got %+v", history.History)
	}

	// Paying again is a conflict; checkout returns the paid reference.
	resp := c.do(http.MethodPost, "/api/pay/init", map[string]string{"reference": placed.Reference})
	if e := expectJSON[errorResponse](t, resp, http.StatusConflict); e.Error == "" {
		t.Fatal("expected error message")
	}
	if got := c.chat("99"); got.Reference != placed.Reference {
		t.Fatalf("expected paid reference from checkout, got %q", got.Reference)
	}

	var events int
	if err := pool.QueryRow(t.Context(), `SELECT count(*) FROM payment_events WHERE reference = $1`, placed.Reference).Scan(&events); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if events != 2 {
		t.Fatalf("expected 2 ledger events, got %d", events)
	}
}

func TestPayment_InitPromotesPendingOrder(t *testing.T) {
	c := newClient(t)
	c.chat("14")

	started := expectJSON[payInitResponse](t, c.do(http.MethodPost, "/api/pay/init", map[string]string{}), http.StatusOK)
	if started.Reference == "" {
		t.Fatal("expected a minted reference")
	}
	if cart := c.chat("97"); cart.Current.Status != "none" {
		t.Fatalf("pending order not promoted: %+v", cart.Current)
	}
	history := c.chat("98")
	if len(history.History) != 1 || history.History[0].Status != "placed" || history.History[0].Reference != started.Reference {
		t.Fatalf("unexpected history: %+v", history.History)
	}
}

func TestPayment_InitErrors(t *testing.T) {
	t.Run("no order", func(t *testing.T) {
		c := newClient(t)
		expectJSON[errorResponse](t, c.do(http.MethodPost, "/api/pay/init", nil), http.StatusNotFound)
	})

	t.Run("other session's reference", func(t *testing.T) {
		owner := newClient(t)
		owner.chat("10")
		ref := owner.chat("99").Reference

		thief := newClient(t)
		resp := thief.do(http.MethodPost, "/api/pay/init", map[string]string{"reference": ref})
		expectJSON[errorResponse](t, resp, http.StatusNotFound)
		if _, opened := gateway.Transaction(ref); opened {
			t.Fatal("gateway transaction opened for foreign reference")
		}
	})

	t.Run("invalid reference", func(t *testing.T) {
		c := newClient(t)
		resp := c.do(http.MethodPost, "/api/pay/init", map[string]string{"reference": "x; DROP TABLE orders"})
		expectJSON[errorResponse](t, resp, http.StatusBadRequest)
	})
}

func TestPayment_VerifyErrors(t *testing.T) {
	c := newClient(t)
	expectJSON[errorResponse](t, verify(c, ""), http.StatusBadRequest)
	expectJSON[errorResponse](t, verify(c, "unknown-reference"), http.StatusNotFound)
}
