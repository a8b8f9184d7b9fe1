package payment

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/kart-chat/internal/domain/order"
)

const instrumentationName = "github.com/xenking/kart-chat/internal/domain/payment"

// Lifecycle is the part of the order engine the reconciler drives.
type Lifecycle interface {
	Place(o *order.Order) error
	MarkPaid(ctx context.Context, reference string) (*order.Order, error)
}

var _ Lifecycle = (*order.Service)(nil)

// Config configures the Reconciler.
type Config struct {
	// ClientURL is the base of the callback the gateway redirects to.
	ClientURL string
	// EmailDomain is appended to the session key to form the customer email.
	EmailDomain string
	// AmountScale converts order totals to gateway minor units.
	AmountScale int64
	// VerifyTimeout bounds a shared verification. Defaults to 15s.
	VerifyTimeout time.Duration
}

// Option configures optional Reconciler dependencies.
type Option func(*Reconciler)

// WithMeterProvider sets the meter provider for payment counters.
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(r *Reconciler) { r.meterProvider = p }
}

// WithTracerProvider sets the tracer provider for payment spans.
func WithTracerProvider(p trace.TracerProvider) Option {
	return func(r *Reconciler) { r.tracerProvider = p }
}

// InitiateResult is returned by Initiate.
type InitiateResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
	Order            *order.Order
}

// VerifyResult is returned by Verify. Status is "paid" when the order is paid,
// otherwise the gateway status unchanged.
type VerifyResult struct {
	Status    string
	Reference string
	Paid      bool
	Order     *order.Order
}

// StatusPaid is the VerifyResult status of a paid order.
const StatusPaid = string(order.StatusPaid)

// Reconciler opens gateway transactions for orders and merges verified
// payment status back into the order lifecycle.
type Reconciler struct {
	orders    order.Store
	lifecycle Lifecycle
	gateway   Gateway
	ledger    Ledger
	cfg       Config
	now       func() time.Time

	verifyGroup singleflight.Group

	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	initiations    metric.Int64Counter
	verifications  metric.Int64Counter
}

// NewReconciler creates a Reconciler. ledger may be nil.
func NewReconciler(
	orders order.Store,
	lifecycle Lifecycle,
	gateway Gateway,
	ledger Ledger,
	cfg Config,
	opts ...Option,
) (*Reconciler, error) {
	if cfg.AmountScale <= 0 {
		cfg.AmountScale = 100
	}
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = 15 * time.Second
	}
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = "example.local"
	}
	r := &Reconciler{
		orders:         orders,
		lifecycle:      lifecycle,
		gateway:        gateway,
		ledger:         ledger,
		cfg:            cfg,
		now:            time.Now,
		meterProvider:  metricnoop.NewMeterProvider(),
		tracerProvider: tracenoop.NewTracerProvider(),
	}
	for _, o := range opts {
		o(r)
	}

	meter := r.meterProvider.Meter(instrumentationName)
	var err error
	if r.initiations, err = meter.Int64Counter("payment.initiations",
		metric.WithDescription("Payment initiations by outcome"),
	); err != nil {
		return nil, errors.Wrap(err, "create initiations counter")
	}
	if r.verifications, err = meter.Int64Counter("payment.verifications",
		metric.WithDescription("Payment verifications by resulting status"),
	); err != nil {
		return nil, errors.Wrap(err, "create verifications counter")
	}
	r.tracer = r.tracerProvider.Tracer(instrumentationName)
	return r, nil
}

// Initiate opens a gateway transaction for the session's payable order. With
// an empty reference the session's most recently updated placed or pending
// order is used. A pending order is placed first; the promotion is persisted
// only once the gateway accepted the transaction.
//
// The session lock is not held during the gateway call: the order is
// resolved under the lock, the gateway is called, and the order is re-read
// under the lock before the promotion is written. An order that changed in
// between fails with ErrOrderChanged.
func (r *Reconciler) Initiate(ctx context.Context, sessionKey, reference string) (_ *InitiateResult, rerr error) {
	ctx, span := r.tracer.Start(ctx, "payment.Initiate")
	defer func() {
		outcome := "ok"
		if rerr != nil {
			outcome = "error"
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		r.initiations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		span.End()
	}()

	var (
		snapshot *order.Order
		payable  *order.Order
	)
	if err := r.orders.Atomic(ctx, sessionKey, func(ctx context.Context, tx order.Tx) error {
		o, err := r.resolve(ctx, tx, sessionKey, reference)
		if err != nil {
			return err
		}
		snapshot = o.Clone()

		switch o.Status {
		case order.StatusPaid:
			return ErrAlreadyPaid
		case order.StatusPlaced:
		case order.StatusPending:
			if o.IsEmpty() {
				return &NotPayableError{Status: o.Status, Reason: "no items to pay for"}
			}
			if err := r.lifecycle.Place(o); err != nil {
				return errors.Wrap(err, "place order")
			}
		default:
			return &NotPayableError{Status: o.Status}
		}
		payable = o
		return nil
	}); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("payment.reference", payable.Reference))

	auth, err := r.gateway.Initialize(ctx, InitializeRequest{
		AmountMinor: payable.Total * r.cfg.AmountScale,
		Email:       sessionKey + "@" + r.cfg.EmailDomain,
		Reference:   payable.Reference,
		CallbackURL: r.callbackURL(payable.Reference),
	})
	if err != nil {
		err = &UpstreamError{Op: "initialize", Err: err}
		zctx.From(ctx).Warn("Payment initialization failed",
			zap.String("sid", sessionKey),
			zap.Error(err),
		)
		return nil, err
	}

	if snapshot.Status == order.StatusPending {
		if err := r.orders.Atomic(ctx, sessionKey, func(ctx context.Context, tx order.Tx) error {
			cur, err := tx.Pending(ctx, sessionKey)
			if errors.Is(err, order.ErrNotFound) {
				return ErrOrderChanged
			}
			if err != nil {
				return errors.Wrap(err, "reload order")
			}
			if !unchanged(cur, snapshot) {
				return ErrOrderChanged
			}
			return tx.Update(ctx, payable)
		}); err != nil {
			if errors.Is(err, ErrOrderChanged) {
				zctx.From(ctx).Warn("Order changed during payment initialization",
					zap.String("sid", sessionKey),
					zap.String("reference", payable.Reference),
				)
			}
			return nil, err
		}
	}

	ref := auth.Reference
	if ref == "" {
		ref = payable.Reference
	}
	zctx.From(ctx).Info("Payment initialized",
		zap.String("sid", sessionKey),
		zap.String("reference", ref),
		zap.Int64("total", payable.Total),
	)
	return &InitiateResult{
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
		Reference:        ref,
		Order:            payable,
	}, nil
}

// unchanged reports whether cur is still the order captured in snapshot.
func unchanged(cur, snapshot *order.Order) bool {
	return cur.ID == snapshot.ID &&
		cur.Status == snapshot.Status &&
		cur.Total == snapshot.Total &&
		cur.UpdatedAt.Equal(snapshot.UpdatedAt)
}

func (r *Reconciler) resolve(ctx context.Context, tx order.Tx, sessionKey, reference string) (*order.Order, error) {
	if reference != "" {
		o, err := tx.ByReference(ctx, reference)
		if err != nil {
			return nil, err
		}
		// Another session's reference is reported as missing.
		if o.SessionKey != sessionKey {
			return nil, order.ErrNotFound
		}
		return o, nil
	}
	return tx.Latest(ctx, sessionKey, order.StatusPlaced, order.StatusPending)
}

func (r *Reconciler) callbackURL(reference string) string {
	q := url.Values{}
	q.Set("paid", "1")
	q.Set("ref", reference)
	return strings.TrimRight(r.cfg.ClientURL, "/") + "/chat?" + q.Encode()
}

// Verify asks the gateway for the status of reference and marks the order
// paid when the gateway reports success. Paid orders short-circuit without a
// gateway call. Concurrent calls for one reference share a single result.
func (r *Reconciler) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if reference == "" {
		return nil, ErrEmptyReference
	}
	// The shared call outlives any single caller: it runs detached from the
	// first caller's cancellation, bounded by VerifyTimeout.
	shared := context.WithoutCancel(ctx)
	ch := r.verifyGroup.DoChan(reference, func() (any, error) {
		ctx, cancel := context.WithTimeout(shared, r.cfg.VerifyTimeout)
		defer cancel()
		return r.verify(ctx, reference)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*VerifyResult), nil
	}
}

func (r *Reconciler) verify(ctx context.Context, reference string) (_ *VerifyResult, rerr error) {
	ctx, span := r.tracer.Start(ctx, "payment.Verify",
		trace.WithAttributes(attribute.String("payment.reference", reference)),
	)
	var status string
	defer func() {
		if rerr != nil {
			status = "error"
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		r.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
		span.End()
	}()

	o, err := r.orders.ByReference(ctx, reference)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	if o.Status == order.StatusPaid {
		status = StatusPaid
		return &VerifyResult{Status: StatusPaid, Reference: reference, Paid: true, Order: o}, nil
	}

	tr, err := r.gateway.Verify(ctx, reference)
	if err != nil {
		zctx.From(ctx).Warn("Payment verification failed",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return nil, &UpstreamError{Op: "verify", Err: err}
	}
	r.record(ctx, reference, tr)

	if tr.Status != GatewayStatusSuccess {
		status = tr.Status
		return &VerifyResult{Status: tr.Status, Reference: reference, Order: o}, nil
	}

	if want := o.Total * r.cfg.AmountScale; tr.AmountMinor != 0 && tr.AmountMinor != want {
		zctx.From(ctx).Warn("Gateway amount differs from order total",
			zap.String("reference", reference),
			zap.Int64("gateway_amount", tr.AmountMinor),
			zap.Int64("expected_amount", want),
		)
	}

	paid, err := r.lifecycle.MarkPaid(ctx, reference)
	if err != nil {
		return nil, errors.Wrap(err, "mark paid")
	}
	status = StatusPaid
	return &VerifyResult{Status: StatusPaid, Reference: reference, Paid: true, Order: paid}, nil
}

// record appends the gateway outcome to the ledger. Ledger failures are
// logged and do not fail verification.
func (r *Reconciler) record(ctx context.Context, reference string, tr *Transaction) {
	if r.ledger == nil {
		return
	}
	e := Event{
		Reference:  reference,
		Status:     tr.Status,
		Amount:     decimal.NewFromInt(tr.AmountMinor).Div(decimal.NewFromInt(r.cfg.AmountScale)),
		Currency:   tr.Currency,
		PaidAt:     tr.PaidAt,
		RecordedAt: r.now().UTC(),
	}
	if err := r.ledger.Record(ctx, e); err != nil {
		zctx.From(ctx).Error("Record payment event",
			zap.String("reference", reference),
			zap.Error(err),
		)
	}
}
