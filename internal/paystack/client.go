// Package paystack implements payment.Gateway over the Paystack REST API.
package paystack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/kart-chat/internal/domain/payment"
)

// DefaultBaseURL is the public Paystack API endpoint.
const DefaultBaseURL = "https://api.paystack.co"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

var _ payment.Gateway = (*Client)(nil)

// Config configures a Client.
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
	// Transport overrides the HTTP transport, e.g. to add instrumentation.
	Transport http.RoundTripper
}

// APIError is returned for non-2xx responses or an envelope with status false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("paystack: http %d", e.StatusCode)
	}
	return fmt.Sprintf("paystack: http %d: %s", e.StatusCode, e.Message)
}

// Client calls the Paystack transaction API.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("paystack secret key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// Initialize opens a transaction and returns the hosted checkout URL.
func (c *Client) Initialize(ctx context.Context, req payment.InitializeRequest) (*payment.Authorization, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("amount")
	e.Int64(req.AmountMinor)
	e.FieldStart("email")
	e.Str(req.Email)
	e.FieldStart("reference")
	e.Str(req.Reference)
	if req.CallbackURL != "" {
		e.FieldStart("callback_url")
		e.Str(req.CallbackURL)
	}
	e.ObjEnd()

	body, err := c.do(ctx, http.MethodPost, "/transaction/initialize", e.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "initialize transaction")
	}

	var auth payment.Authorization
	if err := decodeEnvelope(body, func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "authorization_url":
			auth.AuthorizationURL, err = d.Str()
		case "access_code":
			auth.AccessCode, err = d.Str()
		case "reference":
			auth.Reference, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "decode initialize response")
	}
	if auth.AuthorizationURL == "" {
		return nil, errors.New("initialize response has no authorization_url")
	}
	return &auth, nil
}

// Verify returns the transaction status for reference.
func (c *Client) Verify(ctx context.Context, reference string) (*payment.Transaction, error) {
	body, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, errors.Wrap(err, "verify transaction")
	}

	var tr payment.Transaction
	if err := decodeEnvelope(body, func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "status":
			tr.Status, err = d.Str()
		case "reference":
			tr.Reference, err = d.Str()
		case "amount":
			tr.AmountMinor, err = d.Int64()
		case "currency":
			tr.Currency, err = d.Str()
		case "paid_at":
			tr.PaidAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "decode verify response")
	}
	if tr.Status == "" {
		return nil, errors.New("verify response has no status")
	}
	if tr.Reference == "" {
		tr.Reference = reference
	}
	return &tr, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: envelopeMessage(data)}
	}
	return data, nil
}

// decodeEnvelope decodes {"status": bool, "message": string, "data": {...}}
// and calls field for every key of data.
func decodeEnvelope(body []byte, field func(d *jx.Decoder, key []byte) error) error {
	var (
		ok      bool
		message string
		hasData bool
	)
	d := jx.DecodeBytes(body)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "status":
			ok, err = d.Bool()
		case "message":
			message, err = d.Str()
		case "data":
			if d.Next() == jx.Null {
				return d.Null()
			}
			hasData = true
			err = d.ObjBytes(field)
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return err
	}
	if !ok {
		return &APIError{StatusCode: http.StatusOK, Message: message}
	}
	if !hasData {
		return errors.New("response has no data")
	}
	return nil
}

func envelopeMessage(body []byte) string {
	var message string
	d := jx.DecodeBytes(body)
	_ = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "message" && d.Next() == jx.String {
			m, err := d.Str()
			message = m
			return err
		}
		return d.Skip()
	})
	return message
}

func decodeTime(d *jx.Decoder) (*time.Time, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse time %q", s)
	}
	return &t, nil
}
