// Package paystacktest provides an in-process fake of the Paystack
// transaction API for tests.
package paystacktest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/jx"
)

// SecretKey is the bearer token the fake accepts.
const SecretKey = "sk_test_fake"

// Transaction is a transaction opened on the fake.
type Transaction struct {
	Reference   string
	AmountMinor int64
	Email       string
	CallbackURL string
	Status      string
}

// Server is a fake Paystack API. Initialized transactions start "abandoned"
// until Complete marks them "success".
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	transactions map[string]*Transaction
	verifyCalls  map[string]int
	now          func() time.Time
}

// NewServer starts a fake. Call Close when done.
func NewServer() *Server {
	s := &Server{
		transactions: make(map[string]*Transaction),
		verifyCalls:  make(map[string]int),
		now:          time.Now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /transaction/initialize", s.initialize)
	mux.HandleFunc("GET /transaction/verify/{reference}", s.verify)
	s.Server = httptest.NewServer(s.authorize(mux))
	return s
}

// Complete marks the transaction paid.
func (s *Server) Complete(reference string) {
	s.setStatus(reference, "success")
}

// Fail marks the transaction failed.
func (s *Server) Fail(reference string) {
	s.setStatus(reference, "failed")
}

func (s *Server) setStatus(reference, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tr, ok := s.transactions[reference]; ok {
		tr.Status = status
	}
}

// Transaction returns a copy of the transaction opened for reference.
func (s *Server) Transaction(reference string) (Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.transactions[reference]
	if !ok {
		return Transaction{}, false
	}
	return *tr, true
}

// VerifyCalls returns how many times reference was verified.
func (s *Server) VerifyCalls(reference string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifyCalls[reference]
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+SecretKey {
			writeEnvelope(w, http.StatusUnauthorized, false, "Invalid key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) initialize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "unreadable body", nil)
		return
	}
	var tr Transaction
	if err := jx.DecodeBytes(body).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "amount":
			tr.AmountMinor, err = d.Int64()
		case "email":
			tr.Email, err = d.Str()
		case "reference":
			tr.Reference, err = d.Str()
		case "callback_url":
			tr.CallbackURL, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil || tr.Reference == "" || tr.AmountMinor <= 0 || !strings.Contains(tr.Email, "@") {
		writeEnvelope(w, http.StatusBadRequest, false, "Invalid transaction", nil)
		return
	}

	s.mu.Lock()
	if _, dup := s.transactions[tr.Reference]; dup {
		s.mu.Unlock()
		writeEnvelope(w, http.StatusBadRequest, false, "Duplicate Transaction Reference", nil)
		return
	}
	tr.Status = "abandoned"
	s.transactions[tr.Reference] = &tr
	s.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "Authorization URL created", func(e *jx.Encoder) {
		e.FieldStart("authorization_url")
		e.Str(s.URL + "/checkout/" + tr.Reference)
		e.FieldStart("access_code")
		e.Str("ac_" + tr.Reference)
		e.FieldStart("reference")
		e.Str(tr.Reference)
	})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")

	s.mu.Lock()
	s.verifyCalls[reference]++
	tr, ok := s.transactions[reference]
	var snapshot Transaction
	if ok {
		snapshot = *tr
	}
	s.mu.Unlock()

	if !ok {
		writeEnvelope(w, http.StatusBadRequest, false, "Transaction reference not found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Verification successful", func(e *jx.Encoder) {
		e.FieldStart("status")
		e.Str(snapshot.Status)
		e.FieldStart("reference")
		e.Str(snapshot.Reference)
		e.FieldStart("amount")
		e.Int64(snapshot.AmountMinor)
		e.FieldStart("currency")
		e.Str("NGN")
		e.FieldStart("paid_at")
		if snapshot.Status == "success" {
			e.Str(s.now().UTC().Format(time.RFC3339Nano))
		} else {
			e.Null()
		}
	})
}

func writeEnvelope(w http.ResponseWriter, code int, status bool, message string, data func(e *jx.Encoder)) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	e.Bool(status)
	e.FieldStart("message")
	e.Str(message)
	if data != nil {
		e.FieldStart("data")
		e.ObjStart()
		data(&e)
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
