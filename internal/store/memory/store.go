// Package memory implementa los repositorios en memoria.
// Lo usan los tests y el driver "memory" para desarrollo local sin Postgres.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/domain/types"
)

// Store agrupa ledger, receipts y members con un único mutex.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	entries  map[string]*repository.LedgerEntry
	order    []string // ids del ledger en orden de inserción
	receipts map[string]*repository.Receipt // by id
	members  map[string]*repository.Member  // by number
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		now:      time.Now,
		entries:  make(map[string]*repository.LedgerEntry),
		receipts: make(map[string]*repository.Receipt),
		members:  make(map[string]*repository.Member),
	}
}

// Ledger, Receipts y Members exponen las vistas tipadas del store.
func (s *Store) Ledger() repository.LedgerRepository    { return ledgerRepo{s} }
func (s *Store) Receipts() repository.ReceiptRepository { return receiptRepo{s} }
func (s *Store) Members() repository.MemberRepository   { return memberRepo{s} }

// PutMember inserta o reemplaza un miembro (seed de tests/dev).
func (s *Store) PutMember(m repository.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := m
	s.members[strings.ToUpper(m.Number)] = &cp
}

// Entries retorna una copia de todas las filas del ledger, ordenadas por creación.
func (s *Store) Entries() []repository.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repository.LedgerEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneEntry(s.entries[id]))
	}
	return out
}

// ReceiptCount retorna cuántos recibos hay persistidos.
func (s *Store) ReceiptCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.receipts)
}

func cloneEntry(e *repository.LedgerEntry) repository.LedgerEntry {
	cp := *e
	if e.DeliveredAt != nil {
		t := *e.DeliveredAt
		cp.DeliveredAt = &t
	}
	if e.Metadata != nil {
		cp.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}

// ─── Ledger ───

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) Insert(_ context.Context, e *repository.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.s.now()
	}
	e.Status = types.StatusPending
	cp := cloneEntry(e)
	r.s.entries[e.ID] = &cp
	r.s.order = append(r.s.order, e.ID)
	return nil
}

func (r ledgerRepo) transition(id string, apply func(e *repository.LedgerEntry)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok {
		return repository.ErrNotFound
	}
	if e.Status != types.StatusPending {
		return repository.ErrNotPending
	}
	apply(e)
	return nil
}

func (r ledgerRepo) MarkSent(_ context.Context, id string, deliveredAt time.Time, providerMessageID string) error {
	return r.transition(id, func(e *repository.LedgerEntry) {
		e.Status = types.StatusSent
		e.DeliveredAt = &deliveredAt
		e.ProviderMessageID = providerMessageID
	})
}

func (r ledgerRepo) MarkFailed(_ context.Context, id string, errorMessage string) error {
	return r.transition(id, func(e *repository.LedgerEntry) {
		e.Status = types.StatusFailed
		e.ErrorMessage = errorMessage
	})
}

func (r ledgerRepo) Get(_ context.Context, id string) (*repository.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneEntry(e)
	return &cp, nil
}

func (r ledgerRepo) ListByCorrelation(_ context.Context, correlationID string, limit int) ([]repository.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.LedgerEntry
	for i := len(r.s.order) - 1; i >= 0; i-- {
		if e := r.s.entries[r.s.order[i]]; e.CorrelationID == correlationID {
			out = append(out, cloneEntry(e))
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ─── Receipts ───

type receiptRepo struct{ s *Store }

func (r receiptRepo) Create(_ context.Context, rc *repository.Receipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.receipts {
		if existing.PaymentID == rc.PaymentID {
			return repository.ErrDuplicatePayment
		}
		if existing.ReceiptNumber == rc.ReceiptNumber {
			return repository.ErrDuplicateReceiptNumber
		}
	}
	rc.ID = uuid.NewString()
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = r.s.now()
	}
	cp := *rc
	r.s.receipts[rc.ID] = &cp
	return nil
}

func (r receiptRepo) AttachEmailLog(_ context.Context, id, reference string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.receipts[id]
	if !ok {
		return repository.ErrNotFound
	}
	rc.EmailLogReference = reference
	return nil
}

func (r receiptRepo) GetByPaymentID(_ context.Context, paymentID string) (*repository.Receipt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rc := range r.s.receipts {
		if rc.PaymentID == paymentID {
			cp := *rc
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ─── Members ───

type memberRepo struct{ s *Store }

func (r memberRepo) GetByNumber(_ context.Context, number string) (*repository.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[strings.ToUpper(number)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r memberRepo) UpdateContact(_ context.Context, number, email, phone string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[strings.ToUpper(number)]
	if !ok {
		return repository.ErrNotFound
	}
	m.Email = email
	m.Phone = phone
	return nil
}
