// Package store persists the loan document. Every mutation reads the whole
// document, changes it in memory and writes it back in full. One writer at a
// time is assumed; a concurrent second writer loses to whoever writes last.
package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

// ErrWrite wraps every failure to persist the document.
var ErrWrite = errors.New("store_write_failed")

// backend reads and writes the raw document bytes. A missing document is
// reported by read as an error; Store treats every read error as empty.
type backend interface {
	read() ([]byte, error)
	write(data []byte) error
	ping(ctx context.Context) error
	Close() error
}

type Store struct {
	backend backend
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func newStore(b backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: b,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

type document struct {
	Loans []loan.Entity `json:"loans"`
	Theme loan.Theme    `json:"theme"`
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.ping(ctx)
}

// Load returns the persisted snapshot, or the empty light-themed snapshot
// when nothing readable is stored.
func (s *Store) Load(_ context.Context) loan.Snapshot {
	doc := document{Loans: []loan.Entity{}, Theme: loan.ThemeLight}

	raw, err := s.backend.read()
	if err != nil {
		s.logger.Debug("store read failed, using defaults", "err", err)
	} else if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn("store decode failed, using defaults; next write replaces stored loans", "err", err)
		doc = document{Loans: []loan.Entity{}, Theme: loan.ThemeLight}
	}

	if doc.Loans == nil {
		doc.Loans = []loan.Entity{}
	}
	doc.Theme = loan.ParseTheme(string(doc.Theme))

	return loan.Snapshot{Loans: doc.Loans, Theme: doc.Theme, Revision: revisionOf(doc)}
}

func (s *Store) Theme(ctx context.Context) loan.Theme {
	return s.Load(ctx).Theme
}

func (s *Store) Add(ctx context.Context, p loan.Payload) (loan.Snapshot, error) {
	snap := s.Load(ctx)
	now := s.now()

	entry := loan.Entity{
		ID:                   s.newID(),
		Item:                 p.Item,
		Type:                 p.Type,
		ProductCode:          p.ProductCode,
		Borrower:             p.Borrower,
		BorrowerPhone:        p.BorrowerPhone,
		BorrowerBirthdate:    p.BorrowerBirthdate,
		BorrowerAddress:      p.BorrowerAddress,
		BorrowerCEP:          p.BorrowerCEP,
		BorrowerNeighborhood: p.BorrowerNeighborhood,
		BorrowerNumber:       p.BorrowerNumber,
		LoanDate:             p.LoanDate,
		CreatedAt:            now,
		Returned:             false,
		RelatedLoanID:        p.RelatedLoanID,
		RelatedProductCode:   p.RelatedProductCode,
	}
	if entry.LoanDate.IsZero() {
		entry.LoanDate = loan.NewDate(now)
	}

	snap.Loans = append([]loan.Entity{entry}, snap.Loans...)
	return s.save(snap)
}

// MarkReturned sets the return flag and time of the loan with id. Missing
// ids and loans already returned are left alone and nothing is written.
func (s *Store) MarkReturned(ctx context.Context, id string, at time.Time) (loan.Snapshot, error) {
	snap := s.Load(ctx)
	target, ok := snap.Find(id)
	if !ok || target.Returned {
		return snap, nil
	}
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()
	target.Returned = true
	target.ReturnedAt = &at
	return s.save(snap)
}

func (s *Store) Clear(ctx context.Context) (loan.Snapshot, error) {
	snap := s.Load(ctx)
	snap.Loans = []loan.Entity{}
	return s.save(snap)
}

func (s *Store) SetTheme(ctx context.Context, value string) (loan.Theme, error) {
	snap := s.Load(ctx)
	snap.Theme = loan.ParseTheme(value)
	saved, err := s.save(snap)
	if err != nil {
		return "", err
	}
	return saved.Theme, nil
}

func (s *Store) save(snap loan.Snapshot) (loan.Snapshot, error) {
	doc := document{Loans: snap.Loans, Theme: snap.Theme}
	data, err := encode(doc)
	if err != nil {
		return loan.Snapshot{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := s.backend.write(data); err != nil {
		return loan.Snapshot{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	snap.Revision = revision(data)
	return snap, nil
}

func encode(doc document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func revisionOf(doc document) string {
	data, err := encode(doc)
	if err != nil {
		return ""
	}
	return revision(data)
}

func revision(data []byte) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
