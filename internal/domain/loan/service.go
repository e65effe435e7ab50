package loan

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type MessageSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (Address, bool)
}

// Metrics receives domain events. A nil Metrics is replaced by a no-op.
type Metrics interface {
	LoanRegistered()
	LoanReturned()
	Reminder(result string)
	AddressLookup(result string)
	StoreWriteFailed()
}

type ReminderResult struct {
	Sent     bool   `json:"success"`
	Fallback bool   `json:"fallback"`
	To       string `json:"to"`
	Message  string `json:"message"`
	SID      string `json:"sid,omitempty"`
}

type PhoneMatch struct {
	Found      bool    `json:"found"`
	Notice     bool    `json:"notice"`
	LastNotice string  `json:"last_notice"`
	Loan       *Entity `json:"loan,omitempty"`
	Contact    Payload `json:"contact"`
}

type Service struct {
	repo      Repository
	sender    MessageSender
	addresses AddressLookup
	metrics   Metrics
	logger    *slog.Logger
	now       func() time.Time

	// serialises read-modify-write cycles issued from this process
	mu sync.Mutex
}

func NewService(repo Repository, sender MessageSender, addresses AddressLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		sender:    sender,
		addresses: addresses,
		metrics:   noopMetrics{},
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithMetrics(m Metrics) *Service {
	if m != nil {
		s.metrics = m
	}
	return s
}

func (s *Service) Snapshot(ctx context.Context) Snapshot {
	return s.repo.Load(ctx)
}

func (s *Service) View(ctx context.Context, c Criteria) View {
	return BuildView(s.repo.Load(ctx).Loans, c)
}

func (s *Service) Theme(ctx context.Context) Theme {
	return s.repo.Load(ctx).Theme
}

func (s *Service) ProductCode(itemType string) string {
	return GenerateProductCode(itemType, s.now())
}

// Register validates p, resolves a possible duplicate through decide and
// persists the new loan at the front of the list.
func (s *Service) Register(ctx context.Context, p Payload, decide LinkDecider) (Snapshot, Entity, error) {
	p.Item = strings.TrimSpace(p.Item)
	p.Borrower = strings.TrimSpace(p.Borrower)
	p.RelatedLoanID, p.RelatedProductCode = "", ""
	if err := Validate(p); err != nil {
		return Snapshot{}, Entity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.repo.Load(ctx)
	if existing, ok := FindDuplicate(current.Loans, p.Item, p.Borrower); ok {
		if decide == nil {
			return Snapshot{}, Entity{}, &DuplicateError{Existing: existing}
		}
		if !decide(existing) {
			return Snapshot{}, Entity{}, ErrRegistrationAborted
		}
		Link(&p, existing)
	}

	if strings.TrimSpace(p.ProductCode) == "" {
		p.ProductCode = GenerateProductCode(p.Type, s.now())
	}

	snap, err := s.repo.Add(ctx, p)
	if err != nil {
		s.metrics.StoreWriteFailed()
		s.logger.Error("store add failed", "err", err)
		return Snapshot{}, Entity{}, err
	}
	s.metrics.LoanRegistered()
	s.logger.Info("loan registered", "loan_id", snap.Loans[0].ID, "product_code", snap.Loans[0].ProductCode, "related_loan_id", p.RelatedLoanID)
	return snap, snap.Loans[0], nil
}

// MarkReturned flags the loan as returned at the given time, or now when at
// is zero. Unknown ids and loans already returned leave the store as is.
func (s *Service) MarkReturned(ctx context.Context, id string, at time.Time) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, found := s.repo.Load(ctx).Find(strings.TrimSpace(id))
	wasReturned := found && before.Returned

	snap, err := s.repo.MarkReturned(ctx, strings.TrimSpace(id), at)
	if err != nil {
		s.metrics.StoreWriteFailed()
		s.logger.Error("store mark returned failed", "loan_id", id, "err", err)
		return Snapshot{}, err
	}
	if found && !wasReturned {
		s.metrics.LoanReturned()
		s.logger.Info("loan returned", "loan_id", id)
	}
	return snap, nil
}

func (s *Service) ClearHistory(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Clear(ctx)
	if err != nil {
		s.metrics.StoreWriteFailed()
		s.logger.Error("store clear failed", "err", err)
		return Snapshot{}, err
	}
	s.logger.Info("loan history cleared")
	return snap, nil
}

func (s *Service) SetTheme(ctx context.Context, value string) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	theme, err := s.repo.SetTheme(ctx, value)
	if err != nil {
		s.metrics.StoreWriteFailed()
		s.logger.Error("store set theme failed", "err", err)
		return "", err
	}
	return theme, nil
}

// LookupPhone finds an earlier loan for the same phone number and returns
// its contact fields. lastNotice is the number the caller was last notified
// about; Notice is true only when phone differs from it.
func (s *Service) LookupPhone(ctx context.Context, phone, lastNotice string) PhoneMatch {
	notice := NewPhoneNotice(lastNotice)
	out := PhoneMatch{LastNotice: notice.Last()}

	match, ok := FindByPhone(s.repo.Load(ctx).Loans, phone)
	if !ok {
		return out
	}
	out.Found = true
	out.Loan = &match
	Autofill(&out.Contact, match)
	out.Notice = notice.Observe(phone)
	out.LastNotice = notice.Last()
	return out
}

// LookupAddress resolves a CEP through the address collaborator. Any
// failure, including a missing collaborator, is reported as no data.
func (s *Service) LookupAddress(ctx context.Context, cep string) (Address, bool) {
	masked := MaskCEP(cep)
	if !ValidCEP(masked) {
		s.metrics.AddressLookup("invalid")
		return Address{}, false
	}
	if s.addresses == nil {
		s.metrics.AddressLookup("unavailable")
		return Address{}, false
	}
	addr, ok := s.addresses.Lookup(ctx, masked)
	if !ok {
		s.metrics.AddressLookup("not_found")
		return Address{}, false
	}
	s.metrics.AddressLookup("found")
	return addr, true
}

// SendReminder composes the reminder for a pending loan and hands it to the
// message gateway. When delivery is not possible the composed text is still
// returned with Fallback set so it can be copied by hand.
func (s *Service) SendReminder(ctx context.Context, id string) (ReminderResult, error) {
	target, ok := s.repo.Load(ctx).Find(strings.TrimSpace(id))
	if !ok {
		return ReminderResult{}, ErrLoanNotFound
	}
	msg, err := ComposeReminder(*target)
	if err != nil {
		return ReminderResult{}, err
	}

	out := ReminderResult{To: E164(target.BorrowerPhone), Message: msg}
	if s.sender == nil {
		out.Fallback = true
		s.metrics.Reminder("unavailable")
		return out, nil
	}

	sid, err := s.sender.Send(ctx, out.To, msg)
	if err != nil {
		out.Fallback = true
		result := "failed"
		if errors.Is(err, ErrGatewayUnavailable) {
			result = "unavailable"
		}
		s.metrics.Reminder(result)
		s.logger.Warn("reminder delivery failed", "loan_id", target.ID, "err", err)
		return out, nil
	}
	out.Sent = true
	out.SID = sid
	s.metrics.Reminder("sent")
	s.logger.Info("reminder sent", "loan_id", target.ID, "sid", sid)
	return out, nil
}

// ErrGatewayUnavailable is returned by senders that have no transport
// configured.
var ErrGatewayUnavailable = errors.New("gateway_unavailable")

type noopMetrics struct{}

func (noopMetrics) LoanRegistered()      {}
func (noopMetrics) LoanReturned()        {}
func (noopMetrics) Reminder(string)      {}
func (noopMetrics) AddressLookup(string) {}
func (noopMetrics) StoreWriteFailed()    {}
