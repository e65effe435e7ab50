package loan

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme coerces anything other than "light" or "dark" to light.
func ParseTheme(v string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(v))) {
	case ThemeDark:
		return ThemeDark
	default:
		return ThemeLight
	}
}

type Status string

const (
	StatusAll      Status = "all"
	StatusPending  Status = "pending"
	StatusReturned Status = "returned"
)

func ParseStatus(v string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(v))) {
	case StatusPending:
		return StatusPending
	case StatusReturned:
		return StatusReturned
	default:
		return StatusAll
	}
}

// Entity is one item lent to one borrower. Field names follow the persisted
// document so files written by earlier versions load unchanged.
type Entity struct {
	ID                   string     `json:"id"`
	Item                 string     `json:"item"`
	Type                 string     `json:"type"`
	ProductCode          string     `json:"productCode"`
	Borrower             string     `json:"borrower"`
	BorrowerPhone        string     `json:"borrowerPhone,omitempty"`
	BorrowerBirthdate    string     `json:"borrowerBirthdate,omitempty"`
	BorrowerAddress      string     `json:"borrowerAddress,omitempty"`
	BorrowerCEP          string     `json:"borrowerCep,omitempty"`
	BorrowerNeighborhood string     `json:"borrowerNeighborhood,omitempty"`
	BorrowerNumber       string     `json:"borrowerNumber,omitempty"`
	LoanDate             Date       `json:"loanDate"`
	CreatedAt            time.Time  `json:"createdAt"`
	Returned             bool       `json:"returned"`
	ReturnedAt           *time.Time `json:"returnedAt,omitempty"`
	RelatedLoanID        string     `json:"relatedLoanId,omitempty"`
	RelatedProductCode   string     `json:"relatedProductCode,omitempty"`
}

// Payload carries the user-editable fields of a new loan. Identity, creation
// time and return state are always assigned by the store.
type Payload struct {
	Item                 string `json:"item"`
	Type                 string `json:"type"`
	ProductCode          string `json:"productCode"`
	Borrower             string `json:"borrower"`
	BorrowerPhone        string `json:"borrowerPhone"`
	BorrowerBirthdate    string `json:"borrowerBirthdate"`
	BorrowerAddress      string `json:"borrowerAddress"`
	BorrowerCEP          string `json:"borrowerCep"`
	BorrowerNeighborhood string `json:"borrowerNeighborhood"`
	BorrowerNumber       string `json:"borrowerNumber"`
	LoanDate             Date   `json:"loanDate"`
	RelatedLoanID        string `json:"relatedLoanId"`
	RelatedProductCode   string `json:"relatedProductCode"`
}

// Snapshot is the whole persisted document plus the revision of the bytes it
// was decoded from.
type Snapshot struct {
	Loans    []Entity `json:"loans"`
	Theme    Theme    `json:"theme"`
	Revision string   `json:"-"`
}

func (s Snapshot) PendingCount() int {
	n := 0
	for _, l := range s.Loans {
		if !l.Returned {
			n++
		}
	}
	return n
}

func (s Snapshot) Find(id string) (*Entity, bool) {
	for i := range s.Loans {
		if s.Loans[i].ID == id {
			return &s.Loans[i], true
		}
	}
	return nil, false
}

// Criteria selects the visible subset of loans. It is a value: callers build
// a new one whenever a filter input changes.
type Criteria struct {
	Status        Status
	Type          string
	BorrowerQuery string
}

type Section struct {
	Letter string   `json:"letter"`
	Loans  []Entity `json:"loans"`
}

type View struct {
	Criteria Criteria  `json:"-"`
	Sections []Section `json:"sections"`
	Visible  int       `json:"visible"`
	Pending  int       `json:"pending"`
	Total    int       `json:"total"`
}

type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
}

type Repository interface {
	Load(ctx context.Context) Snapshot
	Add(ctx context.Context, p Payload) (Snapshot, error)
	MarkReturned(ctx context.Context, id string, at time.Time) (Snapshot, error)
	Clear(ctx context.Context) (Snapshot, error)
	SetTheme(ctx context.Context, value string) (Theme, error)
	Ping(ctx context.Context) error
}

// Date is a calendar-or-instant value. The form sends YYYY-MM-DD while
// older records hold full ISO timestamps; both decode.
type Date struct {
	time.Time
}

const dayLayout = "2006-01-02"

func NewDate(t time.Time) Date { return Date{Time: t} }

func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.ParseInLocation(dayLayout, v, time.Local)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
