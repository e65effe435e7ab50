package loan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingItem         = errors.New("missing_item")
	ErrMissingBorrower     = errors.New("missing_borrower")
	ErrRegistrationAborted = errors.New("registration_aborted")
	ErrLoanNotFound        = errors.New("loan_not_found")
)

// DuplicateError reports that the item was already lent to the same
// borrower and nobody decided whether the new loan should link to it.
type DuplicateError struct {
	Existing Entity
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate loan of %q to %q (code %s)", e.Existing.Item, e.Existing.Borrower, e.Existing.ProductCode)
}

// LinkDecider is asked whether a new loan should reference an earlier loan
// of the same item to the same borrower. Returning false cancels the
// registration.
type LinkDecider func(existing Entity) bool

func AlwaysLink(Entity) bool { return true }

func NeverLink(Entity) bool { return false }

func Validate(p Payload) error {
	if strings.TrimSpace(p.Item) == "" {
		return ErrMissingItem
	}
	if strings.TrimSpace(p.Borrower) == "" {
		return ErrMissingBorrower
	}
	return nil
}

// FindDuplicate returns the first loan whose item and borrower equal the
// given pair, ignoring case and surrounding blanks.
func FindDuplicate(loans []Entity, item, borrower string) (Entity, bool) {
	item = strings.TrimSpace(item)
	borrower = strings.TrimSpace(borrower)
	for _, l := range loans {
		if strings.EqualFold(strings.TrimSpace(l.Item), item) &&
			strings.EqualFold(strings.TrimSpace(l.Borrower), borrower) {
			return l, true
		}
	}
	return Entity{}, false
}

func Link(p *Payload, existing Entity) {
	p.RelatedLoanID = existing.ID
	p.RelatedProductCode = existing.ProductCode
}
