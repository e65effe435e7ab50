package loan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingPhone    = errors.New("missing_phone")
	ErrAlreadyReturned = errors.New("already_returned")
)

const reminderDateLayout = "02/01/2006"

// ComposeReminder builds the SMS text sent to the borrower of a pending loan.
func ComposeReminder(l Entity) (string, error) {
	if strings.TrimSpace(l.BorrowerPhone) == "" {
		return "", ErrMissingPhone
	}
	if l.Returned {
		return "", ErrAlreadyReturned
	}

	date := "-"
	switch {
	case !l.LoanDate.IsZero():
		date = l.LoanDate.Local().Format(reminderDateLayout)
	case !l.CreatedAt.IsZero():
		date = l.CreatedAt.Local().Format(reminderDateLayout)
	}
	code := l.ProductCode
	if code == "" {
		code = "-"
	}

	return fmt.Sprintf(
		"Olá, %s! Lembrete: o item \"%s\" emprestado em %s (código %s) ainda está pendente de devolução.",
		strings.TrimSpace(l.Borrower), strings.TrimSpace(l.Item), date, code,
	), nil
}
