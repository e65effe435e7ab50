package loan

import (
	"regexp"
	"strings"
)

const minPhoneLookupDigits = 8

var cepPattern = regexp.MustCompile(`^\d{5}-\d{3}$`)

func Digits(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskCEP formats up to eight digits as 00000-000. The dash only appears
// once a sixth digit is typed.
func MaskCEP(v string) string {
	d := Digits(v)
	if len(d) > 8 {
		d = d[:8]
	}
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

func ValidCEP(v string) bool {
	return cepPattern.MatchString(v)
}

// MaskPhone formats a Brazilian number as (11) 91234-5678 or (11) 1234-5678
// while it is being typed.
func MaskPhone(v string) string {
	d := Digits(v)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// E164 turns a national number with area code into +55 form. Numbers that
// already carry a country code are only stripped of punctuation.
func E164(v string) string {
	d := Digits(v)
	switch {
	case d == "":
		return ""
	case strings.HasPrefix(strings.TrimSpace(v), "+"):
		return "+" + d
	case len(d) == 10 || len(d) == 11:
		return "+55" + d
	default:
		return "+" + d
	}
}

// FindByPhone looks for loans whose phone has exactly the digits of phone.
// Partial numbers under eight digits never match.
func FindByPhone(loans []Entity, phone string) (Entity, bool) {
	d := Digits(phone)
	if len(d) < minPhoneLookupDigits {
		return Entity{}, false
	}
	for _, l := range loans {
		if Digits(l.BorrowerPhone) == d {
			return l, true
		}
	}
	return Entity{}, false
}

// Autofill copies the contact and address fields of an earlier loan into p.
// The borrower name is only filled when p has none.
func Autofill(p *Payload, match Entity) {
	if strings.TrimSpace(p.Borrower) == "" {
		p.Borrower = match.Borrower
	}
	p.BorrowerPhone = match.BorrowerPhone
	p.BorrowerBirthdate = match.BorrowerBirthdate
	p.BorrowerAddress = match.BorrowerAddress
	p.BorrowerCEP = match.BorrowerCEP
	p.BorrowerNeighborhood = match.BorrowerNeighborhood
	p.BorrowerNumber = match.BorrowerNumber
}

// PhoneNotice remembers which phone number the user was last told about so
// the "borrower found" notice shows once per distinct number.
type PhoneNotice struct {
	last string
}

func NewPhoneNotice(last string) *PhoneNotice {
	return &PhoneNotice{last: Digits(last)}
}

func (n *PhoneNotice) Last() string { return n.last }

// Observe reports whether a notice should be shown for phone and records it.
func (n *PhoneNotice) Observe(phone string) bool {
	d := Digits(phone)
	if d == "" || d == n.last {
		return false
	}
	n.last = d
	return true
}

// ApplyAddress fills street and neighborhood from a lookup result, unless
// the CEP in p changed since the lookup for requestedCEP was issued.
func ApplyAddress(p *Payload, requestedCEP string, addr Address) bool {
	if Digits(p.BorrowerCEP) != Digits(requestedCEP) {
		return false
	}
	applied := false
	if s := strings.TrimSpace(addr.Street); s != "" {
		p.BorrowerAddress = s
		applied = true
	}
	if n := strings.TrimSpace(addr.Neighborhood); n != "" {
		p.BorrowerNeighborhood = n
		applied = true
	}
	return applied
}
