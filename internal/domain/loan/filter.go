package loan

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter keeps the loans matching every predicate of c, in input order.
func Filter(loans []Entity, c Criteria) []Entity {
	query := strings.ToLower(strings.TrimSpace(c.BorrowerQuery))
	queryDigits := Digits(query)
	itemType := c.Type

	out := make([]Entity, 0, len(loans))
	for _, l := range loans {
		if !matchStatus(l, c.Status) {
			continue
		}
		if itemType != "" && l.Type != itemType {
			continue
		}
		if query != "" && !matchBorrower(l, query, queryDigits) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchStatus(l Entity, s Status) bool {
	switch s {
	case StatusPending:
		return !l.Returned
	case StatusReturned:
		return l.Returned
	default:
		return true
	}
}

func matchBorrower(l Entity, query, queryDigits string) bool {
	if strings.Contains(strings.ToLower(l.Borrower), query) {
		return true
	}
	if queryDigits == "" {
		return false
	}
	phone := Digits(l.BorrowerPhone)
	return phone != "" && strings.Contains(phone, queryDigits)
}

// Group splits loans into sections keyed by the upper-cased first letter of
// the item name. Sections and the loans inside them are ordered with
// Brazilian Portuguese collation.
func Group(loans []Entity) []Section {
	col := collate.New(language.BrazilianPortuguese)

	index := map[string]int{}
	sections := []Section{}
	for _, l := range loans {
		letter := sectionLetter(l.Item)
		i, ok := index[letter]
		if !ok {
			i = len(sections)
			index[letter] = i
			sections = append(sections, Section{Letter: letter})
		}
		sections[i].Loans = append(sections[i].Loans, l)
	}

	slices.SortFunc(sections, func(a, b Section) int {
		return col.CompareString(a.Letter, b.Letter)
	})
	for i := range sections {
		slices.SortStableFunc(sections[i].Loans, func(a, b Entity) int {
			return col.CompareString(a.Item, b.Item)
		})
	}
	return sections
}

func sectionLetter(item string) string {
	for _, r := range strings.TrimSpace(item) {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// BuildView filters and groups loans and counts what the list header shows.
func BuildView(loans []Entity, c Criteria) View {
	visible := Filter(loans, c)
	pending := 0
	for _, l := range loans {
		if !l.Returned {
			pending++
		}
	}
	return View{
		Criteria: c,
		Sections: Group(visible),
		Visible:  len(visible),
		Pending:  pending,
		Total:    len(loans),
	}
}
