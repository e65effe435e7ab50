package loan

import (
	"slices"
	"testing"
)

func sampleLoans() []Entity {
	return []Entity{
		{ID: "6", Item: "zelda", Type: "Jogo", Borrower: "Bruno", BorrowerPhone: "(21) 99876-5432"},
		{ID: "5", Item: "Água de Março", Type: "Disco", Borrower: "Carla", Returned: true},
		{ID: "4", Item: "Livro X", Type: "Livro", Borrower: "Ana Paula", BorrowerPhone: "(11) 91234-5678"},
		{ID: "3", Item: "abajur", Type: "", Borrower: "ana"},
		{ID: "2", Item: "Alien", Type: "Filme", Borrower: "Bruno", Returned: true},
		{ID: "1", Item: "Xadrez", Type: "Jogo", Borrower: "Diego"},
	}
}

func ids(loans []Entity) []string {
	out := make([]string, 0, len(loans))
	for _, l := range loans {
		out = append(out, l.ID)
	}
	return out
}

func TestFilterStatus(t *testing.T) {
	loans := sampleLoans()

	if got := ids(Filter(loans, Criteria{Status: StatusAll})); len(got) != 6 {
		t.Fatalf("expected all 6 loans, got %v", got)
	}
	if got := ids(Filter(loans, Criteria{Status: StatusPending})); !slices.Equal(got, []string{"6", "4", "3", "1"}) {
		t.Fatalf("unexpected pending loans: %v", got)
	}
	if got := ids(Filter(loans, Criteria{Status: StatusReturned})); !slices.Equal(got, []string{"5", "2"}) {
		t.Fatalf("unexpected returned loans: %v", got)
	}
}

func TestFilterTypeIsExact(t *testing.T) {
	got := ids(Filter(sampleLoans(), Criteria{Type: "Jogo"}))
	if !slices.Equal(got, []string{"6", "1"}) {
		t.Fatalf("unexpected type filter result: %v", got)
	}
	if got := Filter(sampleLoans(), Criteria{Type: "jogo"}); len(got) != 0 {
		t.Fatalf("expected case-sensitive type match, got %v", ids(got))
	}
}

func TestFilterBorrowerNameCaseInsensitive(t *testing.T) {
	got := ids(Filter(sampleLoans(), Criteria{BorrowerQuery: "ANA"}))
	if !slices.Equal(got, []string{"4", "3"}) {
		t.Fatalf("unexpected borrower filter result: %v", got)
	}
}

func TestFilterBorrowerPhoneDigits(t *testing.T) {
	got := ids(Filter(sampleLoans(), Criteria{BorrowerQuery: "91234"}))
	if !slices.Equal(got, []string{"4"}) {
		t.Fatalf("expected phone match, got %v", got)
	}
	got = ids(Filter(sampleLoans(), Criteria{BorrowerQuery: "(21) 9987"}))
	if !slices.Equal(got, []string{"6"}) {
		t.Fatalf("expected formatted phone query to match digits, got %v", got)
	}
}

func TestFilterPredicatesCompose(t *testing.T) {
	loans := sampleLoans()
	c := Criteria{Status: StatusPending, Type: "Jogo", BorrowerQuery: "bru"}

	all := ids(Filter(loans, c))
	stepwise := ids(Filter(Filter(Filter(loans, Criteria{BorrowerQuery: c.BorrowerQuery}), Criteria{Type: c.Type}), Criteria{Status: c.Status}))
	if !slices.Equal(all, stepwise) {
		t.Fatalf("filter order changed result: %v vs %v", all, stepwise)
	}
	if !slices.Equal(all, []string{"6"}) {
		t.Fatalf("unexpected composed result: %v", all)
	}
}

func TestGroupSectionsAndOrder(t *testing.T) {
	sections := Group(sampleLoans())

	letters := make([]string, 0, len(sections))
	for _, s := range sections {
		letters = append(letters, s.Letter)
	}
	if !slices.Equal(letters, []string{"A", "Á", "L", "X", "Z"}) {
		t.Fatalf("unexpected sections: %v", letters)
	}
	if got := ids(sections[0].Loans); !slices.Equal(got, []string{"3", "2"}) {
		t.Fatalf("expected abajur before Alien, got %v", got)
	}
}

func TestGroupEmptyItem(t *testing.T) {
	sections := Group([]Entity{{ID: "1", Item: ""}})
	if len(sections) != 1 || sections[0].Letter != "?" {
		t.Fatalf("expected ? section, got %+v", sections)
	}
}

func TestBuildViewCounts(t *testing.T) {
	view := BuildView(sampleLoans(), Criteria{Status: StatusReturned})
	if view.Visible != 2 || view.Pending != 4 || view.Total != 6 {
		t.Fatalf("unexpected counters: %+v", view)
	}
}

func TestParseStatusCoerces(t *testing.T) {
	if ParseStatus("PENDING") != StatusPending {
		t.Fatalf("expected pending")
	}
	if ParseStatus("whatever") != StatusAll {
		t.Fatalf("expected unknown status to mean all")
	}
}
