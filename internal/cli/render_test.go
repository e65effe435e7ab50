package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

// headings returns the text of every heading of the given level in md.
func headings(md string, level int) []string {
	source := []byte(md)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var out []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == level {
			var b strings.Builder
			for i := 0; i < h.Lines().Len(); i++ {
				line := h.Lines().At(i)
				b.Write(line.Value(source))
			}
			out = append(out, strings.TrimSpace(b.String()))
		}
		return ast.WalkContinue, nil
	})
	return out
}

func TestViewMarkdownSections(t *testing.T) {
	returnedAt := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)
	loans := []loan.Entity{
		{ID: "3", Item: "zelda", Type: "Jogo", Borrower: "Bruno", ProductCode: "JOG-0003-CCCC"},
		{ID: "2", Item: "Livro X", Borrower: "Ana", ProductCode: "ITE-0002-BBBB", RelatedProductCode: "ITE-0001-AAAA"},
		{ID: "1", Item: "Livro X", Borrower: "Ana", ProductCode: "ITE-0001-AAAA", Returned: true, ReturnedAt: &returnedAt},
	}
	md := ViewMarkdown(loan.BuildView(loans, loan.Criteria{Status: loan.StatusAll}))

	if got := headings(md, 1); len(got) != 1 || got[0] != "Empréstimos" {
		t.Fatalf("unexpected title: %v", got)
	}
	got := headings(md, 2)
	if strings.Join(got, ",") != "L,Z" {
		t.Fatalf("unexpected sections: %v", got)
	}
	for _, want := range []string{"3 item(ns) · 2 pendente(s)", "_Devolvido_", "Vinculado a `ITE-0001-AAAA`", "Devolvido em 20/12/2025", "· Item ·"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}
