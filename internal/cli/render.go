package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

// ViewMarkdown renders the grouped view the same way the list screen shows
// it: one heading per letter, one entry per loan.
func ViewMarkdown(view loan.View) string {
	var b strings.Builder
	b.WriteString("# Empréstimos\n\n")
	fmt.Fprintf(&b, "%d item(ns) · %d pendente(s)\n\n", view.Visible, view.Pending)

	if len(view.Sections) == 0 {
		b.WriteString("_Nenhum empréstimo registrado._\n")
		return b.String()
	}

	for _, section := range view.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Letter)
		for _, l := range section.Loans {
			writeLoanMarkdown(&b, l)
		}
	}
	return b.String()
}

func writeLoanMarkdown(b *strings.Builder, l loan.Entity) {
	status := "Pendente"
	if l.Returned {
		status = "Devolvido"
	}
	itemType := l.Type
	if itemType == "" {
		itemType = "Item"
	}
	code := l.ProductCode
	if code == "" {
		code = "-"
	}

	fmt.Fprintf(b, "- **%s** · %s · _%s_\n", l.Item, itemType, status)
	fmt.Fprintf(b, "  - %s · emprestado em %s\n", l.Borrower, formatDay(l.LoanDate.Time))
	fmt.Fprintf(b, "  - Registrado em %s · Código: `%s` · id `%s`\n", formatDay(l.CreatedAt), code, l.ID)
	if l.RelatedProductCode != "" {
		fmt.Fprintf(b, "  - Vinculado a `%s`\n", l.RelatedProductCode)
	}
	if l.Returned && l.ReturnedAt != nil {
		fmt.Fprintf(b, "  - Devolvido em %s\n", formatDay(*l.ReturnedAt))
	}
	b.WriteString("\n")
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006")
}

// printMarkdown styles md for the terminal with the stored theme. Rendering
// errors fall back to the raw text.
func (a *App) printMarkdown(md string, theme loan.Theme) {
	style := "light"
	if theme == loan.ThemeDark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		a.logger.Debug("markdown render failed", "err", err)
		fmt.Fprint(a.out, md)
		return
	}
	fmt.Fprint(a.out, out)
}
