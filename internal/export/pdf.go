// Package export renders the current loan list to PDF.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

const dateLayout = "02/01/2006"

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PDF struct {
	title string
}

func NewPDF() *PDF {
	return &PDF{title: "Controle de Empréstimos"}
}

// Render writes view as an A4 document: the counters first, then one block
// per loan under its section letter.
func (p *PDF) Render(w io.Writer, view loan.View, generatedAt time.Time) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(p.title, true)
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFooterFunc(func() {
		doc.SetY(-12)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(120, 120, 120)
		doc.CellFormat(0, 6, fmt.Sprintf("%d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 9, tr(p.title), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(100, 100, 100)
	summary := fmt.Sprintf("%d item(ns) exibido(s) · %d pendente(s) · gerado em %s",
		view.Visible, view.Pending, generatedAt.Format("02/01/2006 15:04"))
	doc.CellFormat(0, 6, tr(summary), "", 1, "L", false, 0, "")
	doc.Ln(4)

	if len(view.Sections) == 0 {
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(0, 0, 0)
		doc.CellFormat(0, 8, tr("Nenhum empréstimo registrado."), "", 1, "L", false, 0, "")
		return doc.Output(w)
	}

	for _, section := range view.Sections {
		doc.SetFont("Helvetica", "B", 13)
		doc.SetTextColor(37, 99, 235)
		doc.CellFormat(0, 8, tr(section.Letter), "B", 1, "L", false, 0, "")
		doc.Ln(1)

		for _, l := range section.Loans {
			writeLoan(doc, tr, l)
		}
		doc.Ln(2)
	}

	return doc.Output(w)
}

func writeLoan(doc *fpdf.Fpdf, tr func(string) string, l loan.Entity) {
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

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(140, 6, tr(l.Item), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, tr(status), "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.MultiCell(0, 5, tr(fmt.Sprintf("%s · %s · emprestado em %s", l.Borrower, itemType, formatDate(l.LoanDate.Time))), "", "L", false)
	doc.SetTextColor(100, 100, 100)
	doc.MultiCell(0, 5, tr(fmt.Sprintf("Registrado em %s · Código: %s", formatDate(l.CreatedAt), code)), "", "L", false)
	if l.Returned && l.ReturnedAt != nil {
		doc.MultiCell(0, 5, tr("Devolvido em "+formatDate(*l.ReturnedAt)), "", "L", false)
	}
	doc.Ln(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// Save renders view into path. Failures are reported in the result, never
// returned, so callers can show the message as is.
func (p *PDF) Save(view loan.View, path string, generatedAt time.Time) Result {
	if path == "" {
		return Result{Success: false, Message: "Exportação cancelada."}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	f, err := os.Create(path)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	if err := p.Render(f, view, generatedAt); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return Result{Success: false, Message: err.Error()}
	}
	if err := f.Close(); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: fmt.Sprintf("PDF salvo em %s", path)}
}
