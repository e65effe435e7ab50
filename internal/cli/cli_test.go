package cli

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/store"
)

type harness struct {
	cfg config.Config
}

func newHarness(t *testing.T) harness {
	t.Helper()
	dir := t.TempDir()
	return harness{cfg: config.Config{
		Env:                  "test",
		StoreDriver:          "json",
		StorePath:            filepath.Join(dir, "loans.json"),
		ExportDir:            dir,
		AddressLookupURL:     "http://127.0.0.1:1",
		AddressLookupTimeout: 100 * time.Millisecond,
		SMSMode:              "none",
	}}
}

// run executes one command line with stdin as the terminal input.
func (h harness) run(t *testing.T, stdin string, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	fs := flag.NewFlagSet("loans", flag.ContinueOnError)
	fs.SetOutput(&errOut)
	commander := subcommands.NewCommander(fs, "loans")
	Register(commander, NewApp(h.cfg, strings.NewReader(stdin), &out, &errOut))
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	status := commander.Execute(context.Background())
	return status, out.String(), errOut.String()
}

func (h harness) snapshot() loan.Snapshot {
	return store.NewFile(h.cfg.StorePath, nil).Load(context.Background())
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	status, out, errOut := h.run(t, "", "add", "-item", "Livro X", "-type", "Livro", "-borrower", "Ana", "-phone", "11912345678", "-date", "2025-12-15")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "Empréstimo registrado: Livro X") {
		t.Fatalf("unexpected add result: %v %q %q", status, out, errOut)
	}

	snap := h.snapshot()
	if len(snap.Loans) != 1 || snap.Loans[0].BorrowerPhone != "(11) 91234-5678" || !strings.HasPrefix(snap.Loans[0].ProductCode, "LIV-") {
		t.Fatalf("unexpected stored loan: %+v", snap.Loans)
	}

	status, out, _ = h.run(t, "", "list", "-raw", "-status", "pending")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "## L") || !strings.Contains(out, "**Livro X**") || !strings.Contains(out, "15/12/2025") {
		t.Fatalf("unexpected list output: %q", out)
	}
}

func TestAddRequiresItemAndBorrower(t *testing.T) {
	h := newHarness(t)
	status, _, errOut := h.run(t, "", "add", "-item", "Livro")
	if status != subcommands.ExitUsageError || !strings.Contains(errOut, "Informe o item e a pessoa.") {
		t.Fatalf("unexpected result: %v %q", status, errOut)
	}
}

func TestAddDuplicatePrompt(t *testing.T) {
	h := newHarness(t)
	h.run(t, "", "add", "-item", "Livro X", "-borrower", "Ana")

	status, out, _ := h.run(t, "n\n", "add", "-item", "livro x", "-borrower", "ANA")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "Registro cancelado.") {
		t.Fatalf("expected cancelled registration, got %v %q", status, out)
	}
	if n := len(h.snapshot().Loans); n != 1 {
		t.Fatalf("expected no new loan, got %d", n)
	}

	status, out, _ = h.run(t, "sim\n", "add", "-item", "livro x", "-borrower", "ANA")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "Vinculado ao registro") {
		t.Fatalf("expected linked registration, got %v %q", status, out)
	}
	snap := h.snapshot()
	if len(snap.Loans) != 2 || snap.Loans[0].RelatedLoanID != snap.Loans[1].ID {
		t.Fatalf("unexpected link: %+v", snap.Loans)
	}
}

func TestAddFillsContactFromPhone(t *testing.T) {
	h := newHarness(t)
	h.run(t, "", "add", "-item", "Livro", "-borrower", "Ana", "-phone", "(11) 91234-5678", "-cep", "01001000", "-number", "10", "-no-lookup")

	status, out, _ := h.run(t, "", "add", "-item", "Disco", "-phone", "11912345678", "-no-lookup")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "Pessoa encontrada pelo telefone") {
		t.Fatalf("expected phone autofill, got %v %q", status, out)
	}
	newest := h.snapshot().Loans[0]
	if newest.Borrower != "Ana" || newest.BorrowerCEP != "01001-000" || newest.BorrowerNumber != "10" {
		t.Fatalf("unexpected autofilled loan: %+v", newest)
	}
}

func TestReturnAndClear(t *testing.T) {
	h := newHarness(t)
	h.run(t, "", "add", "-item", "Livro X", "-borrower", "Ana")
	id := h.snapshot().Loans[0].ID

	status, out, _ := h.run(t, "", "return", "-date", "2025-12-20", id)
	if status != subcommands.ExitSuccess || !strings.Contains(out, "Livro X devolvido em 20/12/2025.") {
		t.Fatalf("unexpected return output: %v %q", status, out)
	}
	if _, out, _ := h.run(t, "", "return", "missing"); !strings.Contains(out, "Nenhum empréstimo com id missing") {
		t.Fatalf("unexpected output for unknown id: %q", out)
	}

	if _, out, _ := h.run(t, "n\n", "clear"); !strings.Contains(out, "Nada foi apagado.") || len(h.snapshot().Loans) != 1 {
		t.Fatalf("expected declined clear to keep history: %q", out)
	}
	if _, out, _ := h.run(t, "", "clear", "-y"); !strings.Contains(out, "Histórico apagado.") || len(h.snapshot().Loans) != 0 {
		t.Fatalf("expected cleared history: %q", out)
	}
}

func TestRemindPrintsFallback(t *testing.T) {
	h := newHarness(t)
	h.run(t, "", "add", "-item", "Livro X", "-borrower", "Ana", "-phone", "11912345678")
	id := h.snapshot().Loans[0].ID

	status, out, _ := h.run(t, "", "remind", id)
	if status != subcommands.ExitSuccess || !strings.Contains(out, "+5511912345678") || !strings.Contains(out, `o item "Livro X"`) {
		t.Fatalf("unexpected remind output: %v %q", status, out)
	}

	if status, _, errOut := h.run(t, "", "remind", "missing"); status != subcommands.ExitFailure || !strings.Contains(errOut, "não encontrado") {
		t.Fatalf("unexpected output for unknown loan: %v %q", status, errOut)
	}
}

func TestThemeAndCode(t *testing.T) {
	h := newHarness(t)

	if _, out, _ := h.run(t, "", "theme"); strings.TrimSpace(out) != "light" {
		t.Fatalf("expected default light theme, got %q", out)
	}
	h.run(t, "", "theme", "dark")
	if _, out, _ := h.run(t, "", "theme"); strings.TrimSpace(out) != "dark" {
		t.Fatalf("expected dark theme, got %q", out)
	}

	_, out, _ := h.run(t, "", "code", "-type", "Jogo")
	if !strings.HasPrefix(strings.TrimSpace(out), "JOG-") {
		t.Fatalf("unexpected code: %q", out)
	}
}

func TestExportWritesPDF(t *testing.T) {
	h := newHarness(t)
	h.run(t, "", "add", "-item", "Livro X", "-borrower", "Ana")

	status, out, _ := h.run(t, "", "export")
	want := h.cfg.ExportPath()
	if status != subcommands.ExitSuccess || !strings.Contains(out, "PDF salvo em "+want) {
		t.Fatalf("unexpected export output: %v %q", status, out)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected pdf file: %v", err)
	}
}

func TestLookupAndCep(t *testing.T) {
	h := newHarness(t)
	h.run(t, "", "add", "-item", "Livro", "-borrower", "Ana", "-phone", "11912345678", "-no-lookup")

	if _, out, _ := h.run(t, "", "lookup", "(11) 91234-5678"); !strings.Contains(out, "Nome: Ana") {
		t.Fatalf("unexpected lookup output: %q", out)
	}
	if _, out, _ := h.run(t, "", "lookup", "1191"); !strings.Contains(out, "Nenhuma pessoa encontrada.") {
		t.Fatalf("unexpected short lookup output: %q", out)
	}
	if status, _, _ := h.run(t, "", "cep", "0100"); status != subcommands.ExitUsageError {
		t.Fatalf("expected usage error for partial CEP")
	}
	if _, out, _ := h.run(t, "", "cep", "01001000"); !strings.Contains(out, "CEP não encontrado.") {
		t.Fatalf("expected not found with unreachable service: %q", out)
	}
}

func TestViewMarkdownEmpty(t *testing.T) {
	md := ViewMarkdown(loan.BuildView(nil, loan.Criteria{}))
	if !strings.Contains(md, "Nenhum empréstimo registrado.") || !strings.Contains(md, "0 item(ns)") {
		t.Fatalf("unexpected markdown: %q", md)
	}
}
