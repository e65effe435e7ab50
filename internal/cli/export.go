package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/export"
)

type exportCmd struct {
	app    *App
	filter filterFlags
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "save the filtered loan list as PDF" }
func (*exportCmd) Usage() string {
	return `loans export [-o <file.pdf>] [-status ...] [-type ...] [-borrower ...]

  Writes the same view "list" shows to a PDF file, by default
  emprestimos.pdf in EXPORT_DIR.
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	p.filter.register(f)
	f.StringVar(&p.output, "o", "", "Output file. Defaults to EXPORT_DIR/emprestimos.pdf.")
}

func (p *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	path := p.output
	if path == "" {
		path = p.app.config().ExportPath()
	}
	view := loan.BuildView(svc.Snapshot(ctx).Loans, p.filter.criteria())
	result := export.NewPDF().Save(view, path, p.app.now())
	fmt.Fprintln(p.app.out, result.Message)
	if !result.Success {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
