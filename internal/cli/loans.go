package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

type filterFlags struct {
	status   string
	itemType string
	borrower string
}

func (ff *filterFlags) register(f *flag.FlagSet) {
	f.StringVar(&ff.status, "status", "all", "Status filter: all, pending or returned.")
	f.StringVar(&ff.itemType, "type", "", "Only loans of this exact type.")
	f.StringVar(&ff.borrower, "borrower", "", "Borrower name fragment or phone digits.")
}

func (ff *filterFlags) criteria() loan.Criteria {
	return loan.Criteria{
		Status:        loan.ParseStatus(ff.status),
		Type:          strings.TrimSpace(ff.itemType),
		BorrowerQuery: strings.TrimSpace(ff.borrower),
	}
}

type listCmd struct {
	app    *App
	filter filterFlags
	raw    bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "display the loan history grouped by item initial" }
func (*listCmd) Usage() string {
	return `loans list [-status all|pending|returned] [-type <type>] [-borrower <query>] [-raw]

  Shows the loans matching every filter, grouped by the first letter of the
  item name. -borrower matches names case-insensitively and, when it holds
  digits, phone numbers too.
`
}

func (p *listCmd) SetFlags(f *flag.FlagSet) {
	p.filter.register(f)
	f.BoolVar(&p.raw, "raw", false, "Print plain Markdown instead of styled output.")
}

func (p *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	snap := svc.Snapshot(ctx)
	md := ViewMarkdown(loan.BuildView(snap.Loans, p.filter.criteria()))
	if p.raw {
		fmt.Fprint(p.app.out, md)
		return subcommands.ExitSuccess
	}
	p.app.printMarkdown(md, snap.Theme)
	return subcommands.ExitSuccess
}

type returnCmd struct {
	app  *App
	date string
}

func (*returnCmd) Name() string     { return "return" }
func (*returnCmd) Synopsis() string { return "mark a loan as returned" }
func (*returnCmd) Usage() string {
	return `loans return [-date YYYY-MM-DD] <loan id>

  Marks the loan as returned, now or at -date. Loans already returned keep
  their first return date.
`
}

func (p *returnCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "date", "", "Return date (YYYY-MM-DD). Defaults to now.")
}

func (p *returnCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(p.app.errOut, "expected exactly one loan id")
		return subcommands.ExitUsageError
	}
	at, err := loan.ParseDate(p.date)
	if err != nil {
		fmt.Fprintf(p.app.errOut, "invalid -date %q: %v\n", p.date, err)
		return subcommands.ExitUsageError
	}

	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	id := strings.TrimSpace(f.Arg(0))
	snap, err := svc.MarkReturned(ctx, id, at.Time)
	if err != nil {
		return p.app.fail(err)
	}
	l, ok := snap.Find(id)
	if !ok {
		fmt.Fprintf(p.app.out, "Nenhum empréstimo com id %s.\n", id)
		return subcommands.ExitSuccess
	}
	if l.ReturnedAt == nil {
		fmt.Fprintf(p.app.out, "%s devolvido.\n", l.Item)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(p.app.out, "%s devolvido em %s.\n", l.Item, formatDay(*l.ReturnedAt))
	return subcommands.ExitSuccess
}

type clearCmd struct {
	app *App
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "erase the whole loan history" }
func (*clearCmd) Usage() string {
	return `loans clear [-y]

  Removes every loan. The theme preference is kept.
`
}

func (p *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.yes, "y", false, "Do not ask for confirmation.")
}

func (p *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !p.yes && !p.app.confirm("Isso irá apagar todo o histórico de empréstimos. Deseja continuar?") {
		fmt.Fprintln(p.app.out, "Nada foi apagado.")
		return subcommands.ExitSuccess
	}

	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	if _, err := svc.ClearHistory(ctx); err != nil {
		return p.app.fail(err)
	}
	fmt.Fprintln(p.app.out, "Histórico apagado.")
	return subcommands.ExitSuccess
}
