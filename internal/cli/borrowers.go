package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

type lookupCmd struct {
	app *App
}

func (*lookupCmd) Name() string     { return "lookup" }
func (*lookupCmd) Synopsis() string { return "find a known borrower by phone number" }
func (*lookupCmd) Usage() string {
	return `loans lookup <phone>

  Prints the contact data stored with the most recent loan to the given
  phone number. At least 8 digits are needed.
`
}

func (*lookupCmd) SetFlags(*flag.FlagSet) {}

func (p *lookupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(p.app.errOut, "expected exactly one phone number")
		return subcommands.ExitUsageError
	}

	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	match := svc.LookupPhone(ctx, f.Arg(0), "")
	if !match.Found {
		fmt.Fprintln(p.app.out, "Nenhuma pessoa encontrada.")
		return subcommands.ExitSuccess
	}
	c := match.Contact
	fmt.Fprintf(p.app.out, "Nome: %s\nTelefone: %s\nNascimento: %s\nEndereço: %s, %s - %s\nCEP: %s\n",
		c.Borrower, c.BorrowerPhone, dash(c.BorrowerBirthdate),
		dash(c.BorrowerAddress), dash(c.BorrowerNumber), dash(c.BorrowerNeighborhood), dash(c.BorrowerCEP))
	return subcommands.ExitSuccess
}

type cepCmd struct {
	app *App
}

func (*cepCmd) Name() string     { return "cep" }
func (*cepCmd) Synopsis() string { return "look up street and neighborhood of a CEP" }
func (*cepCmd) Usage() string {
	return `loans cep <00000-000>
`
}

func (*cepCmd) SetFlags(*flag.FlagSet) {}

func (p *cepCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(p.app.errOut, "expected exactly one CEP")
		return subcommands.ExitUsageError
	}
	cep := loan.MaskCEP(f.Arg(0))
	if !loan.ValidCEP(cep) {
		fmt.Fprintf(p.app.errOut, "CEP inválido: %s\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	addr, ok := svc.LookupAddress(ctx, cep)
	if !ok {
		fmt.Fprintln(p.app.out, "CEP não encontrado.")
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(p.app.out, "%s\n%s\n", dash(addr.Street), dash(addr.Neighborhood))
	return subcommands.ExitSuccess
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
