package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

type remindCmd struct {
	app *App
}

func (*remindCmd) Name() string     { return "remind" }
func (*remindCmd) Synopsis() string { return "send an SMS reminder for a pending loan" }
func (*remindCmd) Usage() string {
	return `loans remind <loan id>

  Sends the borrower a reminder through the configured SMS_MODE. When no
  gateway is available, or delivery fails, the message is printed so it
  can be sent by hand.
`
}

func (*remindCmd) SetFlags(*flag.FlagSet) {}

func (p *remindCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(p.app.errOut, "expected exactly one loan id")
		return subcommands.ExitUsageError
	}

	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	result, err := svc.SendReminder(ctx, strings.TrimSpace(f.Arg(0)))
	switch {
	case errors.Is(err, loan.ErrLoanNotFound):
		fmt.Fprintln(p.app.errOut, "Empréstimo não encontrado.")
		return subcommands.ExitFailure
	case errors.Is(err, loan.ErrMissingPhone):
		fmt.Fprintln(p.app.errOut, "Este empréstimo não tem telefone cadastrado.")
		return subcommands.ExitFailure
	case errors.Is(err, loan.ErrAlreadyReturned):
		fmt.Fprintln(p.app.errOut, "Este item já foi devolvido.")
		return subcommands.ExitFailure
	case err != nil:
		return p.app.fail(err)
	}

	if result.Sent {
		fmt.Fprintf(p.app.out, "Lembrete enviado para %s.\n", result.To)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(p.app.out, "Não foi possível enviar o SMS. Copie a mensagem e envie para %s:\n\n%s\n", result.To, result.Message)
	return subcommands.ExitSuccess
}
