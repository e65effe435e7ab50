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

type addCmd struct {
	app *App

	item         string
	itemType     string
	code         string
	borrower     string
	phone        string
	birthdate    string
	address      string
	cep          string
	neighborhood string
	number       string
	date         string
	link         bool
	noLink       bool
	noLookup     bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "register a new loan" }
func (*addCmd) Usage() string {
	return `loans add -item <name> -borrower <name> [-type <type>] [-phone <phone>] [-cep <cep>] ...

  Registers a loan at the top of the history. When the same item was
  already lent to the same person, asks whether the new loan should be
  linked to the earlier one (-link / -no-link answer in advance).
  A known phone number fills the remaining contact fields, and a CEP
  fills street and neighborhood unless -no-lookup is set.
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.item, "item", "", "Name of the lent item (required).")
	f.StringVar(&p.itemType, "type", "", "Item category, e.g. Livro, Jogo.")
	f.StringVar(&p.code, "code", "", "Product code. Generated from the type when empty.")
	f.StringVar(&p.borrower, "borrower", "", "Name of the borrower (required unless found by phone).")
	f.StringVar(&p.phone, "phone", "", "Borrower phone number.")
	f.StringVar(&p.birthdate, "birthdate", "", "Borrower birth date.")
	f.StringVar(&p.address, "address", "", "Borrower street address.")
	f.StringVar(&p.cep, "cep", "", "Borrower CEP (00000-000).")
	f.StringVar(&p.neighborhood, "neighborhood", "", "Borrower neighborhood.")
	f.StringVar(&p.number, "number", "", "Borrower house number.")
	f.StringVar(&p.date, "date", "", "Loan date (YYYY-MM-DD). Defaults to now.")
	f.BoolVar(&p.link, "link", false, "Link to an earlier loan of the same item to the same person without asking.")
	f.BoolVar(&p.noLink, "no-link", false, "Cancel when the same item was already lent to the same person.")
	f.BoolVar(&p.noLookup, "no-lookup", false, "Do not query the CEP service.")
}

func (p *addCmd) payload() (loan.Payload, error) {
	date, err := loan.ParseDate(p.date)
	if err != nil {
		return loan.Payload{}, fmt.Errorf("invalid -date %q: %w", p.date, err)
	}
	return loan.Payload{
		Item:                 strings.TrimSpace(p.item),
		Type:                 strings.TrimSpace(p.itemType),
		ProductCode:          strings.TrimSpace(p.code),
		Borrower:             strings.TrimSpace(p.borrower),
		BorrowerPhone:        loan.MaskPhone(p.phone),
		BorrowerBirthdate:    strings.TrimSpace(p.birthdate),
		BorrowerAddress:      strings.TrimSpace(p.address),
		BorrowerCEP:          loan.MaskCEP(p.cep),
		BorrowerNeighborhood: strings.TrimSpace(p.neighborhood),
		BorrowerNumber:       strings.TrimSpace(p.number),
		LoanDate:             date,
	}, nil
}

func (p *addCmd) decider() loan.LinkDecider {
	switch {
	case p.link:
		return loan.AlwaysLink
	case p.noLink:
		return loan.NeverLink
	default:
		return func(existing loan.Entity) bool {
			return p.app.confirm(fmt.Sprintf(
				"%s já pegou %q emprestado (código %s). Vincular ao registro anterior?",
				existing.Borrower, existing.Item, existing.ProductCode,
			))
		}
	}
}

func (p *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.link && p.noLink {
		fmt.Fprintln(p.app.errOut, "-link and -no-link are mutually exclusive")
		return subcommands.ExitUsageError
	}
	payload, err := p.payload()
	if err != nil {
		fmt.Fprintln(p.app.errOut, err)
		return subcommands.ExitUsageError
	}

	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	if payload.BorrowerPhone != "" {
		match := svc.LookupPhone(ctx, payload.BorrowerPhone, "")
		if match.Found {
			fillEmpty(&payload, match.Contact)
			if match.Notice {
				fmt.Fprintf(p.app.out, "Pessoa encontrada pelo telefone: dados de %s preenchidos.\n", match.Contact.Borrower)
			}
		}
	}

	if !p.noLookup && payload.BorrowerCEP != "" && (payload.BorrowerAddress == "" || payload.BorrowerNeighborhood == "") {
		requested := payload.BorrowerCEP
		if addr, ok := svc.LookupAddress(ctx, requested); ok {
			current := payload
			if loan.ApplyAddress(&current, requested, addr) {
				fillEmpty(&payload, current)
			}
		}
	}

	_, created, err := svc.Register(ctx, payload, p.decider())
	switch {
	case errors.Is(err, loan.ErrMissingItem), errors.Is(err, loan.ErrMissingBorrower):
		fmt.Fprintln(p.app.errOut, "Informe o item e a pessoa.")
		return subcommands.ExitUsageError
	case errors.Is(err, loan.ErrRegistrationAborted):
		fmt.Fprintln(p.app.out, "Registro cancelado.")
		return subcommands.ExitSuccess
	case err != nil:
		return p.app.fail(err)
	}

	fmt.Fprintf(p.app.out, "Empréstimo registrado: %s (%s) para %s, código %s\n", created.Item, created.ID, created.Borrower, created.ProductCode)
	if created.RelatedProductCode != "" {
		fmt.Fprintf(p.app.out, "Vinculado ao registro %s\n", created.RelatedProductCode)
	}
	return subcommands.ExitSuccess
}

// fillEmpty copies contact fields from src into the fields of dst the user
// left blank, so explicit flags always win over looked-up data.
func fillEmpty(dst *loan.Payload, src loan.Payload) {
	set := func(field *string, v string) {
		if strings.TrimSpace(*field) == "" {
			*field = v
		}
	}
	set(&dst.Borrower, src.Borrower)
	set(&dst.BorrowerPhone, src.BorrowerPhone)
	set(&dst.BorrowerBirthdate, src.BorrowerBirthdate)
	set(&dst.BorrowerAddress, src.BorrowerAddress)
	set(&dst.BorrowerCEP, src.BorrowerCEP)
	set(&dst.BorrowerNeighborhood, src.BorrowerNeighborhood)
	set(&dst.BorrowerNumber, src.BorrowerNumber)
}
