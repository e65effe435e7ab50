package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type themeCmd struct {
	app *App
}

func (*themeCmd) Name() string     { return "theme" }
func (*themeCmd) Synopsis() string { return "show or change the color theme" }
func (*themeCmd) Usage() string {
	return `loans theme [light|dark]

  Without argument prints the current theme. Any value other than "dark"
  selects the light theme.
`
}

func (*themeCmd) SetFlags(*flag.FlagSet) {}

func (p *themeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(p.app.errOut, "expected at most one theme")
		return subcommands.ExitUsageError
	}

	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	if f.NArg() == 0 {
		fmt.Fprintln(p.app.out, svc.Theme(ctx))
		return subcommands.ExitSuccess
	}
	theme, err := svc.SetTheme(ctx, f.Arg(0))
	if err != nil {
		return p.app.fail(err)
	}
	fmt.Fprintln(p.app.out, theme)
	return subcommands.ExitSuccess
}

type codeCmd struct {
	app      *App
	itemType string
}

func (*codeCmd) Name() string     { return "code" }
func (*codeCmd) Synopsis() string { return "generate a product code for an item type" }
func (*codeCmd) Usage() string {
	return `loans code [-type <type>]
`
}

func (p *codeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.itemType, "type", "", "Item category used as code prefix.")
}

func (p *codeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeStore, err := p.app.open()
	if err != nil {
		return p.app.fail(err)
	}
	defer closeStore()

	fmt.Fprintln(p.app.out, svc.ProductCode(p.itemType))
	return subcommands.ExitSuccess
}
