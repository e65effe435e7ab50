// Package cli implements the loans terminal commands.
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/address"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/observability"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/sms"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/store"
)

var (
	storePath   = flag.String("store", "", "Path to the loan store. Overrides STORE_PATH.")
	storeDriver = flag.String("driver", "", "Store driver (json, bolt). Overrides STORE_DRIVER.")
)

// App carries what every command needs: configuration and the terminal.
type App struct {
	cfg    config.Config
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
	now    func() time.Time
}

func NewApp(cfg config.Config, in io.Reader, out, errOut io.Writer) *App {
	return &App{
		cfg:    cfg,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		logger: observability.NewCLILogger(errOut, cfg.Env),
		now:    time.Now,
	}
}

// Register adds the loan commands to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&addCmd{app: app}, "loans")
	c.Register(&listCmd{app: app}, "loans")
	c.Register(&returnCmd{app: app}, "loans")
	c.Register(&clearCmd{app: app}, "loans")
	c.Register(&remindCmd{app: app}, "loans")
	c.Register(&exportCmd{app: app}, "loans")

	c.Register(&lookupCmd{app: app}, "borrowers")
	c.Register(&cepCmd{app: app}, "borrowers")

	c.Register(&codeCmd{app: app}, "settings")
	c.Register(&themeCmd{app: app}, "settings")
}

func (a *App) config() config.Config {
	cfg := a.cfg
	if *storeDriver != "" {
		cfg.StoreDriver = strings.ToLower(*storeDriver)
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	return cfg
}

// open builds the loan service on top of the configured store. The returned
// function closes the store.
func (a *App) open() (*loan.Service, func(), error) {
	cfg := a.config()
	st, err := store.NewFromConfig(cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	sender, err := sms.NewSenderFromConfig(cfg)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	addresses := address.NewClient(cfg.AddressLookupURL, cfg.AddressLookupTimeout, a.logger)
	svc := loan.NewService(st, sender, addresses, a.logger)
	return svc, func() { _ = st.Close() }, nil
}

// confirm asks a yes/no question; anything but s/sim/y/yes is a no.
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [s/N] ", question)
	line, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}

func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(a.errOut, err)
	return subcommands.ExitFailure
}
