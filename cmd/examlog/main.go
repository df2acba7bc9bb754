package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/conorfennell/examlog/internal/config"
	"github.com/conorfennell/examlog/internal/exchange"
	"github.com/conorfennell/examlog/internal/storage"
)

const usage = `Usage: examlog [flags] <command>

Commands:
  serve                     run the web UI
  export <table> <file>     write a table to a .csv or .xlsx file
  import <table> <file>     add every row of a .csv or .xlsx file
  snapshot                  commit every table as CSV to the snapshot repository

Tables: %s

Flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if err != errUsage {
			slog.Error("examlog failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("examlog", pflag.ContinueOnError)
	config.Flags(flags)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, usage, strings.Join(exchange.Names(), ", "))
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.Logger())

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Debug("Database opened", "path", cfg.Storage.Path)

	cmd, rest := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "serve":
		return serve(ctx, cfg, db)
	case "export":
		return exportTable(db, rest, stdout)
	case "import":
		return importTable(db, rest, stdout)
	case "snapshot":
		return takeSnapshot(cfg, db, stdout)
	}
	fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
	flags.Usage()
	return errUsage
}
