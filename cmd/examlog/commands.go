package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/conorfennell/examlog/internal/config"
	"github.com/conorfennell/examlog/internal/exchange"
	"github.com/conorfennell/examlog/internal/snapshot"
	"github.com/conorfennell/examlog/internal/storage"
	"github.com/conorfennell/examlog/internal/web"
)

// serve runs the web UI until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, db *storage.DB) error {
	handler, err := web.NewServer(db)
	if err != nil {
		return err
	}
	if !isLoopback(cfg.Server.Addr) {
		slog.Warn("Listening on a non-loopback address; the UI has no authentication", "addr", cfg.Server.Addr)
	}

	if cfg.Snapshot.Every > 0 {
		sched, err := snapshot.Schedule(cfg.Snapshot.Every, cfg.Snapshot.Dir, db, author(cfg))
		if err != nil {
			return err
		}
		defer sched.Stop()
		slog.Info("Snapshots scheduled", "every", cfg.Snapshot.Every, "dir", cfg.Snapshot.Dir)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("Web UI listening", "url", "http://"+cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func tableArgs(args []string) (exchange.Table, string, error) {
	if len(args) != 2 {
		return exchange.Table{}, "", fmt.Errorf("%w: expected <table> <file>", errUsage)
	}
	table, ok := exchange.Lookup(args[0])
	if !ok {
		return exchange.Table{}, "", fmt.Errorf("unknown table %q, expected one of %s", args[0], strings.Join(exchange.Names(), ", "))
	}
	return table, args[1], nil
}

func exportTable(db *storage.DB, args []string, stdout io.Writer) error {
	table, path, err := tableArgs(args)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := table.Export(db, f, exchange.FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Exported %s to %s\n", table.Name, path)
	return nil
}

func importTable(db *storage.DB, args []string, stdout io.Writer) error {
	table, path, err := tableArgs(args)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	n, err := table.Import(db, f, exchange.FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("imported %d %s rows before failing: %w", n, table.Name, err)
	}
	fmt.Fprintf(stdout, "Imported %d rows into %s\n", n, table.Name)
	return nil
}

func takeSnapshot(cfg *config.Config, db *storage.DB, stdout io.Writer) error {
	hash, err := snapshot.Take(cfg.Snapshot.Dir, db, author(cfg), time.Now())
	if errors.Is(err, snapshot.ErrUnchanged) {
		fmt.Fprintln(stdout, "Nothing changed since the last snapshot")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Snapshot %s committed to %s\n", hash, cfg.Snapshot.Dir)
	return nil
}

func author(cfg *config.Config) snapshot.Author {
	return snapshot.Author{Name: cfg.Snapshot.Author, Email: cfg.Snapshot.Email}
}
