// Package snapshot keeps a git history of the record tables. Each snapshot
// writes every table as CSV into a working tree and commits the result.
package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/conorfennell/examlog/internal/exchange"
)

// ErrUnchanged is returned by Take when the tables match the last commit.
var ErrUnchanged = errors.New("snapshot unchanged")

// Author signs snapshot commits.
type Author struct {
	Name  string
	Email string
}

// Take exports every table into dir and commits the files. The repository
// is created on first use. It returns the new commit hash.
func Take(dir string, store exchange.Store, author Author, now time.Time) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", err
	}

	for _, table := range exchange.Tables {
		if err := writeTable(dir, table, store); err != nil {
			return "", err
		}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree for repo at %s: %w", dir, err)
	}
	for _, table := range exchange.Tables {
		if _, err := worktree.Add(fileName(table)); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", fileName(table), err)
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("failed to read status of repo at %s: %w", dir, err)
	}
	if !tablesChanged(status) {
		return "", ErrUnchanged
	}

	hash, err := worktree.Commit("Snapshot "+now.Format(time.DateTime), &git.CommitOptions{
		Author: &object.Signature{Name: author.Name, Email: author.Email, When: now},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	slog.Info("Snapshot committed", "dir", dir, "commit", hash.String())
	return hash.String(), nil
}

// open returns the repository at dir, initialising one if the directory
// does not hold a repository yet.
func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("failed to open existing repo at %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}
	slog.Info("Initialising snapshot repository", "dir", dir)
	repo, err = git.PlainInit(dir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to init repo at %s: %w", dir, err)
	}
	return repo, nil
}

// tablesChanged reports whether any table file is staged for commit. Other
// files in the work tree are not part of a snapshot.
func tablesChanged(status git.Status) bool {
	for _, table := range exchange.Tables {
		if fs, ok := status[fileName(table)]; ok && fs.Staging != git.Unmodified {
			return true
		}
	}
	return false
}

func fileName(table exchange.Table) string {
	return table.Name + exchange.CSV.Ext()
}

func writeTable(dir string, table exchange.Table, store exchange.Store) error {
	f, err := os.Create(filepath.Join(dir, fileName(table)))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", fileName(table), err)
	}
	if err := table.Export(store, f, exchange.CSV); err != nil {
		f.Close()
		return fmt.Errorf("failed to export %s: %w", table.Name, err)
	}
	return f.Close()
}
