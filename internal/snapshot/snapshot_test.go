package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/conorfennell/examlog/internal/domain"
	"github.com/conorfennell/examlog/internal/storage"
)

func setup(t *testing.T) (*storage.DB, string) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, filepath.Join(t.TempDir(), "history")
}

var author = Author{Name: "tester", Email: "tester@example.com"}

func TestTake(t *testing.T) {
	db, dir := setup(t)
	when := time.Date(2024, 3, 2, 21, 0, 0, 0, time.UTC)

	first, err := Take(dir, db, author, when)
	if err != nil {
		t.Fatalf("first Take() error: %v", err)
	}
	for _, name := range []string{"questions.csv", "idioms.csv", "exams.csv", "essays.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s in the snapshot: %v", name, err)
		}
	}

	if _, err := Take(dir, db, author, when.Add(time.Hour)); !errors.Is(err, ErrUnchanged) {
		t.Fatalf("Expected ErrUnchanged for an unchanged store, got %v", err)
	}

	_, err = db.AddIdiom(&domain.Idiom{Category: "褒义", Name: "画龙点睛", Meaning: "点明要旨", EnteredOn: "2024-03-03"})
	if err != nil {
		t.Fatalf("add idiom: %v", err)
	}
	second, err := Take(dir, db, author, when.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("second Take() error: %v", err)
	}
	if second == first {
		t.Fatal("Expected a new commit after the store changed")
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if commit.Hash.String() != second {
		t.Errorf("Expected HEAD at %s, got %s", second, commit.Hash)
	}
	if commit.Author.Name != author.Name {
		t.Errorf("Expected author %q, got %q", author.Name, commit.Author.Name)
	}
	if !strings.Contains(commit.Message, "2024-03-03") {
		t.Errorf("Expected the snapshot time in the message, got %q", commit.Message)
	}
	if commit.NumParents() != 1 || commit.ParentHashes[0].String() != first {
		t.Errorf("Expected the second snapshot to follow the first")
	}

	data, err := os.ReadFile(filepath.Join(dir, "idioms.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "画龙点睛") {
		t.Errorf("Expected the new idiom in idioms.csv, got %q", data)
	}
}

func TestTakeIgnoresStrayFiles(t *testing.T) {
	db, dir := setup(t)
	when := time.Date(2024, 3, 2, 21, 0, 0, 0, time.UTC)

	if _, err := Take(dir, db, author, when); err != nil {
		t.Fatalf("first Take() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("todo"), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := Take(dir, db, author, when.Add(time.Duration(i+1)*time.Hour)); !errors.Is(err, ErrUnchanged) {
			t.Fatalf("Expected ErrUnchanged with an untracked file present, got %v", err)
		}
	}

	if _, err := db.AddIdiom(&domain.Idiom{Category: "贬义", Name: "画蛇添足", Meaning: "多此一举"}); err != nil {
		t.Fatalf("add idiom: %v", err)
	}
	if _, err := Take(dir, db, author, when.Add(24*time.Hour)); err != nil {
		t.Fatalf("Take() after a change error: %v", err)
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatal(err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := commit.File("notes.txt"); err == nil {
		t.Error("Expected the stray file to stay out of the snapshot")
	}
}

func TestSchedule(t *testing.T) {
	db, dir := setup(t)
	if _, err := Schedule(0, dir, db, author); err == nil {
		t.Error("Expected an error for a zero interval")
	}

	s, err := Schedule(time.Hour, dir, db, author)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	defer s.Stop()
	if !s.IsRunning() {
		t.Error("Expected the scheduler to be running")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Expected no snapshot before the first interval elapses")
	}
}
