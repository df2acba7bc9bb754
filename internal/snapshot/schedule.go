package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/conorfennell/examlog/internal/exchange"
)

// Schedule takes a snapshot every interval until the returned scheduler is
// stopped. The first run happens one interval after the call.
func Schedule(every time.Duration, dir string, store exchange.Store, author Author) (*gocron.Scheduler, error) {
	if every <= 0 {
		return nil, fmt.Errorf("snapshot interval must be positive, got %s", every)
	}

	s := gocron.NewScheduler(time.Local)
	_, err := s.Every(every).WaitForSchedule().Do(func() {
		_, err := Take(dir, store, author, time.Now())
		switch {
		case errors.Is(err, ErrUnchanged):
			slog.Debug("Snapshot skipped, nothing changed", "dir", dir)
		case err != nil:
			slog.Error("Scheduled snapshot failed", "dir", dir, "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule snapshots: %w", err)
	}
	s.StartAsync()
	return s, nil
}
