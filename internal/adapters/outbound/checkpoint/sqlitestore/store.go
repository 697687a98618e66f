package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skillcoder/podlog-archiver/internal/adapters/outbound/checkpoint"
	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	namespace TEXT NOT NULL,
	pod TEXT NOT NULL,
	container TEXT NOT NULL,
	archived_at TEXT NOT NULL,
	PRIMARY KEY (namespace, pod, container)
)`

// Store keeps one row per target. Each commit is its own transaction touching one
// row, so concurrent commits for different targets never interfere.
type Store struct {
	logger *slog.Logger
	db     *sql.DB
	ready  chan struct{}
}

// Open creates the database at path and its schema if needed.
func Open(logger *slog.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint db: %w", err)
	}

	// pragmas are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create checkpoint schema: %w", err)
	}

	ready := make(chan struct{})
	close(ready)

	return &Store{
		logger: logger.With("component", "checkpoint-sqlite", "path", path),
		db:     db,
		ready:  ready,
	}, nil
}

func (s *Store) Name() string {
	return "checkpoint-sqlite"
}

func (s *Store) Start(context.Context) error {
	return nil
}

func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "closing checkpoint db")

	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, target archiver.Target) (time.Time, bool, error) {
	var raw string

	err := s.db.QueryRowContext(ctx,
		`SELECT archived_at FROM checkpoints WHERE namespace = ? AND pod = ? AND container = ?`,
		target.Namespace, target.Pod, target.Container,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}

	if err != nil {
		return time.Time{}, false, fmt.Errorf("query checkpoint: %w", err)
	}

	at, err := checkpoint.ParseTimestamp(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "ignoring corrupt checkpoint entry",
			"target", target.String(),
			"reason", err,
		)

		return time.Time{}, false, nil
	}

	return at, true, nil
}

// Commit stores at for target unless the stored value is already later. Stored
// values are parsed before comparing, so rows written in any accepted layout order
// correctly; a corrupt row is overwritten.
func (s *Store) Commit(ctx context.Context, target archiver.Target, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var raw string

	err = tx.QueryRowContext(ctx,
		`SELECT archived_at FROM checkpoints WHERE namespace = ? AND pod = ? AND container = ?`,
		target.Namespace, target.Pod, target.Container,
	).Scan(&raw)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("query checkpoint: %w", err)
	default:
		current, parseErr := checkpoint.ParseTimestamp(raw)
		if parseErr == nil && !at.UTC().Truncate(time.Microsecond).After(current) {
			return nil
		}
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO checkpoints (namespace, pod, container, archived_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(namespace, pod, container) DO UPDATE SET
	archived_at = excluded.archived_at`,
		target.Namespace, target.Pod, target.Container, checkpoint.FormatTimestamp(at),
	)
	if err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}

	return nil
}

// Prune deletes rows older than olderThan unless keep reports them as active.
// Rows whose value cannot be parsed count as stale.
func (s *Store) Prune(
	ctx context.Context,
	olderThan time.Time,
	keep func(archiver.Target) bool,
) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT namespace, pod, container, archived_at FROM checkpoints`,
	)
	if err != nil {
		return 0, fmt.Errorf("query checkpoints: %w", err)
	}

	stale := make([]archiver.Target, 0)

	for rows.Next() {
		var (
			target archiver.Target
			raw    string
		)

		if err := rows.Scan(&target.Namespace, &target.Pod, &target.Container, &raw); err != nil {
			_ = rows.Close()

			return 0, fmt.Errorf("scan checkpoint: %w", err)
		}

		at, err := checkpoint.ParseTimestamp(raw)
		if err == nil && !at.Before(olderThan) {
			continue
		}

		if keep != nil && keep(target) {
			continue
		}

		stale = append(stale, target)
	}

	if err := rows.Err(); err != nil {
		_ = rows.Close()

		return 0, fmt.Errorf("iterate checkpoints: %w", err)
	}

	_ = rows.Close()

	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	for _, target := range stale {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM checkpoints WHERE namespace = ? AND pod = ? AND container = ?`,
			target.Namespace, target.Pod, target.Container,
		)
		if err != nil {
			return 0, fmt.Errorf("delete checkpoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}

	return len(stale), nil
}
