package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

const createHistorySQL = `
CREATE TABLE IF NOT EXISTS assessment_history (
	id TEXT PRIMARY KEY,
	condition_id TEXT NOT NULL,
	condition_name TEXT NOT NULL,
	score INTEGER NOT NULL,
	tier TEXT NOT NULL,
	measurements TEXT NOT NULL,
	recorded_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessment_history_recorded_at ON assessment_history (recorded_at);
`

// SQLiteStore is a single-file Store for local, single-user deployments.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set WAL mode: %w", err)
	}

	if _, err := db.Exec(createHistorySQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	measurements, err := json.Marshal(e.Measurements)
	if err != nil {
		return fmt.Errorf("history: encode measurements: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessment_history (id, condition_id, condition_name, score, tier, measurements, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ConditionID, e.ConditionName, e.Score, string(e.Tier), string(measurements), e.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("history: save entry %s: %w", e.ID, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, condition_id, condition_name, score, tier, measurements, recorded_at
		 FROM assessment_history ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e            Entry
			tier         string
			measurements string
			recordedAt   int64
		)
		if err := rows.Scan(&e.ID, &e.ConditionID, &e.ConditionName, &e.Score, &tier, &measurements, &recordedAt); err != nil {
			return nil, fmt.Errorf("history: scan entry: %w", err)
		}
		e.Timestamp = time.Unix(0, recordedAt).UTC()
		e, err = decodeEntry(e, tier, []byte(measurements))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate entries: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assessment_history WHERE recorded_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("history: prune entries: %w", err)
	}
	return res.RowsAffected()
}

// Ping reports whether the database file is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
