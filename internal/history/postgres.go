package history

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Skufu/riskscope/internal/risk"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the history schema to the database at dsn. It is a no-op
// when the schema is already current.
func Migrate(dsn string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("history: open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("history: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("history: run migrations up: %w", err)
	}
	return nil
}

// PostgresStore implements Store on top of a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool. The caller owns the pool unless Close is called.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return fmt.Errorf("history: entry id %q: %w", e.ID, err)
	}
	measurements, err := json.Marshal(e.Measurements)
	if err != nil {
		return fmt.Errorf("history: encode measurements: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO assessment_history (
			id, condition_id, condition_name, score, tier, measurements, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, e.ConditionID, e.ConditionName, e.Score, string(e.Tier), measurements, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("history: save entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id::text, condition_id, condition_name, score, tier, measurements, recorded_at
		FROM assessment_history
		ORDER BY recorded_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
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

func (s *PostgresStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM assessment_history WHERE recorded_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("history: prune entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e            Entry
		tier         string
		measurements []byte
	)
	if err := row.Scan(&e.ID, &e.ConditionID, &e.ConditionName, &e.Score, &tier, &measurements, &e.Timestamp); err != nil {
		return Entry{}, fmt.Errorf("history: scan entry: %w", err)
	}
	return decodeEntry(e, tier, measurements)
}

func decodeEntry(e Entry, tier string, measurements []byte) (Entry, error) {
	t, err := risk.ParseTier(tier)
	if err != nil {
		return Entry{}, fmt.Errorf("history: entry %s: %w", e.ID, err)
	}
	e.Tier = t
	if err := json.Unmarshal(measurements, &e.Measurements); err != nil {
		return Entry{}, fmt.Errorf("history: entry %s: decode measurements: %w", e.ID, err)
	}
	return e, nil
}
