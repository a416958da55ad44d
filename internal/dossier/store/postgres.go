package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"dossier/internal/domain"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/platform/tx"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate dossiers: %w", err)
	}
	return nil
}

// PostgresStore keeps dossiers as JSONB rows. Update holds a transaction
// scoped advisory lock on the key for the whole read-modify-write.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*domain.Dossier, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return selectDossier(ctx, s.pool, key)
}

func (s *PostgresStore) Put(ctx context.Context, key string, d *domain.Dossier) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return upsertDossier(ctx, s.pool, key, d)
}

func (s *PostgresStore) Update(ctx context.Context, key string, fn UpdateFunc) (*domain.Dossier, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var result *domain.Dossier
	err := tx.Run(ctx, s.pool, func(ctx context.Context, t pgx.Tx) error {
		if _, err := t.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
			return fmt.Errorf("lock dossier %s: %w", key, err)
		}
		current, err := selectDossier(ctx, t, key)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			result = current
			return nil
		}
		if err := upsertDossier(ctx, t, key, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func selectDossier(ctx context.Context, q rowQuerier, key string) (*domain.Dossier, error) {
	var raw []byte
	err := q.QueryRow(ctx, `SELECT payload FROM dossiers WHERE subject_id = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dossier %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select dossier %s: %w", key, err)
	}
	var d domain.Dossier
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode dossier %s: %w", key, err)
	}
	return &d, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsertDossier(ctx context.Context, q execer, key string, d *domain.Dossier) error {
	if d == nil {
		return fmt.Errorf("dossier %s: nil value", key)
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dossier %s: %w", key, err)
	}
	_, err = q.Exec(ctx, `
		INSERT INTO dossiers (subject_id, payload, revision, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (subject_id) DO UPDATE
		SET payload = EXCLUDED.payload, revision = EXCLUDED.revision, updated_at = now()
	`, key, raw, d.Revision)
	if err != nil {
		return fmt.Errorf("upsert dossier %s: %w", key, err)
	}
	return nil
}
