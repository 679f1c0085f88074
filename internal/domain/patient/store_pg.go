package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists the collection as a single jsonb snapshot row. The
// unit of persistence is the entire collection, so the upsert gives
// the atomic replace the Store contract requires.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// EnsureSchema creates the snapshot table. Run via the migrate command.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ward_snapshot (
			id         int PRIMARY KEY CHECK (id = 1),
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create ward_snapshot: %w", err)
	}
	return nil
}

func (s *PGStore) Load(ctx context.Context) ([]*Patient, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM ward_snapshot WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []*Patient{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var patients []*Patient
	if err := json.Unmarshal(raw, &patients); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return patients, nil
}

func (s *PGStore) Save(ctx context.Context, patients []*Patient) error {
	raw, err := json.Marshal(patients)
	if err != nil {
		return fmt.Errorf("encode patients: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO ward_snapshot (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		raw)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
