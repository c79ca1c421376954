package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
)

// PGStore Срез данных одной jsonb-строкой в Postgres. Частичных обновлений
// нет намеренно: контракт хранилища — целиком прочитать, целиком записать.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore { return &PGStore{pool: pool} }

func (s *PGStore) LoadAll(ctx context.Context) (ledger.Snapshot, error) {
	row := s.pool.QueryRow(ctx, `SELECT data FROM ledger_snapshot WHERE id = 1`)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return ledger.Snapshot{Customers: map[string]*ledger.Customer{}}, nil
		}
		return ledger.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Customers == nil {
		snap.Customers = map[string]*ledger.Customer{}
	}
	return snap, nil
}

func (s *PGStore) SaveAll(ctx context.Context, snap ledger.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO ledger_snapshot (id, data, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET
		  data=$1, updated_at=now()
	`, raw)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
