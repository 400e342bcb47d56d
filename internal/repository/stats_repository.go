package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository счётчики и журнал построенных дайджестов.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// IncrementCounter атомарно увеличивает именованный счётчик
// и возвращает новое значение.
func (r *StatsRepository) IncrementCounter(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	var value int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}

	return value, nil
}

// GetCounter возвращает текущее значение счётчика (0, если его ещё нет).
func (r *StatsRepository) GetCounter(ctx context.Context, name string) (int64, error) {
	query := `SELECT value FROM counters WHERE name = $1`

	var value int64
	err := r.pool.QueryRow(ctx, query, name).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get counter %s: %w", name, err)
	}

	return value, nil
}

// RecordDigest пишет строку журнала о построенном дайджесте.
// Журнал нужен только для наблюдаемости, состояние рассылки в нём не хранится.
func (r *StatsRepository) RecordDigest(ctx context.Context, id uuid.UUID, days, fetched, skipped int, empty bool) error {
	query := `
		INSERT INTO digest_log (id, days, fetched, skipped, empty)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query, id, days, fetched, skipped, empty); err != nil {
		return fmt.Errorf("record digest: %w", err)
	}

	return nil
}
