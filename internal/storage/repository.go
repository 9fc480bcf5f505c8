package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/micro-watch/host-presence/internal/model"
)

// Append records one emitted transition.
func (r *Repository) Append(ctx context.Context, event model.Transition) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transitions (host, from_phase, to_phase, address, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		event.Host,
		string(event.From),
		string(event.To),
		nullableString(event.Address),
		event.OccurredAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListRecent returns up to limit transitions, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]model.Transition, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT host, from_phase, to_phase, address, occurred_at
		FROM transitions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Transition, 0, limit)
	for rows.Next() {
		var (
			event      model.Transition
			from, to   string
			address    sql.NullString
			occurredAt string
		)
		if err := rows.Scan(&event.Host, &from, &to, &address, &occurredAt); err != nil {
			return nil, err
		}
		event.From = model.Phase(from)
		event.To = model.Phase(to)
		if address.Valid {
			event.Address = address.String
		}
		if ts, err := time.Parse(time.RFC3339Nano, occurredAt); err == nil {
			event.OccurredAt = ts.UTC()
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
