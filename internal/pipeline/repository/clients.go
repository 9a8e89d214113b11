package repository

import (
	"context"
	"errors"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const clientColumns = `id, name, industry, contact_name, created_at, updated_at`

func scanClient(row pgx.Row) (domain.Client, error) {
	var r clientRow
	if err := row.Scan(&r.ID, &r.Name, &r.Industry, &r.ContactName, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return domain.Client{}, err
	}
	return r.toDomain(), nil
}

func (r *Repository) CreateClient(ctx context.Context, params CreateClientParams) (domain.Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `
		INSERT INTO clients (name, industry, contact_name)
		VALUES ($1, $2, $3)
		RETURNING `+clientColumns,
		params.Name, nullable(params.Industry), nullable(params.ContactName),
	))
}

func (r *Repository) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	client, err := scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Client{}, ErrNotFound
	}
	return client, err
}

func (r *Repository) ListClients(ctx context.Context, params PageParams) (Page[domain.Client], error) {
	after, err := decodeCursor(params.Cursor)
	if err != nil {
		return Page[domain.Client]{}, err
	}
	limit := clampLimit(params.Limit)

	var rows pgx.Rows
	if after == nil {
		rows, err = r.pool.Query(ctx, `
			SELECT `+clientColumns+` FROM clients
			ORDER BY created_at DESC, id DESC
			LIMIT $1`, limit+1)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+clientColumns+` FROM clients
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, after.At, after.ID, limit+1)
	}
	if err != nil {
		return Page[domain.Client]{}, err
	}
	defer rows.Close()

	items := make([]domain.Client, 0, limit)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return Page[domain.Client]{}, err
		}
		items = append(items, client)
	}
	if err := rows.Err(); err != nil {
		return Page[domain.Client]{}, err
	}

	return paginate(items, limit, func(c domain.Client) string { return encodeCursor(c.CreatedAt, c.ID) }), nil
}

// paginate trims the look-ahead row and derives the next cursor.
func paginate[T any](items []T, limit int, cursorOf func(T) string) Page[T] {
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	items = items[:limit]
	return Page[T]{Items: items, NextCursor: cursorOf(items[len(items)-1])}
}
