package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const positionColumns = `id, client_id, title, description, requirements, status, location, department,
	funnel_metrics, created_at, updated_at`

func scanPosition(row pgx.Row) (domain.Position, error) {
	var r positionRow
	if err := row.Scan(
		&r.ID, &r.ClientID, &r.Title, &r.Description, &r.Requirements, &r.Status, &r.Location, &r.Department,
		&r.FunnelMetrics, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return domain.Position{}, err
	}
	return r.toDomain(), nil
}

func (r *Repository) CreatePosition(ctx context.Context, params CreatePositionParams) (domain.Position, error) {
	metrics, err := encodeFunnelMetrics(domain.FunnelMetrics{})
	if err != nil {
		return domain.Position{}, err
	}
	return scanPosition(r.pool.QueryRow(ctx, `
		INSERT INTO positions (client_id, title, description, requirements, status, location, department, funnel_metrics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+positionColumns,
		params.ClientID, params.Title, params.Description, nonNil(params.Requirements), params.Status,
		nullable(params.Location), nullable(params.Department), metrics,
	))
}

func (r *Repository) GetPosition(ctx context.Context, id uuid.UUID) (domain.Position, error) {
	position, err := scanPosition(r.pool.QueryRow(ctx, `SELECT `+positionColumns+` FROM positions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Position{}, ErrNotFound
	}
	return position, err
}

func (r *Repository) ListPositions(ctx context.Context, params ListPositionsParams) (Page[domain.Position], error) {
	after, err := decodeCursor(params.Cursor)
	if err != nil {
		return Page[domain.Position]{}, err
	}
	limit := clampLimit(params.Limit)

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if params.ClientID != nil {
		args = append(args, *params.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if after != nil {
		args = append(args, after.At, after.ID)
		where = append(where, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, limit+1)

	query := `SELECT ` + positionColumns + ` FROM positions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return Page[domain.Position]{}, err
	}
	defer rows.Close()

	items := make([]domain.Position, 0, limit)
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return Page[domain.Position]{}, err
		}
		items = append(items, position)
	}
	if err := rows.Err(); err != nil {
		return Page[domain.Position]{}, err
	}

	return paginate(items, limit, func(p domain.Position) string { return encodeCursor(p.CreatedAt, p.ID) }), nil
}

// UpdatePositionStatus writes only the status column.
func (r *Repository) UpdatePositionStatus(ctx context.Context, id uuid.UUID, status string) (domain.Position, error) {
	position, err := scanPosition(r.pool.QueryRow(ctx, `
		UPDATE positions SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+positionColumns, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Position{}, ErrNotFound
	}
	return position, err
}

// UpdatePositionFunnelMetrics replaces the funnel_metrics column wholesale.
func (r *Repository) UpdatePositionFunnelMetrics(ctx context.Context, id uuid.UUID, metrics domain.FunnelMetrics) error {
	payload, err := encodeFunnelMetrics(metrics)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE positions SET funnel_metrics = $2 WHERE id = $1`, id, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
