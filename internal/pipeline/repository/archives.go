package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reportArchiveColumns = `id, position_id, object_key, file_name, size_bytes, generated_on, created_at`

func scanReportArchive(row pgx.Row) (ReportArchive, error) {
	var a ReportArchive
	err := row.Scan(&a.ID, &a.PositionID, &a.ObjectKey, &a.FileName, &a.SizeBytes, &a.GeneratedOn, &a.CreatedAt)
	return a, err
}

func (r *Repository) CreateReportArchive(ctx context.Context, params CreateReportArchiveParams) (ReportArchive, error) {
	return scanReportArchive(r.pool.QueryRow(ctx, `
		INSERT INTO report_archives (position_id, object_key, file_name, size_bytes, generated_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+reportArchiveColumns,
		params.PositionID, params.ObjectKey, params.FileName, params.SizeBytes, params.GeneratedOn))
}

func (r *Repository) ListReportArchives(ctx context.Context, positionID uuid.UUID) ([]ReportArchive, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportArchiveColumns+` FROM report_archives
		WHERE position_id = $1
		ORDER BY created_at DESC`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ReportArchive, 0)
	for rows.Next() {
		archive, err := scanReportArchive(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, archive)
	}
	return items, rows.Err()
}
