package repository

import (
	"context"
	"errors"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `id, candidate_id, position_id, client_id, stage_key, legacy_status, applied_role_title,
	applied_compensation, professional_background_at_apply, main_projects_at_apply, candidate_snapshot,
	applied_at, updated_at`

func scanApplication(row pgx.Row) (domain.Application, error) {
	var r applicationRow
	if err := row.Scan(
		&r.ID, &r.CandidateID, &r.PositionID, &r.ClientID, &r.StageKey, &r.LegacyStatus, &r.AppliedRoleTitle,
		&r.AppliedCompensation, &r.ProfessionalBackgroundAtApply, &r.MainProjectsAtApply, &r.CandidateSnapshot,
		&r.AppliedAt, &r.UpdatedAt,
	); err != nil {
		return domain.Application{}, err
	}
	return r.toDomain(), nil
}

// InsertApplicationIfAbsent writes the application in one conditional insert
// keyed by the (candidate, position) pair. When the pair already exists the
// stored row is returned untouched with created=false.
func (r *Repository) InsertApplicationIfAbsent(ctx context.Context, params CreateApplicationParams) (domain.Application, bool, error) {
	snapshot, err := encodeSnapshot(params.Snapshot)
	if err != nil {
		return domain.Application{}, false, err
	}

	app, err := scanApplication(r.pool.QueryRow(ctx, `
		INSERT INTO applications (
			pair_key, candidate_id, position_id, client_id, stage_key, applied_role_title, applied_compensation,
			professional_background_at_apply, main_projects_at_apply, candidate_snapshot, applied_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (pair_key) DO NOTHING
		RETURNING `+applicationColumns,
		domain.PairKey(params.CandidateID, params.PositionID), params.CandidateID, params.PositionID, params.ClientID,
		string(params.StageKey), nullable(params.AppliedRoleTitle), nullable(params.AppliedCompensation),
		nullable(params.ProfessionalBackgroundAtApply), nullable(params.MainProjectsAtApply), snapshot, params.AppliedAt,
	))
	if err == nil {
		return app, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Application{}, false, err
	}

	existing, err := r.GetApplicationByPair(ctx, params.CandidateID, params.PositionID)
	if err != nil {
		return domain.Application{}, false, err
	}
	return existing, false, nil
}

func (r *Repository) GetApplication(ctx context.Context, id uuid.UUID) (domain.Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Application{}, ErrNotFound
	}
	return app, err
}

func (r *Repository) GetApplicationByPair(ctx context.Context, candidateID, positionID uuid.UUID) (domain.Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE pair_key = $1`,
		domain.PairKey(candidateID, positionID)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Application{}, ErrNotFound
	}
	return app, err
}

// ListApplicationsByPosition returns every application of a position in
// apply order. Board and report views work on the full set.
func (r *Repository) ListApplicationsByPosition(ctx context.Context, positionID uuid.UUID) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE position_id = $1
		ORDER BY applied_at ASC, id ASC`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, app)
	}
	return items, rows.Err()
}

func (r *Repository) ListApplications(ctx context.Context, params ListApplicationsParams) (Page[domain.Application], error) {
	after, err := decodeCursor(params.Cursor)
	if err != nil {
		return Page[domain.Application]{}, err
	}
	limit := clampLimit(params.Limit)

	var rows pgx.Rows
	if after == nil {
		rows, err = r.pool.Query(ctx, `
			SELECT `+applicationColumns+` FROM applications
			WHERE position_id = $1
			ORDER BY applied_at ASC, id ASC
			LIMIT $2`, params.PositionID, limit+1)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+applicationColumns+` FROM applications
			WHERE position_id = $1 AND (applied_at, id) > ($2, $3)
			ORDER BY applied_at ASC, id ASC
			LIMIT $4`, params.PositionID, after.At, after.ID, limit+1)
	}
	if err != nil {
		return Page[domain.Application]{}, err
	}
	defer rows.Close()

	items := make([]domain.Application, 0, limit)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return Page[domain.Application]{}, err
		}
		items = append(items, app)
	}
	if err := rows.Err(); err != nil {
		return Page[domain.Application]{}, err
	}

	return paginate(items, limit, func(a domain.Application) string { return encodeCursor(a.AppliedAt, a.ID) }), nil
}

// UpdateApplicationStage writes only stage_key; legacy_status is left as stored.
func (r *Repository) UpdateApplicationStage(ctx context.Context, id uuid.UUID, stage domain.StageKey) (domain.Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, `
		UPDATE applications SET stage_key = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+applicationColumns, id, string(stage)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Application{}, ErrNotFound
	}
	return app, err
}
