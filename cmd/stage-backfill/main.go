package main

import (
	"context"

	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/platform/config"
	"recruit_pipeline_backend/platform/db"
	"recruit_pipeline_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type legacyApplication struct {
	id           uuid.UUID
	stageKey     *string
	legacyStatus *string
}

// Rewrites applications that only carry a legacy status to the canonical stage key.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting stage backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	const batchSize = 100
	after := uuid.Nil
	updated, skipped := 0, 0
	for {
		apps, err := listLegacyApplications(ctx, pool, after, batchSize)
		if err != nil {
			log.Error("failed to list applications", "error", err)
			return
		}
		if len(apps) == 0 {
			log.Info("stage backfill complete", "updated", updated, "skipped", skipped)
			return
		}

		for _, app := range apps {
			after = app.id

			stage, ok := domain.ResolveStage(domain.Application{
				StageKey:     domain.StageKey(deref(app.stageKey)),
				LegacyStatus: deref(app.legacyStatus),
			})
			if !ok {
				log.Info("legacy status has no pipeline stage", "applicationId", app.id, "status", deref(app.legacyStatus))
				skipped++
				continue
			}

			if err := updateStage(ctx, pool, app.id, stage); err != nil {
				log.Error("failed to update application", "applicationId", app.id, "error", err)
				skipped++
				continue
			}
			updated++
		}
	}
}

func listLegacyApplications(ctx context.Context, pool *pgxpool.Pool, after uuid.UUID, limit int) ([]legacyApplication, error) {
	canonical := make([]string, 0, len(domain.Stages))
	for _, stage := range domain.Stages {
		canonical = append(canonical, string(stage))
	}

	rows, err := pool.Query(ctx, `
		SELECT id, stage_key, legacy_status
		FROM applications
		WHERE id > $1
		  AND legacy_status IS NOT NULL
		  AND (stage_key IS NULL OR NOT (stage_key = ANY($2)))
		ORDER BY id ASC
		LIMIT $3
	`, after, canonical, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]legacyApplication, 0)
	for rows.Next() {
		var app legacyApplication
		if err := rows.Scan(&app.id, &app.stageKey, &app.legacyStatus); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return apps, nil
}

func updateStage(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, stage domain.StageKey) error {
	_, err := pool.Exec(ctx, `
		UPDATE applications
		SET stage_key = $2, updated_at = now()
		WHERE id = $1
	`, id, string(stage))
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
