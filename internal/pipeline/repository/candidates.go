package repository

import (
	"context"
	"errors"
	"sync"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

const candidateColumns = `id, full_name, email, phone, location, current_title, linkedin_url, photo_urls,
	hard_skills, languages, academic_background, professional_background, main_projects, created_at, updated_at`

// candidateLookupConcurrency bounds parallel chunk queries per batch lookup.
const candidateLookupConcurrency = 4

func scanCandidate(row pgx.Row) (domain.Candidate, error) {
	var r candidateRow
	if err := row.Scan(
		&r.ID, &r.FullName, &r.Email, &r.Phone, &r.Location, &r.CurrentTitle, &r.LinkedInURL, &r.PhotoURLs,
		&r.HardSkills, &r.Languages, &r.AcademicBackground, &r.ProfessionalBackground, &r.MainProjects,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return domain.Candidate{}, err
	}
	return r.toDomain(), nil
}

func candidateArgs(p CandidateParams) []any {
	return []any{
		p.FullName, p.Email, nullable(p.Phone), nullable(p.Location), nullable(p.CurrentTitle),
		nullable(p.LinkedInURL), nonNil(p.HardSkills), nonNil(p.Languages), nullable(p.AcademicBackground),
		nullable(p.ProfessionalBackground), nullable(p.MainProjects),
	}
}

const insertCandidate = `
	INSERT INTO candidates (
		full_name, email, phone, location, current_title, linkedin_url, hard_skills, languages,
		academic_background, professional_background, main_projects
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// CreateCandidate inserts a candidate. A taken email returns ErrDuplicateEmail.
func (r *Repository) CreateCandidate(ctx context.Context, params CandidateParams) (domain.Candidate, error) {
	candidate, err := scanCandidate(r.pool.QueryRow(ctx, insertCandidate+` RETURNING `+candidateColumns, candidateArgs(params)...))
	if isUniqueViolation(err) {
		return domain.Candidate{}, ErrDuplicateEmail
	}
	return candidate, err
}

// InsertCandidateIfAbsent creates the candidate unless one with the exact
// email exists, in which case the existing record is returned unchanged.
func (r *Repository) InsertCandidateIfAbsent(ctx context.Context, params CandidateParams) (domain.Candidate, bool, error) {
	candidate, err := scanCandidate(r.pool.QueryRow(ctx,
		insertCandidate+` ON CONFLICT (email) DO NOTHING RETURNING `+candidateColumns, candidateArgs(params)...))
	if err == nil {
		return candidate, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Candidate{}, false, err
	}

	existing, err := r.GetCandidateByEmail(ctx, params.Email)
	if err != nil {
		return domain.Candidate{}, false, err
	}
	return existing, false, nil
}

func (r *Repository) GetCandidate(ctx context.Context, id uuid.UUID) (domain.Candidate, error) {
	candidate, err := scanCandidate(r.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Candidate{}, ErrNotFound
	}
	return candidate, err
}

// GetCandidateByEmail matches the email exactly, including case.
func (r *Repository) GetCandidateByEmail(ctx context.Context, email string) (domain.Candidate, error) {
	candidate, err := scanCandidate(r.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Candidate{}, ErrNotFound
	}
	return candidate, err
}

// GetCandidatesByIDs looks candidates up in id chunks queried concurrently.
// Ids with no row are absent from the result.
func (r *Repository) GetCandidatesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Candidate, error) {
	result := make(map[uuid.UUID]domain.Candidate, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(candidateLookupConcurrency)

	for _, chunk := range chunkIDs(uniqueIDs(ids), idChunkSize) {
		g.Go(func() error {
			rows, err := r.pool.Query(gctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ANY($1)`, chunk)
			if err != nil {
				return err
			}
			defer rows.Close()

			for rows.Next() {
				candidate, err := scanCandidate(rows)
				if err != nil {
					return err
				}
				mu.Lock()
				result[candidate.ID] = candidate
				mu.Unlock()
			}
			return rows.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) ListCandidates(ctx context.Context, params PageParams) (Page[domain.Candidate], error) {
	after, err := decodeCursor(params.Cursor)
	if err != nil {
		return Page[domain.Candidate]{}, err
	}
	limit := clampLimit(params.Limit)

	var rows pgx.Rows
	if after == nil {
		rows, err = r.pool.Query(ctx, `
			SELECT `+candidateColumns+` FROM candidates
			ORDER BY created_at DESC, id DESC
			LIMIT $1`, limit+1)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+candidateColumns+` FROM candidates
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, after.At, after.ID, limit+1)
	}
	if err != nil {
		return Page[domain.Candidate]{}, err
	}
	defer rows.Close()

	items := make([]domain.Candidate, 0, limit)
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return Page[domain.Candidate]{}, err
		}
		items = append(items, candidate)
	}
	if err := rows.Err(); err != nil {
		return Page[domain.Candidate]{}, err
	}

	return paginate(items, limit, func(c domain.Candidate) string { return encodeCursor(c.CreatedAt, c.ID) }), nil
}

func (r *Repository) UpdateCandidate(ctx context.Context, id uuid.UUID, params CandidateParams) (domain.Candidate, error) {
	args := append([]any{id}, candidateArgs(params)...)
	candidate, err := scanCandidate(r.pool.QueryRow(ctx, `
		UPDATE candidates SET
			full_name = $2, email = $3, phone = $4, location = $5, current_title = $6, linkedin_url = $7,
			hard_skills = $8, languages = $9, academic_background = $10, professional_background = $11,
			main_projects = $12, updated_at = now()
		WHERE id = $1
		RETURNING `+candidateColumns, args...))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.Candidate{}, ErrNotFound
	case isUniqueViolation(err):
		return domain.Candidate{}, ErrDuplicateEmail
	}
	return candidate, err
}

func (r *Repository) AddCandidatePhoto(ctx context.Context, id uuid.UUID, photoURL string) (domain.Candidate, error) {
	candidate, err := scanCandidate(r.pool.QueryRow(ctx, `
		UPDATE candidates SET photo_urls = array_append(photo_urls, $2), updated_at = now()
		WHERE id = $1
		RETURNING `+candidateColumns, id, photoURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Candidate{}, ErrNotFound
	}
	return candidate, err
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunkIDs(ids []uuid.UUID, size int) [][]uuid.UUID {
	chunks := make([][]uuid.UUID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
