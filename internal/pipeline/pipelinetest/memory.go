// Package pipelinetest provides in-memory doubles of the pipeline store and
// event bus for tests.
package pipelinetest

import (
	"context"
	"sync"
	"time"

	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory PipelineRepository. Errors set on the Fail fields are
// returned by the matching method.
type MemoryRepo struct {
	mu sync.Mutex

	clients      map[uuid.UUID]domain.Client
	positions    map[uuid.UUID]domain.Position
	candidates   map[uuid.UUID]domain.Candidate
	applications map[uuid.UUID]domain.Application
	pairs        map[string]uuid.UUID
	archives     []repository.ReportArchive

	writes        int
	positionReads int

	FailListApps    error
	FailInsertApp   error
	FailFunnel      error
	FailGetPosition error

	// HideNextPairLookup makes the next GetApplicationByPair miss, simulating a
	// concurrent caller that inserts between the lookup and the write.
	HideNextPairLookup bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		clients:      map[uuid.UUID]domain.Client{},
		positions:    map[uuid.UUID]domain.Position{},
		candidates:   map[uuid.UUID]domain.Candidate{},
		applications: map[uuid.UUID]domain.Application{},
		pairs:        map[string]uuid.UUID{},
	}
}

var _ repository.PipelineRepository = (*MemoryRepo)(nil)

func (f *MemoryRepo) AddClient(name string) domain.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := domain.Client{ID: uuid.New(), Name: name}
	f.clients[c.ID] = c
	return c
}

func (f *MemoryRepo) AddPosition(clientID uuid.UUID, title string) domain.Position {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Position{ID: uuid.New(), ClientID: clientID, Title: title, Status: domain.PositionStatusOpen, Requirements: []string{}}
	f.positions[p.ID] = p
	return p
}

func (f *MemoryRepo) AddCandidate(c domain.Candidate) domain.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.candidates[c.ID] = c
	return c
}

func (f *MemoryRepo) AddApplication(a domain.Application) domain.Application {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.applications[a.ID] = a
	f.pairs[domain.PairKey(a.CandidateID, a.PositionID)] = a.ID
	return a
}

func (f *MemoryRepo) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// PositionReads counts GetPosition calls that reached the store.
func (f *MemoryRepo) PositionReads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.positionReads
}

func (f *MemoryRepo) ApplicationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.applications)
}

// ---- ClientStore

func (f *MemoryRepo) CreateClient(_ context.Context, p repository.CreateClientParams) (domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	c := domain.Client{ID: uuid.New(), Name: p.Name, Industry: p.Industry, ContactName: p.ContactName}
	f.clients[c.ID] = c
	return c, nil
}

func (f *MemoryRepo) GetClient(_ context.Context, id uuid.UUID) (domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return domain.Client{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *MemoryRepo) ListClients(context.Context, repository.PageParams) (repository.Page[domain.Client], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Client, 0, len(f.clients))
	for _, c := range f.clients {
		items = append(items, c)
	}
	return repository.Page[domain.Client]{Items: items}, nil
}

// ---- Positions

func (f *MemoryRepo) GetPosition(_ context.Context, id uuid.UUID) (domain.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positionReads++
	if f.FailGetPosition != nil {
		return domain.Position{}, f.FailGetPosition
	}
	p, ok := f.positions[id]
	if !ok {
		return domain.Position{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *MemoryRepo) ListPositions(_ context.Context, params repository.ListPositionsParams) (repository.Page[domain.Position], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []domain.Position{}
	for _, p := range f.positions {
		if params.ClientID != nil && p.ClientID != *params.ClientID {
			continue
		}
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		items = append(items, p)
	}
	return repository.Page[domain.Position]{Items: items}, nil
}

func (f *MemoryRepo) CreatePosition(_ context.Context, p repository.CreatePositionParams) (domain.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	pos := domain.Position{
		ID:           uuid.New(),
		ClientID:     p.ClientID,
		Title:        p.Title,
		Description:  p.Description,
		Requirements: p.Requirements,
		Status:       p.Status,
		Location:     p.Location,
		Department:   p.Department,
	}
	f.positions[pos.ID] = pos
	return pos, nil
}

func (f *MemoryRepo) UpdatePositionStatus(_ context.Context, id uuid.UUID, status string) (domain.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.positions[id]
	if !ok {
		return domain.Position{}, repository.ErrNotFound
	}
	f.writes++
	p.Status = status
	f.positions[id] = p
	return p, nil
}

func (f *MemoryRepo) UpdatePositionFunnelMetrics(_ context.Context, id uuid.UUID, metrics domain.FunnelMetrics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailFunnel != nil {
		return f.FailFunnel
	}
	p, ok := f.positions[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.writes++
	p.FunnelMetrics = metrics
	f.positions[id] = p
	return nil
}

// ---- Candidates

func (f *MemoryRepo) GetCandidate(_ context.Context, id uuid.UUID) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return domain.Candidate{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *MemoryRepo) GetCandidateByEmail(_ context.Context, email string) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if c.Email == email {
			return c, nil
		}
	}
	return domain.Candidate{}, repository.ErrNotFound
}

func (f *MemoryRepo) GetCandidatesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]domain.Candidate, len(ids))
	for _, id := range ids {
		if c, ok := f.candidates[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *MemoryRepo) ListCandidates(context.Context, repository.PageParams) (repository.Page[domain.Candidate], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Candidate, 0, len(f.candidates))
	for _, c := range f.candidates {
		items = append(items, c)
	}
	return repository.Page[domain.Candidate]{Items: items}, nil
}

func candidateFromParams(id uuid.UUID, p repository.CandidateParams) domain.Candidate {
	return domain.Candidate{
		ID:                     id,
		FullName:               p.FullName,
		Email:                  p.Email,
		Phone:                  p.Phone,
		Location:               p.Location,
		CurrentTitle:           p.CurrentTitle,
		LinkedInURL:            p.LinkedInURL,
		PhotoURLs:              []string{},
		HardSkills:             p.HardSkills,
		Languages:              p.Languages,
		AcademicBackground:     p.AcademicBackground,
		ProfessionalBackground: p.ProfessionalBackground,
		MainProjects:           p.MainProjects,
	}
}

func (f *MemoryRepo) CreateCandidate(_ context.Context, p repository.CandidateParams) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if c.Email == p.Email {
			return domain.Candidate{}, repository.ErrDuplicateEmail
		}
	}
	f.writes++
	c := candidateFromParams(uuid.New(), p)
	f.candidates[c.ID] = c
	return c, nil
}

func (f *MemoryRepo) InsertCandidateIfAbsent(_ context.Context, p repository.CandidateParams) (domain.Candidate, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if c.Email == p.Email {
			return c, false, nil
		}
	}
	f.writes++
	c := candidateFromParams(uuid.New(), p)
	f.candidates[c.ID] = c
	return c, true, nil
}

func (f *MemoryRepo) UpdateCandidate(_ context.Context, id uuid.UUID, p repository.CandidateParams) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.candidates[id]; !ok {
		return domain.Candidate{}, repository.ErrNotFound
	}
	f.writes++
	c := candidateFromParams(id, p)
	f.candidates[id] = c
	return c, nil
}

func (f *MemoryRepo) AddCandidatePhoto(_ context.Context, id uuid.UUID, photoURL string) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return domain.Candidate{}, repository.ErrNotFound
	}
	f.writes++
	c.PhotoURLs = append(c.PhotoURLs, photoURL)
	f.candidates[id] = c
	return c, nil
}

// ---- Applications

func (f *MemoryRepo) GetApplication(_ context.Context, id uuid.UUID) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok {
		return domain.Application{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *MemoryRepo) GetApplicationByPair(_ context.Context, candidateID, positionID uuid.UUID) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.HideNextPairLookup {
		f.HideNextPairLookup = false
		return domain.Application{}, repository.ErrNotFound
	}
	id, ok := f.pairs[domain.PairKey(candidateID, positionID)]
	if !ok {
		return domain.Application{}, repository.ErrNotFound
	}
	return f.applications[id], nil
}

func (f *MemoryRepo) ListApplicationsByPosition(_ context.Context, positionID uuid.UUID) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailListApps != nil {
		return nil, f.FailListApps
	}
	out := []domain.Application{}
	for _, a := range f.applications {
		if a.PositionID == positionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *MemoryRepo) ListApplications(ctx context.Context, params repository.ListApplicationsParams) (repository.Page[domain.Application], error) {
	items, err := f.ListApplicationsByPosition(ctx, params.PositionID)
	return repository.Page[domain.Application]{Items: items}, err
}

func (f *MemoryRepo) InsertApplicationIfAbsent(_ context.Context, p repository.CreateApplicationParams) (domain.Application, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailInsertApp != nil {
		return domain.Application{}, false, f.FailInsertApp
	}
	key := domain.PairKey(p.CandidateID, p.PositionID)
	if id, ok := f.pairs[key]; ok {
		return f.applications[id], false, nil
	}
	f.writes++
	a := domain.Application{
		ID:                            uuid.New(),
		CandidateID:                   p.CandidateID,
		PositionID:                    p.PositionID,
		ClientID:                      p.ClientID,
		StageKey:                      p.StageKey,
		AppliedRoleTitle:              p.AppliedRoleTitle,
		AppliedCompensation:           p.AppliedCompensation,
		ProfessionalBackgroundAtApply: p.ProfessionalBackgroundAtApply,
		MainProjectsAtApply:           p.MainProjectsAtApply,
		Snapshot:                      p.Snapshot,
		AppliedAt:                     p.AppliedAt,
		UpdatedAt:                     p.AppliedAt,
	}
	f.applications[a.ID] = a
	f.pairs[key] = a.ID
	return a, true, nil
}

func (f *MemoryRepo) UpdateApplicationStage(_ context.Context, id uuid.UUID, stage domain.StageKey) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok {
		return domain.Application{}, repository.ErrNotFound
	}
	f.writes++
	a.StageKey = stage
	f.applications[id] = a
	return a, nil
}

// ---- Activity and archives

func (f *MemoryRepo) AddApplicationActivity(context.Context, repository.ActivityParams) error { return nil }
func (f *MemoryRepo) AddPositionActivity(context.Context, repository.ActivityParams) error    { return nil }

func (f *MemoryRepo) ListApplicationActivity(context.Context, uuid.UUID, int) ([]repository.Activity, error) {
	return []repository.Activity{}, nil
}

func (f *MemoryRepo) ListPositionActivity(context.Context, uuid.UUID, int) ([]repository.Activity, error) {
	return []repository.Activity{}, nil
}

func (f *MemoryRepo) CreateReportArchive(_ context.Context, p repository.CreateReportArchiveParams) (repository.ReportArchive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	a := repository.ReportArchive{
		ID:          uuid.New(),
		PositionID:  p.PositionID,
		ObjectKey:   p.ObjectKey,
		FileName:    p.FileName,
		SizeBytes:   p.SizeBytes,
		GeneratedOn: p.GeneratedOn,
		CreatedAt:   time.Now(),
	}
	f.archives = append(f.archives, a)
	return a, nil
}

func (f *MemoryRepo) ListReportArchives(_ context.Context, positionID uuid.UUID) ([]repository.ReportArchive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.ReportArchive{}
	for _, a := range f.archives {
		if a.PositionID == positionID {
			out = append(out, a)
		}
	}
	return out, nil
}

// RecordingBus captures published events synchronously. Subscribers are ignored.
type RecordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *RecordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *RecordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *RecordingBus) Subscribe(string, events.Handler) {}

func (b *RecordingBus) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}
