package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var reportTime = time.Date(2025, time.March, 4, 15, 0, 0, 0, time.UTC)

func TestAssembleReportOrdering(t *testing.T) {
	apps := []Application{
		{ID: uuid.New(), StageKey: StageHired},
		{ID: uuid.New(), StageKey: StageShortlisted},
		{ID: uuid.New(), LegacyStatus: "Rejected"},
		{ID: uuid.New(), StageKey: StageClientInterview2},
	}

	report := AssembleReport(Position{Title: "Backend Engineer"}, Client{Name: "Acme"}, apps, nil, reportTime)

	if len(report.Candidates) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(report.Candidates))
	}
	want := []StageKey{StageShortlisted, StageClientInterview2, StageHired}
	for i, entry := range report.Candidates {
		if entry.Stage != want[i] {
			t.Fatalf("entry %d: got %q, want %q", i, entry.Stage, want[i])
		}
	}
	if report.GeneratedOn != "March 4, 2025" {
		t.Fatalf("unexpected date %q", report.GeneratedOn)
	}
	if report.ClientName != "Acme" || report.PositionTitle != "Backend Engineer" {
		t.Fatalf("unexpected header %+v", report)
	}
}

func TestAssembleReportDoesNotReorderInput(t *testing.T) {
	apps := []Application{{StageKey: StageHired}, {StageKey: StageShortlisted}}
	_ = AssembleReport(Position{}, Client{}, apps, nil, reportTime)
	if apps[0].StageKey != StageHired {
		t.Fatal("input slice must not be reordered")
	}
}

func TestAssembleReportSnapshotPrecedence(t *testing.T) {
	candidate := Candidate{
		ID:                     uuid.New(),
		FullName:               "Ada Lovelace",
		Email:                  "ada@example.com",
		CurrentTitle:           "Staff Engineer",
		ProfessionalBackground: "Current background",
		MainProjects:           "Current projects",
		HardSkills:             []string{"Go", "Postgres"},
	}
	app := Application{
		ID:                            uuid.New(),
		CandidateID:                   candidate.ID,
		StageKey:                      StageClientInterview1,
		AppliedRoleTitle:              "Senior Engineer",
		AppliedCompensation:           "120k",
		ProfessionalBackgroundAtApply: "Background at apply",
	}

	report := AssembleReport(Position{}, Client{}, []Application{app}, map[uuid.UUID]Candidate{candidate.ID: candidate}, reportTime)
	entry := report.Candidates[0]

	if entry.Role != "Senior Engineer" {
		t.Fatalf("expected apply-time role, got %q", entry.Role)
	}
	if entry.Background != "Background at apply" {
		t.Fatalf("expected apply-time background, got %q", entry.Background)
	}
	if entry.Projects != "Current projects" {
		t.Fatalf("expected live projects when no apply-time value, got %q", entry.Projects)
	}
	if entry.Compensation != "120k" || entry.Name != "Ada Lovelace" || len(entry.Skills) != 2 {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestAssembleReportPrefersNamedSnapshot(t *testing.T) {
	candidate := Candidate{ID: uuid.New(), FullName: "Renamed Later", Email: "new@example.com", Phone: "+15550100"}
	app := Application{
		CandidateID: candidate.ID,
		StageKey:    StageShortlisted,
		Snapshot:    &CandidateSnapshot{FullName: "Original Name", Email: "old@example.com"},
	}

	entry := AssembleReport(Position{}, Client{}, []Application{app}, map[uuid.UUID]Candidate{candidate.ID: candidate}, reportTime).Candidates[0]

	if entry.Name != "Original Name" || entry.Email != "old@example.com" {
		t.Fatalf("expected snapshot identity, got %+v", entry)
	}
	if entry.Phone != "+15550100" {
		t.Fatalf("expected missing phone filled from live candidate, got %q", entry.Phone)
	}

	app.Snapshot = &CandidateSnapshot{FullName: "  "}
	entry = AssembleReport(Position{}, Client{}, []Application{app}, map[uuid.UUID]Candidate{candidate.ID: candidate}, reportTime).Candidates[0]
	if entry.Name != "Renamed Later" {
		t.Fatalf("expected live candidate when snapshot is unnamed, got %q", entry.Name)
	}
}

func TestAssembleReportMissingCandidate(t *testing.T) {
	app := Application{CandidateID: uuid.New(), StageKey: StageHired}

	report := AssembleReport(Position{}, Client{}, []Application{app}, map[uuid.UUID]Candidate{}, reportTime)

	if report.Candidates[0].Name != UnknownCandidateReport {
		t.Fatalf("expected sentinel, got %q", report.Candidates[0].Name)
	}
	if report.Candidates[0].Skills == nil {
		t.Fatal("expected non-nil skills")
	}
}

func TestAssembleReportAttachesMetricsVerbatim(t *testing.T) {
	metrics := FunnelMetrics{Sourced: 40, Approached: 30, FinalInterviews: 2}
	report := AssembleReport(Position{FunnelMetrics: metrics}, Client{}, nil, nil, reportTime)
	if report.Metrics != metrics {
		t.Fatalf("expected metrics %+v, got %+v", metrics, report.Metrics)
	}
	if report.Candidates == nil {
		t.Fatal("expected empty candidate list, not nil")
	}
}
