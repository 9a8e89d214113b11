package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGroupByStageCompleteness(t *testing.T) {
	apps := []Application{
		{ID: uuid.New(), StageKey: StageShortlisted},
		{ID: uuid.New(), LegacyStatus: "Rejected"},
		{ID: uuid.New(), LegacyStatus: "Screening"},
		{ID: uuid.New(), StageKey: "offer"},
		{ID: uuid.New(), StageKey: StageHired},
		{ID: uuid.New()},
	}

	grouped := GroupByStage(apps)
	if len(grouped) != len(Stages) {
		t.Fatalf("expected %d buckets, got %d", len(Stages), len(grouped))
	}

	total := 0
	for _, items := range grouped {
		total += len(items)
	}
	excluded := 0
	for _, app := range apps {
		if _, ok := ResolveStage(app); !ok {
			excluded++
		}
	}
	if total+excluded != len(apps) {
		t.Fatalf("grouped %d + excluded %d != %d", total, excluded, len(apps))
	}

	shortlisted := grouped[StageShortlisted]
	if len(shortlisted) != 2 || shortlisted[0].ID != apps[0].ID || shortlisted[1].ID != apps[2].ID {
		t.Fatal("expected shortlisted column in input order")
	}
	if grouped[StageClientInterview2] == nil {
		t.Fatal("expected empty, non-nil column for client_interview_2")
	}
}

func TestBuildBoardNamePrecedence(t *testing.T) {
	live := Candidate{ID: uuid.New(), FullName: "Ada Live", CurrentTitle: "Staff Engineer"}
	snapshotOnly := uuid.New()
	missing := uuid.New()

	apps := []Application{
		{ID: uuid.New(), CandidateID: live.ID, StageKey: StageShortlisted, Snapshot: &CandidateSnapshot{FullName: "Ada Snapshot"}},
		{ID: uuid.New(), CandidateID: snapshotOnly, StageKey: StageShortlisted, Snapshot: &CandidateSnapshot{FullName: "Grace Snapshot", CurrentTitle: "Architect"}},
		{ID: uuid.New(), CandidateID: missing, StageKey: StageHired, AppliedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), LegacyStatus: "Withdrawn"},
	}

	board := BuildBoard(uuid.New(), apps, map[uuid.UUID]Candidate{live.ID: live})

	if len(board.Columns) != 4 || board.Columns[0].Stage != StageShortlisted || board.Columns[3].Stage != StageHired {
		t.Fatalf("unexpected columns %+v", board.Columns)
	}
	cards := board.Columns[0].Cards
	if cards[0].Name != "Ada Live" || cards[0].Title != "Staff Engineer" {
		t.Fatalf("expected live candidate name, got %+v", cards[0])
	}
	if cards[1].Name != "Grace Snapshot" || cards[1].Title != "Architect" {
		t.Fatalf("expected snapshot fallback, got %+v", cards[1])
	}
	hired := board.Columns[3].Cards[0]
	if hired.Name != UnknownCandidateBoard || hired.AppliedAt != "2024-03-01" {
		t.Fatalf("expected sentinel card, got %+v", hired)
	}
	if board.Excluded != 1 {
		t.Fatalf("expected 1 excluded application, got %d", board.Excluded)
	}
}

func TestStageCounts(t *testing.T) {
	counts := StageCounts([]Application{
		{LegacyStatus: "Interview"},
		{StageKey: StageClientInterview1},
		{LegacyStatus: "Sourced"},
	})

	if counts[StageClientInterview1] != 2 || counts[StageShortlisted] != 1 || counts[StageHired] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}
