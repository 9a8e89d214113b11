package repository

import (
	"testing"
	"time"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
)

func TestPositionRowDefaults(t *testing.T) {
	got := positionRow{
		Title:         "  ",
		Status:        "On Hold",
		FunnelMetrics: []byte(`{"sourced": -4, "approached": "12", "shortlisted": 2.9}`),
	}.toDomain()

	if got.Title != domain.DefaultPositionTitle {
		t.Fatalf("expected default title, got %q", got.Title)
	}
	if got.Status != domain.PositionStatusOnHold {
		t.Fatalf("expected onhold, got %q", got.Status)
	}
	if got.Requirements == nil {
		t.Fatal("expected empty requirements, got nil")
	}
	want := domain.FunnelMetrics{Approached: 12, Shortlisted: 2}
	if got.FunnelMetrics != want {
		t.Fatalf("got metrics %+v, want %+v", got.FunnelMetrics, want)
	}
}

func TestPositionRowUnknownStatusDefaultsToOpen(t *testing.T) {
	got := positionRow{Title: "Engineer", Status: "paused"}.toDomain()
	if got.Status != domain.PositionStatusOpen {
		t.Fatalf("expected open, got %q", got.Status)
	}
	if got.FunnelMetrics != (domain.FunnelMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", got.FunnelMetrics)
	}
}

func TestApplicationRowKeepsLegacyStatus(t *testing.T) {
	legacy := "Interview"
	got := applicationRow{
		LegacyStatus:      &legacy,
		CandidateSnapshot: []byte(`{"fullName":"Ada"}`),
	}.toDomain()

	if got.StageKey != "" || got.LegacyStatus != "Interview" {
		t.Fatalf("unexpected stage fields %+v", got)
	}
	if got.Snapshot == nil || got.Snapshot.FullName != "Ada" {
		t.Fatalf("expected decoded snapshot, got %+v", got.Snapshot)
	}
	if stage, _ := domain.ResolveStage(got); stage != domain.StageClientInterview1 {
		t.Fatalf("expected legacy resolution, got %q", stage)
	}
}

func TestClientRowDefaultName(t *testing.T) {
	if got := (clientRow{}).toDomain(); got.Name != domain.DefaultClientName {
		t.Fatalf("expected default client name, got %q", got.Name)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC)
	id := uuid.New()

	decoded, err := decodeCursor(encodeCursor(at, id))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.At.Equal(at) || decoded.ID != id {
		t.Fatalf("got %+v", decoded)
	}

	if _, err := decodeCursor("%%%"); err != ErrInvalidCursor {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
	if c, err := decodeCursor(""); c != nil || err != nil {
		t.Fatalf("expected nil cursor for empty input, got %v %v", c, err)
	}
}

func TestChunkIDs(t *testing.T) {
	ids := make([]uuid.UUID, 23)
	for i := range ids {
		ids[i] = uuid.New()
	}
	chunks := chunkIDs(ids, 10)
	if len(chunks) != 3 || len(chunks[2]) != 3 {
		t.Fatalf("unexpected chunks %d", len(chunks))
	}
}
