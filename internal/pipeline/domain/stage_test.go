package domain

import "testing"

func TestResolveStageLegacyStatuses(t *testing.T) {
	cases := []struct {
		status string
		want   StageKey
	}{
		{"Sourced", StageShortlisted},
		{"Screening", StageShortlisted},
		{"Interview", StageClientInterview1},
		{"Hired", StageHired},
		{"  hired ", StageHired},
	}

	for _, tc := range cases {
		got, ok := ResolveStage(Application{LegacyStatus: tc.status})
		if !ok || got != tc.want {
			t.Fatalf("ResolveStage(%q) = %q, %v; want %q", tc.status, got, ok, tc.want)
		}
	}
}

func TestResolveStageUnrecognized(t *testing.T) {
	if got, ok := ResolveStage(Application{LegacyStatus: "Rejected"}); ok {
		t.Fatalf("expected no stage for Rejected, got %q", got)
	}
	if got, ok := ResolveStage(Application{}); ok {
		t.Fatalf("expected no stage for empty application, got %q", got)
	}
}

func TestResolveStageExplicitKeyWins(t *testing.T) {
	app := Application{StageKey: StageClientInterview2, LegacyStatus: "Sourced"}
	got, ok := ResolveStage(app)
	if !ok || got != StageClientInterview2 {
		t.Fatalf("expected explicit stage, got %q", got)
	}

	// Unknown stage keys fall back to the legacy status.
	app = Application{StageKey: "offer", LegacyStatus: "Interview"}
	if got, _ := ResolveStage(app); got != StageClientInterview1 {
		t.Fatalf("expected legacy fallback, got %q", got)
	}
}

func TestResolveStageIsIdempotent(t *testing.T) {
	app := Application{LegacyStatus: "Screening"}
	first, _ := ResolveStage(app)
	app.StageKey = first
	second, _ := ResolveStage(app)
	if first != second {
		t.Fatalf("resolution changed on second pass: %q vs %q", first, second)
	}
}

func TestStageRank(t *testing.T) {
	if StageRank(StageShortlisted) != 1 || StageRank(StageHired) != 4 {
		t.Fatal("unexpected canonical ranks")
	}
	if StageRank("offer") != 99 {
		t.Fatalf("expected unknown stage to rank 99, got %d", StageRank("offer"))
	}
}

func TestSortByStageIsStable(t *testing.T) {
	apps := []Application{
		{AppliedRoleTitle: "a", StageKey: StageHired},
		{AppliedRoleTitle: "b", StageKey: StageShortlisted},
		{AppliedRoleTitle: "c", LegacyStatus: "Rejected"},
		{AppliedRoleTitle: "d", LegacyStatus: "Sourced"},
		{AppliedRoleTitle: "e", StageKey: StageClientInterview1},
	}

	SortByStage(apps)

	want := []string{"b", "d", "e", "a", "c"}
	for i, app := range apps {
		if app.AppliedRoleTitle != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, app.AppliedRoleTitle, want[i])
		}
	}
}

func TestParseStageKeyRejectsLegacy(t *testing.T) {
	if _, ok := ParseStageKey("Interview"); ok {
		t.Fatal("legacy status must not parse as a stage key")
	}
	if got, ok := ParseStageKey(" client_interview_2 "); !ok || got != StageClientInterview2 {
		t.Fatalf("expected client_interview_2, got %q", got)
	}
}
