package domain

import (
	"sort"
	"strings"
)

// StageKey is a canonical pipeline stage.
type StageKey string

const (
	StageShortlisted      StageKey = "shortlisted"
	StageClientInterview1 StageKey = "client_interview_1"
	StageClientInterview2 StageKey = "client_interview_2"
	StageHired            StageKey = "hired"

	// unrankedStage sorts anything outside the pipeline last.
	unrankedStage = 99
)

// Stages lists the canonical stages in pipeline order.
var Stages = []StageKey{
	StageShortlisted,
	StageClientInterview1,
	StageClientInterview2,
	StageHired,
}

var stageRanks = map[StageKey]int{
	StageShortlisted:      1,
	StageClientInterview1: 2,
	StageClientInterview2: 3,
	StageHired:            4,
}

var stageLabels = map[StageKey]string{
	StageShortlisted:      "Shortlisted",
	StageClientInterview1: "Client Interview 1",
	StageClientInterview2: "Client Interview 2",
	StageHired:            "Hired",
}

// legacyStatuses maps old free-text statuses, keyed lower-case.
var legacyStatuses = map[string]StageKey{
	"sourced":   StageShortlisted,
	"screening": StageShortlisted,
	"interview": StageClientInterview1,
	"hired":     StageHired,
}

// IsCanonical reports whether s is one of the four pipeline stages.
func (s StageKey) IsCanonical() bool {
	_, ok := stageRanks[s]
	return ok
}

// ResolveStage returns the application's canonical stage. An explicit
// canonical stage key wins; otherwise the legacy status is reconciled.
// The second return is false when neither yields a stage.
func ResolveStage(app Application) (StageKey, bool) {
	if app.StageKey.IsCanonical() {
		return app.StageKey, true
	}
	if stage, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(app.LegacyStatus))]; ok {
		return stage, true
	}
	return "", false
}

// StageRank returns the fixed pipeline rank, or 99 for unknown stages.
func StageRank(stage StageKey) int {
	if rank, ok := stageRanks[stage]; ok {
		return rank
	}
	return unrankedStage
}

// StageLabel returns the display label of a stage.
func StageLabel(stage StageKey) string {
	if label, ok := stageLabels[stage]; ok {
		return label
	}
	return string(stage)
}

// ParseStageKey accepts only canonical keys; legacy statuses are not valid writes.
func ParseStageKey(raw string) (StageKey, bool) {
	stage := StageKey(strings.TrimSpace(raw))
	return stage, stage.IsCanonical()
}

// SortByStage sorts applications in place by resolved stage rank.
// Equal ranks keep their input order.
func SortByStage(apps []Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return StageRank(resolvedOrEmpty(apps[i])) < StageRank(resolvedOrEmpty(apps[j]))
	})
}

func resolvedOrEmpty(app Application) StageKey {
	stage, _ := ResolveStage(app)
	return stage
}
