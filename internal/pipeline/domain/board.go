package domain

import "github.com/google/uuid"

// Board is the kanban view of one position's applications.
type Board struct {
	PositionID uuid.UUID     `json:"positionId"`
	Columns    []BoardColumn `json:"columns"`
	// Excluded counts applications with no canonical stage.
	Excluded int `json:"excluded"`
}

// BoardColumn holds the cards of one stage in input order.
type BoardColumn struct {
	Stage StageKey    `json:"stage"`
	Label string      `json:"label"`
	Cards []BoardCard `json:"cards"`
}

// BoardCard is the display form of an application on the board.
type BoardCard struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	CandidateID   uuid.UUID `json:"candidateId"`
	Name          string    `json:"name"`
	Title         string    `json:"title,omitempty"`
	Email         string    `json:"email,omitempty"`
	AppliedAt     string    `json:"appliedAt"`
}

// GroupByStage buckets applications by resolved stage. Every canonical stage
// has an entry; applications without a canonical stage are left out.
func GroupByStage(apps []Application) map[StageKey][]Application {
	grouped := make(map[StageKey][]Application, len(Stages))
	for _, stage := range Stages {
		grouped[stage] = []Application{}
	}
	for _, app := range apps {
		stage, ok := ResolveStage(app)
		if !ok {
			continue
		}
		if _, canonical := grouped[stage]; !canonical {
			continue
		}
		grouped[stage] = append(grouped[stage], app)
	}
	return grouped
}

// StageCounts returns the number of applications per canonical stage.
func StageCounts(apps []Application) map[StageKey]int {
	grouped := GroupByStage(apps)
	counts := make(map[StageKey]int, len(grouped))
	for stage, items := range grouped {
		counts[stage] = len(items)
	}
	return counts
}

// BuildBoard groups applications into ordered columns. Card names come from
// the live candidate, then the application's snapshot, then a sentinel.
func BuildBoard(positionID uuid.UUID, apps []Application, candidatesByID map[uuid.UUID]Candidate) Board {
	grouped := GroupByStage(apps)
	board := Board{PositionID: positionID, Columns: make([]BoardColumn, 0, len(Stages))}

	placed := 0
	for _, stage := range Stages {
		items := grouped[stage]
		column := BoardColumn{Stage: stage, Label: StageLabel(stage), Cards: make([]BoardCard, 0, len(items))}
		for _, app := range items {
			column.Cards = append(column.Cards, boardCard(app, candidatesByID))
		}
		placed += len(items)
		board.Columns = append(board.Columns, column)
	}
	board.Excluded = len(apps) - placed
	return board
}

func boardCard(app Application, candidatesByID map[uuid.UUID]Candidate) BoardCard {
	card := BoardCard{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		Name:          UnknownCandidateBoard,
		AppliedAt:     app.AppliedAt.UTC().Format("2006-01-02"),
	}

	if candidate, ok := candidatesByID[app.CandidateID]; ok && candidate.FullName != "" {
		card.Name = candidate.FullName
		card.Title = candidate.CurrentTitle
		card.Email = candidate.Email
		return card
	}
	if app.Snapshot != nil && app.Snapshot.FullName != "" {
		card.Name = app.Snapshot.FullName
		card.Title = app.Snapshot.CurrentTitle
		card.Email = app.Snapshot.Email
	}
	return card
}
