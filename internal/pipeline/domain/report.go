package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ReportDateLayout formats the report generation date.
	ReportDateLayout = "January 2, 2006"
	// UnknownCandidateReport names report entries whose candidate cannot be resolved.
	UnknownCandidateReport = "Unknown Candidate"
)

// ReportData is the input of the report renderer.
type ReportData struct {
	ClientName    string                 `json:"clientName"`
	PositionTitle string                 `json:"positionTitle"`
	GeneratedOn   string                 `json:"generatedOn"`
	Metrics       FunnelMetrics          `json:"metrics"`
	Candidates    []CandidateReportEntry `json:"candidates"`
}

// CandidateReportEntry is one candidate section of a position report.
type CandidateReportEntry struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	LinkedIn      string    `json:"linkedin"`
	Compensation  string    `json:"compensation"`
	Background    string    `json:"background"`
	Skills        []string  `json:"skills"`
	Projects      string    `json:"projects"`
	Stage         StageKey  `json:"stage"`
	StageLabel    string    `json:"stageLabel"`
}

// AssembleReport composes the report of one position. Only applications with
// a canonical stage are included, ordered by stage rank with input order kept
// among equals. Missing candidates never fail the report.
func AssembleReport(position Position, client Client, apps []Application, candidatesByID map[uuid.UUID]Candidate, generatedAt time.Time) ReportData {
	included := make([]Application, 0, len(apps))
	for _, app := range apps {
		if _, ok := ResolveStage(app); ok {
			included = append(included, app)
		}
	}
	SortByStage(included)

	entries := make([]CandidateReportEntry, 0, len(included))
	for _, app := range included {
		entries = append(entries, reportEntry(app, candidatesByID))
	}

	return ReportData{
		ClientName:    client.Name,
		PositionTitle: position.Title,
		GeneratedOn:   generatedAt.Format(ReportDateLayout),
		Metrics:       position.FunnelMetrics,
		Candidates:    entries,
	}
}

func reportEntry(app Application, candidatesByID map[uuid.UUID]Candidate) CandidateReportEntry {
	stage, _ := ResolveStage(app)
	entry := CandidateReportEntry{
		ApplicationID: app.ID,
		Name:          UnknownCandidateReport,
		Skills:        []string{},
		Stage:         stage,
		StageLabel:    StageLabel(stage),
	}

	candidate, hasCandidate := candidatesByID[app.CandidateID]

	switch {
	case app.Snapshot != nil && strings.TrimSpace(app.Snapshot.FullName) != "":
		entry.Name = app.Snapshot.FullName
		entry.Email = app.Snapshot.Email
		entry.Phone = app.Snapshot.Phone
		entry.LinkedIn = app.Snapshot.LinkedInURL
		entry.Role = app.Snapshot.CurrentTitle
		if hasCandidate {
			fillMissing(&entry, candidate)
		}
	case hasCandidate:
		entry.Name = candidate.FullName
		if entry.Name == "" {
			entry.Name = UnknownCandidateReport
		}
		fillMissing(&entry, candidate)
	}

	if hasCandidate {
		entry.Background = candidate.ProfessionalBackground
		entry.Projects = candidate.MainProjects
		if candidate.HardSkills != nil {
			entry.Skills = candidate.HardSkills
		}
	}

	entry.Role = firstNonEmpty(app.AppliedRoleTitle, entry.Role)
	entry.Background = firstNonEmpty(app.ProfessionalBackgroundAtApply, entry.Background)
	entry.Projects = firstNonEmpty(app.MainProjectsAtApply, entry.Projects)
	entry.Compensation = app.AppliedCompensation

	return entry
}

func fillMissing(entry *CandidateReportEntry, c Candidate) {
	entry.Email = firstNonEmpty(entry.Email, c.Email)
	entry.Phone = firstNonEmpty(entry.Phone, c.Phone)
	entry.LinkedIn = firstNonEmpty(entry.LinkedIn, c.LinkedInURL)
	entry.Role = firstNonEmpty(entry.Role, c.CurrentTitle)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
