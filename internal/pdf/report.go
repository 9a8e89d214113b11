// Package pdf renders position pipeline reports using maroto/v2.
// A report has a header with client and position, the recruitment funnel
// drawn as bars proportional to the sourced count, and one section per
// candidate in pipeline order.
package pdf

import (
	"fmt"
	"math"
	"strings"

	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/platform/phone"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorAccent    = &props.Color{Red: 37, Green: 99, Blue: 235}   // blue-600
	colorBar       = &props.Color{Red: 147, Green: 197, Blue: 253} // blue-300
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249} // slate-100
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
)

const (
	labelCols = 3
	barCols   = 7
	valueCols = 2
	notAvail  = "N/A"

	charsPerLine = 110
	lineHeight   = 4.0
)

// Renderer renders report data to PDF bytes.
type Renderer struct{}

// NewRenderer returns a report renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render creates the PDF document for data.
func (r *Renderer) Render(data domain.ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(buildFooter(data)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(buildHeader(data)...)
	m.AddRows(separator())
	m.AddRows(row.New(6))

	m.AddRows(buildFunnel(data.Metrics)...)
	m.AddRows(row.New(8))

	m.AddRows(buildCandidates(data.Candidates)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// ── Header ──────────────────────────────────────────────────────────────

func buildHeader(data domain.ReportData) []core.Row {
	return []core.Row{
		row.New(12).Add(
			col.New(8).Add(text.New(data.PositionTitle, props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Color: colorPrimary,
			})),
			col.New(4).Add(text.New("PIPELINE REPORT", props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: colorAccent,
				Top:   2,
			})),
		),
		row.New(6).Add(
			col.New(8).Add(text.New(data.ClientName, props.Text{Size: 10, Color: colorSecondary})),
			col.New(4).Add(text.New(data.GeneratedOn, props.Text{Size: 9, Color: colorSecondary, Align: align.Right})),
		),
	}
}

// ── Funnel ──────────────────────────────────────────────────────────────

func buildFunnel(metrics domain.FunnelMetrics) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(sectionTitle("RECRUITMENT FUNNEL"))),
	}

	for _, bar := range metrics.Bars() {
		rows = append(rows, funnelRow(bar, barWidth(metrics.Ratio(bar.Value))))
	}
	return rows
}

func funnelRow(bar domain.FunnelBar, filled int) core.Row {
	labelStyle := props.Text{Size: 8, Color: colorPrimary, Top: 1}
	valueStyle := props.Text{Size: 8, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right, Top: 1}

	cols := []core.Col{col.New(labelCols).Add(text.New(bar.Label, labelStyle))}
	if filled > 0 {
		cols = append(cols, col.New(filled).WithStyle(&props.Cell{BackgroundColor: colorBar}))
	}
	if rest := barCols - filled; rest > 0 {
		cols = append(cols, col.New(rest))
	}
	cols = append(cols, col.New(valueCols).Add(text.New(fmt.Sprintf("%d", bar.Value), valueStyle)))

	return row.New(6).Add(cols...)
}

// barWidth maps a ratio in [0,1] onto the bar grid. Any non-zero ratio gets at
// least one cell so small counts stay visible.
func barWidth(ratio float64) int {
	if ratio <= 0 || math.IsNaN(ratio) {
		return 0
	}
	w := int(math.Round(ratio * barCols))
	if w < 1 {
		w = 1
	}
	if w > barCols {
		w = barCols
	}
	return w
}

// ── Candidates ──────────────────────────────────────────────────────────

func buildCandidates(entries []domain.CandidateReportEntry) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(sectionTitle(fmt.Sprintf("CANDIDATES (%d)", len(entries))))),
	}
	if len(entries) == 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(text.New("No candidates in the pipeline yet.", props.Text{
			Size:  9,
			Style: fontstyle.Italic,
			Color: colorSecondary,
		}))))
		return rows
	}

	for _, entry := range entries {
		rows = append(rows, buildCandidate(entry)...)
		rows = append(rows, row.New(4))
	}
	return rows
}

func buildCandidate(entry domain.CandidateReportEntry) []core.Row {
	rows := []core.Row{
		row.New(8).Add(
			col.New(8).Add(text.New(entry.Name, props.Text{Size: 11, Style: fontstyle.Bold, Color: colorPrimary, Top: 1.5, Left: 2})),
			col.New(4).Add(text.New(entry.StageLabel, props.Text{Size: 8, Style: fontstyle.Bold, Color: colorAccent, Align: align.Right, Top: 2, Right: 2})),
		).WithStyle(&props.Cell{BackgroundColor: colorTableHead}),
	}

	rows = append(rows,
		detailRow("Role", entry.Role),
		detailRow("Email", entry.Email),
		detailRow("Phone", phone.Display(entry.Phone)),
		detailRow("LinkedIn", entry.LinkedIn),
		detailRow("Compensation", entry.Compensation),
	)

	skills := notAvail
	if len(entry.Skills) > 0 {
		skills = strings.Join(entry.Skills, ", ")
	}
	rows = append(rows, detailRow("Skills", skills))
	rows = append(rows, paragraph("Background", entry.Background)...)
	rows = append(rows, paragraph("Main projects", entry.Projects)...)
	return rows
}

func detailRow(label, value string) core.Row {
	return row.New(5).Add(
		col.New(3).Add(text.New(label, props.Text{Size: 8, Color: colorSecondary, Left: 2})),
		col.New(9).Add(text.New(orNA(value), props.Text{Size: 8, Color: colorPrimary})),
	)
}

func paragraph(label, value string) []core.Row {
	value = strings.TrimSpace(value)
	if value == "" {
		return []core.Row{detailRow(label, "")}
	}
	return []core.Row{
		row.New(5).Add(col.New(12).Add(text.New(label, props.Text{Size: 8, Color: colorSecondary, Left: 2}))),
		row.New(paragraphHeight(value)).Add(col.New(12).Add(text.New(value, props.Text{Size: 8, Color: colorPrimary, Left: 2}))),
	}
}

// ── Shared ──────────────────────────────────────────────────────────────

func sectionTitle(title string) core.Component {
	return text.New(title, props.Text{Size: 8, Style: fontstyle.Bold, Color: colorAccent})
}

func separator() core.Row {
	return row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	})
}

func buildFooter(data domain.ReportData) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(fmt.Sprintf("%s | %s | generated %s", data.ClientName, data.PositionTitle, data.GeneratedOn), props.Text{
			Size:  7,
			Color: colorSecondary,
			Align: align.Center,
			Top:   3,
		})),
	)
}

// paragraphHeight estimates the row height for wrapped body text.
func paragraphHeight(value string) float64 {
	lines := 0
	for _, line := range strings.Split(value, "\n") {
		lines += len(line)/charsPerLine + 1
	}
	return float64(lines) * lineHeight
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAvail
	}
	return value
}
