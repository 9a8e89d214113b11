package scheduler

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskReportArchive = "reports.archive"

// archiveDayLayout is the calendar day the archive is requested for, in the report timezone.
const archiveDayLayout = "2006-01-02"

type ReportArchivePayload struct {
	PositionID string `json:"positionId"`
	Day        string `json:"day"`
}

func NewReportArchiveTask(positionID uuid.UUID, day time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(ReportArchivePayload{
		PositionID: positionID.String(),
		Day:        day.Format(archiveDayLayout),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportArchive, data), nil
}

func ParseReportArchivePayload(task *asynq.Task) (ReportArchivePayload, error) {
	var payload ReportArchivePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReportArchivePayload{}, err
	}
	if _, err := uuid.Parse(payload.PositionID); err != nil {
		return ReportArchivePayload{}, fmt.Errorf("invalid position id %q: %w", payload.PositionID, err)
	}
	return payload, nil
}

// reportArchiveTaskID deduplicates archive requests per position and day.
func reportArchiveTaskID(positionID uuid.UUID, day time.Time) string {
	return "report-archive:" + positionID.String() + ":" + day.Format(archiveDayLayout)
}
