package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const pdfContentType = "application/pdf"

// BuildReport resolves every report input and assembles the report. The
// position and its applications are always read from the store; client and
// candidate lookups run concurrently.
func (s *Service) BuildReport(ctx context.Context, positionID uuid.UUID) (domain.ReportData, error) {
	position, err := s.fetchPosition(ctx, positionID)
	if err != nil {
		return domain.ReportData{}, err
	}

	var (
		client     domain.Client
		apps       []domain.Application
		candidates map[uuid.UUID]domain.Candidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		client, err = s.fetchClient(gctx, position.ClientID)
		if apperr.Is(err, apperr.KindNotFound) {
			client = domain.Client{ID: position.ClientID, Name: domain.DefaultClientName}
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = s.repo.ListApplicationsByPosition(gctx, positionID)
		if err != nil {
			return s.storeError(gctx, "list applications", err, "position not found")
		}
		candidates, err = s.repo.GetCandidatesByIDs(gctx, candidateIDs(apps))
		if err != nil {
			return s.storeError(gctx, "get candidates", err, "candidate not found")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ReportData{}, err
	}

	return domain.AssembleReport(position, client, apps, candidates, s.now().In(s.reportLoc)), nil
}

// RenderReportPDF builds the report and renders it.
func (s *Service) RenderReportPDF(ctx context.Context, positionID uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", apperr.BadRequest("report rendering is not configured")
	}
	data, err := s.BuildReport(ctx, positionID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.Render(data)
	if err != nil {
		s.log.WithContext(ctx).Error("report render failed", "position_id", positionID, "error", err)
		return nil, "", apperr.Internal("failed to render report")
	}
	return pdf, reportFileName(data), nil
}

// RequestReportArchive schedules background archiving of today's report.
// Repeated requests on the same day collapse into one task.
func (s *Service) RequestReportArchive(ctx context.Context, positionID uuid.UUID) (transport.ArchiveEnqueuedResponse, error) {
	if s.archiver == nil || s.storage == nil {
		return transport.ArchiveEnqueuedResponse{}, apperr.BadRequest("report archiving is not configured")
	}
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return transport.ArchiveEnqueuedResponse{}, err
	}

	taskID, err := s.archiver.EnqueueReportArchive(ctx, positionID, s.now().In(s.reportLoc))
	if err != nil {
		s.log.WithContext(ctx).Error("report archive enqueue failed", "position_id", positionID, "error", err)
		return transport.ArchiveEnqueuedResponse{}, apperr.Internal("failed to schedule report archive")
	}
	return transport.ArchiveEnqueuedResponse{PositionID: positionID, TaskID: taskID, Status: "queued"}, nil
}

// ArchiveReport renders the report, uploads it and records the archive. It
// runs in the background worker.
func (s *Service) ArchiveReport(ctx context.Context, positionID uuid.UUID) (repository.ReportArchive, error) {
	if s.storage == nil {
		return repository.ReportArchive{}, apperr.BadRequest("file storage is not configured")
	}
	pdf, fileName, err := s.RenderReportPDF(ctx, positionID)
	if err != nil {
		return repository.ReportArchive{}, err
	}

	key, err := s.storage.UploadFile(ctx, s.buckets.Reports, positionID.String(), fileName, pdfContentType, bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		return repository.ReportArchive{}, fmt.Errorf("upload report: %w", err)
	}

	archive, err := s.repo.CreateReportArchive(ctx, repository.CreateReportArchiveParams{
		PositionID:  positionID,
		ObjectKey:   key,
		FileName:    fileName,
		SizeBytes:   int64(len(pdf)),
		GeneratedOn: s.now().In(s.reportLoc).Format(domain.ReportDateLayout),
	})
	if err != nil {
		return repository.ReportArchive{}, s.storeError(ctx, "create report archive", err, "position not found")
	}

	s.publish(ctx, events.ReportArchived{
		BaseEvent:  events.NewBaseEvent(),
		ArchiveID:  archive.ID,
		PositionID: positionID,
		ObjectKey:  key,
		FileName:   fileName,
	})
	s.log.WithContext(ctx).Info("report archived", "position_id", positionID, "object_key", key)
	return archive, nil
}

// ListReportArchives lists stored reports with short-lived download links.
func (s *Service) ListReportArchives(ctx context.Context, positionID uuid.UUID) ([]transport.ReportArchiveResponse, error) {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return nil, err
	}
	archives, err := s.repo.ListReportArchives(ctx, positionID)
	if err != nil {
		return nil, s.storeError(ctx, "list report archives", err, "position not found")
	}

	out := make([]transport.ReportArchiveResponse, 0, len(archives))
	for _, a := range archives {
		item := transport.ReportArchiveResponse{
			ID:          a.ID,
			FileName:    a.FileName,
			SizeBytes:   a.SizeBytes,
			GeneratedOn: a.GeneratedOn,
			CreatedAt:   a.CreatedAt,
		}
		if s.storage != nil {
			if link, err := s.storage.GenerateDownloadURL(ctx, s.buckets.Reports, a.ObjectKey); err == nil {
				item.DownloadURL = link.URL
			} else {
				s.log.WithContext(ctx).Warn("report download link failed", "archive_id", a.ID, "error", err)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func reportFileName(data domain.ReportData) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, data.PositionTitle)
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if slug == "" {
		slug = "position"
	}
	return slug + "-report.pdf"
}
