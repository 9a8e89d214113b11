package service

import (
	"context"
	"path"
	"strings"

	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/apperr"
	"recruit_pipeline_backend/platform/phone"
	"recruit_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

// candidateParams normalizes free text and the phone number. Email is kept
// verbatim apart from surrounding whitespace; lookups by email are exact.
func (s *Service) candidateParams(req transport.CandidateRequest) repository.CandidateParams {
	return repository.CandidateParams{
		FullName:               sanitize.Text(req.FullName),
		Email:                  strings.TrimSpace(req.Email),
		Phone:                  phone.NormalizeE164(req.Phone, s.phoneRegion),
		Location:               sanitize.Text(req.Location),
		CurrentTitle:           sanitize.Text(req.CurrentTitle),
		LinkedInURL:            strings.TrimSpace(req.LinkedInURL),
		HardSkills:             sanitize.List(req.HardSkills),
		Languages:              sanitize.List(req.Languages),
		AcademicBackground:     sanitize.Multiline(req.AcademicBackground),
		ProfessionalBackground: sanitize.Multiline(req.ProfessionalBackground),
		MainProjects:           sanitize.Multiline(req.MainProjects),
	}
}

func validateCandidateIdentity(params repository.CandidateParams) error {
	fields := apperr.FieldErrors{}
	if params.FullName == "" {
		fields["fullName"] = "fullName is required"
	}
	if params.Email == "" {
		fields["email"] = "email is required"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

// CreateCandidate creates a standalone candidate. A taken email is a conflict.
func (s *Service) CreateCandidate(ctx context.Context, req transport.CandidateRequest) (domain.Candidate, error) {
	params := s.candidateParams(req)
	if err := validateCandidateIdentity(params); err != nil {
		return domain.Candidate{}, err
	}

	candidate, err := s.repo.CreateCandidate(ctx, params)
	if err != nil {
		return domain.Candidate{}, s.storeError(ctx, "create candidate", err, "candidate not found")
	}
	s.cache.putCandidate(ctx, candidate)
	s.log.WithContext(ctx).Info("candidate created", "candidate_id", candidate.ID)
	return candidate, nil
}

// GetCandidate reads through the entity cache.
func (s *Service) GetCandidate(ctx context.Context, id uuid.UUID) (domain.Candidate, error) {
	if candidate, ok := s.cache.candidate(ctx, id); ok {
		return candidate, nil
	}
	return s.fetchCandidate(ctx, id)
}

func (s *Service) fetchCandidate(ctx context.Context, id uuid.UUID) (domain.Candidate, error) {
	candidate, err := s.repo.GetCandidate(ctx, id)
	if err != nil {
		return domain.Candidate{}, s.storeError(ctx, "get candidate", err, "candidate not found")
	}
	s.cache.putCandidate(ctx, candidate)
	return candidate, nil
}

func (s *Service) ListCandidates(ctx context.Context, req transport.PageQuery) (transport.ListResponse[domain.Candidate], error) {
	page, err := s.repo.ListCandidates(ctx, repository.PageParams{Cursor: req.Cursor, Limit: req.Limit})
	if err != nil {
		return transport.ListResponse[domain.Candidate]{}, s.storeError(ctx, "list candidates", err, "candidate not found")
	}
	return transport.ListResponse[domain.Candidate]{Items: page.Items, NextCursor: page.NextCursor}, nil
}

// UpdateCandidate edits the live profile. Existing applications keep their
// apply-time snapshot.
func (s *Service) UpdateCandidate(ctx context.Context, id uuid.UUID, req transport.CandidateRequest) (domain.Candidate, error) {
	params := s.candidateParams(req)
	if err := validateCandidateIdentity(params); err != nil {
		return domain.Candidate{}, err
	}

	candidate, err := s.repo.UpdateCandidate(ctx, id, params)
	if err != nil {
		return domain.Candidate{}, s.storeError(ctx, "update candidate", err, "candidate not found")
	}
	s.cache.putCandidate(ctx, candidate)
	s.log.WithContext(ctx).Info("candidate updated", "candidate_id", id)
	return candidate, nil
}

// RequestPhotoUpload returns a presigned URL for a candidate photo.
func (s *Service) RequestPhotoUpload(ctx context.Context, candidateID uuid.UUID, req transport.PhotoUploadRequest) (transport.PresignedUploadResponse, error) {
	if s.storage == nil {
		return transport.PresignedUploadResponse{}, apperr.BadRequest("file storage is not configured")
	}
	if !strings.HasPrefix(strings.ToLower(req.ContentType), "image/") {
		return transport.PresignedUploadResponse{}, apperr.ValidationFields(apperr.FieldErrors{"contentType": "contentType must be an image type"})
	}
	if _, err := s.GetCandidate(ctx, candidateID); err != nil {
		return transport.PresignedUploadResponse{}, err
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, s.buckets.CandidatePhotos, candidateID.String(), path.Base(req.FileName), req.ContentType, req.SizeBytes)
	if err != nil {
		return transport.PresignedUploadResponse{}, apperr.Validation(err.Error())
	}
	return transport.PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// AttachPhoto records an uploaded photo key on the candidate. Keys must live
// under the candidate's own folder.
func (s *Service) AttachPhoto(ctx context.Context, candidateID uuid.UUID, req transport.AttachPhotoRequest) (domain.Candidate, error) {
	key := strings.TrimSpace(req.FileKey)
	if !strings.HasPrefix(key, candidateID.String()+"/") {
		return domain.Candidate{}, apperr.ValidationFields(apperr.FieldErrors{"fileKey": "fileKey does not belong to this candidate"})
	}

	candidate, err := s.repo.AddCandidatePhoto(ctx, candidateID, key)
	if err != nil {
		return domain.Candidate{}, s.storeError(ctx, "attach candidate photo", err, "candidate not found")
	}
	s.cache.putCandidate(ctx, candidate)
	return candidate, nil
}
