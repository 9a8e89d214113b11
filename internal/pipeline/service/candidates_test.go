package service

import (
	"context"
	"testing"

	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCandidateNormalizesInput(t *testing.T) {
	f := newFixture(t)

	candidate, err := f.svc.CreateCandidate(context.Background(), transport.CandidateRequest{
		FullName:   " Katherine   Johnson ",
		Email:      " katherine@example.com ",
		Phone:      "(415) 555-2671",
		HardSkills: []string{"Orbital mechanics", "", "Orbital mechanics"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Katherine Johnson", candidate.FullName)
	assert.Equal(t, "katherine@example.com", candidate.Email)
	assert.Equal(t, "+14155552671", candidate.Phone)
	assert.Equal(t, []string{"Orbital mechanics"}, candidate.HardSkills)
}

func TestCreateCandidateDuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCandidate(context.Background(), transport.CandidateRequest{FullName: "Ada Again", Email: "ada@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestUpdateCandidateDoesNotTouchApplications(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.CreateOrGetApplication(context.Background(), f.input())
	require.NoError(t, err)

	_, err = f.svc.UpdateCandidate(context.Background(), f.candidate.ID, transport.CandidateRequest{
		FullName:     "Ada King",
		Email:        "ada@example.com",
		CurrentTitle: "Countess",
	})
	require.NoError(t, err)

	app, err := f.svc.GetApplication(context.Background(), res.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", app.AppliedRoleTitle)
	assert.Equal(t, "Ada Lovelace", app.Snapshot.FullName)
}

func TestRequestPhotoUpload(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RequestPhotoUpload(context.Background(), f.candidate.ID, transport.PhotoUploadRequest{FileName: "me.png", ContentType: "image/png", SizeBytes: 10})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest), "storage not configured")

	f.svc = New(Deps{Repo: f.repo, Storage: &fakeStorage{}, Buckets: Buckets{CandidatePhotos: "photos"}})

	resp, err := f.svc.RequestPhotoUpload(context.Background(), f.candidate.ID, transport.PhotoUploadRequest{FileName: "../me.png", ContentType: "image/png", SizeBytes: 10})
	require.NoError(t, err)
	assert.Equal(t, f.candidate.ID.String()+"/me.png", resp.FileKey)

	_, err = f.svc.RequestPhotoUpload(context.Background(), f.candidate.ID, transport.PhotoUploadRequest{FileName: "cv.pdf", ContentType: "application/pdf", SizeBytes: 10})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.RequestPhotoUpload(context.Background(), uuid.New(), transport.PhotoUploadRequest{FileName: "me.png", ContentType: "image/png", SizeBytes: 10})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAttachPhotoChecksOwnership(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AttachPhoto(context.Background(), f.candidate.ID, transport.AttachPhotoRequest{FileKey: uuid.NewString() + "/me.png"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	candidate, err := f.svc.AttachPhoto(context.Background(), f.candidate.ID, transport.AttachPhotoRequest{FileKey: f.candidate.ID.String() + "/me.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{f.candidate.ID.String() + "/me.png"}, candidate.PhotoURLs)
}
