package service

import (
	"context"

	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

func (s *Service) CreateClient(ctx context.Context, req transport.CreateClientRequest) (domain.Client, error) {
	client, err := s.repo.CreateClient(ctx, repository.CreateClientParams{
		Name:        sanitize.Text(req.Name),
		Industry:    sanitize.Text(req.Industry),
		ContactName: sanitize.Text(req.ContactName),
	})
	if err != nil {
		return domain.Client{}, s.storeError(ctx, "create client", err, "client not found")
	}
	s.cache.putClient(ctx, client)
	s.log.WithContext(ctx).Info("client created", "client_id", client.ID)
	return client, nil
}

// GetClient reads through the entity cache.
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	if client, ok := s.cache.client(ctx, id); ok {
		return client, nil
	}
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return domain.Client{}, s.storeError(ctx, "get client", err, "client not found")
	}
	s.cache.putClient(ctx, client)
	return client, nil
}

// fetchClient reads the client from the store, skipping the cache.
func (s *Service) fetchClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return domain.Client{}, s.storeError(ctx, "get client", err, "client not found")
	}
	return client, nil
}

func (s *Service) ListClients(ctx context.Context, req transport.PageQuery) (transport.ListResponse[domain.Client], error) {
	page, err := s.repo.ListClients(ctx, repository.PageParams{Cursor: req.Cursor, Limit: req.Limit})
	if err != nil {
		return transport.ListResponse[domain.Client]{}, s.storeError(ctx, "list clients", err, "client not found")
	}
	return transport.ListResponse[domain.Client]{Items: page.Items, NextCursor: page.NextCursor}, nil
}
