package service

import (
	"context"
	"errors"

	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/platform/cache"
	"recruit_pipeline_backend/platform/logger"

	"github.com/google/uuid"
)

// entityCache is an advisory read cache for positions, clients and
// candidates. Reads fill it on a miss. Successful client and candidate writes
// refresh it; position writes drop the entry because status and funnel
// metrics are updated independently and a refreshed copy of one could carry
// a stale value of the other. Uniqueness, funnel and report paths never read
// from it.
type entityCache struct {
	store cache.Cache
	log   *logger.Logger
}

func newEntityCache(store cache.Cache, log *logger.Logger) *entityCache {
	return &entityCache{store: store, log: log}
}

func positionKey(id uuid.UUID) string  { return "position:" + id.String() }
func clientKey(id uuid.UUID) string    { return "client:" + id.String() }
func candidateKey(id uuid.UUID) string { return "candidate:" + id.String() }

func (c *entityCache) get(ctx context.Context, key string, dest any) bool {
	err := c.store.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.log.WithContext(ctx).CacheError("get", key, err)
	}
	return false
}

func (c *entityCache) set(ctx context.Context, key string, value any) {
	if err := c.store.Set(ctx, key, value); err != nil {
		c.log.WithContext(ctx).CacheError("set", key, err)
	}
}

func (c *entityCache) drop(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.WithContext(ctx).CacheError("delete", key, err)
	}
}

func (c *entityCache) position(ctx context.Context, id uuid.UUID) (domain.Position, bool) {
	var p domain.Position
	return p, c.get(ctx, positionKey(id), &p)
}

func (c *entityCache) client(ctx context.Context, id uuid.UUID) (domain.Client, bool) {
	var cl domain.Client
	return cl, c.get(ctx, clientKey(id), &cl)
}

func (c *entityCache) candidate(ctx context.Context, id uuid.UUID) (domain.Candidate, bool) {
	var cand domain.Candidate
	return cand, c.get(ctx, candidateKey(id), &cand)
}

func (c *entityCache) putPosition(ctx context.Context, p domain.Position) {
	c.set(ctx, positionKey(p.ID), p)
}

func (c *entityCache) dropPosition(ctx context.Context, id uuid.UUID) {
	c.drop(ctx, positionKey(id))
}

func (c *entityCache) putClient(ctx context.Context, cl domain.Client) {
	c.set(ctx, clientKey(cl.ID), cl)
}

func (c *entityCache) putCandidate(ctx context.Context, cand domain.Candidate) {
	c.set(ctx, candidateKey(cand.ID), cand)
}
