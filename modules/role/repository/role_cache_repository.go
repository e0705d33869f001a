package repository

import (
	"context"
	"sync"
	"time"

	"wiz-academy/domain"
	"wiz-academy/pkg/cache"
	"wiz-academy/pkg/log"

	"golang.org/x/sync/singleflight"
)

type rolesStore interface {
	Get(ctx context.Context) (*domain.RolesDocument, error)
	Save(ctx context.Context, doc *domain.RolesDocument) error
}

var rolesCacheKey = cache.Key("roles", domain.RolesDocumentID)

// CachedRoleRepository serves the roles document from the cache. Concurrent misses
// share one store read. A read that started before a Save never refills the cache.
type CachedRoleRepository struct {
	store  rolesStore
	cache  cache.Client
	ttl    time.Duration
	logger log.Logger
	group  singleflight.Group

	mu         sync.Mutex
	generation uint64
}

func NewCachedRoleRepository(store rolesStore, client cache.Client, ttl time.Duration, logger log.Logger) *CachedRoleRepository {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &CachedRoleRepository{store: store, cache: client, ttl: ttl, logger: logger}
}

func (r *CachedRoleRepository) Get(ctx context.Context) (*domain.RolesDocument, error) {
	var doc domain.RolesDocument
	err := cache.GetJSON(r.cache, ctx, rolesCacheKey, &doc)
	if err == nil {
		return &doc, nil
	}
	if !cache.IsNotFound(err) {
		r.logger.WarnContext(ctx, "Roles cache read failed", log.Error(err))
	}

	v, err, _ := r.group.Do(rolesCacheKey, func() (interface{}, error) {
		generation := r.currentGeneration()
		fresh, err := r.store.Get(ctx)
		if err != nil {
			return nil, err
		}
		r.fill(ctx, fresh, generation)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	cp := *v.(*domain.RolesDocument)
	return &cp, nil
}

func (r *CachedRoleRepository) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// fill caches doc unless the document was replaced since it was read.
func (r *CachedRoleRepository) fill(ctx context.Context, doc *domain.RolesDocument, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != generation {
		r.logger.DebugContext(ctx, "Skipping roles cache fill, document replaced during read")
		return
	}
	if err := cache.SetJSON(r.cache, ctx, rolesCacheKey, doc, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "Roles cache write failed", log.Error(err))
	}
}

func (r *CachedRoleRepository) Save(ctx context.Context, doc *domain.RolesDocument) error {
	if err := r.store.Save(ctx, doc); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

func (r *CachedRoleRepository) Invalidate(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.group.Forget(rolesCacheKey)
	if err := r.cache.Delete(ctx, rolesCacheKey); err != nil && !cache.IsNotFound(err) {
		r.logger.WarnContext(ctx, "Roles cache invalidation failed", log.Error(err))
	}
}
