package service

import (
	"context"
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/hubfolio/hubfolio/internal/domain"
)

type RedirectStore interface {
	GetByCode(ctx context.Context, code string) (domain.Redirect, error)
	Create(ctx context.Context, redirect domain.Redirect) (domain.Redirect, error)
	List(ctx context.Context, ownerKey string) ([]domain.Redirect, error)
	Delete(ctx context.Context, ownerKey, id string) error
}

// RedirectService resolves short codes to target URLs with a memcached
// lookaside in front of the store. Redirect hits are the hottest read path
// and the mapping rarely changes, so a short TTL is enough.
type RedirectService struct {
	store RedirectStore
	mc    *memcache.Client
}

const redirectCacheTTL = 60 // seconds

func NewRedirectService(store RedirectStore, mc *memcache.Client) *RedirectService {
	return &RedirectService{
		store: store,
		mc:    mc,
	}
}

func (s *RedirectService) Resolve(ctx context.Context, code string) (domain.Redirect, error) {
	cacheKey := "redirect:" + code

	item, err := s.mc.Get(cacheKey)
	if err == nil {
		var redirect domain.Redirect
		if json.Unmarshal(item.Value, &redirect) == nil {
			return redirect, nil
		}
	}

	redirect, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return domain.Redirect{}, err
	}

	if encoded, err := json.Marshal(redirect); err == nil {
		s.mc.Set(&memcache.Item{
			Key:        cacheKey,
			Value:      encoded,
			Expiration: redirectCacheTTL,
		})
	}

	return redirect, nil
}

func (s *RedirectService) Create(ctx context.Context, redirect domain.Redirect) (domain.Redirect, error) {
	return s.store.Create(ctx, redirect)
}

func (s *RedirectService) List(ctx context.Context, ownerKey string) ([]domain.Redirect, error) {
	return s.store.List(ctx, ownerKey)
}

// Delete removes the mapping. A cached entry may keep resolving for up to
// the cache TTL after deletion.
func (s *RedirectService) Delete(ctx context.Context, ownerKey, id string) error {
	return s.store.Delete(ctx, ownerKey, id)
}
