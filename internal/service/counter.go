package service

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// CounterService keeps best-effort view and click tallies in redis. A short
// local dedup window keeps one visitor's refresh storm from inflating views.
type CounterService struct {
	rdb   *redis.Client
	dedup *gocache.Cache
}

func NewCounterService(redisClient *redis.Client) *CounterService {
	return &CounterService{
		rdb:   redisClient,
		dedup: gocache.New(30*time.Second, time.Minute),
	}
}

// CountView increments the page's view counter unless the same visitor was
// already counted inside the dedup window. Counting never fails a request.
func (s *CounterService) CountView(ctx context.Context, ownerKey, slug, visitor string) {
	dedupKey := "view:" + ownerKey + "/" + slug + ":" + visitor
	if _, seen := s.dedup.Get(dedupKey); seen {
		return
	}
	s.dedup.SetDefault(dedupKey, struct{}{})

	err := s.rdb.Incr(ctx, "views:"+ownerKey+"/"+slug).Err()
	if err != nil {
		slog.WarnContext(
			ctx, "Failed to count view",
			slog.String("error", err.Error()),
			slog.String("module", "counter"),
		)
	}
}

// CountClick increments a redirect code's click counter.
func (s *CounterService) CountClick(ctx context.Context, code string) {
	err := s.rdb.Incr(ctx, "clicks:"+code).Err()
	if err != nil {
		slog.WarnContext(
			ctx, "Failed to count click",
			slog.String("error", err.Error()),
			slog.String("module", "counter"),
		)
	}
}

// Views reads the current view tally for a page. Missing keys read as zero.
func (s *CounterService) Views(ctx context.Context, ownerKey, slug string) (int64, error) {
	n, err := s.rdb.Get(ctx, "views:"+ownerKey+"/"+slug).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// Clicks reads the current click tally for a redirect code.
func (s *CounterService) Clicks(ctx context.Context, code string) (int64, error) {
	n, err := s.rdb.Get(ctx, "clicks:"+code).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
