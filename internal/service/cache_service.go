package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
)

const (
	topicCachePrefix  = "topics:"
	topicCachePattern = topicCachePrefix + "*"
	// topicGenerationKey sits outside topicCachePattern so invalidation
	// never resets it.
	topicGenerationKey = "topic-generation"
)

func topicListCacheKey(supervisorID *int64) string {
	if supervisorID == nil {
		return topicCachePrefix + "list:all"
	}
	return fmt.Sprintf("%slist:teacher:%d", topicCachePrefix, *supervisorID)
}

func topicDetailCacheKey(id int64) string {
	return fmt.Sprintf("%sdetail:%d", topicCachePrefix, id)
}

func pendingTopicsCacheKey() string {
	return topicCachePrefix + "pending"
}

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string) (int64, error)
}

// CacheSlot is a cache key pinned to the topic generation observed before
// the database read. Values stored through a slot taken before a mutation
// land under a generation no later reader asks for.
type CacheSlot struct {
	key string
}

func (slot CacheSlot) valid() bool {
	return slot.key != ""
}

// CacheService is the read-through layer for topic read models. Cache
// failures are logged and never fail the request.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get fills dest from the cache and reports whether it was a hit. The
// returned slot is where a freshly loaded value should be stored.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (CacheSlot, bool) {
	if !s.Enabled() {
		return CacheSlot{}, false
	}
	generation, err := s.repo.Counter(ctx, topicGenerationKey)
	if err != nil {
		s.logger.Warn("cache generation read failed", zap.Error(err))
		return CacheSlot{}, false
	}
	slot := CacheSlot{key: fmt.Sprintf("%s@%d", key, generation)}

	start := time.Now()
	err = s.repo.Get(ctx, slot.key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", slot.key), zap.Error(err))
	}
	return slot, err == nil
}

// Set stores value in slot with the default TTL.
func (s *CacheService) Set(ctx context.Context, slot CacheSlot, value interface{}) {
	if !s.Enabled() || !slot.valid() {
		return
	}
	start := time.Now()
	err := s.repo.Set(ctx, slot.key, value, s.defaultTTL)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", slot.key), zap.Error(err))
	}
}

// InvalidateTopics drops every cached topic read model. Called after each
// committed mutation. The generation bump comes first so reads already in
// flight cannot refill the cache with state loaded before the commit.
func (s *CacheService) InvalidateTopics(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	if _, err := s.repo.Increment(ctx, topicGenerationKey); err != nil {
		s.logger.Warn("cache generation bump failed", zap.Error(err))
	}
	if err := s.repo.DeleteByPattern(ctx, topicCachePattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", topicCachePattern), zap.Error(err))
	}
}
