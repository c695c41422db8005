package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/pantry-chef/backend/internal/logger"
	"github.com/pageza/pantry-chef/backend/internal/model"
	"github.com/pageza/pantry-chef/backend/internal/repository"
)

const (
	// RecommendationHistoryWindow is how many recent searches feed the ranking
	RecommendationHistoryWindow = 100
	// RecommendationLimit caps the number of suggestions returned
	RecommendationLimit = 10
)

// RecommendationCache stores ranked suggestions per user
type RecommendationCache interface {
	Get(ctx context.Context, userID string) ([]string, bool, error)
	Set(ctx context.Context, userID string, suggestions []string) error
	Invalidate(ctx context.Context, userID string) error
}

// RedisRecommendationCache keeps suggestions in Redis with a TTL
type RedisRecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ RecommendationCache = (*RedisRecommendationCache)(nil)

// NewRedisRecommendationCache creates a cache on client
func NewRedisRecommendationCache(client *redis.Client, ttl time.Duration) *RedisRecommendationCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisRecommendationCache{client: client, ttl: ttl}
}

func recommendationKey(userID string) string {
	return "recommendations:" + userID
}

func (c *RedisRecommendationCache) Get(ctx context.Context, userID string) ([]string, bool, error) {
	data, err := c.client.Get(ctx, recommendationKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read recommendations: %w", err)
	}
	var suggestions []string
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, false, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return suggestions, true, nil
}

func (c *RedisRecommendationCache) Set(ctx context.Context, userID string, suggestions []string) error {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, recommendationKey(userID), data, c.ttl).Err()
}

func (c *RedisRecommendationCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, recommendationKey(userID)).Err()
}

// RecommendationService ranks the ingredients a user searches for most
type RecommendationService struct {
	repo  repository.Repository
	cache RecommendationCache
}

var _ IRecommendationService = (*RecommendationService)(nil)

// NewRecommendationService creates a new RecommendationService. cache may be nil.
func NewRecommendationService(repo repository.Repository, cache RecommendationCache) *RecommendationService {
	return &RecommendationService{repo: repo, cache: cache}
}

// Recommend returns userID's most frequent ingredients. Cache failures are
// logged and bypassed.
func (s *RecommendationService) Recommend(ctx context.Context, userID string) ([]string, error) {
	if s.cache != nil {
		suggestions, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.Warn("recommendation cache read failed", zap.Error(err))
		} else if ok {
			return suggestions, nil
		}
	}

	history, err := s.repo.ListHistory(ctx, userID, RecommendationHistoryWindow)
	if err != nil {
		return nil, err
	}
	suggestions := RankIngredients(history, RecommendationLimit)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, suggestions); err != nil {
			logger.Warn("recommendation cache write failed", zap.Error(err))
		}
	}
	return suggestions, nil
}

// Invalidate drops userID's cached suggestions after their history changes.
func (s *RecommendationService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil || userID == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Warn("recommendation cache invalidation failed", zap.Error(err))
	}
}

// RankIngredients counts trimmed, lower-cased ingredients across history and
// returns up to limit of them by descending count. Ties keep the order in
// which the ingredients were first seen.
func RankIngredients(history []model.SearchHistory, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, entry := range history {
		for _, ingredient := range entry.Ingredients {
			key := strings.ToLower(strings.TrimSpace(ingredient))
			if key == "" {
				continue
			}
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}
