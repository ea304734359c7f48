// Package cache holds read-through caches backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lshigami/askedagain/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const examSummaryKeyPrefix = "exam:summary:"

// ExamCache stores exam summaries by exam id. Cache failures never fail the
// caller: reads report misses and writes are dropped.
type ExamCache interface {
	GetMany(ctx context.Context, ids []string) map[string]dto.ExamSummary
	SetMany(ctx context.Context, summaries []dto.ExamSummary)
	Invalidate(ctx context.Context, id string)
}

type redisExamCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExamCache returns a no-op cache when client is nil.
func NewExamCache(client *redis.Client, ttl time.Duration) ExamCache {
	if client == nil {
		return noopExamCache{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisExamCache{client: client, ttl: ttl}
}

func examSummaryKey(id string) string {
	return examSummaryKeyPrefix + id
}

func (c *redisExamCache) GetMany(ctx context.Context, ids []string) map[string]dto.ExamSummary {
	found := make(map[string]dto.ExamSummary, len(ids))
	if len(ids) == 0 {
		return found
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = examSummaryKey(id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Exam cache read failed")
		}
		return found
	}

	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var summary dto.ExamSummary
		if err := json.Unmarshal([]byte(str), &summary); err != nil {
			log.Warn().Err(err).Str("key", keys[i]).Msg("Dropping undecodable exam cache entry")
			continue
		}
		found[ids[i]] = summary
	}
	return found
}

func (c *redisExamCache) SetMany(ctx context.Context, summaries []dto.ExamSummary) {
	if len(summaries) == 0 {
		return
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, summary := range summaries {
			payload, err := json.Marshal(summary)
			if err != nil {
				return err
			}
			pipe.Set(ctx, examSummaryKey(summary.ID), payload, c.ttl)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Int("count", len(summaries)).Msg("Exam cache write failed")
	}
}

func (c *redisExamCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, examSummaryKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("exam_id", id).Msg("Exam cache invalidation failed")
	}
}

type noopExamCache struct{}

func (noopExamCache) GetMany(context.Context, []string) map[string]dto.ExamSummary {
	return map[string]dto.ExamSummary{}
}

func (noopExamCache) SetMany(context.Context, []dto.ExamSummary) {}

func (noopExamCache) Invalidate(context.Context, string) {}
