package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lshigami/askedagain/internal/cache"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestExamCacheRoundTrip(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewExamCache(client, time.Minute)
	ctx := context.Background()

	year := 2024
	c.SetMany(ctx, []dto.ExamSummary{
		{ID: "e1", SubjectID: "s1", SubjectName: "Physiology", ProfessorName: "Dr. Heart", Year: &year},
		{ID: "e2", SubjectID: "s2", SubjectName: "Anatomy"},
	})

	got := c.GetMany(ctx, []string{"e1", "missing", "e2"})
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["e1"].ProfessorName != "Dr. Heart" || got["e1"].Year == nil || *got["e1"].Year != 2024 {
		t.Fatalf("unexpected e1 summary %+v", got["e1"])
	}

	mr.FastForward(2 * time.Minute)
	if got := c.GetMany(ctx, []string{"e1"}); len(got) != 0 {
		t.Fatalf("expected entry to expire, got %+v", got)
	}
}

func TestExamCacheInvalidateAndCorruptEntry(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewExamCache(client, time.Minute)
	ctx := context.Background()

	c.SetMany(ctx, []dto.ExamSummary{{ID: "e1", SubjectName: "Physiology"}})
	c.Invalidate(ctx, "e1")
	if got := c.GetMany(ctx, []string{"e1"}); len(got) != 0 {
		t.Fatalf("expected miss after invalidate, got %+v", got)
	}

	if err := mr.Set("exam:summary:e2", "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := c.GetMany(ctx, []string{"e2"}); len(got) != 0 {
		t.Fatalf("expected corrupt entry to be skipped, got %+v", got)
	}
}

func TestExamCacheDegradesWhenRedisIsDown(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewExamCache(client, time.Minute)
	mr.Close()

	ctx := context.Background()
	c.SetMany(ctx, []dto.ExamSummary{{ID: "e1"}})
	if got := c.GetMany(ctx, []string{"e1"}); len(got) != 0 {
		t.Fatalf("expected no hits from a dead redis, got %+v", got)
	}
}

func TestNilClientIsNoop(t *testing.T) {
	c := cache.NewExamCache(nil, time.Minute)
	ctx := context.Background()
	c.SetMany(ctx, []dto.ExamSummary{{ID: "e1"}})
	if got := c.GetMany(ctx, []string{"e1"}); len(got) != 0 {
		t.Fatalf("noop cache returned %+v", got)
	}
}
