// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"news_notify/internal/domain/entity"
)

// NewsRepository is the full surface of the underlying news repository.
// The decorator forwards everything and caches the hot read path.
type NewsRepository interface {
	GetOrCreate(ctx context.Context, news *entity.News) (bool, error)
	FindByID(ctx context.Context, id string) (*entity.News, error)
	ListByStock(ctx context.Context, stockID string) ([]entity.News, error)
	CountByStock(ctx context.Context, stockID string) (int64, error)
	ListNotifiedUserIDs(ctx context.Context, newsID string) ([]string, error)
	AddNotifiedUser(ctx context.Context, newsID, userID string) error
}

// CachingNewsRepository decorates a NewsRepository with Redis caching of the
// per-stock news listing. Entries expire at the next trading-day morning so
// a stale listing never survives past the next disclosure window.
type CachingNewsRepository struct {
	inner NewsRepository
	rdb   *redis.Client

	// now is swappable for tests.
	now func() time.Time
}

var _ NewsRepository = (*CachingNewsRepository)(nil)

// NewCachingNewsRepository decorates a NewsRepository with Redis caching.
// A nil Redis client disables caching and forwards every call.
func NewCachingNewsRepository(rdb *redis.Client, inner NewsRepository) *CachingNewsRepository {
	return &CachingNewsRepository{inner: inner, rdb: rdb, now: time.Now}
}

// GetOrCreate persists the news and invalidates the listing of its stock
// when a new row was actually inserted.
func (c *CachingNewsRepository) GetOrCreate(ctx context.Context, news *entity.News) (bool, error) {
	created, err := c.inner.GetOrCreate(ctx, news)
	if err != nil {
		return false, err
	}
	if created && c.rdb != nil {
		_ = c.rdb.Del(ctx, listKey(news.StockID)).Err() // best effort
	}
	return created, nil
}

func (c *CachingNewsRepository) FindByID(ctx context.Context, id string) (*entity.News, error) {
	return c.inner.FindByID(ctx, id)
}

// ListByStock retrieves the news listing, checking cache first then falling
// back to the database.
func (c *CachingNewsRepository) ListByStock(ctx context.Context, stockID string) ([]entity.News, error) {
	if c.rdb == nil {
		return c.inner.ListByStock(ctx, stockID)
	}

	key := listKey(stockID)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.News
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.ListByStock(ctx, stockID)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, ttlUntilNextMorning(c.now())).Err()
	}
	return out, nil
}

func (c *CachingNewsRepository) CountByStock(ctx context.Context, stockID string) (int64, error) {
	return c.inner.CountByStock(ctx, stockID)
}

func (c *CachingNewsRepository) ListNotifiedUserIDs(ctx context.Context, newsID string) ([]string, error) {
	return c.inner.ListNotifiedUserIDs(ctx, newsID)
}

func (c *CachingNewsRepository) AddNotifiedUser(ctx context.Context, newsID, userID string) error {
	return c.inner.AddNotifiedUser(ctx, newsID, userID)
}

func listKey(stockID string) string {
	return "news:stock:" + stockID
}

// taipei is the market's local timezone.
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// ttlUntilNextMorning returns the duration until the next 08:00 in Taipei,
// just before the exchange starts publishing the day's disclosures.
func ttlUntilNextMorning(now time.Time) time.Duration {
	local := now.In(taipei)
	next := time.Date(local.Year(), local.Month(), local.Day(), 8, 0, 0, 0, taipei)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
