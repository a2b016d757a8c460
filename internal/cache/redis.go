package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	Enabled  bool
}

// Client caches the month-availability view as raw JSON so the calendar
// read path skips both the database and re-marshaling on a hit.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg Config, ttl time.Duration) (*Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func monthKey(stadiumID string, year, month int) string {
	return fmt.Sprintf("availability:%s:%04d-%02d", stadiumID, year, month)
}

// GetMonthRaw returns the cached availability JSON for a stadium month.
func (c *Client) GetMonthRaw(ctx context.Context, stadiumID string, year, month int) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, monthKey(stadiumID, year, month)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return raw, nil
}

// SetMonthRaw stores the availability JSON for a stadium month.
func (c *Client) SetMonthRaw(ctx context.Context, stadiumID string, year, month int, raw []byte) error {
	return c.rdb.Set(ctx, monthKey(stadiumID, year, month), raw, c.ttl).Err()
}

// InvalidateRange drops the cached months a booking's span touches.
// Called after every lifecycle mutation.
func (c *Client) InvalidateRange(ctx context.Context, stadiumID string, start, end time.Time) error {
	keys := make([]string, 0, 2)
	for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		keys = append(keys, monthKey(stadiumID, cur.Year(), int(cur.Month())))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
