package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/qrprofile/internal/qrcode"
	"github.com/redmonkez12/qrprofile/internal/qrimage"
)

const (
	// CacheKeyPrefix is the Redis key prefix for rendered payloads
	CacheKeyPrefix = "qrcode:"
	// DefaultCacheTTL applies when the configured TTL is not positive
	DefaultCacheTTL = 24 * time.Hour
)

// Cache stores rendered payloads by content key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*Payload, bool, error)
	Set(ctx context.Context, key string, payload *Payload) error
}

var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:qrprofile:share"))

// cacheKey derives a stable key from everything that affects the output.
func cacheKey(text string, level qrcode.Level, moduleSize int) string {
	name := level.String() + "|" + strconv.Itoa(moduleSize) + "|" + text
	return uuid.NewSHA1(keyNamespace, []byte(name)).String()
}

// cachedPayload is the JSON stored in Redis. The PNG travels as its base64
// text only.
type cachedPayload struct {
	VCard   string `json:"vcard"`
	Version int    `json:"version"`
	Level   string `json:"level"`
	Width   int    `json:"width"`
	Base64  string `json:"base64"`
}

// RedisCache keeps payloads in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get retrieves a payload from Redis
func (c *RedisCache) Get(ctx context.Context, key string) (*Payload, bool, error) {
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached payload: %w", err)
	}

	var cp cachedPayload
	if err := json.Unmarshal(val, &cp); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached payload: %w", err)
	}

	level, err := qrcode.ParseLevel(cp.Level)
	if err != nil {
		return nil, false, err
	}
	png, err := qrimage.Decode(cp.Base64)
	if err != nil {
		return nil, false, err
	}

	return &Payload{
		VCard:   cp.VCard,
		Version: cp.Version,
		Level:   level,
		Image: qrimage.Image{
			PNG:    png,
			Base64: cp.Base64,
			Width:  cp.Width,
		},
	}, true, nil
}

// Set stores a payload in Redis with the cache TTL
func (c *RedisCache) Set(ctx context.Context, key string, payload *Payload) error {
	data, err := json.Marshal(cachedPayload{
		VCard:   payload.VCard,
		Version: payload.Version,
		Level:   payload.Level.String(),
		Width:   payload.Image.Width,
		Base64:  payload.Image.Base64,
	})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	if err := c.client.Set(ctx, CacheKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache payload: %w", err)
	}
	return nil
}
