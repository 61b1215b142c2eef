package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores embeddings by key. Misses and backend errors both read as "not found".
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, vector []float32) error
}

// MemoryCache keeps embeddings in process memory with a TTL.
type MemoryCache struct {
	cache *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	// purge expired entries every ttl/2, but at least once a minute
	cleanup := ttl / 2
	if cleanup <= 0 || cleanup > time.Minute {
		cleanup = time.Minute
	}
	return &MemoryCache{cache: cache.New(ttl, cleanup)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool) {
	x, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	vector := x.([]float32)
	out := make([]float32, len(vector))
	copy(out, vector)
	return out, true
}

func (c *MemoryCache) Set(_ context.Context, key string, vector []float32) error {
	stored := make([]float32, len(vector))
	copy(stored, vector)
	c.cache.Set(key, stored, cache.DefaultExpiration)
	return nil
}

// RedisCache shares embeddings between instances through Redis.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: "embedding:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, false
	}
	return vector, true
}

func (c *RedisCache) Set(ctx context.Context, key string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// CachedProvider answers repeated texts (typically repeated questions) from a
// cache and forwards only the misses, in one batch, to the wrapped provider.
type CachedProvider struct {
	inner     EmbeddingProvider
	cache     Cache
	namespace string
}

var (
	_ EmbeddingProvider = (*CachedProvider)(nil)
	_ Warmer            = (*CachedProvider)(nil)
)

// NewCachedProvider wraps inner. namespace should identify the model so that
// switching models never serves stale vectors.
func NewCachedProvider(inner EmbeddingProvider, cache Cache, namespace string) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache, namespace: namespace}
}

func (p *CachedProvider) key(text string) string {
	sum := sha256.Sum256([]byte(p.namespace + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (p *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		if vector, ok := p.cache.Get(ctx, p.key(text)); ok {
			out[i] = vector
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := p.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCountMismatch, len(vectors), len(missTexts))
	}

	for j, i := range missIdx {
		out[i] = vectors[j]
		// a failed cache write only costs a future recomputation
		_ = p.cache.Set(ctx, p.key(texts[i]), vectors[j])
	}
	return out, nil
}

func (p *CachedProvider) IsReady() bool {
	return p.inner.IsReady()
}

func (p *CachedProvider) Warmup(ctx context.Context) error {
	if w, ok := p.inner.(Warmer); ok {
		return w.Warmup(ctx)
	}
	return nil
}
