// Package embedcache memoizes embeddings by SHA-256 of the full input text. Entries are
// never evicted; the set of distinct item names and summaries a deployment sees is
// expected to stay small.
package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kirillkom/confract/internal/core/ports"
)

// Recorder counts cache outcomes.
type Recorder interface {
	RecordEmbeddingCacheHit()
	RecordEmbeddingCacheMiss()
}

const DefaultSharedTimeout = 2 * time.Minute

type Option func(*Cache)

// WithSharedTimeout bounds a provider call shared by concurrent callers.
func WithSharedTimeout(timeout time.Duration) Option {
	return func(c *Cache) {
		if timeout > 0 {
			c.sharedTimeout = timeout
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *Cache) {
		c.recorder = recorder
	}
}

// Cache wraps an embedder. Concurrent misses on the same text collapse into one call.
type Cache struct {
	next          ports.Embedder
	recorder      Recorder
	group         singleflight.Group
	sharedTimeout time.Duration

	mu      sync.RWMutex
	vectors map[string][]float32
}

func New(next ports.Embedder, opts ...Option) *Cache {
	c := &Cache{
		next:          next,
		vectors:       make(map[string][]float32),
		sharedTimeout: DefaultSharedTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := Key(text)
	if vec, ok := c.lookup(key); ok {
		return vec, nil
	}

	// The shared call outlives any single caller so one cancellation does not fail the
	// others waiting on the same key.
	ch := c.group.DoChan(key, func() (any, error) {
		if vec, ok := c.get(key); ok {
			return vec, nil
		}
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sharedTimeout)
		defer cancel()
		vec, err := c.next.EmbedQuery(callCtx, text)
		if err != nil {
			return nil, err
		}
		return c.store(key, vec), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]float32), nil
	}
}

// Embed serves cached texts from memory and sends the remaining distinct texts to the
// wrapped embedder in a single batch.
func (c *Cache) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	missIndex := make(map[string]int)
	var missTexts []string
	for i, text := range texts {
		keys[i] = Key(text)
		if vec, ok := c.lookup(keys[i]); ok {
			out[i] = vec
			continue
		}
		if _, queued := missIndex[keys[i]]; !queued {
			missIndex[keys[i]] = len(missTexts)
			missTexts = append(missTexts, text)
		}
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("embedding cache: expected %d vectors, got %d", len(missTexts), len(vectors))
	}
	for i := range texts {
		if out[i] != nil {
			continue
		}
		out[i] = c.store(keys[i], vectors[missIndex[keys[i]]])
	}
	return out, nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

func (c *Cache) lookup(key string) ([]float32, bool) {
	vec, ok := c.get(key)
	if c.recorder != nil {
		if ok {
			c.recorder.RecordEmbeddingCacheHit()
		} else {
			c.recorder.RecordEmbeddingCacheMiss()
		}
	}
	return vec, ok
}

func (c *Cache) get(key string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.vectors[key]
	return vec, ok
}

// store inserts vec unless key is already present and returns the cached value.
func (c *Cache) store(key string, vec []float32) []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.vectors[key]; ok {
		return existing
	}
	c.vectors[key] = vec
	return vec
}
