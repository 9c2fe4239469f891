package embedcache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingEmbedder struct {
	batches    [][]string
	queryCalls atomic.Int32
	delay      time.Duration
	err        error
}

func vectorFor(text string) []float32 {
	return []float32{float32(len(text)), 1}
}

func (e *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.batches = append(e.batches, append([]string(nil), texts...))
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = vectorFor(text)
	}
	return out, nil
}

func (e *countingEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.queryCalls.Add(1)
	time.Sleep(e.delay)
	if e.err != nil {
		return nil, e.err
	}
	return vectorFor(text), nil
}

type recorderFake struct {
	hits, misses atomic.Int32
}

func (r *recorderFake) RecordEmbeddingCacheHit()  { r.hits.Add(1) }
func (r *recorderFake) RecordEmbeddingCacheMiss() { r.misses.Add(1) }

func TestEmbedQueryCachesByFullText(t *testing.T) {
	inner := &countingEmbedder{}
	recorder := &recorderFake{}
	cache := New(inner, WithRecorder(recorder))

	prefix := strings.Repeat("p", 200)
	for _, text := range []string{prefix + "a", prefix + "a", prefix + "b"} {
		if _, err := cache.EmbedQuery(context.Background(), text); err != nil {
			t.Fatalf("EmbedQuery() error = %v", err)
		}
	}
	if got := inner.queryCalls.Load(); got != 2 {
		t.Fatalf("texts sharing a prefix must not share a vector, expected 2 calls, got %d", got)
	}
	if recorder.hits.Load() != 1 || recorder.misses.Load() != 2 {
		t.Fatalf("unexpected hit/miss counts %d/%d", recorder.hits.Load(), recorder.misses.Load())
	}
}

func TestEmbedBatchesOnlyDistinctMisses(t *testing.T) {
	inner := &countingEmbedder{}
	cache := New(inner)
	if _, err := cache.EmbedQuery(context.Background(), "cached"); err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}

	vectors, err := cache.Embed(context.Background(), []string{"cached", "new", "new", "other"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(inner.batches) != 1 || strings.Join(inner.batches[0], ",") != "new,other" {
		t.Fatalf("unexpected upstream batches %v", inner.batches)
	}
	want := []float32{6, 3, 3, 5}
	for i, vec := range vectors {
		if vec[0] != want[i] {
			t.Fatalf("vector %d = %v, want first component %v", i, vec, want[i])
		}
	}
	if cache.Len() != 3 {
		t.Fatalf("expected 3 cached entries, got %d", cache.Len())
	}
}

func TestEmbedQueryCollapsesConcurrentMisses(t *testing.T) {
	inner := &countingEmbedder{delay: 20 * time.Millisecond}
	cache := New(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.EmbedQuery(context.Background(), "same text"); err != nil {
				t.Errorf("EmbedQuery() error = %v", err)
			}
		}()
	}
	wg.Wait()
	if got := inner.queryCalls.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("offline")}
	cache := New(inner)

	if _, err := cache.EmbedQuery(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := cache.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatalf("expected error")
	}
	if cache.Len() != 0 {
		t.Fatalf("failed lookups must not be cached")
	}
}

type gatedEmbedder struct {
	countingEmbedder
	started chan struct{}
	release chan struct{}
}

func (e *gatedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.queryCalls.Add(1)
	close(e.started)
	select {
	case <-e.release:
		return vectorFor(text), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestEmbedQueryCancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &gatedEmbedder{started: make(chan struct{}), release: make(chan struct{})}
	cache := New(inner)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.EmbedQuery(firstCtx, "shared text")
		firstErr <- err
	}()
	<-inner.started

	type result struct {
		vec []float32
		err error
	}
	second := make(chan result, 1)
	go func() {
		vec, err := cache.EmbedQuery(context.Background(), "shared text")
		second <- result{vec, err}
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller should see context.Canceled, got %v", err)
	}

	close(inner.release)
	got := <-second
	if got.err != nil {
		t.Fatalf("caller with a live context failed: %v", got.err)
	}
	if got.vec[0] != float32(len("shared text")) {
		t.Fatalf("unexpected vector %v", got.vec)
	}
	if calls := inner.queryCalls.Load(); calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
	if cache.Len() != 1 {
		t.Fatalf("shared result should be cached after the first caller left")
	}
}
