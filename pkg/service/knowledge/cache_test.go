package knowledge_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/service/knowledge"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

// mockStorage is a mock implementation of adapter.Storage for testing
type mockStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	getCalls int
	failGet  bool
	stall    bool          // if set, Get hangs until its context expires
	block    chan struct{} // if set, Get waits until the channel is closed
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string][]byte)}
}

func (m *mockStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	return nil, goerr.New("not implemented")
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	block := m.block
	stall := m.stall
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	if stall {
		<-ctx.Done()
		m.mu.Lock()
		m.getCalls++
		m.mu.Unlock()
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.failGet {
		return nil, goerr.New("storage unavailable")
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, goerr.New("object not found", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockStorage) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

func TestCacheMemoizesSuccess(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	storage.objects[knowledge.DefaultObjectKey] = []byte(`[
		{"text": "A", "embedding": [1, 0], "source": "s1"},
		{"text": "B", "embedding": [0, 1], "source": "s2"}
	]`)

	cache := knowledge.NewCache(storage)

	records := cache.Get(ctx)
	gt.A(t, records).Length(2)
	gt.Equal(t, records[0], model.KnowledgeRecord{Text: "A", Embedding: []float32{1, 0}, Source: "s1"})

	// Second call is served from memory
	records = cache.Get(ctx)
	gt.A(t, records).Length(2)
	gt.Equal(t, storage.calls(), 1)
}

func TestCacheDoesNotMemoizeFailure(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	storage.failGet = true

	cache := knowledge.NewCache(storage)

	gt.V(t, cache.Get(ctx)).Nil()
	gt.V(t, cache.Get(ctx)).Nil()
	gt.Equal(t, storage.calls(), 2)

	// Storage recovers: the next call retries and the result is memoized
	storage.mu.Lock()
	storage.failGet = false
	storage.objects[knowledge.DefaultObjectKey] = []byte(`[{"text": "A", "embedding": [1], "source": "s"}]`)
	storage.mu.Unlock()

	gt.A(t, cache.Get(ctx)).Length(1)
	gt.Equal(t, storage.calls(), 3)
	cache.Get(ctx)
	gt.Equal(t, storage.calls(), 3)
}

func TestCacheDoesNotMemoizeDecodeError(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	storage.objects[knowledge.DefaultObjectKey] = []byte("{broken")

	cache := knowledge.NewCache(storage)
	gt.V(t, cache.Get(ctx)).Nil()

	storage.mu.Lock()
	storage.objects[knowledge.DefaultObjectKey] = []byte(`[]`)
	storage.mu.Unlock()

	// Empty-but-valid knowledge base is a successful load and is memoized
	gt.A(t, cache.Get(ctx)).Length(0)
	calls := storage.calls()
	cache.Get(ctx)
	gt.Equal(t, storage.calls(), calls)
}

func TestCacheLoadTimeout(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	storage.objects[knowledge.DefaultObjectKey] = []byte(`[{"text": "A", "embedding": [1], "source": "s"}]`)
	storage.stall = true

	cache := knowledge.NewCache(storage, knowledge.WithLoadTimeout(10*time.Millisecond))

	// A hanging storage read is bounded and treated as a load failure
	gt.V(t, cache.Get(ctx)).Nil()

	// Like any failure, a timeout is not memoized
	storage.mu.Lock()
	storage.stall = false
	storage.mu.Unlock()

	gt.A(t, cache.Get(ctx)).Length(1)
}

func TestCacheWithoutStorage(t *testing.T) {
	cache := knowledge.NewCache(nil)
	gt.V(t, cache.Get(context.Background())).Nil()
}

func TestCacheConcurrentColdStart(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	storage.objects[knowledge.DefaultObjectKey] = []byte(`[{"text": "A", "embedding": [1], "source": "s"}]`)

	release := make(chan struct{})
	storage.block = release

	cache := knowledge.NewCache(storage)

	var started, done sync.WaitGroup
	for i := 0; i < 16; i++ {
		started.Add(1)
		done.Add(1)
		go func() {
			defer done.Done()
			started.Done()
			gt.A(t, cache.Get(ctx)).Length(1)
		}()
	}

	// Hold the load until every caller is in flight, then let it finish
	started.Wait()
	time.Sleep(10 * time.Millisecond)
	close(release)
	done.Wait()

	// Concurrent first calls share a single in-flight load
	gt.Equal(t, storage.calls(), 1)
}
