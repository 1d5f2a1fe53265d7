package content

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

type countingSource struct {
	calls atomic.Int32
	delay time.Duration
	l     *types.Lesson
}

func (s *countingSource) GetLessonByRef(_ context.Context, ref string) (*types.Lesson, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if s.l == nil || s.l.Ref != ref {
		return nil, nil
	}
	return s.l, nil
}

func (s *countingSource) GetLessonByModuleAndOrder(_ context.Context, moduleRef string, order int) (*types.Lesson, error) {
	s.calls.Add(1)
	if s.l == nil || s.l.ModuleRef != moduleRef || s.l.Order != order {
		return nil, nil
	}
	return s.l, nil
}

func sampleLesson() *types.Lesson {
	return &types.Lesson{
		Ref:       "a1.m1.l1",
		ModuleRef: "a1.m1",
		Order:     1,
		Published: true,
		Tasks: []*types.LessonTask{{
			Ref:            "t1",
			Type:           "gap",
			PublicData:     datatypes.JSON([]byte(`{"prompt":"x"}`)),
			ValidationData: datatypes.JSON([]byte(`{"answer":"passport"}`)),
		}},
	}
}

func TestCachedSourceKeepsValidationData(t *testing.T) {
	backing := &countingSource{l: sampleLesson()}
	store := newMemStore()
	c := NewCachedSource(backing, store, time.Minute, logger.NewNop())
	ctx := context.Background()

	if _, err := c.GetLessonByRef(ctx, "a1.m1.l1"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	l, err := c.GetLessonByRef(ctx, "a1.m1.l1")
	if err != nil || l == nil {
		t.Fatalf("cached load: l=%v err=%v", l, err)
	}
	if backing.calls.Load() != 1 {
		t.Fatalf("second read should hit the cache, calls=%d", backing.calls.Load())
	}
	if len(l.Tasks) != 1 || string(l.Tasks[0].ValidationData) != `{"answer":"passport"}` {
		t.Fatalf("validation data lost in cache round trip: %+v", l.Tasks)
	}
}

func TestCachedSourceDoesNotCacheAbsent(t *testing.T) {
	backing := &countingSource{}
	c := NewCachedSource(backing, newMemStore(), time.Minute, logger.NewNop())
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		l, err := c.GetLessonByRef(ctx, "missing")
		if err != nil || l != nil {
			t.Fatalf("absent lesson: l=%v err=%v", l, err)
		}
	}
	if backing.calls.Load() != 2 {
		t.Fatalf("absent lessons must not be cached, calls=%d", backing.calls.Load())
	}
}

func TestCachedSourceFallsThroughOnStoreError(t *testing.T) {
	backing := &countingSource{l: sampleLesson()}
	store := newMemStore()
	store.getErr = errors.New("connection refused")
	c := NewCachedSource(backing, store, time.Minute, logger.NewNop())
	l, err := c.GetLessonByModuleAndOrder(context.Background(), "a1.m1", 1)
	if err != nil || l == nil {
		t.Fatalf("store errors must not fail reads: l=%v err=%v", l, err)
	}
}

func TestCachedSourceCollapsesConcurrentMisses(t *testing.T) {
	backing := &countingSource{l: sampleLesson(), delay: 50 * time.Millisecond}
	c := NewCachedSource(backing, newMemStore(), time.Minute, logger.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetLessonByRef(ctx, "a1.m1.l1"); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := backing.calls.Load(); got > 2 {
		t.Fatalf("concurrent misses should share a load, calls=%d", got)
	}
}

// ctxSource honours ctx cancellation while it loads.
type ctxSource struct {
	countingSource
}

func (s *ctxSource) GetLessonByRef(ctx context.Context, ref string) (*types.Lesson, error) {
	s.calls.Add(1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
	}
	if s.l == nil || s.l.Ref != ref {
		return nil, nil
	}
	return s.l, nil
}

func TestCachedSourceSharedLoadSurvivesCancelledCaller(t *testing.T) {
	backing := &ctxSource{countingSource{l: sampleLesson(), delay: 100 * time.Millisecond}}
	store := newMemStore()
	c := NewCachedSource(backing, store, time.Minute, logger.NewNop())

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetLessonByRef(first, "a1.m1.l1")
		firstErr <- err
	}()
	time.Sleep(5 * time.Millisecond)

	type result struct {
		l   *types.Lesson
		err error
	}
	second := make(chan result, 1)
	go func() {
		l, err := c.GetLessonByRef(context.Background(), "a1.m1.l1")
		second <- result{l, err}
	}()
	time.Sleep(15 * time.Millisecond)
	cancel()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: want context.Canceled, got %v", err)
	}
	got := <-second
	if got.err != nil || got.l == nil {
		t.Fatalf("waiting caller must still get the lesson: l=%v err=%v", got.l, got.err)
	}
	if _, err := store.Get(context.Background(), "lesson:a1.m1.l1"); err != nil {
		t.Fatalf("shared load should populate the cache: %v", err)
	}
	if n := backing.calls.Load(); n != 1 {
		t.Fatalf("expected one shared backing load, got %d", n)
	}
}
