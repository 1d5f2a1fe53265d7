package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

const sharedLoadTimeout = 10 * time.Second

// ErrCacheMiss is returned by Store.Get for an absent key.
var ErrCacheMiss = errors.New("content cache miss")

// Store is the byte cache behind CachedSource.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisStore struct {
	rdb *goredis.Client
}

func NewRedisStore(rdb *goredis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	return raw, err
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedSource is a read-through cache in front of another Source. Cache errors never fail
// a read; they fall through to the backing source.
type CachedSource struct {
	next  Source
	store Store
	ttl   time.Duration
	log   *logger.Logger
	group singleflight.Group
}

func NewCachedSource(next Source, store Store, ttl time.Duration, log *logger.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedSource{next: next, store: store, ttl: ttl, log: log.With("service", "CachedContentSource")}
}

func (c *CachedSource) GetLessonByRef(ctx context.Context, ref string) (*types.Lesson, error) {
	ref = strings.TrimSpace(ref)
	return c.load(ctx, "lesson:"+ref, func(ctx context.Context) (*types.Lesson, error) {
		return c.next.GetLessonByRef(ctx, ref)
	})
}

func (c *CachedSource) GetLessonByModuleAndOrder(ctx context.Context, moduleRef string, order int) (*types.Lesson, error) {
	moduleRef = strings.TrimSpace(moduleRef)
	return c.load(ctx, fmt.Sprintf("lesson:%s#%d", moduleRef, order), func(ctx context.Context) (*types.Lesson, error) {
		return c.next.GetLessonByModuleAndOrder(ctx, moduleRef, order)
	})
}

// load collapses concurrent misses for key into one backing read. The shared read runs on a
// context detached from any single caller, bounded by sharedLoadTimeout, so one caller
// going away does not fail the others. Each caller still stops waiting when its own ctx ends.
func (c *CachedSource) load(ctx context.Context, key string, miss func(context.Context) (*types.Lesson, error)) (*types.Lesson, error) {
	if raw, err := c.store.Get(ctx, key); err == nil {
		l, derr := decodeLesson(raw)
		if derr == nil {
			return l, nil
		}
		c.log.Warn("content cache decode failed", "key", key, "error", derr)
	} else if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("content cache get failed", "key", key, "error", err)
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		l, err := miss(shared)
		if err != nil {
			return nil, err
		}
		// Absent lessons are not cached.
		if l != nil {
			if raw, eerr := encodeLesson(l); eerr == nil {
				if serr := c.store.Set(shared, key, raw, c.ttl); serr != nil {
					c.log.Warn("content cache set failed", "key", key, "error", serr)
				}
			}
		}
		return l, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		l, _ := res.Val.(*types.Lesson)
		return l, nil
	}
}

// cachedLesson keeps validation data, which the row type hides from JSON.
type cachedLesson struct {
	ID        uuid.UUID    `json:"id"`
	Ref       string       `json:"ref"`
	ModuleRef string       `json:"module_ref"`
	Order     int          `json:"order"`
	Title     string       `json:"title"`
	Published bool         `json:"published"`
	Tasks     []cachedTask `json:"tasks"`
}

type cachedTask struct {
	ID             uuid.UUID       `json:"id"`
	Position       int             `json:"position"`
	Ref            string          `json:"ref"`
	Type           string          `json:"type"`
	PublicData     json.RawMessage `json:"public_data,omitempty"`
	ValidationData json.RawMessage `json:"validation_data,omitempty"`
}

func encodeLesson(l *types.Lesson) ([]byte, error) {
	cl := cachedLesson{
		ID:        l.ID,
		Ref:       l.Ref,
		ModuleRef: l.ModuleRef,
		Order:     l.Order,
		Title:     l.Title,
		Published: l.Published,
	}
	for _, t := range l.Tasks {
		if t == nil {
			continue
		}
		cl.Tasks = append(cl.Tasks, cachedTask{
			ID:             t.ID,
			Position:       t.Position,
			Ref:            t.Ref,
			Type:           t.Type,
			PublicData:     json.RawMessage(t.PublicData),
			ValidationData: json.RawMessage(t.ValidationData),
		})
	}
	return json.Marshal(cl)
}

func decodeLesson(raw []byte) (*types.Lesson, error) {
	var cl cachedLesson
	if err := json.Unmarshal(raw, &cl); err != nil {
		return nil, err
	}
	l := &types.Lesson{
		ID:        cl.ID,
		Ref:       cl.Ref,
		ModuleRef: cl.ModuleRef,
		Order:     cl.Order,
		Title:     cl.Title,
		Published: cl.Published,
	}
	for _, ct := range cl.Tasks {
		l.Tasks = append(l.Tasks, &types.LessonTask{
			ID:             ct.ID,
			LessonID:       cl.ID,
			Position:       ct.Position,
			Ref:            ct.Ref,
			Type:           ct.Type,
			PublicData:     datatypes.JSON(ct.PublicData),
			ValidationData: datatypes.JSON(ct.ValidationData),
		})
	}
	return l, nil
}
