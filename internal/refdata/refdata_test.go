package refdata

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/cache"
	"github.com/dleads/stakeados.app-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
	items   map[domain.RefKind][]domain.RefItem
}

func (f *fakeFetcher) ListReference(ctx context.Context, kind domain.RefKind) ([]domain.RefItem, error) {
	f.calls.Add(1)
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.RefItem(nil), f.items[kind]...), nil
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{items: map[domain.RefKind][]domain.RefItem{
		domain.RefAuthors:    {{ID: "u1", Name: "Ana"}},
		domain.RefCategories: {{ID: "c1", Name: "Markets", Slug: "markets"}},
		domain.RefTags:       {{ID: "t1", Name: "breaking"}, {ID: "t2", Name: "elections"}},
	}}
}

func newStore(t *testing.T) *cache.Cache {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "ref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestGetFetchesThenServesFromCache(t *testing.T) {
	f := newFetcher()
	svc := New(f, newStore(t), time.Hour, discard())
	ctx := context.Background()

	tags, err := svc.Get(ctx, domain.RefTags)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tags, err = svc.Get(ctx, domain.RefTags)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestGetRefetchesAfterTTL(t *testing.T) {
	f := newFetcher()
	svc := New(f, newStore(t), time.Minute, discard())
	ctx := context.Background()

	_, err := svc.Get(ctx, domain.RefAuthors)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Get(ctx, domain.RefAuthors)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestGetServesStaleOnFailure(t *testing.T) {
	f := newFetcher()
	store := newStore(t)
	svc := New(f, store, time.Minute, discard())
	ctx := context.Background()

	_, err := svc.Get(ctx, domain.RefCategories)
	require.NoError(t, err)

	f.err = errors.New("cms down")
	got, err := svc.Refresh(ctx, domain.RefCategories)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "markets", got[0].Slug)
}

func TestGetFailsWithoutCachedCopy(t *testing.T) {
	f := newFetcher()
	f.err = errors.New("cms down")
	svc := New(f, newStore(t), time.Minute, discard())

	_, err := svc.Get(context.Background(), domain.RefAuthors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cms down")
}

func TestGetRejectsUnknownKind(t *testing.T) {
	f := newFetcher()
	svc := New(f, newStore(t), time.Minute, discard())

	_, err := svc.Get(context.Background(), domain.RefKind("people"))
	assert.Error(t, err)
	assert.Zero(t, f.calls.Load())
}

func TestConcurrentGetSharesOneFetch(t *testing.T) {
	f := newFetcher()
	f.started = make(chan struct{}, 1)
	f.release = make(chan struct{})
	svc := New(f, newStore(t), time.Hour, discard())
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([][]domain.RefItem, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.Get(ctx, domain.RefTags)
	}()
	<-f.started

	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = svc.Get(ctx, domain.RefTags)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(f.release)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
	for _, r := range results {
		assert.Len(t, r, 2)
	}
}

func TestWarmLoadsEveryKind(t *testing.T) {
	f := newFetcher()
	store := newStore(t)
	svc := New(f, store, time.Hour, discard())

	require.NoError(t, svc.Warm(context.Background()))
	assert.Equal(t, int32(len(domain.AllRefKinds())), f.calls.Load())

	for _, kind := range domain.AllRefKinds() {
		_, ok := store.LastFetched(kind)
		assert.True(t, ok, "%s should be cached", kind)
	}
}
