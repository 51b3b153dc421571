// Package refdata serves authors, categories and tags from the local cache
// and refreshes them from the CMS when they are older than the TTL.
package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = time.Hour

// Fetcher loads one reference kind from the CMS.
type Fetcher interface {
	ListReference(ctx context.Context, kind domain.RefKind) ([]domain.RefItem, error)
}

// Store is the local copy of the reference data.
type Store interface {
	ReplaceReference(kind domain.RefKind, items []domain.RefItem, fetchedAt time.Time) error
	GetReference(kind domain.RefKind) ([]domain.RefItem, error)
	LastFetched(kind domain.RefKind) (time.Time, bool)
}

type Service struct {
	fetch Fetcher
	store Store
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time

	group singleflight.Group
}

func New(fetch Fetcher, store Store, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		fetch: fetch,
		store: store,
		ttl:   ttl,
		log:   logger.With("component", "refdata"),
		now:   time.Now,
	}
}

// Get returns the rows of kind, fetching them when the cached copy is
// missing or expired. If the fetch fails and an older copy exists, the
// older copy is returned.
func (s *Service) Get(ctx context.Context, kind domain.RefKind) ([]domain.RefItem, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	if fetched, ok := s.store.LastFetched(kind); ok && s.now().Sub(fetched) < s.ttl {
		return s.store.GetReference(kind)
	}
	return s.load(ctx, kind)
}

// Refresh fetches kind regardless of its age.
func (s *Service) Refresh(ctx context.Context, kind domain.RefKind) ([]domain.RefItem, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	return s.load(ctx, kind)
}

func (s *Service) load(ctx context.Context, kind domain.RefKind) ([]domain.RefItem, error) {
	v, err, shared := s.group.Do(string(kind), func() (any, error) {
		items, err := s.fetch.ListReference(ctx, kind)
		if err != nil {
			return nil, err
		}
		now := s.now()
		if err := s.store.ReplaceReference(kind, items, now); err != nil {
			s.log.Warn("caching reference data failed", "kind", kind, "error", err)
		}
		for i := range items {
			items[i].FetchedAt = now
		}
		s.log.Debug("reference data fetched", "kind", kind, "count", len(items))
		return items, nil
	})
	if err != nil {
		if _, ok := s.store.LastFetched(kind); ok {
			s.log.Warn("serving stale reference data", "kind", kind, "error", err)
			return s.store.GetReference(kind)
		}
		return nil, fmt.Errorf("fetching %s: %w", kind, err)
	}
	if shared {
		s.log.Debug("shared reference fetch", "kind", kind)
	}
	items := v.([]domain.RefItem)
	out := make([]domain.RefItem, len(items))
	copy(out, items)
	return out, nil
}

// Warm loads every kind concurrently.
func (s *Service) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range domain.AllRefKinds() {
		g.Go(func() error {
			_, err := s.Get(gctx, kind)
			return err
		})
	}
	return g.Wait()
}
