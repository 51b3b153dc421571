package cache

import (
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

// KindStats describes the cached rows of one reference kind.
type KindStats struct {
	Kind        domain.RefKind
	Count       int
	LastFetched time.Time
}

// Stats summarizes the cache file.
type Stats struct {
	Path  string
	Size  int64
	Kinds []KindStats
}

// Total returns the number of cached rows across kinds.
func (s Stats) Total() int {
	n := 0
	for _, k := range s.Kinds {
		n += k.Count
	}
	return n
}
