package dedupe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

// ErrUnknownGroup is reported for a selected group that the last fetch did not return.
var ErrUnknownGroup = errors.New("group not in current duplicate list")

// API is the part of the CMS admin API the selector needs.
type API interface {
	ListDuplicates(ctx context.Context, f Filter) ([]Group, error)
	ResolveDuplicates(ctx context.Context, req ResolveRequest) error
}

// Validate checks the resolve preconditions. A request that fails here is
// never sent.
func (r ResolveRequest) Validate() error {
	var v domain.Validator
	v.Check(r.GroupID != "", "groupId", "is required")
	v.Check(r.PrimaryID != "", "primaryId", "is required")
	v.Check(len(r.DuplicateIDs) > 0, "duplicateIds", "at least one duplicate is required")

	seen := make(map[string]bool, len(r.DuplicateIDs))
	for _, id := range r.DuplicateIDs {
		switch {
		case id == "":
			v.Add("duplicateIds", "contains an empty id")
		case id == r.PrimaryID:
			v.Add("duplicateIds", "contains the primary item %s", id)
		case seen[id]:
			v.Add("duplicateIds", "lists %s twice", id)
		}
		seen[id] = true
	}
	return v.Err()
}

// Outcome is the result of resolving one group in a bulk action.
type Outcome struct {
	GroupID string
	Err     error
}

// Selector tracks the fetched groups, the operator's selection and the last
// error shown to the operator. Network calls are made without holding the
// lock, so the TUI may run them from commands while it renders.
type Selector struct {
	api API
	log *slog.Logger

	mu        sync.Mutex
	filter    Filter
	groups    []Group
	selection *Selection
	err       error
	gen       uint64
}

func NewSelector(api API, filter Filter, logger *slog.Logger) *Selector {
	return &Selector{
		api:       api,
		log:       logger.With("component", "dedupe"),
		filter:    filter,
		selection: NewSelection(),
	}
}

// Filter returns the knobs used for the next fetch.
func (s *Selector) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter replaces the knobs after validating them.
func (s *Selector) SetFilter(f Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	return nil
}

// Refresh fetches the current duplicate groups. On failure the previous
// groups stay and the error is kept for display. When two refreshes overlap
// only the one started last is applied; the older result, groups or error,
// is dropped and nil is returned for it.
func (s *Selector) Refresh(ctx context.Context) error {
	s.mu.Lock()
	f := s.filter
	if err := f.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	groups, err := s.api.ListDuplicates(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("dropping superseded duplicate fetch", "generation", gen, "current", s.gen, "error", err)
		return nil
	}
	if err != nil {
		err = fmt.Errorf("fetching duplicates: %w", err)
		s.log.Error("duplicate fetch failed", "error", err)
		s.err = err
		return err
	}
	s.groups = groups
	s.log.Debug("duplicates loaded", "groups", len(groups))
	return nil
}

// Groups returns a copy of the last fetched groups.
func (s *Selector) Groups() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// Group looks up a fetched group by id.
func (s *Selector) Group(id string) (Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *Selector) findLocked(id string) (Group, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Toggle flips id in the selection and reports whether it is now selected.
func (s *Selector) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(id)
}

// ClearSelection empties the selection.
func (s *Selector) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

func (s *Selector) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Has(id)
}

// SelectedIDs returns the selected group ids in sorted order.
func (s *Selector) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// Err returns the error currently shown to the operator, if any.
func (s *Selector) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// DismissError clears the displayed error.
func (s *Selector) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// Resolve keeps primaryID and deletes duplicateIDs for groupID. A request
// that fails validation is returned as-is without touching any state. On
// success the group leaves the selection and the list is refetched.
func (s *Selector) Resolve(ctx context.Context, groupID, primaryID string, duplicateIDs []string) error {
	req := ResolveRequest{GroupID: groupID, PrimaryID: primaryID, DuplicateIDs: duplicateIDs}
	if err := s.resolveOne(ctx, req); err != nil {
		return err
	}
	// A failed refetch is kept in Err; the resolve itself went through.
	_ = s.Refresh(ctx)
	return nil
}

// ResolveGroup resolves a fetched group, keeping its primary.
func (s *Selector) ResolveGroup(ctx context.Context, groupID string) error {
	g, ok := s.Group(groupID)
	if !ok {
		return fmt.Errorf("resolving group %s: %w", groupID, ErrUnknownGroup)
	}
	return s.Resolve(ctx, g.ID, g.Primary.ID, g.DuplicateIDs())
}

// ResolveSelected resolves every selected group independently, in id order.
// A failure does not stop the remaining groups and nothing is rolled back;
// the list is refetched once if at least one group was resolved.
func (s *Selector) ResolveSelected(ctx context.Context) []Outcome {
	s.mu.Lock()
	ids := s.selection.IDs()
	reqs := make(map[string]ResolveRequest, len(ids))
	for _, id := range ids {
		if g, ok := s.findLocked(id); ok {
			reqs[id] = NewResolveRequest(g)
		}
	}
	s.mu.Unlock()

	outcomes := make([]Outcome, 0, len(ids))
	resolved := 0
	for _, id := range ids {
		req, ok := reqs[id]
		if !ok {
			outcomes = append(outcomes, Outcome{GroupID: id, Err: ErrUnknownGroup})
			continue
		}
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{GroupID: id, Err: err})
			continue
		}
		err := s.resolveOne(ctx, req)
		if err == nil {
			resolved++
		}
		outcomes = append(outcomes, Outcome{GroupID: id, Err: err})
	}

	s.log.Info("bulk resolve finished", "selected", len(ids), "resolved", resolved)
	if resolved > 0 {
		_ = s.Refresh(ctx)
	}
	return outcomes
}

func (s *Selector) resolveOne(ctx context.Context, req ResolveRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.api.ResolveDuplicates(ctx, req); err != nil {
		err = fmt.Errorf("resolving group %s: %w", req.GroupID, err)
		s.log.Error("resolve failed", "group_id", req.GroupID, "error", err)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.selection.remove(req.GroupID)
	s.mu.Unlock()
	s.log.Info("resolved duplicate group",
		"group_id", req.GroupID,
		"primary_id", req.PrimaryID,
		"deleted", len(req.DuplicateIDs))
	return nil
}
