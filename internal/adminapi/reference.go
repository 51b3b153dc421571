package adminapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

func (c *Client) ListAuthors(ctx context.Context) ([]domain.RefItem, error) {
	var resp struct {
		Authors []domain.RefItem `json:"authors"`
	}
	if err := c.do(ctx, "list authors", http.MethodGet, "authors", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Authors, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.RefItem, error) {
	var resp struct {
		Categories []domain.RefItem `json:"categories"`
	}
	if err := c.do(ctx, "list categories", http.MethodGet, "categories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) ListTags(ctx context.Context) ([]domain.RefItem, error) {
	var resp struct {
		Tags []domain.RefItem `json:"tags"`
	}
	if err := c.do(ctx, "list tags", http.MethodGet, "tags", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// ListReference dispatches to the list call for kind.
func (c *Client) ListReference(ctx context.Context, kind domain.RefKind) ([]domain.RefItem, error) {
	switch kind {
	case domain.RefAuthors:
		return c.ListAuthors(ctx)
	case domain.RefCategories:
		return c.ListCategories(ctx)
	case domain.RefTags:
		return c.ListTags(ctx)
	}
	return nil, fmt.Errorf("unknown reference kind %q", kind)
}
