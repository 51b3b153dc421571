package adminapi

import (
	"context"
	"net/http"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

// ListSources returns the RSS sources registered in the CMS.
func (c *Client) ListSources(ctx context.Context) ([]domain.Source, error) {
	var resp struct {
		Sources []domain.Source `json:"sources"`
	}
	if err := c.do(ctx, "list sources", http.MethodGet, "rss-sources", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

// CreateSource registers src and returns the stored record.
func (c *Client) CreateSource(ctx context.Context, src domain.Source) (domain.Source, error) {
	var created domain.Source
	if err := c.do(ctx, "create source", http.MethodPost, "rss-sources", nil, src, &created); err != nil {
		return domain.Source{}, err
	}
	return created, nil
}
