package adminapi

import (
	"context"
	"net/http"

	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
)

type duplicatesResponse struct {
	Groups []dedupe.Group `json:"groups"`
}

// ListDuplicates asks the detector for the current duplicate groups.
func (c *Client) ListDuplicates(ctx context.Context, f dedupe.Filter) ([]dedupe.Group, error) {
	var resp duplicatesResponse
	if err := c.do(ctx, "list duplicates", http.MethodGet, "duplicates", f.Query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// ResolveDuplicates keeps req.PrimaryID and deletes req.DuplicateIDs.
func (c *Client) ResolveDuplicates(ctx context.Context, req dedupe.ResolveRequest) error {
	return c.do(ctx, "resolve duplicates", http.MethodPost, "duplicates/resolve", nil, req, nil)
}
