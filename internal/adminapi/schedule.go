package adminapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dleads/stakeados.app-sub003/internal/schedule"
)

// SubmitSchedule stores spec as the publication schedule of articleID.
func (c *Client) SubmitSchedule(ctx context.Context, articleID string, spec schedule.Spec) error {
	path := "articles/" + url.PathEscape(articleID) + "/schedule"
	return c.do(ctx, "submit schedule", http.MethodPost, path, nil, spec, nil)
}
