package adminapi

import (
	"context"
	"net/http"

	"github.com/dleads/stakeados.app-sub003/internal/processing"
)

// ListJobs returns recent processing jobs.
func (c *Client) ListJobs(ctx context.Context) ([]processing.Job, error) {
	var resp struct {
		Jobs []processing.Job `json:"jobs"`
	}
	if err := c.do(ctx, "list jobs", http.MethodGet, "processing/jobs", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// StartProcessing queues a job per article. The request is validated first.
func (c *Client) StartProcessing(ctx context.Context, req processing.StartRequest) ([]processing.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp struct {
		Jobs []processing.Job `json:"jobs"`
	}
	if err := c.do(ctx, "start processing", http.MethodPost, "processing/jobs", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}
