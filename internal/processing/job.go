package processing

import (
	"errors"
	"fmt"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

// JobStatus is the lifecycle state of a processing job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

var ErrIllegalTransition = errors.New("illegal job transition")

var jobTransitions = map[JobStatus][]JobStatus{
	JobPending:    {JobProcessing, JobCancelled},
	JobProcessing: {JobCompleted, JobFailed, JobCancelled},
	JobFailed:     {JobPending},
	JobCompleted:  nil,
	JobCancelled:  nil,
}

func (s JobStatus) String() string { return string(s) }

func (s JobStatus) IsValid() bool {
	_, ok := jobTransitions[s]
	return ok
}

// IsTerminal reports whether the job can no longer change state.
func (s JobStatus) IsTerminal() bool {
	return s.IsValid() && len(jobTransitions[s]) == 0
}

// CanTransition reports whether a job in from may move to to.
func CanTransition(from, to JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Transition(from, to JobStatus) (JobStatus, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return to, nil
}

// Job is a processing job as listed by the backend.
type Job struct {
	ID          string     `json:"id"`
	ArticleID   string     `json:"articleId"`
	Status      JobStatus  `json:"status"`
	Options     []string   `json:"options,omitempty"`
	Progress    int        `json:"progress"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Duration returns how long a finished job ran, or zero while it is open.
func (j Job) Duration() time.Duration {
	if j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(j.CreatedAt)
}

// StartRequest is the body of a start-processing call.
type StartRequest struct {
	ArticleIDs []string `json:"articleIds"`
	Options    Options  `json:"options"`
}

// Validate rejects requests the backend would refuse.
func (r StartRequest) Validate() error {
	var v domain.Validator
	v.Check(len(r.ArticleIDs) > 0, "articleIds", "at least one article is required")
	for _, id := range r.ArticleIDs {
		if id == "" {
			v.Add("articleIds", "contains an empty id")
			break
		}
	}
	v.Check(!r.Options.IsZero(), "options", "select at least one processing step")
	return v.Err()
}
