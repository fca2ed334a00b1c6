package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

type RunStatus string

const (
	StatusSorted    RunStatus = "sorted"
	StatusUnchanged RunStatus = "unchanged"
	StatusChecked   RunStatus = "checked"
	StatusFailed    RunStatus = "failed"
)

// Run records one invocation of the sorter against a file.
type Run struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	Entries    int       `json:"entries"`
	Moved      int       `json:"moved"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the run took
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
