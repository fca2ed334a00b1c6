package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thinktide/seasons/internal/db"
	"github.com/thinktide/seasons/internal/model"
	"github.com/thinktide/seasons/internal/sekki"
)

// ErrUnsorted is returned by a check run when the file is not in sorted,
// canonical form.
var ErrUnsorted = errors.New("file is not sorted")

type SortOptions struct {
	Path string
	// Check reports whether the file would change without writing it.
	Check bool
	// DryRun sorts in memory only; the output is in the returned result.
	DryRun bool
	// Record stores the run in the history table when the database is open.
	Record bool
	Log    zerolog.Logger
}

// Sort runs the sorter against opts.Path and records the outcome.
func Sort(opts SortOptions) (*sekki.Result, error) {
	started := time.Now().UTC()
	res, err := sekki.SortFile(opts.Path, sekki.Options{DryRun: opts.Check || opts.DryRun})

	run := &model.Run{
		Path:       opts.Path,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	switch {
	case err != nil:
		run.Status = model.StatusFailed
		run.Error = err.Error()
	case opts.Check:
		run.Status = model.StatusChecked
	case res.Changed:
		run.Status = model.StatusSorted
	default:
		run.Status = model.StatusUnchanged
	}
	if res != nil {
		run.Entries = res.Entries
		run.Moved = res.Moved
	}

	if opts.Record && !opts.DryRun {
		if recErr := db.RecordRun(run); recErr != nil && !errors.Is(recErr, db.ErrNotOpen) {
			opts.Log.Warn().Err(recErr).Msg("failed to record run")
		}
	}

	if err != nil {
		return nil, err
	}

	opts.Log.Debug().
		Str("path", opts.Path).
		Int("entries", res.Entries).
		Int("moved", res.Moved).
		Bool("changed", res.Changed).
		Dur("took", run.Duration()).
		Msg(string(run.Status))

	if opts.Check && res.Changed {
		return res, fmt.Errorf("%s: %w (%d of %d entries out of place)", opts.Path, ErrUnsorted, res.Moved, res.Entries)
	}
	return res, nil
}
