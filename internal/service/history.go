package service

import (
	"github.com/thinktide/seasons/internal/db"
	"github.com/thinktide/seasons/internal/model"
)

type HistoryOptions struct {
	Path  string
	Limit int
}

// HistorySummary aggregates recorded runs.
type HistorySummary struct {
	Runs       []model.Run             `json:"runs"`
	ByStatus   map[model.RunStatus]int `json:"by_status"`
	TotalMoved int                     `json:"total_moved"`
}

func GenerateHistory(opts HistoryOptions) (*HistorySummary, error) {
	runs, err := db.ListRuns(db.ListRunsOptions{Path: opts.Path, Limit: opts.Limit})
	if err != nil {
		return nil, err
	}

	summary := &HistorySummary{
		Runs:     make([]model.Run, 0, len(runs)),
		ByStatus: make(map[model.RunStatus]int),
	}
	for _, r := range runs {
		summary.ByStatus[r.Status]++
		if r.Status == model.StatusSorted {
			summary.TotalMoved += r.Moved
		}
		summary.Runs = append(summary.Runs, r)
	}
	return summary, nil
}
