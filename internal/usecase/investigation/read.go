package investigation

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
)

// Filter narrows the investigation list. Query searches id, title and
// deviation id case-insensitively; Status and Priority accept "all".
type Filter struct {
	Query    string
	Status   string
	Priority string
}

func (s *Service) List(ctx context.Context, filter Filter) ([]quality.Investigation, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	items, err := s.repo.ListInvestigations(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list investigations")
	}

	return quality.Apply(items,
		func(inv quality.Investigation) bool {
			return quality.MatchText(filter.Query, inv.ID, inv.Title, inv.DeviationID)
		},
		func(inv quality.Investigation) bool { return quality.MatchExact(filter.Status, string(inv.Status)) },
		func(inv quality.Investigation) bool { return quality.MatchExact(filter.Priority, string(inv.Priority)) },
	), nil
}

// Detail is the full aggregate view of one investigation with its derived
// progress numbers.
type Detail struct {
	Investigation    quality.Investigation
	Deviation        quality.Deviation
	RCA              quality.RootCauseAnalysis
	CAPA             quality.CAPA
	RCACompletion    int
	CAPAProgress     int
	ApprovalProgress int
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	if ctx == nil {
		return Detail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Detail{}, errs.Wrap(err, "check context")
	}

	inv, err := s.repo.GetInvestigation(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	dev, err := s.repo.GetDeviation(ctx, inv.DeviationID)
	if err != nil {
		return Detail{}, err
	}
	rca, err := s.repo.GetRCA(ctx, inv.ID)
	if err != nil {
		return Detail{}, err
	}
	capa, err := s.repo.GetCAPA(ctx, inv.ID)
	if err != nil {
		return Detail{}, err
	}

	return Detail{
		Investigation:    inv,
		Deviation:        dev,
		RCA:              rca,
		CAPA:             capa,
		RCACompletion:    quality.RCACompletion(rca.Checklist),
		CAPAProgress:     quality.CAPAProgress(capa.Actions()),
		ApprovalProgress: quality.ApprovalProgress(capa.ApprovalFlow),
	}, nil
}

// Stats are the dashboard counters. Cached as JSON and recomputed after any
// mutation invalidates the key.
type Stats struct {
	Total            int            `json:"total"`
	ByStatus         map[string]int `json:"byStatus"`
	ByPriority       map[string]int `json:"byPriority"`
	Overdue          int            `json:"overdue"`
	PendingApprovals int            `json:"pendingApprovals"`
}

const statsCacheKey = "dashboard:investigation-stats"

func (s *Service) DashboardStats(ctx context.Context) (Stats, error) {
	if ctx == nil {
		return Stats{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, errs.Wrap(err, "check context")
	}

	if cached, ok, err := s.cache.Get(ctx, statsCacheKey); err == nil && ok {
		var stats Stats
		if json.Unmarshal([]byte(cached), &stats) == nil {
			return stats, nil
		}
	}

	items, err := s.repo.ListInvestigations(ctx)
	if err != nil {
		return Stats{}, errs.Wrap(err, "list investigations")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stats := Stats{
		Total:      len(items),
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}
	for _, inv := range items {
		stats.ByStatus[string(inv.Status)]++
		stats.ByPriority[string(inv.Priority)]++
		if inv.DueDate != "" && inv.DueDate < now &&
			inv.Status != quality.StatusCompleted && inv.Status != quality.StatusClosed {
			stats.Overdue++
		}
		if inv.Status == quality.StatusApprovalPending {
			stats.PendingApprovals++
		}
	}

	if raw, err := json.Marshal(stats); err == nil {
		// Best effort; a failed cache write never fails the read.
		_ = s.cache.Set(ctx, statsCacheKey, string(raw), time.Hour)
	}
	return stats, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	_ = s.cache.Delete(ctx, statsCacheKey)
}

// SortByPriority orders investigations most severe first, newest first within
// a severity band. The input is not modified.
func SortByPriority(items []quality.Investigation) []quality.Investigation {
	out := make([]quality.Investigation, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Severity() != out[j].Priority.Severity() {
			return out[i].Priority.Severity() > out[j].Priority.Severity()
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
