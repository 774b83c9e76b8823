package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"gsa/internal/gmp/collection"
	"gsa/internal/gmp/command"
	"gsa/internal/gmp/filter"
)

// DefaultDashboardTypes are counted when no types are requested.
var DefaultDashboardTypes = []string{"task", "report", "result", "host", "vulnerability"}

// maxParallelCounts bounds the concurrent get commands of one dashboard.
const maxParallelCounts = 4

// DashboardService collects entity counters for overview pages.
type DashboardService interface {
	// Counts returns the counters of each type for term. One failed
	// count fails the whole request.
	Counts(ctx context.Context, types []string, term string) (map[string]collection.Counts, error)
}

type dashboardService struct {
	registry *command.Registry
}

// NewDashboardService constructs a DashboardService over the registered commands.
func NewDashboardService(reg *command.Registry) DashboardService {
	return &dashboardService{registry: reg}
}

func (s *dashboardService) Counts(ctx context.Context, types []string, term string) (map[string]collection.Counts, error) {
	if len(types) == 0 {
		types = DefaultDashboardTypes
	}

	cmds := make([]command.Generic, 0, len(types))
	for _, t := range types {
		cmd, err := s.registry.Lookup(t)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	f := filter.Parse(term)
	var (
		mu  sync.Mutex
		out = make(map[string]collection.Counts, len(cmds))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelCounts)
	for _, cmd := range cmds {
		g.Go(func() error {
			counts, err := cmd.Count(ctx, f)
			if err != nil {
				return err
			}
			mu.Lock()
			out[cmd.Resource().Type] = counts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
