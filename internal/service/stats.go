package service

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"golang.org/x/sync/errgroup"
)

// StatsService computes the landing page counters.
type StatsService struct {
	records database.Store
}

func NewStatsService(d Deps) *StatsService {
	return &StatsService{records: d.Records}
}

// Get counts members and events and sums the beneficiaries of every event.
func (ss *StatsService) Get(ctx context.Context) (*models.SiteStats, error) {
	var stats models.SiteStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := ss.records.Count(gctx, database.CollectionMembers)
		if err != nil {
			return storeError("count members", err)
		}
		stats.Members = n
		return nil
	})
	g.Go(func() error {
		docs, err := ss.records.ListAll(gctx, database.CollectionEvents)
		if err != nil {
			return storeError("list events", err)
		}
		stats.Events = int64(len(docs))
		for _, doc := range docs {
			if b := models.EventFromDocument(doc.ID, doc.Fields).Beneficiaries; b != nil && *b > 0 {
				stats.Beneficiaries += int64(*b)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
