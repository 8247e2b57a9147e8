package services

import (
	"context"

	"github.com/vnkhanh/kids-story-backend/repository"
)

const topViewedLimit = 5

type Dashboard struct {
	repository.Counts
	TopViewed []repository.TopStory `json:"top_viewed"`
}

type DashboardService struct {
	stats repository.StatsReader
}

func NewDashboardService(stats repository.StatsReader) *DashboardService {
	return &DashboardService{stats: stats}
}

func (d *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	counts, err := d.stats.Counts(ctx)
	if err != nil {
		return nil, err
	}

	top, err := d.stats.TopViewed(ctx, topViewedLimit)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []repository.TopStory{}
	}

	return &Dashboard{Counts: counts, TopViewed: top}, nil
}
