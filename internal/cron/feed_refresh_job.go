package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/aureusmetals/aureus-backend/internal/feeds"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

type feedRefreshStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	FeedRefreshKey() string
}

// FeedRefreshJob regenerates the merchant feed snapshots. A Redis TTL key
// spaces regenerations to the configured interval regardless of how often
// the cron loop ticks.
type FeedRefreshJob struct {
	feeds    *feeds.Service
	store    feedRefreshStore
	logg     *logger.Logger
	interval time.Duration
}

func NewFeedRefreshJob(feedSvc *feeds.Service, store feedRefreshStore, logg *logger.Logger, interval time.Duration) (*FeedRefreshJob, error) {
	if feedSvc == nil {
		return nil, fmt.Errorf("feed service required")
	}
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &FeedRefreshJob{feeds: feedSvc, store: store, logg: logg, interval: interval}, nil
}

func (j *FeedRefreshJob) Name() string { return "feed_refresh" }

func (j *FeedRefreshJob) Run(ctx context.Context) error {
	acquired, err := j.store.SetNX(ctx, j.store.FeedRefreshKey(), time.Now().UTC().Format(time.RFC3339), j.interval)
	if err != nil {
		return fmt.Errorf("feed refresh dedupe: %w", err)
	}
	if !acquired {
		return nil
	}

	snapshots, err := j.feeds.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh feeds: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "feeds", len(snapshots)), "feed snapshots regenerated")
	return nil
}
