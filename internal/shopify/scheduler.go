package shopify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultSyncInterval is the pause between successful syncs.
	DefaultSyncInterval = time.Hour
	// DefaultSyncBackoff is the pause after a failed sync before retrying.
	DefaultSyncBackoff = 5 * time.Minute
	// DefaultSyncDays is how far back each sync reaches.
	DefaultSyncDays = 7
)

// SyncFunc performs one sync pass and reports how many rows it added.
type SyncFunc func(ctx context.Context, days int) (int, error)

// Scheduler drives a sync function on an interval, backing off after
// failures. It runs until its context is cancelled.
type Scheduler struct {
	Sync     SyncFunc
	Interval time.Duration
	Backoff  time.Duration
	Days     int
}

func NewScheduler(sync SyncFunc) *Scheduler {
	return &Scheduler{
		Sync:     sync,
		Interval: DefaultSyncInterval,
		Backoff:  DefaultSyncBackoff,
		Days:     DefaultSyncDays,
	}
}

// Run loops sync passes until ctx is done. The first pass starts
// immediately.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		wait := s.Interval
		added, err := s.Sync(ctx, s.Days)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("order sync failed, backing off")
			wait = s.Backoff
		} else {
			log.Info().Int("new_rows", added).Msg("order sync completed")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// SyncOrders is the production sync pass: fetch recent orders and merge
// them into the sales-history CSV.
func SyncOrders(client *Client, csvPath string) SyncFunc {
	return func(ctx context.Context, days int) (int, error) {
		rows, err := client.FetchOrders(ctx, days)
		if err != nil {
			return 0, err
		}
		if len(rows) == 0 {
			return 0, nil
		}
		return AppendOrders(csvPath, rows)
	}
}
