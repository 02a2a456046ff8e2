package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/holoo/stockcast/internal/alerts"
	"github.com/holoo/stockcast/internal/cache"
	"github.com/holoo/stockcast/internal/engine"
)

// AlertService serves stockout notifications from the persisted results
// table, with a short-TTL cache in front to absorb dashboard polling.
type AlertService struct {
	resultsPath string
	windowDays  int
	cache       cache.AlertsCache
	now         func() time.Time
}

func NewAlertService(resultsPath string, windowDays int, cacheImpl cache.AlertsCache) *AlertService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAlertsCache()
	}
	if windowDays <= 0 {
		windowDays = alerts.DefaultWindowDays
	}
	return &AlertService{
		resultsPath: resultsPath,
		windowDays:  windowDays,
		cache:       cacheImpl,
		now:         time.Now,
	}
}

// Current returns notifications for stockouts projected within the alert
// window. No results table yet means no alerts, not an error.
func (s *AlertService) Current(ctx context.Context) ([]alerts.Notification, error) {
	if cached, ok, err := s.cache.Get(ctx); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("alerts: cache get failed")
	}

	rows, err := engine.LoadResults(s.resultsPath)
	if err != nil {
		return nil, err
	}

	notifications := alerts.FromResults(rows, s.now(), s.windowDays)

	if err := s.cache.Set(ctx, notifications); err != nil {
		log.Warn().Err(err).Msg("alerts: cache set failed")
	}

	return notifications, nil
}
