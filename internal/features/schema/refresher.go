package schema

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher re-warms the schema cache on a fixed interval so the registry
// answers interactive requests without a provider round trip.
type Refresher struct {
	service   SchemaService
	logger    *zap.Logger
	scheduler *cron.Cron
}

func NewRefresher(service SchemaService, logger *zap.Logger) *Refresher {
	return &Refresher{
		service: service,
		logger:  logger,
	}
}

// Start begins the periodic refresh. Call Stop on shutdown.
func (r *Refresher) Start(ctx context.Context) error {
	r.scheduler = cron.New()

	_, err := r.scheduler.AddFunc("@every 5m", func() {
		r.service.RefreshRecent(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule schema refresh: %w", err)
	}

	r.scheduler.Start()
	r.logger.Info("schema cache refresher started")
	return nil
}

// Stop halts the scheduler, waiting for a running refresh to finish
func (r *Refresher) Stop() error {
	if r.scheduler != nil {
		<-r.scheduler.Stop().Done()
	}
	return nil
}
