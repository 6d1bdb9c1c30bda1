// Package jobs runs the in-process background schedules.
package jobs

import (
	"context"
	"time"

	"github.com/Kariqs/mealplan-api/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Expirer expires unpaid orders of closed weeks and reports how many it touched.
type Expirer interface {
	ExpireClosedWeeks(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewScheduler registers the expiry job on the given cron spec, e.g. "@every 15m".
func NewScheduler(spec string, expirer Expirer, log logrus.FieldLogger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		expirer: expirer,
		log:     log,
		timeout: time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.RunExpiry); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) RunExpiry() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	expired, err := s.expirer.ExpireClosedWeeks(ctx)
	if err != nil {
		s.log.WithError(err).Error("order expiry failed")
		return
	}
	metrics.RecordExpiredOrders(expired)
	if expired > 0 {
		s.log.WithField("expired", expired).Info("expired unpaid orders")
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
