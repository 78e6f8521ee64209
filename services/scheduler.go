package services

import (
	"time"

	"github.com/ogcash/bankapi/metrics"
	"github.com/ogcash/bankapi/utils/logger"

	"github.com/go-co-op/gocron/v2"
)

// StartMetricsScheduler refreshes the pending-request gauge every minute so
// external alerting can watch the backlog. Returns the scheduler for
// shutdown.
func StartMetricsScheduler(deposits *DepositService, m *metrics.Metrics) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			count, err := deposits.PendingCount()
			if err != nil {
				logger.Errorf("[Scheduler] pending count failed: %v", err)
				return
			}
			m.PendingRequests.Set(float64(count))
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
