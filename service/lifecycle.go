package service

import (
	"context"
	"fadebot/storage"
	"fadebot/utils"
	"time"
)

const DefaultRetention = 24 * time.Hour

type ServiceLifecycle struct {
	storage storage.Storage
	clock   Clock
}

func NewServiceLifecycle(storage storage.Storage, clock Clock) *ServiceLifecycle {
	if clock == nil {
		clock = utcNow
	}
	return &ServiceLifecycle{storage: storage, clock: clock}
}

// ExpireOlderThan moves ACTIVE opportunities older than retention to EXPIRED.
func (l *ServiceLifecycle) ExpireOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	now := l.clock()
	count, err := l.storage.ExpireOpportunities(ctx, now.Add(-retention), now)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		utils.Log.Infof("[Lifecycle] expired %d opportunities older than %s", count, retention)
	}
	return count, nil
}
