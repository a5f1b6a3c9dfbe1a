package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/store"
)

// retentionInterval is how often old detections are pruned while serving.
const retentionInterval = time.Hour

// pruneDetections removes detections older than retention. A retention of
// zero keeps everything.
func pruneDetections(st *store.Store, retention time.Duration, now time.Time, log *zap.Logger) int64 {
	if retention <= 0 {
		return 0
	}
	n, err := st.Detections().DeleteBefore(now.Add(-retention))
	if err != nil {
		log.Warn("prune detections", zap.Error(err))
		return 0
	}
	if n > 0 {
		log.Info("pruned detections", zap.Int64("count", n), zap.Duration("retention", retention))
	}
	return n
}

// runRetention prunes once, then every interval until ctx is done.
func runRetention(ctx context.Context, st *store.Store, retention, interval time.Duration, log *zap.Logger) {
	if retention <= 0 {
		return
	}
	pruneDetections(st, retention, time.Now(), log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			pruneDetections(st, retention, now, log)
		}
	}
}
