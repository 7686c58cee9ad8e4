package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cicero78M/recap-engine/internal/models"
	"github.com/cicero78M/recap-engine/pkg/logging"
)

// fetchEngagement loads the normalized engager handle set for every content
// item, at most once per item, with a bounded concurrent fan-out. A failed
// fetch downgrades that item to an empty set rather than aborting the recap;
// failures are counted for diagnostics.
func (e *Engine) fetchEngagement(ctx context.Context, platform models.Platform, items []models.ContentItem) ([]map[string]struct{}, int) {
	sets := make([]map[string]struct{}, len(items))
	var failed int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fanout)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		i, item := i, item
		g.Go(func() error {
			handles, err := e.store.EngagerHandles(gctx, platform, item.ID)
			if err != nil {
				atomic.AddInt32(&failed, 1)
				if e.fetchFailures != nil {
					e.fetchFailures.WithLabelValues(string(platform)).Inc()
				}
				e.logger.WithError(err).WithFields(logging.Fields{
					"content_id": item.ID,
					"platform":   platform,
				}).Warn("Failed to fetch engagement set, counting item as empty")
				return nil
			}

			set := make(map[string]struct{}, len(handles))
			for _, handle := range handles {
				if normalized := NormalizeHandle(handle); normalized != "" {
					set[normalized] = struct{}{}
				}
			}
			sets[i] = set
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion
	_ = g.Wait()

	return sets, int(failed)
}
