package services

import (
	"context"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/obs"
	"crossing-delta/internal/ports"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type ResolveRequest struct {
	Origins     []domain.Coordinates
	Destination domain.Destination
	// Prior holds results from earlier runs. Nil means no prior data.
	Prior *domain.DistanceTable
	// BatchSize defaults to, and is capped at, ports.MaxMatrixOrigins.
	BatchSize int
	// Checkpoint, when set, receives Prior merged with everything resolved
	// so far after each chunk that called the provider.
	Checkpoint func(ctx context.Context, t *domain.DistanceTable) error
}

type ResolveStats struct {
	Chunks     int
	Calls      int
	Hits       int
	Fetched    int
	Unresolved int
}

// ResolveDistances builds a table covering req.Origins toward req.Destination.
//
// Origins are split, in order, into chunks of at most BatchSize. Within a
// chunk, origins found in Prior are copied over and the remaining ones are
// sent to the provider in a single call; a chunk without misses makes no
// call. Chunks run one after another.
//
// Origins the provider reports as unresolved are left out of the result so a
// later run retries them. Any other provider failure aborts the resolve.
// The result holds one row per resolved origin, in input order.
func ResolveDistances(
	ctx context.Context,
	req ResolveRequest,
	provider ports.DistanceMatrixProvider,
) (_ *domain.DistanceTable, stats ResolveStats, err error) {
	defer obs.Time(ctx, "services.ResolveDistances:"+req.Destination.Name)(&err)
	log := obs.Logger(ctx).With(zap.String("destination", req.Destination.Name))

	prior := req.Prior
	if prior == nil {
		prior = domain.NewDistanceTable()
	}

	size := req.BatchSize
	if size <= 0 || size > ports.MaxMatrixOrigins {
		size = ports.MaxMatrixOrigins
	}

	n := len(req.Origins)
	// Ceiling division: the last chunk takes the remainder.
	stats.Chunks = (n + size - 1) / size

	out := domain.NewDistanceTable()
	// Every origin already served from Prior, sent to the provider, or
	// queued in the current chunk. Repeats are neither refetched nor
	// recounted, even when the first attempt came back unresolved.
	seen := make(map[domain.CoordKey]struct{}, n)
	for ci := 0; ci < stats.Chunks; ci++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		start := ci * size
		end := min(start+size, n)
		chunk := req.Origins[start:end]

		misses := make([]domain.Coordinates, 0, len(chunk))
		for _, c := range chunk {
			if _, ok := seen[c.Key()]; ok {
				continue
			}
			seen[c.Key()] = struct{}{}

			if m, ok := prior.Get(c); ok {
				out.Put(c, m)
				stats.Hits++
				continue
			}
			misses = append(misses, c)
		}

		log.Info("resolving chunk",
			zap.Int("chunk", ci+1),
			zap.Int("of", stats.Chunks),
			zap.Int("size", len(chunk)),
			zap.Int("misses", len(misses)),
		)

		if len(misses) == 0 {
			continue
		}

		results, err := provider.GetDistances(ctx, misses, req.Destination)
		stats.Calls++
		if err != nil {
			var ue *domain.UnresolvedError
			if !errors.As(err, &ue) {
				return nil, stats, fmt.Errorf(
					"resolve distances to %q: chunk %d/%d: %w",
					req.Destination.Name, ci+1, stats.Chunks, err,
				)
			}
			for key, status := range ue.Statuses {
				log.Warn("origin unresolved, will retry next run",
					zap.String("origin", string(key)),
					zap.String("status", status),
				)
			}
		}

		for _, c := range misses {
			m, ok := results[c.Key()]
			if !ok {
				stats.Unresolved++
				continue
			}
			out.Put(c, m)
			stats.Fetched++
		}

		if req.Checkpoint != nil {
			if err := req.Checkpoint(ctx, prior.Merge(out)); err != nil {
				return nil, stats, fmt.Errorf("resolve distances to %q: checkpoint chunk %d: %w", req.Destination.Name, ci+1, err)
			}
		}
	}

	log.Info("resolve complete",
		zap.Int("chunks", stats.Chunks),
		zap.Int("calls", stats.Calls),
		zap.Int("hits", stats.Hits),
		zap.Int("fetched", stats.Fetched),
		zap.Int("unresolved", stats.Unresolved),
	)

	// Hits are inserted ahead of the fetched rows of their chunk; restore
	// input order so saved tables do not depend on cache state.
	return out.Project(req.Origins), stats, nil
}
