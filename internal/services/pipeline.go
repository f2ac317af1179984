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

// Pipeline computes the added travel cost of a closure.
//
// Each step reads its inputs from Store and persists its output there before
// returning, so any step can be rerun on its own and a crash leaves the
// tables of all completed steps behind.
type Pipeline struct {
	Store     ports.TableStore
	Addresses ports.AddressSource
	Provider  ports.DistanceMatrixProvider
	Plan      domain.RoutePlan
	// AllowPartialDelta computes the delta over the coordinates shared by
	// the rerouted and direct tables instead of failing on a mismatch.
	AllowPartialDelta bool
}

func NewPipeline(
	store ports.TableStore,
	addresses ports.AddressSource,
	provider ports.DistanceMatrixProvider,
	plan domain.RoutePlan,
) (*Pipeline, error) {
	if store == nil || addresses == nil || provider == nil {
		return nil, errors.New("new pipeline: store, addresses and provider are required")
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}

	return &Pipeline{Store: store, Addresses: addresses, Provider: provider, Plan: plan}, nil
}

// Run executes Collect, AdjustBaselines, CalculateShorter and CalculateDelta
// in order and returns the delta table.
func (p *Pipeline) Run(ctx context.Context) (_ *domain.DistanceTable, err error) {
	defer obs.Time(ctx, "pipeline.Run")(&err)

	if err := p.Collect(ctx); err != nil {
		return nil, err
	}
	if err := p.AdjustBaselines(ctx); err != nil {
		return nil, err
	}

	shorter, err := p.CalculateShorter(ctx)
	if err != nil {
		return nil, err
	}

	return p.CalculateDelta(ctx, shorter)
}

// Collect resolves every address toward every destination, reusing the
// destination's saved table as the cache.
func (p *Pipeline) Collect(ctx context.Context) error {
	addrs, err := p.Addresses.ListAddresses(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	for _, dest := range p.Plan.Destinations() {
		if _, err := p.CollectDestination(ctx, dest, addrs); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) CollectDestination(
	ctx context.Context,
	dest domain.Destination,
	addrs []domain.Coordinates,
) (ResolveStats, error) {
	name := domain.DataTableName(dest.Name)

	prior, err := p.Store.Load(ctx, name)
	if err != nil {
		return ResolveStats{}, fmt.Errorf("collect %q: load prior: %w", dest.Name, err)
	}

	table, stats, err := ResolveDistances(ctx, ResolveRequest{
		Origins:     addrs,
		Destination: dest,
		Prior:       prior,
		Checkpoint: func(ctx context.Context, t *domain.DistanceTable) error {
			return p.Store.Save(ctx, name, t)
		},
	}, p.Provider)
	if err != nil {
		return stats, fmt.Errorf("collect %q: %w", dest.Name, err)
	}

	if err := p.Store.Save(ctx, name, table); err != nil {
		return stats, fmt.Errorf("collect %q: save: %w", dest.Name, err)
	}

	return stats, nil
}

// AdjustBaselines adds the alternate-to-goal leg to every row of each
// alternate's table.
func (p *Pipeline) AdjustBaselines(ctx context.Context) error {
	log := obs.Logger(ctx)

	for _, alt := range p.Plan.Alternates {
		baseline, err := p.Provider.GetDistance(ctx, alt.Coordinates, p.Plan.Goal)
		if err != nil {
			return fmt.Errorf("adjust %q: baseline to %q: %w", alt.Name, p.Plan.Goal.Name, err)
		}

		log.Info("baseline",
			zap.String("via", alt.Name),
			zap.String("goal", p.Plan.Goal.Name),
			zap.Int("distance_m", baseline.DistanceMeters),
			zap.Int("duration_s", baseline.DurationSeconds),
		)

		data, err := p.Store.Load(ctx, domain.DataTableName(alt.Name))
		if err != nil {
			return fmt.Errorf("adjust %q: load: %w", alt.Name, err)
		}

		if err := p.Store.Save(ctx, domain.AdjustedTableName(alt.Name), data.Adjust(baseline)); err != nil {
			return fmt.Errorf("adjust %q: save: %w", alt.Name, err)
		}
	}

	return nil
}

// CalculateShorter keeps, per address, the cheaper of the adjusted
// alternate routes.
func (p *Pipeline) CalculateShorter(ctx context.Context) (*domain.DistanceTable, error) {
	if len(p.Plan.Alternates) == 0 {
		return nil, errors.New("calculate shorter: no alternate destinations")
	}

	var shorter *domain.DistanceTable
	for _, alt := range p.Plan.Alternates {
		adjusted, err := p.Store.Load(ctx, domain.AdjustedTableName(alt.Name))
		if err != nil {
			return nil, fmt.Errorf("calculate shorter: load %q: %w", alt.Name, err)
		}

		if shorter == nil {
			shorter = adjusted
			continue
		}
		shorter = shorter.Min(adjusted)
	}

	if err := p.Store.Save(ctx, domain.ShorterTableName, shorter); err != nil {
		return nil, fmt.Errorf("calculate shorter: save: %w", err)
	}

	return shorter, nil
}

// CalculateDelta subtracts the direct-route table of the goal from the
// rerouted table, giving the added cost per address.
func (p *Pipeline) CalculateDelta(ctx context.Context, rerouted *domain.DistanceTable) (*domain.DistanceTable, error) {
	original, err := p.Store.Load(ctx, domain.DataTableName(p.Plan.Goal.Name))
	if err != nil {
		return nil, fmt.Errorf("calculate delta: load %q: %w", p.Plan.Goal.Name, err)
	}

	var delta *domain.DistanceTable
	if p.AllowPartialDelta {
		var mismatch *domain.KeyMismatchError
		delta, mismatch = rerouted.SubtractMatching(original)
		if mismatch != nil {
			obs.Logger(ctx).Warn("delta computed over shared coordinates only",
				zap.Int("only_rerouted", len(mismatch.OnlyLeft)),
				zap.Int("only_direct", len(mismatch.OnlyRight)),
			)
		}
	} else {
		delta, err = rerouted.Subtract(original)
		if err != nil {
			return nil, fmt.Errorf("calculate delta: %w", err)
		}
	}

	if err := p.Store.Save(ctx, domain.DeltaTableName, delta); err != nil {
		return nil, fmt.Errorf("calculate delta: save: %w", err)
	}

	return delta, nil
}
