package main

import (
	"context"
	"crossing-delta/internal/adapters/distance"
	"crossing-delta/internal/adapters/snapshot"
	"crossing-delta/internal/config"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/obs"
	"crossing-delta/internal/report"
	"crossing-delta/internal/services"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg   *config.Config
	plan  domain.RoutePlan
	store *snapshot.FileStore
	log   *zap.Logger
}

type appKey struct{}

// setup loads configuration and installs the logger and run id on the
// command context.
func setup(cmd *cobra.Command, _ []string) error {
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("addresses"); v != "" {
		cfg.AddressPath = v
	}
	if v, _ := cmd.Flags().GetString("routes"); v != "" {
		cfg.RoutesPath = v
	}
	if cmd.Flags().Changed("allow-partial") {
		cfg.AllowPartialDelta, _ = cmd.Flags().GetBool("allow-partial")
	}

	plan, err := config.LoadRoutePlan(cfg.RoutesPath)
	if err != nil {
		return err
	}

	log, err := obs.NewLogger(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if !dotenv {
		log.Debug("no .env file found, using environment variables")
	}

	ctx := obs.WithLogger(cmd.Context(), log)
	ctx, runID := obs.WithRunID(ctx)
	a := &app{cfg: cfg, plan: plan, store: snapshot.NewFileStore(cfg.DataDir), log: log.With(zap.String("run_id", runID))}
	cmd.SetContext(context.WithValue(ctx, appKey{}, a))
	return nil
}

func teardown(cmd *cobra.Command, _ []string) {
	if a := appFrom(cmd); a != nil {
		_ = a.log.Sync()
	}
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

// pipeline builds a pipeline backed by the routing service. Steps that only
// combine saved tables use offline instead and need no credential.
func (a *app) pipeline() (*services.Pipeline, error) {
	key, err := config.APIKey()
	if err != nil {
		return nil, err
	}

	provider, err := distance.NewGoogleMatrixProvider(key,
		distance.WithBaseURL(a.cfg.MatrixBaseURL),
		distance.WithMode(a.cfg.MatrixMode),
		distance.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTPTimeout}),
	)
	if err != nil {
		return nil, err
	}

	p, err := services.NewPipeline(a.store, snapshot.NewCSVAddressSource(a.cfg.AddressPath), provider, a.plan)
	if err != nil {
		return nil, err
	}
	p.AllowPartialDelta = a.cfg.AllowPartialDelta
	return p, nil
}

func (a *app) offline() *services.Pipeline {
	return &services.Pipeline{Store: a.store, Plan: a.plan, AllowPartialDelta: a.cfg.AllowPartialDelta}
}

func doRun(cmd *cobra.Command, _ []string) error {
	a := appFrom(cmd)
	p, err := a.pipeline()
	if err != nil {
		return err
	}

	delta, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	report.Render(cmd.OutOrStdout(), domain.DeltaTableName, delta, report.Options{Limit: limit})
	return nil
}

func doCollect(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	p, err := a.pipeline()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 0 {
		return p.Collect(ctx)
	}

	byName := make(map[string]domain.Destination)
	for _, d := range a.plan.Destinations() {
		byName[d.Name] = d
	}

	addrs, err := p.Addresses.ListAddresses(ctx)
	if err != nil {
		return err
	}
	for _, name := range args {
		dest, ok := byName[name]
		if !ok {
			return fmt.Errorf("collect: unknown destination %q", name)
		}
		stats, err := p.CollectDestination(ctx, dest, addrs)
		if err != nil {
			return err
		}
		a.log.Info("collected",
			zap.String("destination", name),
			zap.Int("calls", stats.Calls),
			zap.Int("fetched", stats.Fetched),
			zap.Int("unresolved", stats.Unresolved),
		)
	}
	return nil
}

func doAdjust(cmd *cobra.Command, _ []string) error {
	p, err := appFrom(cmd).pipeline()
	if err != nil {
		return err
	}
	return p.AdjustBaselines(cmd.Context())
}

func doShorter(cmd *cobra.Command, _ []string) error {
	_, err := appFrom(cmd).offline().CalculateShorter(cmd.Context())
	return err
}

func doDelta(cmd *cobra.Command, _ []string) error {
	a := appFrom(cmd)
	ctx := cmd.Context()

	shorter, err := a.store.Load(ctx, domain.ShorterTableName)
	if err != nil {
		return err
	}
	_, err = a.offline().CalculateDelta(ctx, shorter)
	return err
}

func doShow(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)

	t, err := a.store.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	style, _ := cmd.Flags().GetString("style")
	report.Render(cmd.OutOrStdout(), args[0], t, report.Options{Limit: limit, Style: style})
	return nil
}
