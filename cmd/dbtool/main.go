package main

import (
	"context"
	"crossing-delta/internal/adapters/repositories"
	"crossing-delta/internal/adapters/snapshot"
	"crossing-delta/internal/config"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/db"
	"crossing-delta/internal/platform/obs"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// dbtool initializes the export schema and copies every snapshot table found
// in DATA_DIR into the database.
func main() {
	dotenv := config.LoadDotEnv()

	logger, err := obs.NewLogger(config.Get("APP_ENV", "production"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if !dotenv {
		logger.Info("No .env file found (using environment variables)")
	}

	driver := config.Get("DB_DRIVER", db.DriverSQLite)
	dsn := config.Get("DATABASE_URL", "")
	if dsn == "" {
		if driver != db.DriverSQLite {
			logger.Fatal("DATABASE_URL is required", zap.String("driver", driver))
		}
		dsn = "data/crossing.db"
	}

	conn, err := db.Open(driver, dsn)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	ctx, _ := obs.WithRunID(obs.WithLogger(context.Background(), logger))
	if err := initAndExport(ctx, conn, driver, config.Get("DATA_DIR", "data")); err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}
}

func initAndExport(ctx context.Context, conn *sql.DB, driver, dataDir string) error {
	log := obs.Logger(ctx)

	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info("Schema ready.")

	names, err := snapshotNames(dataDir)
	if err != nil {
		return err
	}

	files := snapshot.NewFileStore(dataDir)
	repo := repositories.NewSQLTableRepository(conn, driver)
	for _, name := range names {
		t, err := files.Load(ctx, name)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, name, t); err != nil {
			return err
		}
		log.Info("exported", zap.String("table", name), zap.Int("rows", t.Len()))
	}

	log.Info("Export complete.", zap.Int("tables", len(names)))
	return nil
}

// snapshotNames lists the pipeline tables present in dir. The address list
// is an input, not a distance table, and is skipped.
func snapshotNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || filepath.Ext(n) != ".csv" {
			continue
		}
		n = strings.TrimSuffix(n, ".csv")
		if isTableName(n) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isTableName(n string) bool {
	return n == domain.ShorterTableName ||
		n == domain.DeltaTableName ||
		strings.HasSuffix(n, domain.DataTableName("")) ||
		strings.HasSuffix(n, domain.AdjustedTableName(""))
}
