package repositories

import (
	"context"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/db"
	"crossing-delta/internal/platform/obs"
	"crossing-delta/internal/ports"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SQLTableRepository stores whole distance tables in the distance_tables
// table, one row per coordinate. It satisfies ports.TableStore.
type SQLTableRepository struct {
	DB     *sql.DB
	Driver string
}

var _ ports.TableStore = (*SQLTableRepository)(nil)

func NewSQLTableRepository(conn *sql.DB, driver string) *SQLTableRepository {
	return &SQLTableRepository{DB: conn, Driver: driver}
}

// Load returns the named table in saved order. An unknown name yields an
// empty table.
func (r *SQLTableRepository) Load(ctx context.Context, name string) (_ *domain.DistanceTable, err error) {
	defer obs.Time(ctx, "sql.Load:"+name)(&err)

	if r.DB == nil {
		return nil, errors.New("table repository: db is nil")
	}

	rows, err := r.DB.QueryContext(ctx, r.rebind(`
	SELECT lat, lon, distance_meters, duration_seconds
	FROM distance_tables
	WHERE table_name = ?
	ORDER BY position;
	`), name)
	if err != nil {
		return nil, fmt.Errorf("load table %q: query distance_tables: %w", name, err)
	}
	defer rows.Close()

	out := domain.NewDistanceTable()
	for rows.Next() {
		var lat, lon float64
		var m domain.TravelMeasurement
		if err := rows.Scan(&lat, &lon, &m.DistanceMeters, &m.DurationSeconds); err != nil {
			return nil, fmt.Errorf("load table %q: scan rows: %w", name, err)
		}
		c, err := domain.NewCoordinates(lat, lon)
		if err != nil {
			return nil, fmt.Errorf("load table %q: %w", name, err)
		}
		out.Put(c, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load table %q: row iteration: %w", name, err)
	}

	return out, nil
}

// Save replaces the named table with t in a single transaction.
func (r *SQLTableRepository) Save(ctx context.Context, name string, t *domain.DistanceTable) (err error) {
	defer obs.Time(ctx, "sql.Save:"+name)(&err)

	if r.DB == nil {
		return errors.New("table repository: db is nil")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("save table: name must not be empty")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save table %q: db begin: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM distance_tables WHERE table_name = ?;`), name); err != nil {
		return fmt.Errorf("save table %q: clear rows: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, r.rebind(`
	INSERT INTO distance_tables (table_name, coord_key, position, lat, lon, distance_meters, duration_seconds)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save table %q: db prepare: %w", name, err)
	}
	defer stmt.Close()

	for i, row := range t.Rows() {
		c := row.Coordinates
		m := row.Measurement
		if _, err := stmt.ExecContext(ctx, name, string(c.Key()), i, c.Lat, c.Lon, m.DistanceMeters, m.DurationSeconds); err != nil {
			return fmt.Errorf("save table %q coord=%s: %w", name, c, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save table %q commit: %w", name, err)
	}

	return nil
}

// Names lists the stored table names in lexical order.
func (r *SQLTableRepository) Names(ctx context.Context) ([]string, error) {
	if r.DB == nil {
		return nil, errors.New("table repository: db is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT table_name FROM distance_tables ORDER BY table_name;`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("list tables: scan rows: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// rebind converts ? placeholders to $n for postgres.
func (r *SQLTableRepository) rebind(q string) string {
	if r.Driver != db.DriverPostgres {
		return q
	}

	var b strings.Builder
	n := 0
	for _, ch := range q {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
