package charts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
)

type SQLChartStore struct {
	db *sqlx.DB
}

func NewSQLChartStore(db *sqlx.DB) *SQLChartStore {
	return &SQLChartStore{db: db}
}

var _ ChartStore = &SQLChartStore{}

type chartRow struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	ConfigJSON string `db:"config_json"`
	CreatedAt  int64  `db:"created_at"`
}

func (r chartRow) toSavedChart() SavedChart {
	return SavedChart{
		ID:         strconv.FormatInt(r.ID, 10),
		Name:       r.Name,
		ConfigJSON: r.ConfigJSON,
		CreatedAt:  time.Unix(r.CreatedAt, 0).UTC(),
	}
}

func (s *SQLChartStore) idColumn() string {
	switch sqlx.BindType(s.db.DriverName()) {
	case sqlx.DOLLAR:
		return "id BIGSERIAL PRIMARY KEY"
	case sqlx.QUESTION:
		if s.db.DriverName() == "mysql" {
			return "id BIGINT AUTO_INCREMENT PRIMARY KEY"
		}
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (s *SQLChartStore) Init(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS chartdash_charts (
			%s,
			name VARCHAR(255) NOT NULL,
			config_json TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`, s.idColumn())
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create chartdash_charts table: %w", err)
	}
	return nil
}

func (s *SQLChartStore) Save(ctx context.Context, name string, configJSON string) (SavedChart, error) {
	row := chartRow{Name: name, ConfigJSON: configJSON, CreatedAt: time.Now().Unix()}

	if sqlx.BindType(s.db.DriverName()) == sqlx.DOLLAR {
		q := s.db.Rebind("INSERT INTO chartdash_charts (name, config_json, created_at) VALUES (?, ?, ?) RETURNING id")
		if err := s.db.QueryRowxContext(ctx, q, row.Name, row.ConfigJSON, row.CreatedAt).Scan(&row.ID); err != nil {
			return SavedChart{}, fmt.Errorf("inserting chart: %w", err)
		}
		return row.toSavedChart(), nil
	}

	q := s.db.Rebind("INSERT INTO chartdash_charts (name, config_json, created_at) VALUES (?, ?, ?)")
	res, err := s.db.ExecContext(ctx, q, row.Name, row.ConfigJSON, row.CreatedAt)
	if err != nil {
		return SavedChart{}, fmt.Errorf("inserting chart: %w", err)
	}
	row.ID, err = res.LastInsertId()
	if err != nil {
		return SavedChart{}, fmt.Errorf("reading inserted chart id: %w", err)
	}
	return row.toSavedChart(), nil
}

func (s *SQLChartStore) Get(ctx context.Context, id string) (SavedChart, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return SavedChart{}, ErrChartNotFound
	}
	var row chartRow
	q := s.db.Rebind("SELECT id, name, config_json, created_at FROM chartdash_charts WHERE id = ?")
	if err := s.db.GetContext(ctx, &row, q, n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedChart{}, ErrChartNotFound
		}
		return SavedChart{}, fmt.Errorf("loading chart %d: %w", n, err)
	}
	return row.toSavedChart(), nil
}

func (s *SQLChartStore) List(ctx context.Context) ([]SavedChart, error) {
	var rows []chartRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT id, name, config_json, created_at FROM chartdash_charts ORDER BY id"); err != nil {
		return nil, fmt.Errorf("listing charts: %w", err)
	}
	out := make([]SavedChart, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toSavedChart())
	}
	return out, nil
}
