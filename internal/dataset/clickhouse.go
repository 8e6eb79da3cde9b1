package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/o3as/ensemble-service/internal/domain"
)

// ClickHouseOptions configures the warehouse-backed dataset source.
type ClickHouseOptions struct {
	Addr     []string
	Database string
	Username string
	Password string
}

// OpenClickHouse connects and pings the server.
func OpenClickHouse(ctx context.Context, opts ClickHouseOptions) (driver.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: opts.Addr,
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 300,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return conn, nil
}

// Querier is the subset of driver.Conn used to read datasets.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// LoadClickHouse reads all rows of variable from table, which has the columns
// model, variable, time, lat and value.
func LoadClickHouse(ctx context.Context, q Querier, table, variable string, logger *slog.Logger) (*Store, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", table)
	}

	query := fmt.Sprintf("SELECT model, time, lat, value FROM %s WHERE variable = ? ORDER BY model, time, lat", table)
	rows, err := q.Query(ctx, query, variable)
	if err != nil {
		return nil, fmt.Errorf("clickhouse query: %w", err)
	}
	defer rows.Close()

	builders := make(map[string]*gridBuilder)
	var n int
	for rows.Next() {
		var (
			model string
			rec   Record
		)
		if err := rows.Scan(&model, &rec.Time, &rec.Lat, &rec.Value); err != nil {
			return nil, fmt.Errorf("clickhouse scan: %w", err)
		}
		b, ok := builders[model]
		if !ok {
			b = newGridBuilder()
			builders[model] = b
		}
		b.add(rec)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clickhouse rows: %w", err)
	}

	models := make(map[string]*domain.ModelData, len(builders))
	for name, b := range builders {
		models[name] = b.build()
	}
	logger.Info("dataset loaded", "table", table, "variable", variable, "models", len(models), "rows", n)
	return NewStore(models), nil
}
