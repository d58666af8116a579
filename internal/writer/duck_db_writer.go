package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DuckDBFeatureWriter stages feature rows in an in-memory DuckDB table and exports them with COPY.
type DuckDBFeatureWriter struct {
	db               *sql.DB
	logger           *logger.Logger
	sq               squirrel.StatementBuilderType
	decimalPrecision int
	rowIndex         int
}

// NewFeatureWriter creates a writer rounding numeric values to decimalPrecision places.
func NewFeatureWriter(decimalPrecision int, logger *logger.Logger) (FeatureWriter, error) {
	// Create an in-memory DuckDB database
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, "failed to open database", err)
	}

	// Test connection to ensure database is properly initialized
	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeWriteFailed, "failed to connect to database", err)
	}

	w := &DuckDBFeatureWriter{
		db:               db,
		logger:           logger,
		sq:               squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		decimalPrecision: decimalPrecision,
		rowIndex:         0,
	}

	if err := w.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return w, nil
}

func (w *DuckDBFeatureWriter) initialize() error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS features (
			row_index BIGINT,
			id TEXT,
			date TIMESTAMP,
			instrument_id TEXT,
			price_bid DOUBLE,
			price_ask DOUBLE,
			nav_bid DOUBLE,
			nav_ask DOUBLE,
			volume DOUBLE,
			mid_price DOUBLE,
			mid_nav DOUBLE,
			sma10 DOUBLE,
			sma30 DOUBLE,
			ema12 DOUBLE,
			ema26 DOUBLE,
			rsi DOUBLE,
			bband_high DOUBLE,
			bband_low DOUBLE,
			vwap DOUBLE,
			roc DOUBLE,
			nav_price_spread DOUBLE,
			nav_price_spread_percent DOUBLE,
			nav_price_spread_ma10 DOUBLE,
			trade_signal TEXT,
			signal_strength DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create features table", err)
	}

	return nil
}

// Write implements FeatureWriter.
func (w *DuckDBFeatureWriter) Write(table types.FeatureTable) error {
	if len(table) == 0 {
		return nil
	}

	columns := append([]string{"row_index"}, OutputColumns...)

	// squirrel renders the statement once; the prepared statement takes the real values
	query, _, err := w.sq.Insert("features").
		Columns(columns...).
		Values(make([]any, len(columns))...).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build insert", err)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for i, row := range table {
		if _, err := stmt.Exec(w.values(w.rowIndex+i, row)...); err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to insert row %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit features", err)
	}

	w.rowIndex += len(table)

	w.logger.Debug("Staged feature rows", zap.Int("rows", len(table)), zap.Int("total", w.rowIndex))

	return nil
}

// Count implements FeatureWriter.
func (w *DuckDBFeatureWriter) Count() (int, error) {
	var count int

	err := w.sq.Select("COUNT(*)").From("features").RunWith(w.db).QueryRow().Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count features", err)
	}

	return count, nil
}

// Export implements FeatureWriter.
func (w *DuckDBFeatureWriter) Export(path string) error {
	format, err := exportFormat(path)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create directory %s", dir)
		}
	}

	selectQuery, _, err := w.sq.Select(OutputColumns...).From("features").OrderBy("row_index ASC").ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build export query", err)
	}

	_, err = w.db.Exec(fmt.Sprintf(`COPY (%s) TO '%s' (%s)`, selectQuery, strings.ReplaceAll(path, "'", "''"), format))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to export features to %s", path)
	}

	w.logger.Info("Successfully exported features",
		zap.String("path", path),
		zap.Int("rows", w.rowIndex),
	)

	return nil
}

// Close implements FeatureWriter.
func (w *DuckDBFeatureWriter) Close() error {
	return w.db.Close()
}

func (w *DuckDBFeatureWriter) values(rowIndex int, row types.FeatureRow) []any {
	values := []any{
		rowIndex,
		uuid.New().String(),
		row.Date,
		row.InstrumentID,
		w.round(row.PriceBid),
		w.round(row.PriceAsk),
		w.round(row.NavBid),
		w.round(row.NavAsk),
		w.round(row.Volume),
	}

	for _, column := range types.FeatureColumns {
		if column == types.ColumnSignalStrength {
			continue
		}

		values = append(values, w.round(row.Value(column)))
	}

	return append(values, row.TradeSignal.String(), w.round(row.SignalStrength))
}

// round returns nil for an undefined or non-finite value so it is stored as NULL.
func (w *DuckDBFeatureWriter) round(value optional.Option[float64]) any {
	value = types.Finite(value)
	if value.IsNone() {
		return nil
	}

	rounded, _ := decimal.NewFromFloat(value.Unwrap()).Round(int32(w.decimalPrecision)).Float64()

	return rounded
}

// exportFormat returns the COPY options for the file extension of path.
func exportFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "FORMAT PARQUET", nil
	case ".csv":
		return "FORMAT CSV, HEADER", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported output format %q, expected .parquet or .csv", filepath.Ext(path))
	}
}
