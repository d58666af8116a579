package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"go.uber.org/zap"
)

const viewName = "observations"

type DuckDBDataSource struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	path    string
	columns map[string]string
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// The path parameter specifies the DuckDB database file location (":memory:" or "" for in-memory).
// This is distinct from Initialize() which loads the observation file into the database.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:      db,
		logger:  logger,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		path:    "",
		columns: nil,
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	// First drop the view if it exists
	_, err := d.db.Exec(fmt.Sprintf(`DROP VIEW IF EXISTS %s;`, viewName))
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// Create a view from the file - using raw SQL as Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT * FROM %s;
	`, viewName, readerFor(path))

	_, err = d.db.Exec(query)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read observations from %s", path)
	}

	sourceColumns, err := d.describe()
	if err != nil {
		return err
	}

	columns, missing := resolveColumns(sourceColumns)
	if len(missing) > 0 {
		return errors.NewMissingColumnError(path, missing)
	}

	d.path = path
	d.columns = columns

	d.logger.Debug("Resolved observation columns",
		zap.String("path", path),
		zap.Any("columns", columns),
	)

	return nil
}

// ReadAll implements DataSource. Rows come back sorted by instrument then date, so the file's own
// row order is not kept and out-of-order dates in a file are repaired rather than rejected.
// Duplicate dates survive the sort and are rejected by the pipeline.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) (types.ObservationTable, error) {
	if d.columns == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized")
	}

	d.logger.Debug("Reading observations from DuckDB",
		zap.String("path", d.path),
		zap.Bool("start", start.IsSome()),
		zap.Bool("end", end.IsSome()),
	)

	builder := d.sq.
		Select(
			d.dateExpr()+" AS "+ColumnDate,
			d.castExpr(ColumnInstrumentID, "VARCHAR")+" AS "+ColumnInstrumentID,
			d.castExpr(ColumnPriceBid, "DOUBLE")+" AS "+ColumnPriceBid,
			d.castExpr(ColumnPriceAsk, "DOUBLE")+" AS "+ColumnPriceAsk,
			d.castExpr(ColumnNavBid, "DOUBLE")+" AS "+ColumnNavBid,
			d.castExpr(ColumnNavAsk, "DOUBLE")+" AS "+ColumnNavAsk,
			d.castExpr(ColumnVolume, "DOUBLE")+" AS "+ColumnVolume,
		).
		From(viewName)

	query, args, err := d.withTimeBounds(builder, start, end).
		OrderBy(ColumnInstrumentID+" ASC", ColumnDate+" ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	// Use a prepared statement for better performance
	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", err)
	}
	defer rows.Close()

	table := make(types.ObservationTable, 0)

	for rows.Next() {
		var (
			date         sql.NullTime
			instrumentID sql.NullString
			priceBid     sql.NullFloat64
			priceAsk     sql.NullFloat64
			navBid       sql.NullFloat64
			navAsk       sql.NullFloat64
			volume       sql.NullFloat64
		)

		if err := rows.Scan(&date, &instrumentID, &priceBid, &priceAsk, &navBid, &navAsk, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		if !date.Valid {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "observation %d of %s has no date", len(table), d.path)
		}

		table = append(table, types.Observation{
			Date:         date.Time,
			InstrumentID: instrumentID.String,
			PriceBid:     fromNullFloat(priceBid),
			PriceAsk:     fromNullFloat(priceAsk),
			NavBid:       fromNullFloat(navBid),
			NavAsk:       fromNullFloat(navAsk),
			Volume:       fromNullFloat(volume),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	d.logger.Debug("Read observations", zap.Int("rows", len(table)))

	return table, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

// describe lists the column names of the observations view.
func (d *DuckDBDataSource) describe() ([]string, error) {
	rows, err := d.db.Query(fmt.Sprintf(`SELECT column_name FROM (DESCRIBE %s)`, viewName))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe observations", err)
	}
	defer rows.Close()

	columns := make([]string, 0)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column name", err)
		}

		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating columns", err)
	}

	return columns, nil
}

func (d *DuckDBDataSource) castExpr(column string, sqlType string) string {
	return fmt.Sprintf(`CAST(%s AS %s)`, quoteIdentifier(d.columns[column]), sqlType)
}

func (d *DuckDBDataSource) dateExpr() string {
	return d.castExpr(ColumnDate, "TIMESTAMP")
}

func (d *DuckDBDataSource) withTimeBounds(builder squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{d.dateExpr(): start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{d.dateExpr(): end.Unwrap()})
	}

	return builder
}

// resolveColumns matches source columns to canonical names case-insensitively.
// It returns the canonical -> source mapping and the canonical names that could not be found.
func resolveColumns(sourceColumns []string) (map[string]string, []string) {
	resolved := make(map[string]string)

	for _, source := range sourceColumns {
		name := strings.ToLower(strings.TrimSpace(source))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}

		// an exact canonical name wins over an alias
		if existing, ok := resolved[name]; ok && strings.EqualFold(existing, name) {
			continue
		}

		resolved[name] = source
	}

	columns := make(map[string]string, len(RequiredColumns))
	missing := make([]string, 0)

	for _, required := range RequiredColumns {
		source, ok := resolved[required]
		if !ok {
			missing = append(missing, required)

			continue
		}

		columns[required] = source
	}

	return columns, missing
}

// readerFor returns the DuckDB table function reading path, chosen by extension.
func readerFor(path string) string {
	escaped := strings.ReplaceAll(path, "'", "''")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return fmt.Sprintf(`read_csv_auto('%s', header=true)`, escaped)
	default:
		return fmt.Sprintf(`read_parquet('%s')`, escaped)
	}
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// fromNullFloat maps NULL, NaN and infinite cells to None.
func fromNullFloat(value sql.NullFloat64) optional.Option[float64] {
	if !value.Valid {
		return optional.None[float64]()
	}

	return types.Finite(optional.Some(value.Float64))
}
