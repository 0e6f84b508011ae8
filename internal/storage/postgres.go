// Package storage implements the report store against PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/jonesrussell/support-reports/internal/domain"
	"github.com/jonesrussell/support-reports/internal/logger"
	"github.com/jonesrussell/support-reports/internal/report"
)

// Store runs read-only aggregate and export queries against the
// support_queries table. It is safe for concurrent use.
type Store struct {
	db           *sql.DB
	log          logger.Logger
	queryTimeout time.Duration
}

// NewStore creates a Store using the given connection pool.
func NewStore(db *sql.DB, log logger.Logger, queryTimeout time.Duration) *Store {
	return &Store{
		db:           db,
		log:          log,
		queryTimeout: queryTimeout,
	}
}

// Ping verifies database connectivity. Used by the health endpoint.
func (s *Store) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// kpiSelect computes the headline figures in one pass. NULLIF keeps a zero
// total from dividing, and NULLIF on the resolution seconds keeps zero or
// absent durations out of the average entirely.
const kpiSelect = `
SELECT
  COUNT(*) AS total_queries,
  ROUND(100.0 * COUNT(*) FILTER (WHERE first_contact_resolution = 'Yes') / NULLIF(COUNT(*), 0), 1) AS fcr_pct,
  AVG(NULLIF(time_to_resolve_seconds, 0)) AS avg_resolve_seconds
FROM support_queries
`

// KPIs returns the KPI summary for one filter state.
func (s *Store) KPIs(ctx context.Context, f report.Filter) (domain.KPISummary, error) {
	where, args := report.WhereClause(f.Predicates())

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var (
		total int64
		fcr   sql.NullFloat64
		avg   sql.NullFloat64
	)
	row := s.db.QueryRowContext(ctx, kpiSelect+where, args...)
	if err := row.Scan(&total, &fcr, &avg); err != nil {
		return domain.KPISummary{}, fmt.Errorf("query kpis: %w", err)
	}

	kpis := domain.KPISummary{TotalQueries: total}
	if fcr.Valid {
		kpis.FCRPct = &fcr.Float64
	}
	if avg.Valid {
		formatted := domain.FormatHMS(int64(math.Round(avg.Float64)))
		kpis.AvgTimeToResolve = &formatted
	}

	return kpis, nil
}

const categorySelect = `
SELECT category, COUNT(*) AS total
FROM support_queries
`

// CategoryCounts returns per-category record counts, largest first.
func (s *Store) CategoryCounts(ctx context.Context, f report.Filter) ([]domain.CategoryCount, error) {
	where, args := report.WhereClause(f.Predicates())
	query := categorySelect + where + `
GROUP BY category
ORDER BY total DESC`

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []domain.CategoryCount
	for rows.Next() {
		var (
			category sql.NullString
			total    int64
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		counts = append(counts, domain.CategoryCount{
			Category: category.String,
			Total:    total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return counts, nil
}

const themeSelect = `
SELECT complaint_theme, COUNT(*) AS total
FROM support_queries
`

// ThemeCounts returns the top complaint themes among controllable records,
// largest first, capped at limit. The controllable constraint is appended to
// whatever filter predicates are active.
func (s *Store) ThemeCounts(ctx context.Context, f report.Filter, limit int) ([]domain.ThemeCount, error) {
	where, args := report.WhereClause(report.ControllableOnly(f.Predicates()))
	query := themeSelect + where + fmt.Sprintf(`
GROUP BY complaint_theme
ORDER BY total DESC
LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query themes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []domain.ThemeCount
	for rows.Next() {
		var (
			theme sql.NullString
			total int64
		)
		if err := rows.Scan(&theme, &total); err != nil {
			return nil, fmt.Errorf("scan theme row: %w", err)
		}
		counts = append(counts, domain.ThemeCount{
			Theme: theme.String,
			Total: total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate theme rows: %w", err)
	}

	return counts, nil
}

const trendSelect = `
SELECT to_char(query_date, 'YYYY-MM-DD') AS day, COUNT(*) AS total
FROM support_queries
`

// DailyTrend returns per-day record counts in chronological order.
func (s *Store) DailyTrend(ctx context.Context, f report.Filter) ([]domain.TrendPoint, error) {
	where, args := report.WhereClause(f.Predicates())
	query := trendSelect + where + `
GROUP BY day
ORDER BY day`

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []domain.TrendPoint
	for rows.Next() {
		var p domain.TrendPoint
		if err := rows.Scan(&p.Day, &p.Total); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}

	return points, nil
}

// productSelect deliberately carries no filter predicates: the product list
// populates the filter dropdown, so it always spans the whole record set.
const productSelect = `
SELECT DISTINCT product
FROM support_queries
WHERE product IS NOT NULL AND product <> ''
ORDER BY product`

// Products returns every distinct non-empty product, sorted lexicographically.
func (s *Store) Products(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, productSelect)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []string
	for rows.Next() {
		var product string
		if err := rows.Scan(&product); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

const rawSelect = `
SELECT query_date, id_number, client_name, call_id, product, query_type,
       ticket_id, reason_verbatim, reason_normalized, category, action_taken,
       first_contact_resolution, time_to_resolve_seconds, complaint_theme,
       mojo_notes, mojo_account, notes, in_period
FROM support_queries
`

// StreamRaw delivers up to limit filtered records through fn, one at a time,
// ordered by (query_date, client_name). Matches beyond the limit are silently
// truncated. An error returned by fn stops the stream and is returned as-is.
func (s *Store) StreamRaw(ctx context.Context, f report.Filter, limit int, fn func(domain.SupportRecord) error) error {
	where, args := report.WhereClause(f.Predicates())
	query := rawSelect + where + fmt.Sprintf(`
ORDER BY query_date, client_name
LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query raw records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r domain.SupportRecord
		if err := rows.Scan(
			&r.QueryDate, &r.IDNumber, &r.ClientName, &r.CallID, &r.Product,
			&r.QueryType, &r.TicketID, &r.ReasonVerbatim, &r.ReasonNormalized,
			&r.Category, &r.ActionTaken, &r.FirstContactResolution,
			&r.TimeToResolveSeconds, &r.ComplaintTheme, &r.MojoNotes,
			&r.MojoAccount, &r.Notes, &r.InPeriod,
		); err != nil {
			return fmt.Errorf("scan raw record: %w", err)
		}

		if err := fn(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate raw records: %w", err)
	}

	return nil
}
