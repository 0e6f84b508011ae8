package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jonesrussell/support-reports/internal/domain"
	"github.com/jonesrussell/support-reports/internal/logger"
	"github.com/jonesrussell/support-reports/internal/report"
	"github.com/jonesrussell/support-reports/internal/storage"
)

const testQueryTimeout = 5 * time.Second

func newTestStore(t *testing.T) (*storage.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return storage.NewStore(db, logger.NewNop(), testQueryTimeout), mock
}

func testDate(t *testing.T, value string) time.Time {
	t.Helper()

	d, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

func rangeFilter(t *testing.T, start, end string) report.Filter {
	t.Helper()

	s := testDate(t, start)
	e := testDate(t, end)
	return report.Filter{Start: &s, End: &e}
}

func TestKPIs_FullRow(t *testing.T) {
	store, mock := newTestStore(t)
	f := rangeFilter(t, "2024-01-01", "2024-01-02")

	mock.ExpectQuery(regexp.QuoteMeta("ROUND(100.0")).
		WithArgs(*f.Start, *f.End).
		WillReturnRows(sqlmock.NewRows([]string{"total_queries", "fcr_pct", "avg_resolve_seconds"}).
			AddRow(2, 50.0, 125.4))

	kpis, err := store.KPIs(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if kpis.TotalQueries != 2 {
		t.Errorf("total: got %d, want 2", kpis.TotalQueries)
	}
	if kpis.FCRPct == nil || *kpis.FCRPct != 50.0 {
		t.Errorf("fcr: got %v, want 50.0", kpis.FCRPct)
	}
	if kpis.AvgTimeToResolve == nil || *kpis.AvgTimeToResolve != "00:02:05" {
		t.Errorf("avg: got %v, want 00:02:05", kpis.AvgTimeToResolve)
	}
}

func TestKPIs_EmptyResultSet(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("ROUND(100.0")).
		WillReturnRows(sqlmock.NewRows([]string{"total_queries", "fcr_pct", "avg_resolve_seconds"}).
			AddRow(0, nil, nil))

	kpis, err := store.KPIs(context.Background(), report.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if kpis.TotalQueries != 0 {
		t.Errorf("total: got %d, want 0", kpis.TotalQueries)
	}
	if kpis.FCRPct != nil {
		t.Errorf("fcr: got %v, want undefined", *kpis.FCRPct)
	}
	if kpis.AvgTimeToResolve != nil {
		t.Errorf("avg: got %v, want undefined", *kpis.AvgTimeToResolve)
	}
}

func TestKPIs_QueryError(t *testing.T) {
	store, mock := newTestStore(t)
	dbErr := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta("ROUND(100.0")).WillReturnError(dbErr)

	_, err := store.KPIs(context.Background(), report.Filter{})
	if !errors.Is(err, dbErr) {
		t.Fatalf("got %v, want wrapped driver error", err)
	}
}

func TestCategoryCounts_OrderedDescending(t *testing.T) {
	store, mock := newTestStore(t)
	f := report.Filter{Product: "Broadband"}

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY category")).
		WithArgs("Broadband").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total"}).
			AddRow("Controllable", 30).
			AddRow("Billing", 12).
			AddRow(nil, 2))

	counts, err := store.CategoryCounts(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(counts) != 3 {
		t.Fatalf("rows: got %d, want 3", len(counts))
	}
	if counts[0].Category != "Controllable" || counts[0].Total != 30 {
		t.Errorf("first row: got %+v", counts[0])
	}
	if counts[2].Category != "" {
		t.Errorf("null category: got %q, want empty string", counts[2].Category)
	}
}

func TestThemeCounts_AppendsControllableAndLimit(t *testing.T) {
	store, mock := newTestStore(t)
	f := report.Filter{Product: "Broadband"}

	// Predicate order: product, then the fixed category constraint, then
	// the limit parameter.
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY complaint_theme")).
		WithArgs("Broadband", "Controllable", 10).
		WillReturnRows(sqlmock.NewRows([]string{"complaint_theme", "total"}).
			AddRow("Network stability", 9).
			AddRow("Billing dispute", 4))

	counts, err := store.ThemeCounts(context.Background(), f, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(counts) != 2 {
		t.Fatalf("rows: got %d, want 2", len(counts))
	}
	if counts[0].Theme != "Network stability" || counts[0].Total != 9 {
		t.Errorf("first row: got %+v", counts[0])
	}
}

func TestThemeCounts_NoUserFilters(t *testing.T) {
	store, mock := newTestStore(t)

	// Even with zero user filters the category constraint must be present.
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY complaint_theme")).
		WithArgs("Controllable", 1000).
		WillReturnRows(sqlmock.NewRows([]string{"complaint_theme", "total"}))

	if _, err := store.ThemeCounts(context.Background(), report.Filter{}, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDailyTrend_Chronological(t *testing.T) {
	store, mock := newTestStore(t)
	f := rangeFilter(t, "2024-01-01", "2024-01-02")

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY day")).
		WithArgs(*f.Start, *f.End).
		WillReturnRows(sqlmock.NewRows([]string{"day", "total"}).
			AddRow("2024-01-01", 1).
			AddRow("2024-01-02", 1))

	points, err := store.DailyTrend(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("rows: got %d, want 2", len(points))
	}
	if points[0].Day != "2024-01-01" || points[1].Day != "2024-01-02" {
		t.Errorf("order: got %+v", points)
	}
}

func TestProducts_IgnoresFilters(t *testing.T) {
	store, mock := newTestStore(t)

	// The product query carries no bind parameters regardless of any
	// active filter state.
	mock.ExpectQuery(regexp.QuoteMeta("DISTINCT product")).
		WillReturnRows(sqlmock.NewRows([]string{"product"}).
			AddRow("Broadband").
			AddRow("Mobile"))

	products, err := store.Products(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(products) != 2 || products[0] != "Broadband" || products[1] != "Mobile" {
		t.Errorf("products: got %v", products)
	}
}

func rawRow(rows *sqlmock.Rows, date time.Time, client string) *sqlmock.Rows {
	return rows.AddRow(
		date, "ID-1", client, "C-1", "Broadband", "Complaint",
		"T-1", "verbatim", "normalized", "Controllable", "reset",
		"Yes", 120, "Network stability", nil, nil, nil, "Yes",
	)
}

func rawColumns() []string {
	return []string{
		"query_date", "id_number", "client_name", "call_id", "product",
		"query_type", "ticket_id", "reason_verbatim", "reason_normalized",
		"category", "action_taken", "first_contact_resolution",
		"time_to_resolve_seconds", "complaint_theme", "mojo_notes",
		"mojo_account", "notes", "in_period",
	}
}

func TestStreamRaw_DeliversRecordsInOrder(t *testing.T) {
	store, mock := newTestStore(t)
	f := rangeFilter(t, "2024-01-01", "2024-01-31")

	rows := sqlmock.NewRows(rawColumns())
	rawRow(rows, testDate(t, "2024-01-01"), "Acme Ltd")
	rawRow(rows, testDate(t, "2024-01-02"), "Beta Corp")

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY query_date, client_name")).
		WithArgs(*f.Start, *f.End, 50000).
		WillReturnRows(rows)

	var got []domain.SupportRecord
	err := store.StreamRaw(context.Background(), f, 50000, func(r domain.SupportRecord) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("records: got %d, want 2", len(got))
	}
	if got[0].ClientName.String != "Acme Ltd" || got[1].ClientName.String != "Beta Corp" {
		t.Errorf("order: got %q then %q", got[0].ClientName.String, got[1].ClientName.String)
	}
	if got[0].MojoNotes.Valid {
		t.Errorf("null column scanned as valid: %+v", got[0].MojoNotes)
	}
}

func TestStreamRaw_CallbackErrorStopsStream(t *testing.T) {
	store, mock := newTestStore(t)

	rows := sqlmock.NewRows(rawColumns())
	rawRow(rows, testDate(t, "2024-01-01"), "Acme Ltd")
	rawRow(rows, testDate(t, "2024-01-02"), "Beta Corp")

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY query_date, client_name")).
		WillReturnRows(rows)

	stopErr := errors.New("consumer gone")
	calls := 0
	err := store.StreamRaw(context.Background(), report.Filter{}, 50000, func(domain.SupportRecord) error {
		calls++
		return stopErr
	})

	if !errors.Is(err, stopErr) {
		t.Fatalf("got %v, want callback error returned as-is", err)
	}
	if calls != 1 {
		t.Errorf("callback calls: got %d, want 1", calls)
	}
}

func TestStreamRaw_NullableScan(t *testing.T) {
	store, mock := newTestStore(t)

	rows := sqlmock.NewRows(rawColumns()).AddRow(
		testDate(t, "2024-01-01"), nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil, nil, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY query_date, client_name")).
		WillReturnRows(rows)

	var rec domain.SupportRecord
	err := store.StreamRaw(context.Background(), report.Filter{}, 10, func(r domain.SupportRecord) error {
		rec = r
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.TimeToResolveSeconds.Valid {
		t.Errorf("absent duration scanned as valid")
	}
	if rec.ClientName.Valid {
		t.Errorf("absent client name scanned as valid")
	}
}

var _ report.Store = (*storage.Store)(nil)
