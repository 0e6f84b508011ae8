package export

import (
	"database/sql"

	"github.com/jonesrussell/support-reports/internal/domain"
)

// RawColumn binds one export column name to its record field selector.
// Selectors render absent values as empty strings, never a placeholder word.
type RawColumn struct {
	Name  string
	Value func(domain.SupportRecord) string
}

// RawColumns is the fixed 18-column projection of the raw export, in header
// order. The order is part of the export contract.
var RawColumns = []RawColumn{
	{"query_date", func(r domain.SupportRecord) string { return r.QueryDate.Format("2006-01-02") }},
	{"id_number", func(r domain.SupportRecord) string { return nullStr(r.IDNumber) }},
	{"client_name", func(r domain.SupportRecord) string { return nullStr(r.ClientName) }},
	{"call_id", func(r domain.SupportRecord) string { return nullStr(r.CallID) }},
	{"product", func(r domain.SupportRecord) string { return nullStr(r.Product) }},
	{"query_type", func(r domain.SupportRecord) string { return nullStr(r.QueryType) }},
	{"ticket_id", func(r domain.SupportRecord) string { return nullStr(r.TicketID) }},
	{"reason_verbatim", func(r domain.SupportRecord) string { return nullStr(r.ReasonVerbatim) }},
	{"reason_normalized", func(r domain.SupportRecord) string { return nullStr(r.ReasonNormalized) }},
	{"category", func(r domain.SupportRecord) string { return nullStr(r.Category) }},
	{"action_taken", func(r domain.SupportRecord) string { return nullStr(r.ActionTaken) }},
	{"first_contact_resolution", func(r domain.SupportRecord) string { return nullStr(r.FirstContactResolution) }},
	{"time_to_resolve", func(r domain.SupportRecord) string { return resolveTime(r.TimeToResolveSeconds) }},
	{"complaint_theme", func(r domain.SupportRecord) string { return nullStr(r.ComplaintTheme) }},
	{"mojo_notes", func(r domain.SupportRecord) string { return nullStr(r.MojoNotes) }},
	{"mojo_account", func(r domain.SupportRecord) string { return nullStr(r.MojoAccount) }},
	{"notes", func(r domain.SupportRecord) string { return nullStr(r.Notes) }},
	{"in_period", func(r domain.SupportRecord) string { return nullStr(r.InPeriod) }},
}

// RawHeader returns the raw export header in projection order.
func RawHeader() []string {
	header := make([]string, len(RawColumns))
	for i, col := range RawColumns {
		header[i] = col.Name
	}
	return header
}

// RawValues projects one record into its column values, in header order.
func RawValues(r domain.SupportRecord) []string {
	values := make([]string, len(RawColumns))
	for i, col := range RawColumns {
		values[i] = col.Value(r)
	}
	return values
}

func nullStr(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

// resolveTime renders a recorded duration as HH:MM:SS; an absent duration
// renders empty. A stored zero still prints 00:00:00 in the raw export, it
// is only the KPI average that treats zero as not recorded.
func resolveTime(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return domain.FormatHMS(v.Int64)
}
