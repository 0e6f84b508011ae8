// Package domain defines the support-interaction record and the aggregate
// result shapes computed over it.
package domain

import (
	"database/sql"
	"fmt"
	"time"
)

// SupportRecord is one logged support interaction as stored in the
// support_queries table. Records are immutable; this service only reads them.
type SupportRecord struct {
	QueryDate              time.Time
	IDNumber               sql.NullString
	ClientName             sql.NullString
	CallID                 sql.NullString
	Product                sql.NullString
	QueryType              sql.NullString
	TicketID               sql.NullString
	ReasonVerbatim         sql.NullString
	ReasonNormalized       sql.NullString
	Category               sql.NullString
	ActionTaken            sql.NullString
	FirstContactResolution sql.NullString
	TimeToResolveSeconds   sql.NullInt64
	ComplaintTheme         sql.NullString
	MojoNotes              sql.NullString
	MojoAccount            sql.NullString
	Notes                  sql.NullString
	InPeriod               sql.NullString
}

// CategoryControllable is the category label whose records carry the
// complaint themes tracked by the theme aggregation.
const CategoryControllable = "Controllable"

// FCRYes is the literal first_contact_resolution value meaning the
// interaction was resolved on first contact.
const FCRYes = "Yes"

// FormatHMS renders a duration in whole seconds as HH:MM:SS.
// Hours are not wrapped at 24, matching how resolution times are reported.
func FormatHMS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
