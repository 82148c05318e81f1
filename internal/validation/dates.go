package validation

import (
	"errors"
	"strings"
	"time"
)

var ErrDateFormat = errors.New("date must be YYYY-MM-DD or DD/MM/YYYY")

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseDate aceita ISO (2006-01-02), pt-BR (02/01/2006) e RFC3339 e devolve
// sempre a data civil à meia-noite UTC, que sobrevive ao round-trip do Mongo.
// loc só importa para RFC3339: define em qual dia civil o instante cai.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrDateFormat
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return CalendarDate(t.In(loc)), nil
	}
	return time.Time{}, ErrDateFormat
}

// CalendarDate: o dia civil de t (no fuso de t) como meia-noite UTC.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeAge devolve a idade em anos completos na data asOf.
func ComputeAge(birth, asOf time.Time) int {
	by, bm, bd := birth.Date()
	ay, am, ad := asOf.Date()
	age := ay - by
	if am < bm || (am == bm && ad < bd) {
		age--
	}
	return age
}

// TenureDays conta dias civis entre a admissão e asOf.
func TenureDays(admission, asOf time.Time) int {
	d := CalendarDate(asOf).Sub(CalendarDate(admission))
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
