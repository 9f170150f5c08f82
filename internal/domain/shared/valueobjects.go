package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID identifies a user. Assigned by the entity index, never reused.
type UserID int64

// FilmID identifies a film.
type FilmID int64

// DirectorID identifies a director.
type DirectorID int64

// GenreID identifies a genre.
type GenreID int64

// RatingID identifies an MPA rating.
type RatingID int64

// ID is the constraint satisfied by every entity identifier.
type ID interface {
	~int64
}

// IsValid reports whether the identifier could have been assigned.
func (id UserID) IsValid() bool     { return id > 0 }
func (id FilmID) IsValid() bool     { return id > 0 }
func (id DirectorID) IsValid() bool { return id > 0 }

// ParseID parses a positive decimal identifier.
func ParseID[T ID](s string) (T, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return T(n), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Date
// ═══════════════════════════════════════════════════════════════════════════

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day, serialized as "yyyy-MM-dd".
type Date struct {
	time.Time
}

// NewDate returns the date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "yyyy-MM-dd" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrValidation, s, err)
	}
	return Date{t}, nil
}

// String returns the date in wire format, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
