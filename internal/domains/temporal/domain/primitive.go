package domain

import (
	"errors"
	"time"
)

// Kind discriminates the temporal primitive variants.
type Kind string

const (
	KindInstant Kind = "instant"
	KindPeriod  Kind = "period"
)

// ErrEmptyExtent is returned when an extent is requested over no values.
var ErrEmptyExtent = errors.New("temporal extent requires at least one value")

// Primitive is the canonical parse result of a GML time element.
// Only Instant and Period implement it.
type Primitive interface {
	Kind() Kind
	// Bounds returns the earliest and latest instant covered by the primitive.
	Bounds() (Instant, Instant)
	isPrimitive()
}

// Instant is a single, offset-aware point in time.
type Instant struct {
	Time time.Time
}

// NewInstant wraps t as an Instant.
func NewInstant(t time.Time) Instant {
	return Instant{Time: t}
}

func (Instant) Kind() Kind { return KindInstant }

func (i Instant) Bounds() (Instant, Instant) { return i, i }

func (Instant) isPrimitive() {}

// Before reports whether i is strictly earlier than other.
func (i Instant) Before(other Instant) bool { return i.Time.Before(other.Time) }

// After reports whether i is strictly later than other.
func (i Instant) After(other Instant) bool { return i.Time.After(other.Time) }

// Equal compares the instants on the time line, ignoring the offset they were written in.
func (i Instant) Equal(other Instant) bool { return i.Time.Equal(other.Time) }

func (i Instant) String() string { return i.Time.Format(time.RFC3339Nano) }

// Period is an ordered pair of independently parsed instants. Begin <= End is not enforced.
type Period struct {
	Begin Instant
	End   Instant
}

// NewPeriod builds a Period from its two ends as given.
func NewPeriod(begin, end Instant) Period {
	return Period{Begin: begin, End: end}
}

func (Period) Kind() Kind { return KindPeriod }

func (p Period) Bounds() (Instant, Instant) { return p.Begin, p.End }

func (Period) isPrimitive() {}

// IsOrdered reports whether Begin is not after End.
func (p Period) IsOrdered() bool { return !p.Begin.After(p.End) }

// Duration is End minus Begin; negative for unordered periods.
func (p Period) Duration() time.Duration { return p.End.Time.Sub(p.Begin.Time) }

// Contains reports whether i lies within [Begin, End].
func (p Period) Contains(i Instant) bool {
	return !i.Before(p.Begin) && !i.After(p.End)
}

func (p Period) String() string { return p.Begin.String() + "/" + p.End.String() }

// Extent folds the given primitives into the period spanning the earliest
// begin and the latest end. Nil entries are ignored.
func Extent(values ...Primitive) (Period, error) {
	var (
		extent Period
		seen   bool
	)
	for _, value := range values {
		if value == nil {
			continue
		}
		begin, end := value.Bounds()
		if !seen {
			extent = Period{Begin: begin, End: end}
			seen = true
			continue
		}
		if begin.Before(extent.Begin) {
			extent.Begin = begin
		}
		if end.After(extent.End) {
			extent.End = end
		}
	}
	if !seen {
		return Period{}, ErrEmptyExtent
	}
	return extent, nil
}
