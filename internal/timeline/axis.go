package timeline

import (
	"time"

	"github.com/roadmapper/rdmp/internal/types"
)

// DefaultMinBarWidth is the minimum rendered bar width, in percent of the
// axis. Zero-duration and open-ended items stay visible and clickable.
const DefaultMinBarWidth = 2.0

// DefaultForwardMonths is the span of the synthetic axis used when the
// collection holds no usable dates at all.
const DefaultForwardMonths = 6

// AxisOptions configures axis bound computation.
type AxisOptions struct {
	// IncludeCreated widens the bounds with every ticket's creation date,
	// matching the fully-inclusive bounding of the web view. Pick one
	// setting per rendering session; mixing produces an inconsistent axis.
	IncludeCreated bool

	// ForwardMonths is the synthetic window span for an empty collection.
	// Zero means DefaultForwardMonths.
	ForwardMonths int

	// MinBarWidth overrides DefaultMinBarWidth when positive.
	MinBarWidth float64

	// Now supplies the clock for the synthetic window. Nil means time.Now.
	Now func() time.Time
}

// Axis is the shared date range every ticket bar is positioned against.
// MinDate is the first day of the earliest month, MaxDate the last day of
// the latest month, and Months holds each month boundary between them for
// use as column headers.
type Axis struct {
	MinDate     time.Time   `json:"min_date"`
	MaxDate     time.Time   `json:"max_date"`
	Months      []time.Time `json:"months"`
	MinBarWidth float64     `json:"min_bar_width"`
}

// ComputeAxis derives the visible, month-aligned date range from the
// collection. An empty or dateless collection yields a synthetic window
// starting at the current month so the renderer always has a non-degenerate
// axis.
func ComputeAxis(tickets []*types.Ticket, opts AxisOptions) Axis {
	minBar := opts.MinBarWidth
	if minBar <= 0 {
		minBar = DefaultMinBarWidth
	}

	var earliest, latest time.Time
	observe := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
		if latest.IsZero() || t.After(latest) {
			latest = t
		}
	}

	for _, t := range tickets {
		if t.StartDate != nil {
			observe(*t.StartDate)
		}
		if t.DueDate != nil {
			observe(*t.DueDate)
		}
		if opts.IncludeCreated {
			observe(t.CreatedDate)
		}
	}

	if earliest.IsZero() {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		months := opts.ForwardMonths
		if months <= 0 {
			months = DefaultForwardMonths
		}
		earliest = now()
		latest = earliest.AddDate(0, months, 0)
	}

	axis := Axis{
		MinDate:     startOfMonth(earliest),
		MaxDate:     endOfMonth(latest),
		MinBarWidth: minBar,
	}
	for m := axis.MinDate; !m.After(axis.MaxDate); m = m.AddDate(0, 1, 0) {
		axis.Months = append(axis.Months, m)
	}
	return axis
}

// TotalDays is the axis span in whole days.
func (a Axis) TotalDays() int {
	return daysBetween(a.MinDate, a.MaxDate)
}

// Position maps a date to its percentage offset from the left edge,
// clamped to [0, 100]. A zero date or a zero-length axis maps to 0.
func (a Axis) Position(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	total := a.TotalDays()
	if total <= 0 {
		return 0
	}
	return clampPercent(float64(daysBetween(a.MinDate, t)) / float64(total) * 100)
}

// Width maps a date pair to a percentage width, clamped between the
// minimum bar width and 100. A nil or zero end date yields the minimum
// milestone width rather than an invisible zero-width bar.
func (a Axis) Width(start time.Time, end *time.Time) float64 {
	if start.IsZero() || end == nil || end.IsZero() {
		return a.MinBarWidth
	}
	total := a.TotalDays()
	if total <= 0 {
		return a.MinBarWidth
	}
	w := clampPercent(float64(daysBetween(start, *end)) / float64(total) * 100)
	if w < a.MinBarWidth {
		return a.MinBarWidth
	}
	return w
}
