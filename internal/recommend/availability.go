package recommend

import (
	"fmt"
	"time"

	"github.com/campmatch/backend/internal/storage/models"
)

// DateLayout is the wire format for all booking dates.
const DateLayout = "2006-01-02"

// ParseError reports a malformed date string. It is propagated to the caller
// and never silently defaulted.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing date %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Value: value, Err: err}
	}
	return t, nil
}

// overlaps is the standard interval-overlap test, inclusive at both ends:
// a booking ending on day X and one starting on day X conflict.
func overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}

// RangesOverlap reports whether two inclusive YYYY-MM-DD date ranges conflict.
func RangesOverlap(aFrom, aTo, bFrom, bTo string) (bool, error) {
	af, err := ParseDate(aFrom)
	if err != nil {
		return false, err
	}
	at, err := ParseDate(aTo)
	if err != nil {
		return false, err
	}
	bf, err := ParseDate(bFrom)
	if err != nil {
		return false, err
	}
	bt, err := ParseDate(bTo)
	if err != nil {
		return false, err
	}
	return overlaps(af, at, bf, bt), nil
}

// IsAvailable reports whether the campground has no booking conflicting with
// the requested inclusive date range. It scans the given bookings for the
// campground ID and returns false on the first overlap found. fromDate must
// not be after toDate. Malformed dates surface as *ParseError.
//
// This check is the authority consulted before a new booking is allowed; it
// does not mutate anything.
func IsAvailable(campID, fromDate, toDate string, bookings []models.Booking) (bool, error) {
	from, err := ParseDate(fromDate)
	if err != nil {
		return false, err
	}
	to, err := ParseDate(toDate)
	if err != nil {
		return false, err
	}

	for _, booking := range bookings {
		if booking.CampID != campID {
			continue
		}

		bookedFrom, err := ParseDate(booking.FromDate)
		if err != nil {
			return false, err
		}
		bookedTo, err := ParseDate(booking.ToDate)
		if err != nil {
			return false, err
		}

		if overlaps(from, to, bookedFrom, bookedTo) {
			return false, nil
		}
	}

	return true, nil
}
