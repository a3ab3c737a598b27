package chart

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissingFields indicates a payload without labels or datasets.
	ErrMissingFields = errors.New("chart data requires labels and datasets")

	// ErrInvalidSize indicates a canvas dimension that leaves no plot area.
	ErrInvalidSize = errors.New("invalid canvas size")

	// ErrLengthMismatch indicates a series whose value count differs from the label count.
	ErrLengthMismatch = errors.New("series length does not match labels")

	// ErrEmptyPie indicates a pie chart without a positive total to divide.
	ErrEmptyPie = errors.New("pie chart needs a first series with a positive total")

	// ErrInvalidValue indicates a NaN or infinite value, or a negative pie slice.
	ErrInvalidValue = errors.New("invalid value")
)

// ValidationError reports which part of a Description failed validation.
type ValidationError struct {
	Field string // e.g. "width", "datasets[1].data"
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid chart %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error, format string, args ...any) *ValidationError {
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
	}
	return &ValidationError{Field: field, Err: err}
}

// Validate checks the preconditions the renderer relies on. Labels may be
// empty; every checked series must then be empty as well.
func Validate(d Description) error {
	// A pie also needs room for its 20 unit inset from the plot edge.
	minSize := int(2 * padding)
	if d.Kind == KindPie {
		minSize += 2 * pieInset
	}
	if d.Width < 0 || (d.Width > 0 && d.Width <= minSize) {
		return invalid("width", ErrInvalidSize, "%d, must be 0 or more than %d", d.Width, minSize)
	}
	if d.Height < 0 || (d.Height > 0 && d.Height <= minSize) {
		return invalid("height", ErrInvalidSize, "%d, must be 0 or more than %d", d.Height, minSize)
	}

	for i, s := range d.Series {
		field := fmt.Sprintf("datasets[%d].data", i)
		for j, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid(field, ErrInvalidValue, "index %d is not a finite number", j)
			}
		}
		// Pie charts only draw the first series.
		if d.Kind == KindPie && i > 0 {
			continue
		}
		if len(s.Values) != len(d.Labels) {
			return invalid(field, ErrLengthMismatch, "%d values for %d labels", len(s.Values), len(d.Labels))
		}
	}

	if d.Kind == KindPie {
		if len(d.Series) == 0 {
			return invalid("datasets", ErrEmptyPie, "")
		}
		total := 0.0
		for j, v := range d.Series[0].Values {
			if v < 0 {
				return invalid("datasets[0].data", ErrInvalidValue, "index %d is negative", j)
			}
			total += v
		}
		if total <= 0 {
			return invalid("datasets[0].data", ErrEmptyPie, "total %s", num(total))
		}
	}
	return nil
}
