package chart

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		desc  Description
		err   error
		field string
	}{
		{
			name: "valid line",
			desc: Description{Kind: KindLine, Labels: []string{"a", "b"}, Series: []Series{{Values: []float64{1, 2}}}},
		},
		{
			name: "empty labels and no series",
			desc: Description{Kind: KindBar, Labels: []string{}},
		},
		{
			name:  "negative width",
			desc:  Description{Width: -1, Labels: []string{}},
			err:   ErrInvalidSize,
			field: "width",
		},
		{
			name:  "negative height",
			desc:  Description{Height: -5, Labels: []string{}},
			err:   ErrInvalidSize,
			field: "height",
		},
		{
			name:  "canvas without plot area",
			desc:  Description{Kind: KindLine, Width: 120, Labels: []string{}},
			err:   ErrInvalidSize,
			field: "width",
		},
		{
			name: "smallest line canvas",
			desc: Description{Kind: KindLine, Width: 121, Height: 121, Labels: []string{}},
		},
		{
			name:  "pie canvas too small for its radius",
			desc:  Description{Kind: KindPie, Width: 50, Height: 50, Labels: []string{"a"}, Series: []Series{{Values: []float64{1}}}},
			err:   ErrInvalidSize,
			field: "width",
		},
		{
			name:  "pie height too small for its radius",
			desc:  Description{Kind: KindPie, Height: 160, Labels: []string{"a"}, Series: []Series{{Values: []float64{1}}}},
			err:   ErrInvalidSize,
			field: "height",
		},
		{
			name:  "too few values",
			desc:  Description{Kind: KindBar, Labels: []string{"a", "b"}, Series: []Series{{Values: []float64{1, 2}}, {Values: []float64{1}}}},
			err:   ErrLengthMismatch,
			field: "datasets[1].data",
		},
		{
			name:  "mismatch checked for unknown kinds too",
			desc:  Description{Kind: "radar", Labels: []string{"a"}, Series: []Series{{Values: []float64{1, 2}}}},
			err:   ErrLengthMismatch,
			field: "datasets[0].data",
		},
		{
			name: "pie ignores trailing series length",
			desc: Description{Kind: KindPie, Labels: []string{"a"}, Series: []Series{{Values: []float64{1}}, {Values: []float64{1, 2, 3}}}},
		},
		{
			name:  "pie without series",
			desc:  Description{Kind: KindPie, Labels: []string{}},
			err:   ErrEmptyPie,
			field: "datasets",
		},
		{
			name:  "pie with zero total",
			desc:  Description{Kind: KindPie, Labels: []string{"a", "b"}, Series: []Series{{Values: []float64{0, 0}}}},
			err:   ErrEmptyPie,
			field: "datasets[0].data",
		},
		{
			name:  "pie with negative slice",
			desc:  Description{Kind: KindPie, Labels: []string{"a", "b"}, Series: []Series{{Values: []float64{-1, 3}}}},
			err:   ErrInvalidValue,
			field: "datasets[0].data",
		},
		{
			name: "negative values allowed outside pie",
			desc: Description{Kind: KindBar, Labels: []string{"a", "b"}, Series: []Series{{Values: []float64{-1, 3}}}},
		},
		{
			name:  "NaN value",
			desc:  Description{Kind: KindLine, Labels: []string{"a"}, Series: []Series{{Values: []float64{math.NaN()}}}},
			err:   ErrInvalidValue,
			field: "datasets[0].data",
		},
		{
			name:  "infinite value in ignored pie series",
			desc:  Description{Kind: KindPie, Labels: []string{"a"}, Series: []Series{{Values: []float64{1}}, {Values: []float64{math.Inf(1)}}}},
			err:   ErrInvalidValue,
			field: "datasets[1].data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.desc)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateReportsNegativePieIndex(t *testing.T) {
	err := Validate(Description{Kind: KindPie, Labels: []string{"a", "b", "c"}, Series: []Series{{Values: []float64{2, 1, -0.5}}}})
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "index 2 is negative")
}

func TestPieRejectsSmallCanvasBeforeDrawing(t *testing.T) {
	_, err := GenerateSVG(Description{Kind: KindPie, Width: 50, Height: 50, Labels: []string{"a"}, Series: []Series{{Values: []float64{1}}}})
	require.ErrorIs(t, err, ErrInvalidSize)
}
