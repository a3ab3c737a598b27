package chart

import (
	"math"
	"strconv"
	"strings"
)

// --- Number & Text Formatting ---

// num formats a coordinate with the shortest decimal that round-trips.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fixed1 formats a gridline annotation with one decimal place.
func fixed1(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// --- Color Resolution ---

// seriesColors returns the fill and stroke colors for the series at index i.
func seriesColors(s Series, i int) (fill, stroke string) {
	fill = paletteColor(i)
	if c := s.FillColor.first(); c != "" {
		fill = c
	}
	stroke = s.StrokeColor
	if stroke == "" {
		stroke = fill
	}
	return fill, stroke
}

// sliceColor returns the fill of pie slice j. A list of colors is indexed per
// slice, a single color applies to every slice.
func sliceColor(fill Colors, j int) string {
	if c := fill.at(j); c != "" {
		return c
	}
	return paletteColor(j)
}

// --- Value Domain ---

// valueDomain computes the vertical domain shared by every series. The
// maximum never drops below 1, the minimum never rises above 0.
func valueDomain(series []Series) (minValue, maxValue, valueRange float64) {
	minValue, maxValue = 0, 1
	for _, s := range series {
		for _, v := range s.Values {
			maxValue = math.Max(maxValue, v)
			minValue = math.Min(minValue, v)
		}
	}
	valueRange = maxValue - minValue
	if valueRange == 0 {
		valueRange = 1
	}
	return minValue, maxValue, valueRange
}
