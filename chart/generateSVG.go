package chart

import (
	"bytes"
	"fmt"
	"math"
)

const defaultFont = "Arial, sans-serif"

// fullTurn is the sweep at which a pie slice is drawn as a whole disc.
const fullTurn = 2*math.Pi - 1e-9

// layout holds the geometry shared by every chart kind.
type layout struct {
	width, height         float64
	plotWidth, plotHeight float64
	minValue, maxValue    float64
	valueRange            float64
	labelCount            int
	seriesCount           int
}

// calculateLayout derives the plot area and the shared vertical scale.
func calculateLayout(d Description) layout {
	l := layout{labelCount: len(d.Labels), seriesCount: len(d.Series)}
	l.width, l.height = d.size()
	l.plotWidth = l.width - padding*2
	l.plotHeight = l.height - padding*2
	l.minValue, l.maxValue, l.valueRange = valueDomain(d.Series)
	return l
}

// pointX maps a category index to its horizontal position.
func (l layout) pointX(i int) float64 {
	return padding + (l.plotWidth/math.Max(float64(l.labelCount-1), 1))*float64(i)
}

// valueY maps a value to its vertical position.
func (l layout) valueY(v float64) float64 {
	return padding + l.plotHeight - ((v-l.minValue)/l.valueRange)*l.plotHeight
}

// barHeight is the pixel height of a bar for v.
func (l layout) barHeight(v float64) float64 {
	return ((v - l.minValue) / l.valueRange) * l.plotHeight
}

// baseline is the bottom edge of the plot area.
func (l layout) baseline() float64 {
	return l.height - padding
}

// --- Decoration ---

func drawTitle(svg *bytes.Buffer, l layout, title string) {
	if title == "" {
		return
	}
	fmt.Fprintf(svg, `<text x="%s" y="30" font-family="%s" font-size="18" font-weight="bold" text-anchor="middle" fill="#1f2937">%s</text>`,
		num(l.width/2), defaultFont, escapeXML(title))
	svg.WriteString("\n")
}

// drawGrid draws gridLines+1 horizontal lines from maxValue at the top down
// to minValue at the bottom, each annotated with its value.
func drawGrid(svg *bytes.Buffer, l layout) {
	for i := 0; i <= gridLines; i++ {
		y := padding + (l.plotHeight/gridLines)*float64(i)
		value := l.maxValue - (l.valueRange/gridLines)*float64(i)
		fmt.Fprintf(svg, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#e5e7eb" stroke-width="1"/>`,
			num(padding), num(y), num(l.width-padding), num(y))
		fmt.Fprintf(svg, `<text x="%s" y="%s" font-family="%s" font-size="12" text-anchor="end" fill="#6b7280">%s</text>`,
			num(padding-10), num(y+5), defaultFont, fixed1(value))
		svg.WriteString("\n")
	}
}

func drawCategoryLabels(svg *bytes.Buffer, l layout, labels []string) {
	y := l.baseline() + 20
	for i, label := range labels {
		x := l.pointX(i)
		fmt.Fprintf(svg, `<text x="%s" y="%s" font-family="%s" font-size="12" text-anchor="middle" fill="#6b7280" transform="rotate(-45 %s %s)">%s</text>`,
			num(x), num(y), defaultFont, num(x), num(y), escapeXML(label))
		svg.WriteString("\n")
	}
}

// --- Line & Area ---

// LineSeriesParams groups the inputs of drawLineSeries.
type LineSeriesParams struct {
	Values []float64
	Fill   string
	Stroke string
	Area   bool
}

func drawLineSeries(svg *bytes.Buffer, l layout, params LineSeriesParams) {
	if len(params.Values) == 0 {
		return
	}
	var path, areaPath bytes.Buffer
	for i, v := range params.Values {
		x, y := l.pointX(i), l.valueY(v)
		if i == 0 {
			fmt.Fprintf(&path, "M %s %s", num(x), num(y))
			fmt.Fprintf(&areaPath, "M %s %s L %s %s", num(x), num(l.baseline()), num(x), num(y))
			continue
		}
		fmt.Fprintf(&path, " L %s %s", num(x), num(y))
		fmt.Fprintf(&areaPath, " L %s %s", num(x), num(y))
	}

	// The fill goes first so the stroked line stays on top.
	if params.Area {
		fmt.Fprintf(&areaPath, " L %s %s Z", num(padding+l.plotWidth), num(l.baseline()))
		fmt.Fprintf(svg, `<path d="%s" fill="%s" opacity="0.3"/>`, areaPath.String(), escapeXML(params.Fill))
		svg.WriteString("\n")
	}

	fmt.Fprintf(svg, `<path d="%s" stroke="%s" stroke-width="2" fill="none"/>`, path.String(), escapeXML(params.Stroke))
	svg.WriteString("\n")

	for i, v := range params.Values {
		fmt.Fprintf(svg, `<circle cx="%s" cy="%s" r="%d" fill="%s"/>`,
			num(l.pointX(i)), num(l.valueY(v)), pointRadius, escapeXML(params.Stroke))
	}
	svg.WriteString("\n")
}

// --- Bar ---

// BarSeriesParams groups the inputs of drawBarSeries.
type BarSeriesParams struct {
	Index  int // position of the series within its group
	Values []float64
	Fill   string
	Stroke string
}

// drawBarSeries draws one bar per value, each in its slot of the label's group.
func drawBarSeries(svg *bytes.Buffer, l layout, params BarSeriesParams) {
	seriesCount := float64(max(l.seriesCount, 1))
	groupWidth := l.plotWidth / float64(max(l.labelCount, 1))
	barWidth := groupWidth / seriesCount * 0.8

	for i, v := range params.Values {
		h := l.barHeight(v)
		x := padding + float64(i)*groupWidth + float64(params.Index)*barWidth + groupWidth/seriesCount/2 - barWidth/2
		y := padding + l.plotHeight - h
		fmt.Fprintf(svg, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="1"/>`,
			num(x), num(y), num(barWidth), num(h), escapeXML(params.Fill), escapeXML(params.Stroke))
	}
	svg.WriteString("\n")
}

// --- Pie ---

// pieSlice is one wedge of a pie chart. Angles are in radians, measured
// clockwise in screen space from the positive x axis.
type pieSlice struct {
	Start, Sweep float64
	Label        string
	Color        string
}

func (s pieSlice) End() float64 { return s.Start + s.Sweep }

// calculatePieSlices splits the first series into wedges starting at the top.
func calculatePieSlices(d Description) []pieSlice {
	if len(d.Series) == 0 {
		return nil
	}
	series := d.Series[0]
	total := 0.0
	for _, v := range series.Values {
		total += v
	}

	slices := make([]pieSlice, len(series.Values))
	current := -math.Pi / 2
	for j, v := range series.Values {
		label := ""
		if j < len(d.Labels) {
			label = d.Labels[j]
		}
		slices[j] = pieSlice{
			Start: current,
			Sweep: (v / total) * 2 * math.Pi,
			Label: label,
			Color: sliceColor(series.FillColor, j),
		}
		current = slices[j].End()
	}
	return slices
}

// pieGeometry returns the center and radius of the pie inside the plot area.
func pieGeometry(l layout) (cx, cy, radius float64) {
	return l.width / 2, l.height / 2, math.Min(l.plotWidth, l.plotHeight)/2 - pieInset
}

// wedgePath builds center -> arc start -> arc -> center. A full turn is split
// into two half arcs since an arc with equal endpoints draws nothing.
func wedgePath(cx, cy, r float64, s pieSlice) string {
	x1 := cx + r*math.Cos(s.Start)
	y1 := cy + r*math.Sin(s.Start)
	if s.Sweep >= fullTurn {
		xm := cx + r*math.Cos(s.Start+math.Pi)
		ym := cy + r*math.Sin(s.Start+math.Pi)
		return fmt.Sprintf("M %s %s L %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
			num(cx), num(cy), num(x1), num(y1),
			num(r), num(r), num(xm), num(ym),
			num(r), num(r), num(x1), num(y1))
	}
	x2 := cx + r*math.Cos(s.End())
	y2 := cy + r*math.Sin(s.End())
	largeArc := 0
	if s.Sweep > math.Pi {
		largeArc = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(cx), num(cy), num(x1), num(y1), num(r), num(r), largeArc, num(x2), num(y2))
}

func drawPie(svg *bytes.Buffer, l layout, slices []pieSlice) {
	cx, cy, radius := pieGeometry(l)
	labelRadius := radius * 0.7
	for _, s := range slices {
		fmt.Fprintf(svg, `<path d="%s" fill="%s" stroke="white" stroke-width="2"/>`,
			wedgePath(cx, cy, radius, s), escapeXML(s.Color))

		angle := s.Start + s.Sweep/2
		fmt.Fprintf(svg, `<text x="%s" y="%s" font-family="%s" font-size="12" text-anchor="middle" fill="white" font-weight="bold">%s</text>`,
			num(cx+labelRadius*math.Cos(angle)), num(cy+labelRadius*math.Sin(angle)), defaultFont, escapeXML(s.Label))
		svg.WriteString("\n")
	}
}

// --- Datasets ---

// drawDatasets dispatches on the chart kind. Unknown and empty kinds draw no
// datasets at all, leaving only grid, labels and title.
func drawDatasets(svg *bytes.Buffer, l layout, d Description) {
	switch d.Kind {
	case KindLine, KindArea:
		for i, s := range d.Series {
			fill, stroke := seriesColors(s, i)
			drawLineSeries(svg, l, LineSeriesParams{
				Values: s.Values,
				Fill:   fill,
				Stroke: stroke,
				Area:   d.Kind == KindArea,
			})
		}
	case KindBar:
		for i, s := range d.Series {
			fill, stroke := seriesColors(s, i)
			drawBarSeries(svg, l, BarSeriesParams{Index: i, Values: s.Values, Fill: fill, Stroke: stroke})
		}
	case KindPie:
		drawPie(svg, l, calculatePieSlices(d))
	}
}

// assembleFinalSVG wraps the drawn body with the document header and background.
func assembleFinalSVG(body bytes.Buffer, l layout) string {
	var finalSVG bytes.Buffer
	fmt.Fprintf(&finalSVG, `<svg width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">`, num(l.width), num(l.height))
	finalSVG.WriteString("\n")
	fmt.Fprintf(&finalSVG, `<rect width="%s" height="%s" fill="white"/>`, num(l.width), num(l.height))
	finalSVG.WriteString("\n")
	finalSVG.Write(body.Bytes())
	finalSVG.WriteString("</svg>")
	return finalSVG.String()
}

// renderSVG draws d without validating it.
func renderSVG(d Description) string {
	var body bytes.Buffer
	l := calculateLayout(d)

	drawTitle(&body, l, d.Title)
	drawGrid(&body, l)
	drawCategoryLabels(&body, l, d.Labels)
	drawDatasets(&body, l, d)

	return assembleFinalSVG(body, l)
}

// GenerateSVG validates d and returns its SVG document.
func GenerateSVG(d Description) (string, error) {
	if err := Validate(d); err != nil {
		return "", err
	}
	return renderSVG(d), nil
}
