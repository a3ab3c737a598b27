package chart

import (
	"encoding/json"
	"fmt"
)

// Kind selects how the series of a chart are drawn.
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
	KindPie  Kind = "pie"
	KindArea Kind = "area"
)

// Known reports whether k selects a dataset drawing branch.
func (k Kind) Known() bool {
	switch k {
	case KindLine, KindBar, KindPie, KindArea:
		return true
	}
	return false
}

const (
	defaultWidth  = 800
	defaultHeight = 400
	padding       = 60.0
	gridLines     = 5
	pointRadius   = 4
	pieInset      = 20
)

// Palette is the fixed color table used when a series has no explicit fill.
var Palette = [...]string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b",
	"#8b5cf6", "#ec4899", "#06b6d4", "#84cc16",
}

// paletteColor returns the palette entry for index i, cycling.
func paletteColor(i int) string {
	return Palette[i%len(Palette)]
}

// --- Data Structs ---

// Description is a declarative chart. JSON field names follow the payload
// the automation webhook emits.
type Description struct {
	Kind   Kind     `json:"type,omitempty"`
	Labels []string `json:"labels"`
	Series []Series `json:"datasets"`
	Title  string   `json:"title,omitempty"`
	Width  int      `json:"width,omitempty"`  // 0 means 800
	Height int      `json:"height,omitempty"` // 0 means 400
}

// Series is one named sequence of values, aligned with Description.Labels.
type Series struct {
	Name        string    `json:"label"` // kept for legends, not drawn
	Values      []float64 `json:"data"`
	FillColor   Colors    `json:"backgroundColor,omitzero"`
	StrokeColor string    `json:"borderColor,omitempty"`
}

// Colors holds either a single color or one color per point. On the wire it
// is a string or an array of strings.
type Colors struct {
	List   []string
	Single bool // decoded from a bare string, applies to every point
}

// SingleColor returns a fill that colors every point with c.
func SingleColor(c string) Colors {
	return Colors{List: []string{c}, Single: true}
}

// ColorList returns a fill indexed per point.
func ColorList(colors ...string) Colors {
	return Colors{List: colors}
}

func (c Colors) IsZero() bool {
	return len(c.List) == 0
}

// first returns the leading color, or "" when none is set.
func (c Colors) first() string {
	if len(c.List) == 0 {
		return ""
	}
	return c.List[0]
}

// at returns the color for point j, or "" when none is set.
func (c Colors) at(j int) string {
	if c.Single {
		return c.first()
	}
	if j < len(c.List) {
		return c.List[j]
	}
	return ""
}

func (c *Colors) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Colors{}
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*c = Colors{}
		} else {
			*c = SingleColor(single)
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("backgroundColor must be a string or an array of strings: %w", err)
	}
	*c = ColorList(list...)
	return nil
}

func (c Colors) MarshalJSON() ([]byte, error) {
	if c.Single {
		return json.Marshal(c.first())
	}
	if c.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.List)
}

// Image is a rendered chart. It is immutable once returned.
type Image struct {
	SVG     string
	DataURI string
}

// size returns the effective canvas dimensions.
func (d Description) size() (float64, float64) {
	w, h := d.Width, d.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return float64(w), float64(h)
}

// Size returns the effective canvas width and height in pixels.
func (d Description) Size() (int, int) {
	w, h := d.size()
	return int(w), int(h)
}
