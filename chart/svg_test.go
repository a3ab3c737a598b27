package chart

import (
	"encoding/xml"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// svgNode is a generic element of a parsed SVG document.
type svgNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []svgNode  `xml:",any"`
}

func (n svgNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n svgNode) float(t *testing.T, name string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(n.attr(name), 64)
	require.NoError(t, err, "attribute %s of <%s>", name, n.XMLName.Local)
	return v
}

// parseSVG decodes doc and returns its direct children in document order.
func parseSVG(t *testing.T, doc string) (svgNode, []svgNode) {
	t.Helper()
	var root svgNode
	require.NoError(t, xml.Unmarshal([]byte(doc), &root))
	require.Equal(t, "svg", root.XMLName.Local)
	return root, root.Children
}

// elements returns the children named tag that satisfy keep (nil keeps all).
func elements(children []svgNode, tag string, keep func(svgNode) bool) []svgNode {
	var out []svgNode
	for _, c := range children {
		if c.XMLName.Local != tag {
			continue
		}
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func mustRender(t *testing.T, d Description) string {
	t.Helper()
	img, err := Render(d)
	require.NoError(t, err)
	return img.SVG
}

func isBar(n svgNode) bool       { return n.attr("x") != "" }
func isDataPath(n svgNode) bool  { return n.attr("fill") == "none" }
func isAreaPath(n svgNode) bool  { return n.attr("opacity") == "0.3" }
func isPieWedge(n svgNode) bool  { return n.attr("stroke") == "white" }
func isGridLine(n svgNode) bool  { return n.attr("stroke") == "#e5e7eb" }
func isGridLabel(n svgNode) bool { return n.attr("text-anchor") == "end" }

// pathCommands counts the command letters of an SVG path.
func pathCommands(d string) map[string]int {
	counts := map[string]int{}
	for _, tok := range strings.Fields(d) {
		switch tok {
		case "M", "L", "A", "Z":
			counts[tok]++
		}
	}
	return counts
}
