// Package chart renders declarative chart descriptions into self-contained
// SVG documents.
//
// Rendering is deterministic and touches no shared state, so a single
// Description can be rendered from any number of goroutines.
package chart

import (
	"encoding/base64"
	"strings"
)

const svgMIME = "image/svg+xml"

// Render validates d and returns the SVG document with its data URI.
func Render(d Description) (*Image, error) {
	svg, err := GenerateSVG(d)
	if err != nil {
		return nil, err
	}
	return &Image{SVG: svg, DataURI: DataURI(svgMIME, []byte(svg))}, nil
}

// Base64 returns the SVG document base64 encoded.
func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString([]byte(img.SVG))
}

// DataURI wraps content as a base64 data URI of the given MIME type.
func DataURI(mimeType string, content []byte) string {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(content))
	return b.String()
}
