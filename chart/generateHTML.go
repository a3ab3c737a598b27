package chart

import (
	"fmt"
	"strings"
)

// GenerateHTML creates a standalone page showing the chart as an image,
// the way a chat view embeds it.
func GenerateHTML(d Description) (string, error) {
	img, err := Render(d)
	if err != nil {
		return "", fmt.Errorf("render chart for HTML preview: %w", err)
	}
	w, h := d.Size()

	title := d.Title
	if title == "" {
		title = "Chart"
	}

	var htmlBuilder strings.Builder
	htmlBuilder.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&htmlBuilder, "<title>%s</title>\n", escapeXML(title))
	htmlBuilder.WriteString("<style>\n")
	htmlBuilder.WriteString("body { margin: 0; padding: 40px; font-family: " + defaultFont + "; background: #f3f4f6; }\n")
	htmlBuilder.WriteString(".chart { display: inline-block; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 8px; }\n")
	htmlBuilder.WriteString(".chart img { display: block; max-width: 100%; height: auto; }\n")
	htmlBuilder.WriteString("</style>\n</head>\n<body>\n")
	htmlBuilder.WriteString("<div class=\"chart\">\n")
	fmt.Fprintf(&htmlBuilder, "<img src=\"%s\" width=\"%d\" height=\"%d\" alt=\"%s\">\n", img.DataURI, w, h, escapeXML(title))
	htmlBuilder.WriteString("</div>\n</body>\n</html>\n")

	return htmlBuilder.String(), nil
}
