package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Format is an output encoding for a rendered chart.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ErrUnsupportedFormat is returned for formats other than svg, png and jpg/jpeg.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat normalizes a format name. "jpg" is accepted for JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// MIMEType returns the media type of f.
func (f Format) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	}
	return svgMIME
}

// Raster reports whether f needs rasterization.
func (f Format) Raster() bool {
	return f == FormatPNG || f == FormatJPEG
}

// Rasterizer converts an SVG document into a bitmap image.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string, width, height int, format Format) ([]byte, error)
}

// ChromeOptions configures a ChromeRasterizer.
type ChromeOptions struct {
	ExecPath  string        // empty uses the chromedp lookup
	NoSandbox bool          // needed when running as root in containers
	Timeout   time.Duration // 0 means no extra deadline
}

// ChromeRasterizer renders SVG through headless Chrome.
type ChromeRasterizer struct {
	opts ChromeOptions
}

func NewChromeRasterizer(opts ChromeOptions) *ChromeRasterizer {
	return &ChromeRasterizer{opts: opts}
}

func (r *ChromeRasterizer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
	)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}
	if r.opts.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// Rasterize loads the SVG as a data URI and screenshots the svg element.
func (r *ChromeRasterizer) Rasterize(ctx context.Context, svg string, width, height int, format Format) ([]byte, error) {
	if !format.Raster() {
		return nil, fmt.Errorf("%w: %q is not a raster format", ErrUnsupportedFormat, format)
	}
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(DataURI(svgMIME, []byte(svg))),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &screenshot, chromedp.ByQuery),
	}
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(screenshot) == 0 {
		return nil, errors.New("screenshot buffer is empty, screenshot failed")
	}

	if format == FormatPNG {
		return screenshot, nil
	}
	return pngToJPEG(screenshot)
}

// pngToJPEG re-encodes a PNG screenshot at quality 90.
func pngToJPEG(pngData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG screenshot: %w", err)
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return out.Bytes(), nil
}

// Export renders d in the requested format. SVG output needs no rasterizer.
func Export(ctx context.Context, d Description, format Format, r Rasterizer) ([]byte, error) {
	svg, err := GenerateSVG(d)
	if err != nil {
		return nil, err
	}
	if !format.Raster() {
		return []byte(svg), nil
	}
	if r == nil {
		return nil, fmt.Errorf("%w: no rasterizer configured for %s", ErrUnsupportedFormat, format)
	}
	w, h := d.Size()
	return r.Rasterize(ctx, svg, w, h, format)
}
