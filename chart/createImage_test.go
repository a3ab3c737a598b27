package chart

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRasterizer struct {
	gotSVG     string
	gotW, gotH int
	gotFormat  Format
	out        []byte
}

func (f *fakeRasterizer) Rasterize(_ context.Context, svg string, w, h int, format Format) ([]byte, error) {
	f.gotSVG, f.gotW, f.gotH, f.gotFormat = svg, w, h, format
	return f.out, nil
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatSVG, "svg": FormatSVG, "PNG": FormatPNG, "jpg": FormatJPEG, " jpeg ": FormatJPEG}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("gif")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, "image/png", FormatPNG.MIMEType())
	assert.Equal(t, "image/jpeg", FormatJPEG.MIMEType())
	assert.Equal(t, "image/svg+xml", FormatSVG.MIMEType())
}

func TestExport(t *testing.T) {
	d := Description{Kind: KindBar, Width: 320, Labels: []string{"a"}, Series: []Series{{Values: []float64{1}}}}

	svg, err := Export(context.Background(), d, FormatSVG, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(svg, []byte("<svg ")))

	fake := &fakeRasterizer{out: []byte("png-bytes")}
	out, err := Export(context.Background(), d, FormatPNG, fake)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), out)
	assert.Equal(t, string(svg), fake.gotSVG)
	assert.Equal(t, 320, fake.gotW)
	assert.Equal(t, 400, fake.gotH)
	assert.Equal(t, FormatPNG, fake.gotFormat)

	_, err = Export(context.Background(), d, FormatJPEG, nil)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Export(context.Background(), Description{Height: -1}, FormatSVG, nil)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestPNGToJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := pngToJPEG(buf.Bytes())
	require.NoError(t, err)
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), decoded.Bounds())

	_, err = pngToJPEG([]byte("not a png"))
	require.Error(t, err)
}

func TestChromeRasterizerRejectsSVG(t *testing.T) {
	r := NewChromeRasterizer(ChromeOptions{})
	_, err := r.Rasterize(context.Background(), "<svg/>", 10, 10, FormatSVG)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

// TestChromeRasterizer needs a local Chrome; set CHART_TEST_CHROME=1 to run it.
func TestChromeRasterizer(t *testing.T) {
	if os.Getenv("CHART_TEST_CHROME") == "" {
		t.Skip("CHART_TEST_CHROME not set")
	}
	d := Description{Kind: KindLine, Width: 200, Height: 150, Labels: []string{"a", "b"}, Series: []Series{{Values: []float64{1, 2}}}}
	r := NewChromeRasterizer(ChromeOptions{
		ExecPath:  os.Getenv("CHART_CHROME_PATH"),
		NoSandbox: true,
		Timeout:   time.Minute,
	})

	out, err := Export(context.Background(), d, FormatPNG, r)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Positive(t, cfg.Width)
	assert.Positive(t, cfg.Height)
}
