package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChart = `{"type":"line","title":"Sample","labels":["a","b","c"],"datasets":[{"label":"x","data":[1,2,3]}]}`

func writeChart(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunRenderFormats(t *testing.T) {
	input := writeChart(t, sampleChart)

	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"svg", func(t *testing.T, out string) {
			assert.True(t, strings.HasPrefix(out, "<svg "))
			assert.True(t, strings.HasSuffix(out, "</svg>"))
		}},
		{"datauri", func(t *testing.T, out string) {
			assert.True(t, strings.HasPrefix(out, "data:image/svg+xml;base64,"))
		}},
		{"json", func(t *testing.T, out string) {
			var env map[string]string
			require.NoError(t, json.Unmarshal([]byte(out), &env))
			assert.Equal(t, "svg", env["type"])
			assert.NotEmpty(t, env["svg"])
			assert.NotEmpty(t, env["dataUri"])
		}},
		{"HTML", func(t *testing.T, out string) {
			assert.Contains(t, out, "<title>Sample</title>")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var stdout bytes.Buffer
			err := runRender(context.Background(), input, &renderOptions{format: tt.format}, &stdout)
			require.NoError(t, err)
			tt.check(t, stdout.String())
		})
	}
}

func TestRunRenderToFile(t *testing.T) {
	input := writeChart(t, sampleChart)
	output := filepath.Join(t.TempDir(), "out.svg")

	var stdout bytes.Buffer
	require.NoError(t, runRender(context.Background(), input, &renderOptions{format: "svg", output: output}, &stdout))
	assert.Zero(t, stdout.Len())

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(written, []byte("<svg ")))
}

func TestRunRenderErrors(t *testing.T) {
	var stdout bytes.Buffer

	err := runRender(context.Background(), writeChart(t, sampleChart), &renderOptions{format: "gif"}, &stdout)
	require.ErrorContains(t, err, "unsupported export format")

	err = runRender(context.Background(), filepath.Join(t.TempDir(), "missing.json"), &renderOptions{format: "svg"}, &stdout)
	require.ErrorContains(t, err, "error reading chart file")

	err = runRender(context.Background(), writeChart(t, `{"labels":["a"]}`), &renderOptions{format: "svg"}, &stdout)
	require.ErrorContains(t, err, "labels and datasets")

	output := filepath.Join(t.TempDir(), "out.svg")
	bad := writeChart(t, `{"type":"bar","labels":["a","b"],"datasets":[{"label":"x","data":[1]}]}`)
	err = runRender(context.Background(), bad, &renderOptions{format: "svg", output: output}, &stdout)
	require.Error(t, err)
	assert.NoFileExists(t, output)
	assert.Zero(t, stdout.Len())
}
