package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/vitormousinho/trabalho-cont/chart"
)

// ImageResponse is the JSON envelope returned by the chart endpoint.
type ImageResponse struct {
	SVG     string `json:"svg"`
	DataURI string `json:"dataUri"`
	Type    string `json:"type"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The status line is already sent; the client most likely went away.
		s.logger.Debug("Failed to write JSON response", "status", status, "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

// readDescription reads and decodes the request body, writing the error
// response itself when it fails.
func (s *Server) readDescription(w http.ResponseWriter, r *http.Request) (chart.Description, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "chart payload too large")
			return chart.Description{}, false
		}
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return chart.Description{}, false
	}

	d, err := chart.Decode(body)
	switch {
	case errors.Is(err, chart.ErrMissingFields):
		s.writeError(w, http.StatusBadRequest, "invalid chart data: labels and datasets are required")
		return chart.Description{}, false
	case err != nil:
		s.logger.Debug("Rejected chart payload", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid chart JSON")
		return chart.Description{}, false
	}
	return d, true
}

// renderError maps a render failure to a response.
func (s *Server) renderError(w http.ResponseWriter, err error) {
	var verr *chart.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	s.logger.Error("Failed to generate chart", "err", err)
	s.writeError(w, http.StatusInternalServerError, "failed to process chart data")
}

func (s *Server) handleChartToImage(w http.ResponseWriter, r *http.Request) {
	format, err := chart.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if format.Raster() && s.opts.Rasterizer == nil {
		s.writeError(w, http.StatusNotImplemented, "raster output is disabled on this server")
		return
	}

	d, ok := s.readDescription(w, r)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := s.renderImage(r, d, format)
	s.metrics.duration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.renders.WithLabelValues(kindLabel(d.Kind), string(format), outcome).Inc()

	if err != nil {
		s.renderError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) renderImage(r *http.Request, d chart.Description, format chart.Format) (*ImageResponse, error) {
	img, err := chart.Render(d)
	if err != nil {
		return nil, err
	}
	resp := &ImageResponse{SVG: img.SVG, DataURI: img.DataURI, Type: string(chart.FormatSVG)}
	if !format.Raster() {
		return resp, nil
	}

	w, h := d.Size()
	raster, err := s.opts.Rasterizer.Rasterize(r.Context(), img.SVG, w, h, format)
	if err != nil {
		return nil, err
	}
	resp.DataURI = chart.DataURI(format.MIMEType(), raster)
	resp.Type = string(format)
	return resp, nil
}

func (s *Server) handleChartPreview(w http.ResponseWriter, r *http.Request) {
	d, ok := s.readDescription(w, r)
	if !ok {
		return
	}
	page, err := chart.GenerateHTML(d)
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
