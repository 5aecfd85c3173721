package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/celldraw/pkg/buildinfo"
	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/errors"
	"github.com/matzehuels/celldraw/pkg/pipeline"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatDeps: "image/svg+xml",
}

// errorResponse is the body of a failed request that produced no diagram.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	data, opts, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	_, d, hit, err := s.runner.ResolveWithCacheInfo(r.Context(), data, opts)
	setCacheHeader(w, hit)
	writeJSON(w, diagramStatus(err), d)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	data, opts, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	spec, d, hit, err := s.runner.ResolveWithCacheInfo(r.Context(), data, opts)
	if err != nil {
		writeJSON(w, diagramStatus(err), d)
		return
	}

	artifacts, renderHit, err := s.runner.RenderWithCacheInfo(r.Context(), spec, d, data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit && renderHit)
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// readRequest reads the body and builds pipeline options from the query.
// On failure the error response has already been written.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, pipeline.Options, bool) {
	opts, err := s.queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:     "diagram larger than " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
				Code:      string(errors.ErrCodeInvalidInput),
				RequestID: RequestID(r.Context()),
			})
			return nil, opts, false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return nil, opts, false
	}
	return data, opts, true
}

func (s *Server) queryOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.base
	opts.Logger = s.logger
	q := r.URL.Query()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"node_radius", &opts.NodeRadius},
		{"view_padding", &opts.ViewPadding},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s: invalid number %q", f.name, v)
		}
		if err := errors.ValidateMagnitude(f.name, n, diagram.MaxCoordinate); err != nil {
			return opts, err
		}
		*f.dst = n
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"refresh", &opts.Refresh},
		{"embed_font", &opts.EmbedFont},
		{"outlines", &opts.Outlines},
		{"detailed", &opts.Detailed},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s: invalid boolean %q", f.name, v)
		}
		*f.dst = b
	}
	return opts, nil
}

// diagramStatus is the status for a computed diagram document. Invalid
// input answers 400 and a dependency cycle 422.
func diagramStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return errors.HTTPStatus(err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	})
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
		return
	}
	w.Header().Set("X-Cache", "miss")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatJSON])
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
