package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/treeflow/pkg/convert"
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/pipeline"
	"github.com/matzehuels/treeflow/pkg/source"
)

// Response headers describing a render.
const (
	HeaderLifecycleID = "X-Treeflow-Lifecycle"
	HeaderCache       = "X-Treeflow-Cache"
	HeaderWarnings    = "X-Treeflow-Warnings"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatNodelink: "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
}

type errorResponse struct {
	Error       string   `json:"error"`
	Message     string   `json:"message"`
	Causes      []string `json:"causes,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
	LifecycleID string   `json:"lifecycle_id,omitempty"`
	State       string   `json:"state,omitempty"`
}

type convertResponse struct {
	Graph    *graph.Graph      `json:"graph"`
	Warnings []convert.Warning `json:"warnings"`
	Cached   bool              `json:"cached"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleRenderBody(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	s.render(w, r, &source.Bytes{Data: raw, Name: "request"})
}

func (s *Server) handleRenderURL(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if u == "" {
		u = source.DefaultURL
	}
	if err := errors.ValidateURL(u); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	if err := s.checkHost(u); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	s.render(w, r, &source.HTTP{URL: u, Client: s.client})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, src source.Source) {
	opts, format, err := s.optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	opts.LifecycleID = requestUUID(r.Context())
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	result, err := s.runner.Execute(r.Context(), src, opts)
	if err != nil {
		s.writeError(w, r, err, result)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.ExportHit {
		cacheState = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set(HeaderLifecycleID, result.LifecycleID.String())
	h.Set(HeaderCache, cacheState)
	h.Set(HeaderWarnings, strconv.Itoa(len(result.Warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	opts := s.cfg.Defaults.Clone()
	opts.Refresh = r.URL.Query().Get("refresh") == "true"
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	res, hit, err := s.runner.ConvertWithCacheInfo(r.Context(), raw, opts)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []convert.Warning{}
	}
	s.writeJSON(w, http.StatusOK, convertResponse{Graph: res.Graph, Warnings: warnings, Cached: hit})
}

// =============================================================================
// Request Parsing
// =============================================================================

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return raw, nil
}

// optionsFromQuery overlays query parameters on the server defaults and
// returns the single requested format.
func (s *Server) optionsFromQuery(q url.Values) (pipeline.Options, string, error) {
	opts := s.cfg.Defaults.Clone()
	opts.States = nil

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, "", err
	}
	opts.Formats = []string{format}

	floats := map[string]*float64{
		"indent":     &opts.Indent,
		"row_height": &opts.RowHeight,
		"width":      &opts.Width,
		"height":     &opts.Height,
		"scale":      &opts.Scale,
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, "", errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
			}
			*dst = f
		}
	}

	bools := map[string]func(bool){
		"drop_cap":    func(b bool) { opts.DropCap = b },
		"interactive": func(b bool) { opts.Interactive = &b },
		"refresh":     func(b bool) { opts.Refresh = b },
	}
	for name, set := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, "", errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
			}
			set(b)
		}
	}

	if v := q.Get("direction"); v != "" {
		opts.Direction = layout.Direction(v)
	}

	states := make(map[string]string)
	for _, id := range q["hover"] {
		states[id] = "hover"
	}
	for _, id := range q["select"] {
		states[id] = "selected"
	}
	if len(states) > 0 {
		opts.States = states
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", err
	}
	return opts, format, nil
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, result *pipeline.Result) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	resp := errorResponse{
		Error:     string(code),
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}
	if codes := errors.Codes(err); len(codes) > 1 {
		for _, c := range codes[1:] {
			resp.Causes = append(resp.Causes, string(c))
		}
	}
	if result != nil {
		resp.LifecycleID = result.LifecycleID.String()
		resp.State = result.State.String()
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "code", code, "err", err, "request_id", resp.RequestID)
	} else {
		s.logger.Warn("request rejected", "status", status, "code", code, "err", err, "request_id", resp.RequestID)
	}
	s.writeJSON(w, status, resp)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidPath, errors.ErrCodeDuplicateNode:
		return http.StatusBadRequest
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeFetchFailed, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
