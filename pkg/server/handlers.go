package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/boxtower/pkg/buildinfo"
	coded "github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
	"github.com/matzehuels/boxtower/pkg/render/tower/transform"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    coded.Code `json:"code"`
	Message string     `json:"message"`
}

type layoutResponse struct {
	RequestID string        `json:"request_id"`
	GraphHash string        `json:"graph_hash"`
	Cached    bool          `json:"cached"`
	Layout    layout.Layout `json:"layout"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(opts.Formats) != 1 {
		s.writeError(w, r, coded.New(coded.ErrCodeInvalidInput, "exactly one format per request"))
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Cache", cacheStatus(res.CacheInfo.LayoutHit))
	if opts.VizType == pipeline.VizTypeTower {
		h.Set("X-Layout-Optimal", strconv.FormatBool(res.Layout.Stats.Optimal))
		h.Set("X-Layout-Perimeter", strconv.Itoa(res.Layout.Stats.Perimeter))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		RequestID: RequestID(r.Context()),
		GraphHash: pipeline.GraphHash(g),
		Cached:    hit,
		Layout:    l,
	})
}

// options builds validated pipeline options from the server defaults, the
// query string and the request body.
func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := readBody(w, r)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := s.defaults
	opts.Source = "request"
	opts.Input = body
	opts.Logger = s.logger.With("id", RequestID(r.Context()))
	if opts.Transform == (transform.Options{}) {
		opts.Transform = transform.DefaultOptions()
	}
	if limit := s.requestTimeout * 9 / 10; opts.Layout.Timeout <= 0 || opts.Layout.Timeout > limit {
		opts.Layout.Timeout = limit
	}

	q := r.URL.Query()
	if v := q.Get("viz"); v != "" {
		opts.VizType = v
	}
	opts.Formats = []string{pipeline.FormatSVG}
	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("height_policy"); v != "" {
		opts.Layout.HeightPolicy = layout.HeightPolicy(v)
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return pipeline.Options{}, coded.New(coded.ErrCodeInvalidInput, "invalid seed %q", v)
		}
		opts.Transform.Seed = seed
	}
	if v := q.Get("jitter"); v != "" {
		jitter, err := strconv.Atoi(v)
		if err != nil {
			return pipeline.Options{}, coded.New(coded.ErrCodeInvalidInput, "invalid jitter %q", v)
		}
		opts.Transform.Jitter = jitter
	}
	if v := q.Get("transitive"); v != "" {
		transitive, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, coded.New(coded.ErrCodeInvalidInput, "invalid transitive %q", v)
		}
		opts.Transitive = transitive
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, coded.MaxDocumentSize))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, coded.New(coded.ErrCodeInvalidInput, "request body exceeds %d bytes", coded.MaxDocumentSize)
	}
	if err != nil {
		return nil, coded.Wrap(coded.ErrCodeInvalidInput, err, "cannot read request body")
	}
	if err := coded.ValidateDocument("request body", data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := coded.Classify(err)
	status := statusFor(e.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "code", e.Code, "error", err)
	}
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: e.Code, Message: e.Message},
		RequestID: RequestID(r.Context()),
	})
}

func statusFor(code coded.Code) int {
	switch code {
	case coded.ErrCodeInvalidInput, coded.ErrCodeInvalidSyntax, coded.ErrCodeInvalidFormat,
		coded.ErrCodeInvalidStyle, coded.ErrCodeInvalidPath,
		coded.ErrCodeDuplicateNode, coded.ErrCodeUnknownDependency, coded.ErrCodeUnknownNode:
		return http.StatusBadRequest
	case coded.ErrCodePackageNotFound:
		return http.StatusNotFound
	case coded.ErrCodeNetwork:
		return http.StatusBadGateway
	case coded.ErrCodeLayoutInfeasible:
		return http.StatusUnprocessableEntity
	case coded.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case coded.ErrCodeCanceled:
		return http.StatusRequestTimeout
	case coded.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
