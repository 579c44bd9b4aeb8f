package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/matzehuels/layermerge/pkg/buildinfo"
	apperr "github.com/matzehuels/layermerge/pkg/errors"
	treeio "github.com/matzehuels/layermerge/pkg/io"
	"github.com/matzehuels/layermerge/pkg/observability"
	"github.com/matzehuels/layermerge/pkg/pipeline"
	"github.com/matzehuels/layermerge/pkg/view"
)

// TreeRequest is the body of /v1/flatten and /v1/check.
type TreeRequest struct {
	Options pipeline.Options `json:"options"`
	Tree    *treeio.Document `json:"tree"`
}

// FlattenResponse is the body returned by /v1/flatten.
type FlattenResponse struct {
	Result *pipeline.Result `json:"result"`
	Tree   treeio.Document  `json:"tree"`

	// Output holds the encoded tree when a format other than json was
	// requested.
	Output string `json:"output,omitempty"`
}

// RenderRequest is the body of /v1/render.
type RenderRequest struct {
	Format   string           `json:"format"`
	Detailed bool             `json:"detailed,omitempty"`
	Tree     *treeio.Document `json:"tree"`
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatText: "text/plain; charset=utf-8",
	"json":              "application/json",
	"yaml":              "application/yaml",
	"toml":              "application/toml",
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	var req TreeRequest
	root, err := s.decodeTree(w, r, &req, func() *treeio.Document { return req.Tree })
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))
	res, err := s.runner.Execute(r.Context(), root, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := FlattenResponse{Result: res, Tree: treeio.FromTree(res.Tree)}
	if f := opts.Format; f != "" && f != string(treeio.FormatJSON) {
		resp.Output = string(res.Output)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req TreeRequest
	root, err := s.decodeTree(w, r, &req, func() *treeio.Document { return req.Tree })
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))
	rep, err := s.runner.Check(r.Context(), root, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	root, err := s.decodeTree(w, r, &req, func() *treeio.Document { return req.Tree })
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}

	data, err := pipeline.Render(r.Context(), root, req.Format, pipeline.RenderOptions{Detailed: req.Detailed})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type pinger interface {
		Ping(ctx context.Context) error
	}
	if p, ok := s.runner.Cache.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "cache": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

// decodeTree reads a JSON body into dst and builds the tree that tree()
// returns once decoding is done.
func (s *Server) decodeTree(w http.ResponseWriter, r *http.Request, dst any, tree func() *treeio.Document) (*view.Node, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request")
	}

	doc := tree()
	if doc == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "tree is required")
	}
	return doc.Tree()
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	id := RequestIDFrom(ctx)
	observability.HTTP().OnError(ctx, id, r.Method, r.URL.Path, err)

	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", id, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "id", id, "path", r.URL.Path, "code", code, "err", err)
	}

	msg := apperr.UserMessage(err)
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg, RequestID: id})
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidFormat, apperr.ErrCodeInvalidFlags:
		return http.StatusBadRequest
	case apperr.ErrCodeInvalidTree, apperr.ErrCodeInvalidResult, apperr.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case apperr.ErrCodeNotReady:
		return http.StatusConflict
	case apperr.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
