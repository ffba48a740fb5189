package server

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	fgerrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Session   string `json:"session"`
	Scheduler string `json:"scheduler"`
	Seq       uint64 `json:"seq"`
}

// SnapshotResponse is the body of GET /api/v1/snapshot.
type SnapshotResponse struct {
	Session    string             `json:"session"`
	Seq        uint64             `json:"seq"`
	Epoch      uint64             `json:"epoch"`
	Converged  bool               `json:"converged"`
	At         time.Time          `json:"at"`
	DurationMS float64            `json:"duration_ms"`
	Counters   scheduler.Counters `json:"counters"`
	Layout     layout.File        `json:"layout"`
}

// ReseedRequest is the optional body of POST /api/v1/reseed.
type ReseedRequest struct {
	// Seed makes the new start positions reproducible. Zero is random.
	Seed uint64 `json:"seed"`
}

// ReseedResponse reports the frame published by a reseed.
type ReseedResponse struct {
	Seq   uint64 `json:"seq"`
	Epoch uint64 `json:"epoch"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Session:   s.id,
		Scheduler: s.sched.ID(),
		Seq:       s.sched.Latest().Seq,
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	f := s.sched.Latest()
	opts := s.sched.Options()
	s.respondJSON(w, http.StatusOK, SnapshotResponse{
		Session:    s.id,
		Seq:        f.Seq,
		Epoch:      f.Epoch,
		Converged:  s.sched.Converged(),
		At:         f.At,
		DurationMS: float64(f.Duration) / float64(time.Millisecond),
		Counters:   s.sched.Stats(),
		Layout:     layout.Export(f.Snapshot, opts.Params, opts.Seed, f.Stats),
	})
}

func (s *Server) handleSnapshotSVG(w http.ResponseWriter, r *http.Request) {
	f := s.sched.Latest()
	data, err := render.Render(r.Context(), f.Snapshot, render.FormatSVG, s.opts.Render)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleReseed(w http.ResponseWriter, r *http.Request) {
	var req ReseedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, r, fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "decode reseed request"))
		return
	}

	var rng *rand.Rand
	if req.Seed != 0 {
		rng = rand.New(rand.NewPCG(req.Seed, req.Seed^0x9e3779b97f4a7c15))
	}
	g := s.sched.Latest().Snapshot.Graph()
	f, err := s.sched.Reseed(r.Context(), layout.NewSnapshot(g, rng))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.logger.Info("reseeded", "seq", f.Seq, "epoch", f.Epoch, "seed", req.Seed)
	s.respondJSON(w, http.StatusOK, ReseedResponse{Seq: f.Seq, Epoch: f.Epoch})
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

// respondError writes a standardized JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := fgerrors.GetCode(err)
	if code == "" {
		code = fgerrors.ErrCodeInternal
	}
	status := fgerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", requestIDFrom(r.Context()))
	}

	resp := map[string]string{
		"code":    string(code),
		"message": fgerrors.UserMessage(err),
	}
	if id := requestIDFrom(r.Context()); id != "" {
		resp["request_id"] = id
	}
	s.respondJSON(w, status, resp)
}
