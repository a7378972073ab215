package server

import (
	"errors"
	"io"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
	"github.com/vovakirdan/gamify/internal/design/formats"
)

const maxBodyBytes = 1 << 20

type designSummary struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Rules  int         `json:"rules"`
	Spawn  *core.Point `json:"spawn"`
}

type moveResponse struct {
	Grid   *core.Grid  `json:"grid"`
	Player *core.Point `json:"player"`
	Rule   int         `json:"rule"`
	Moved  bool        `json:"moved"`
}

type problem struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type checkResponse struct {
	Valid    bool      `json:"valid"`
	Problems []problem `json:"problems"`
}

// listDesigns handles GET /api/designs
func (s *Server) listDesigns(w http.ResponseWriter, r *http.Request) {
	designs, err := s.designs.Designs()
	if err != nil {
		s.log.Error("Failed to list designs", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot list designs")
		return
	}

	out := make([]designSummary, 0, len(designs))
	for _, d := range designs {
		out = append(out, designSummary{
			ID:     d.ID,
			Name:   d.Title(),
			Width:  d.Grid.Width(),
			Height: d.Grid.Height(),
			Rules:  len(d.Rules),
			Spawn:  d.Player,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// getDesign handles GET /api/designs/{id}
func (s *Server) getDesign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.designs.Design(id)
	if err != nil {
		s.log.Error("Failed to load design", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "cannot load design")
		return
	}
	if d == nil {
		respondError(w, http.StatusNotFound, "design not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// move handles POST /api/move. The body is a canonical bundle plus
// "direction" and an optional "seed" for alias resolution.
func (s *Server) move(w http.ResponseWriter, r *http.Request) {
	body, d, ok := s.readBundle(w, r)
	if !ok {
		return
	}

	dir, ok := core.ParseDirection(gjson.GetBytes(body, "direction").String())
	if !ok {
		respondError(w, http.StatusBadRequest, "direction must be one of up, right, down, left")
		return
	}

	seed := s.now().UnixNano()
	if v := gjson.GetBytes(body, "seed"); v.Exists() {
		seed = v.Int()
	}

	res, err := core.Step(d.MoveInput(d.Grid, d.Player, dir), rand.New(rand.NewSource(seed)))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, moveResponse{
		Grid:   res.Grid,
		Player: res.Player,
		Rule:   res.Rule,
		Moved:  res.Moved(),
	})
}

// check handles POST /api/check
func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	_, d, ok := s.readBundle(w, r)
	if !ok {
		return
	}

	resp := checkResponse{Problems: []problem{}}
	for _, err := range design.Problems(d) {
		p := problem{Message: err.Error()}
		var cerr *core.Error
		if errors.As(err, &cerr) {
			p.Code = string(cerr.Code)
		}
		resp.Problems = append(resp.Problems, p)
	}
	resp.Valid = len(resp.Problems) == 0
	respondJSON(w, http.StatusOK, resp)
}

// readBundle decodes the request body as a canonical bundle. On failure it
// writes the error response and returns false.
func (s *Server) readBundle(w http.ResponseWriter, r *http.Request) ([]byte, *design.Design, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, nil, false
	}
	if !gjson.ValidBytes(body) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, false
	}

	b, err := formats.DecodeJSON(body)
	if err != nil {
		respondEngineError(w, err)
		return nil, nil, false
	}
	return body, design.FromBundle(b), true
}

// respondEngineError maps configuration errors to 422 and everything else
// to 400.
func respondEngineError(w http.ResponseWriter, err error) {
	var cerr *core.Error
	if errors.As(err, &cerr) {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: err.Error(),
			Code:  string(cerr.Code),
		})
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}
