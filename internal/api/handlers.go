package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pvlab/sunrack/pkg/errors"
	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/pipeline"
	"github.com/pvlab/sunrack/pkg/plan"
	"github.com/pvlab/sunrack/pkg/solar"
	"github.com/pvlab/sunrack/pkg/store"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Plan & Estimate
// =============================================================================

type planRequest struct {
	Site      [][]float64 `json:"site"`
	Config    plan.Config `json:"config"`
	TargetGCR float64     `json:"target_gcr,omitempty"`
	Formats   []string    `json:"formats,omitempty"`
	Refresh   bool        `json:"refresh,omitempty"`
}

type planResponse struct {
	SiteHash  string             `json:"site_hash"`
	Result    *plan.Result       `json:"result"`
	Estimate  *plan.Estimate     `json:"estimate"`
	Cache     pipeline.CacheInfo `json:"cache"`
	Artifacts map[string]string  `json:"artifacts,omitempty"`
}

func (s *Server) handlePlan(w http.ResponseWriter, req *http.Request) {
	var body planRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	site, err := polygonFromVertices(body.Site)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Site:      site,
		Config:    body.Config,
		TargetGCR: body.TargetGCR,
		Formats:   body.Formats,
		Refresh:   body.Refresh,
		Logger:    s.logger,
	}
	result, err := s.runner.Execute(req.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := planResponse{
		SiteHash: result.SiteHash,
		Result:   result.Layout,
		Estimate: result.Estimate,
		Cache:    result.CacheInfo,
	}
	// The JSON artifact duplicates Result; only non-JSON formats are
	// echoed back inline.
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(data)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type estimateRequest struct {
	SiteArea  float64         `json:"site_area"`
	Module    plan.ModuleDims `json:"module"`
	TargetGCR float64         `json:"target_gcr"`
	Latitude  float64         `json:"latitude"`
	TiltAngle float64         `json:"tilt_angle"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, req *http.Request) {
	var body estimateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	estimate, err := plan.Optimize(body.SiteArea, body.Module, body.TargetGCR, body.Latitude, body.TiltAngle)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, estimate)
}

// =============================================================================
// Sun Path
// =============================================================================

func (s *Server) handleSunPath(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "lat query parameter is required"))
		return
	}
	lon := 0.0
	if v := q.Get("lon"); v != "" {
		if lon, err = strconv.ParseFloat(v, 64); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid lon: %q", v))
			return
		}
	}
	date := solar.WinterSolstice(time.Now().UTC().Year())
	if v := q.Get("date"); v != "" {
		if date, err = time.Parse("2006-01-02", v); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid date: %q (want YYYY-MM-DD)", v))
			return
		}
	}
	positions, err := solar.SunPath(lat, lon, date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":      date.Format("2006-01-02"),
		"positions": positions,
	})
}

// =============================================================================
// Projects
// =============================================================================

type projectRequest struct {
	Name   string      `json:"name"`
	Site   [][]float64 `json:"site"`
	Config plan.Config `json:"config"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, req *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var body projectRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	site, err := polygonFromVertices(body.Site)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := body.Config.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	p := &store.Project{Name: body.Name, Site: site, Config: body.Config}
	if err := s.store.SaveProject(req.Context(), p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, req *http.Request) {
	if !s.requireStore(w) {
		return
	}
	projects, err := s.store.ListProjects(req.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, req *http.Request) {
	if !s.requireStore(w) {
		return
	}
	p, err := s.store.Project(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, req *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.DeleteProject(req.Context(), chi.URLParam(req, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunLayout(w http.ResponseWriter, req *http.Request) {
	if !s.requireStore(w) {
		return
	}
	p, err := s.store.Project(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	layout, err := s.runner.Plan(req.Context(), pipeline.Options{
		Site:   p.Site,
		Config: p.Config,
		Logger: s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	l := &store.Layout{ProjectID: p.ID, Result: *layout}
	if err := s.store.SaveLayout(req.Context(), l); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, req *http.Request) {
	if !s.requireStore(w) {
		return
	}
	layouts, err := s.store.LayoutsForProject(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layouts)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: errorDetail{
			Code:    "STORAGE_UNAVAILABLE",
			Message: "project storage is not configured",
		}})
		return false
	}
	return true
}

func polygonFromVertices(vertices [][]float64) (geom.Polygon, error) {
	if len(vertices) < 3 {
		return geom.Polygon{}, errors.New(errors.ErrCodeInvalidPolygon,
			"site needs at least 3 vertices, got %d", len(vertices))
	}
	pts := make([]geom.Point, len(vertices))
	for i, v := range vertices {
		if len(v) != 2 {
			return geom.Polygon{}, errors.New(errors.ErrCodeInvalidPolygon,
				"vertex %d needs exactly 2 coordinates, got %d", i, len(v))
		}
		pts[i] = geom.Pt(v[0], v[1])
	}
	return geom.NewPolygon(pts...), nil
}
