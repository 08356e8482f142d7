package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fraud-dashboard/internal/artifact"
	"github.com/sells-group/fraud-dashboard/internal/dashboard"
	"github.com/sells-group/fraud-dashboard/internal/export"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"snapshot":  s.snap.ID,
		"providers": s.snap.Table.Len(),
	})
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	view, err := dashboard.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.snap.Render(view, q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := s.snap.Explore(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// providerResponse adds image URLs to a lookup result.
type providerResponse struct {
	dashboard.LookupResult
	WaterfallURL string `json:"waterfall_url,omitempty"`
}

func (s *Server) handleProvider(w http.ResponseWriter, r *http.Request) {
	res := s.snap.Lookup(chi.URLParam(r, "id"))
	resp := providerResponse{LookupResult: res}
	if res.WaterfallAvailable {
		resp.WaterfallURL = waterfallURL(res.Index)
	}
	status := http.StatusOK
	if !res.Found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.FormatFromPath(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs, err := s.snap.Filtered(q.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := "providers_" + string(q.Filter.Label) + "." + string(format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if err := export.Write(w, format, s.snap.Table.Columns, recs); err != nil {
		s.log.Error("export failed", zap.String("format", string(format)), zap.Error(err))
	}
}

func (s *Server) handleWaterfall(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	p, err := s.snap.Catalog.Waterfall(index)
	if err != nil {
		s.artifactError(w, err)
		return
	}
	http.ServeFile(w, r, p)
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	p, err := s.snap.Catalog.GlobalPath(chi.URLParam(r, "name"))
	if err != nil {
		s.artifactError(w, err)
		return
	}
	http.ServeFile(w, r, p)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.snap.Catalog.GlobalPath(name)
	if err != nil {
		s.artifactError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filepath.Base(p)}))
	http.ServeFile(w, r, p)
}

func (s *Server) artifactError(w http.ResponseWriter, err error) {
	if eris.Is(err, artifact.ErrArtifactNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error("artifact lookup failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "artifact unavailable")
}

func waterfallURL(index int) string {
	return "/artifacts/waterfall/" + strconv.Itoa(index)
}

func globalURL(name string) string {
	return "/artifacts/global/" + name
}

func downloadURL(name string) string {
	return "/downloads/" + name
}
