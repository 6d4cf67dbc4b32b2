package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/layout"
	"github.com/chemdeck/chemdeck/pkg/pipeline"
)

// ===== Health and discovery =====

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	modes := layout.AllModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	writeJSON(w, http.StatusOK, map[string]any{"modes": names})
}

// ===== Datasets =====

type datasetSummary struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Editable bool   `json:"editable"`
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	summaries := make([]datasetSummary, 0, len(dataset.Categories()))
	for _, category := range dataset.Categories() {
		entities, err := s.runner.Source.LoadAll(r.Context(), category)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		summaries = append(summaries, datasetSummary{
			Category: category,
			Count:    len(entities),
			Editable: s.store != nil,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": summaries})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	entities, err := s.runner.Source.LoadAll(r.Context(), category)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"count":    len(entities),
		"entities": entities,
	})
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, s.logger, errors.New(errors.ErrCodeUnsupported, "datasets are read-only on this server"))
		return
	}
	category := chi.URLParam(r, "category")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode record"))
		return
	}

	added, err := s.store.Add(r.Context(), category, fields)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, s.logger, errors.New(errors.ErrCodeUnsupported, "datasets are read-only on this server"))
		return
	}
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode record"))
		return
	}

	if err := s.store.Update(r.Context(), category, name, fields); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"updated": name})
}

func (s *Server) handleRemoveRecord(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, s.logger, errors.New(errors.ErrCodeUnsupported, "datasets are read-only on this server"))
		return
	}
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")

	if err := s.store.Remove(r.Context(), category, name); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"removed": name})
}

func (s *Server) handleResetDataset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, s.logger, errors.New(errors.ErrCodeUnsupported, "datasets are read-only on this server"))
		return
	}
	category := chi.URLParam(r, "category")

	if err := s.store.Reset(r.Context(), category); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reset": category})
}

// ===== Layouts and artifacts =====

type layoutResponse struct {
	Layout     layout.Result      `json:"layout"`
	LayoutHash string             `json:"layout_hash"`
	Stats      pipeline.Stats     `json:"stats"`
	Cache      pipeline.CacheInfo `json:"cache"`
}

func (s *Server) handleComputeLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode options"))
		return
	}
	// The API always needs the layout itself; artifacts are served separately.
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		Layout:     result.Layout,
		LayoutHash: result.LayoutHash,
		Stats:      result.Stats,
		Cache:      result.CacheInfo,
	})
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	artifact := chi.URLParam(r, "artifact")

	mode, format, ok := splitArtifact(artifact)
	if !ok {
		writeError(w, s.logger, errors.New(errors.ErrCodeInvalidFormat,
			"artifact must be <mode>.<format>, got %q", artifact))
		return
	}

	opts := pipeline.Options{
		Category:     category,
		Mode:         mode,
		Formats:      []string{format},
		FillProperty: r.URL.Query().Get("fill"),
		SizeProperty: r.URL.Query().Get("size"),
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	data := result.Artifacts[format]
	switch format {
	case pipeline.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// splitArtifact parses "polarity.png" into mode and format.
func splitArtifact(artifact string) (mode, format string, ok bool) {
	idx := strings.LastIndex(artifact, ".")
	if idx <= 0 || idx == len(artifact)-1 {
		return "", "", false
	}
	return artifact[:idx], artifact[idx+1:], true
}
