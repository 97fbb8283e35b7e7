// internal/api/handler/api/graph.go
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/latticefin/lattice/internal/api/response"
	"github.com/latticefin/lattice/internal/core"
	"github.com/latticefin/lattice/internal/graph"
	"github.com/latticefin/lattice/internal/storage/snapshot"
)

// GraphHandler handles graph-level API requests.
type GraphHandler struct {
	app GraphApp
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(app GraphApp) *GraphHandler {
	return &GraphHandler{app: app}
}

// RelationshipRequest is the request body for an explicit edge. Strength
// defaults to 0.5 when omitted.
type RelationshipRequest struct {
	SourceID         string   `json:"source_id"`
	TargetID         string   `json:"target_id"`
	RelationshipType string   `json:"relationship_type"`
	Strength         *float64 `json:"strength"`
	Bidirectional    bool     `json:"bidirectional"`
}

// Relationships handles GET /api/v1/relationships?source_id=<id>
func (h *GraphHandler) Relationships(w http.ResponseWriter, r *http.Request) {
	sourceID := r.URL.Query().Get("source_id")

	var rels []graph.Relationship
	for _, rel := range h.app.Graph().Relationships() {
		if sourceID != "" && rel.SourceID != sourceID {
			continue
		}
		rels = append(rels, rel)
	}
	if rels == nil {
		rels = []graph.Relationship{}
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"relationships": rels,
		"count":         len(rels),
	})
}

// CreateRelationship handles POST /api/v1/relationships
func (h *GraphHandler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	var req RelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidAsset, err))
		return
	}

	if req.SourceID == "" || req.TargetID == "" || req.RelationshipType == "" {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidAsset, nil))
		return
	}

	strength := 0.5
	if req.Strength != nil {
		strength = *req.Strength
	}
	h.app.AddRelationship(req.SourceID, req.TargetID, req.RelationshipType,
		strength, req.Bidirectional)

	response.JSON(w, http.StatusCreated, map[string]any{
		"source_id":         req.SourceID,
		"target_id":         req.TargetID,
		"relationship_type": req.RelationshipType,
		"strength":          strength,
		"bidirectional":     req.Bidirectional,
	})
}

// Build handles POST /api/v1/graph/build
func (h *GraphHandler) Build(w http.ResponseWriter, r *http.Request) {
	added := h.app.BuildRelationships()
	response.JSON(w, http.StatusOK, map[string]any{
		"new_relationships": added,
	})
}

// Metrics handles GET /api/v1/graph/metrics
func (h *GraphHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.app.Graph().CalculateMetrics())
}

// Visualization handles GET /api/v1/graph/visualization
func (h *GraphHandler) Visualization(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.app.Graph().VisualizationData())
}

// Stats handles GET /api/v1/stats
func (h *GraphHandler) Stats(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.app.Stats())
}

// SnapshotApp defines the snapshot interface needed from app.App.
type SnapshotApp interface {
	SaveSnapshot(ctx context.Context, name string) (snapshot.Snapshot, error)
}

// SnapshotHandler handles snapshot API requests.
type SnapshotHandler struct {
	app SnapshotApp
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(app SnapshotApp) *SnapshotHandler {
	return &SnapshotHandler{app: app}
}

// SnapshotRequest is the optional request body for saving a snapshot.
type SnapshotRequest struct {
	Name string `json:"name"`
}

// Save handles POST /api/v1/snapshots
func (h *SnapshotHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrStorageFailed, err))
			return
		}
	}

	s, err := h.app.SaveSnapshot(r.Context(), req.Name)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"id":            s.ID,
		"assets":        len(s.Assets),
		"relationships": len(s.Relationships),
		"events":        len(s.Events),
	})
}
