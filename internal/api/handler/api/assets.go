// internal/api/handler/api/assets.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/latticefin/lattice/internal/api/response"
	"github.com/latticefin/lattice/internal/core"
	"github.com/latticefin/lattice/internal/graph"
	"github.com/latticefin/lattice/internal/storage/record"
)

// GraphApp defines the interface needed from app.App.
type GraphApp interface {
	Graph() *graph.Graph
	AddAsset(core.Asset)
	AddEvent(core.RegulatoryEvent)
	AddRelationship(sourceID, targetID, relType string, strength float64, bidirectional bool)
	BuildRelationships() int
	Stats() map[string]any
}

// AssetView is the public representation of an asset: core fields plus
// the variant-specific values flattened into additional_fields.
type AssetView struct {
	ID               string         `json:"id"`
	Symbol           string         `json:"symbol"`
	Name             string         `json:"name"`
	AssetClass       string         `json:"asset_class"`
	Sector           string         `json:"sector,omitempty"`
	Price            float64        `json:"price"`
	MarketCap        *float64       `json:"market_cap,omitempty"`
	Currency         string         `json:"currency"`
	AdditionalFields map[string]any `json:"additional_fields"`
}

func assetView(a core.Asset) AssetView {
	return AssetView{
		ID:               a.ID,
		Symbol:           a.Symbol,
		Name:             a.Name,
		AssetClass:       string(a.Class),
		Sector:           a.Sector,
		Price:            a.Price,
		MarketCap:        a.MarketCap,
		Currency:         a.Currency,
		AdditionalFields: a.AdditionalFields(),
	}
}

// AssetsHandler handles asset API requests.
type AssetsHandler struct {
	app GraphApp
}

// NewAssetsHandler creates a new assets handler.
func NewAssetsHandler(app GraphApp) *AssetsHandler {
	return &AssetsHandler{app: app}
}

// List handles GET /api/v1/assets?class=<class>&sector=<sector>
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	classFilter := r.URL.Query().Get("class")
	sectorFilter := r.URL.Query().Get("sector")

	var views []AssetView
	for _, a := range h.app.Graph().Assets() {
		if classFilter != "" && string(a.Class) != classFilter {
			continue
		}
		if sectorFilter != "" && a.Sector != sectorFilter {
			continue
		}
		views = append(views, assetView(a))
	}
	if views == nil {
		views = []AssetView{}
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"assets": views,
		"count":  len(views),
	})
}

// Get handles GET /api/v1/assets/{id}
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, ok := h.app.Graph().Asset(id)
	if !ok {
		response.Error(w, http.StatusNotFound, core.ErrAssetNotFound)
		return
	}
	response.JSON(w, http.StatusOK, assetView(a))
}

// Create handles POST /api/v1/assets. The body is the flat wide-row
// form; validation runs through the core constructors.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var row record.AssetRow
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidAsset, err))
		return
	}

	a, err := record.RowToAsset(row)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	h.app.AddAsset(a)
	response.JSON(w, http.StatusCreated, assetView(a))
}
