// internal/deal/handler.go
package deal

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/utils"
	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler exposes the deal pipeline over HTTP.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type createDealDTO struct {
	LeadID        string  `json:"leadId"`
	Value         float64 `json:"value"`
	ExpectedClose string  `json:"expectedClose"`
}

type updateStageDTO struct {
	Stage string `json:"stage"`
}

// Create handles POST /deals: converts a lead into a deal.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createDealDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if dto.LeadID == "" {
		http.Error(w, "the 'leadId' field is required", http.StatusBadRequest)
		return
	}
	if dto.Value <= 0 {
		http.Error(w, "the 'value' field must be positive", http.StatusBadRequest)
		return
	}

	expectedClose := time.Time{}
	if dto.ExpectedClose != "" {
		t, err := utils.ParseDate(dto.ExpectedClose)
		if err != nil {
			http.Error(w, "invalid expectedClose date", http.StatusBadRequest)
			return
		}
		expectedClose = t
	}

	deal, err := h.Engine.CreateDealFromLead(dto.LeadID, dto.Value, expectedClose)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(deal)
}

// List handles GET /deals.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.View()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state.Deals)
}

// GetByID handles GET /deals/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := h.Engine.View()
	deal, ok := state.FindDeal(id)
	if !ok {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(deal)
}

// UpdateStage handles PATCH /deals/{id}/stage. Only graph-legal moves are
// accepted; stages owned by dedicated operations are rejected.
func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto updateStageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if dto.Stage == "" {
		http.Error(w, "the 'stage' field is required", http.StatusBadRequest)
		return
	}

	deal, err := h.Engine.UpdateDealStage(id, models.DealStage(dto.Stage))
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(deal)
}
