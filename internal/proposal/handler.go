// internal/proposal/handler.go
package proposal

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler exposes proposals over HTTP.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type courseDTO struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration string  `json:"duration"`
}

type createProposalDTO struct {
	DealID  string      `json:"dealId"`
	Courses []courseDTO `json:"courses"`
}

// Create handles POST /proposals. TotalValue is computed here once and
// never re-derived.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createProposalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if dto.DealID == "" {
		http.Error(w, "the 'dealId' field is required", http.StatusBadRequest)
		return
	}
	if len(dto.Courses) == 0 {
		http.Error(w, "the 'courses' list cannot be empty", http.StatusBadRequest)
		return
	}

	courses := make([]models.Course, 0, len(dto.Courses))
	for _, c := range dto.Courses {
		courses = append(courses, models.Course{Name: c.Name, Price: c.Price, Duration: c.Duration})
	}

	p, err := h.Engine.CreateProposal(dto.DealID, courses)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// List handles GET /proposals.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.View()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state.Proposals)
}

// GetByID handles GET /proposals/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := h.Engine.View()
	p, ok := state.FindProposal(id)
	if !ok {
		http.Error(w, "proposal not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

type acceptResponse struct {
	Proposal models.Proposal `json:"proposal"`
	Invoice  models.Invoice  `json:"invoice"`
}

// Accept handles POST /proposals/{id}/accept. The invoice is raised in the
// same commit and returned alongside.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, inv, err := h.Engine.AcceptProposal(id)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(acceptResponse{Proposal: p, Invoice: inv})
}

// Reject handles POST /proposals/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.Engine.RejectProposal(id)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}
