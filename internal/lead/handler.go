// internal/lead/handler.go
package lead

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler exposes the lead funnel over HTTP.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type createLeadDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Source     string `json:"source"`
	Type       string `json:"type"`
	Company    string `json:"company"`
	AssignedTo string `json:"assignedTo"`
}

type updateStatusDTO struct {
	Status string `json:"status"`
}

// Create handles POST /leads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createLeadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(dto.Name) == "" || strings.TrimSpace(dto.Email) == "" ||
		strings.TrimSpace(dto.Phone) == "" || dto.Source == "" || dto.Type == "" ||
		strings.TrimSpace(dto.AssignedTo) == "" {
		http.Error(w, "name, email, phone, source, type and assignedTo are required", http.StatusBadRequest)
		return
	}

	lead, err := h.Engine.AddLead(workflow.LeadInput{
		Name:       dto.Name,
		Email:      dto.Email,
		Phone:      dto.Phone,
		Source:     models.LeadSource(dto.Source),
		Type:       models.ClientType(dto.Type),
		Company:    dto.Company,
		AssignedTo: dto.AssignedTo,
	})
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(lead)
}

// List handles GET /leads. Callers filter the collection themselves.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.View()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state.Leads)
}

// GetByID handles GET /leads/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := h.Engine.View()
	lead, ok := state.FindLead(id)
	if !ok {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lead)
}

// UpdateStatus handles PATCH /leads/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto updateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if dto.Status == "" {
		http.Error(w, "the 'status' field is required", http.StatusBadRequest)
		return
	}

	lead, err := h.Engine.UpdateLeadStatus(id, models.LeadStatus(dto.Status))
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lead)
}
