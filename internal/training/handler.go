// internal/training/handler.go
package training

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/notify"
	"github.com/traindesk/api-crm/internal/utils"
	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler exposes training classes, learners and certification over HTTP.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type scheduleDTO struct {
	DealID     string  `json:"dealId"`
	CourseName string  `json:"courseName"`
	Duration   string  `json:"duration"`
	Hours      float64 `json:"hours"`
	Classroom  string  `json:"classroom"`
	TrainerID  string  `json:"trainerId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
}

type rescheduleDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type addLearnerDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// classResponse carries the scheduled class plus the advisory availability
// warning, when any. The warning never blocks scheduling.
type classResponse struct {
	Class   models.TrainingClass `json:"class"`
	Warning string               `json:"warning,omitempty"`
}

// Schedule handles POST /trainings. Rejected outright when the deal is
// unpaid or the trainer is double-booked.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var dto scheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if dto.DealID == "" || dto.TrainerID == "" || strings.TrimSpace(dto.CourseName) == "" {
		http.Error(w, "dealId, trainerId and courseName are required", http.StatusBadRequest)
		return
	}
	start, err := utils.ParseDate(dto.StartDate)
	if err != nil {
		http.Error(w, "invalid startDate", http.StatusBadRequest)
		return
	}
	end, err := utils.ParseDate(dto.EndDate)
	if err != nil {
		http.Error(w, "invalid endDate", http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		http.Error(w, "endDate must not precede startDate", http.StatusBadRequest)
		return
	}

	class, warning, err := h.Engine.ScheduleTraining(workflow.ScheduleTrainingInput{
		DealID:     dto.DealID,
		CourseName: dto.CourseName,
		Duration:   dto.Duration,
		Hours:      dto.Hours,
		Classroom:  dto.Classroom,
		TrainerID:  dto.TrainerID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(classResponse{Class: class, Warning: warning})
}

// List handles GET /trainings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.View()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state.TrainingClasses)
}

// GetByID handles GET /trainings/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := h.Engine.View()
	class, ok := state.FindTrainingClass(id)
	if !ok {
		http.Error(w, "training class not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(class)
}

// Reschedule handles PATCH /trainings/{id}/reschedule.
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto rescheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	start, err := utils.ParseDate(dto.StartDate)
	if err != nil {
		http.Error(w, "invalid startDate", http.StatusBadRequest)
		return
	}
	end, err := utils.ParseDate(dto.EndDate)
	if err != nil {
		http.Error(w, "invalid endDate", http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		http.Error(w, "endDate must not precede startDate", http.StatusBadRequest)
		return
	}

	class, warning, err := h.Engine.RescheduleTraining(id, start, end)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(classResponse{Class: class, Warning: warning})
}

// Confirm handles POST /trainings/{id}/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.Engine.ConfirmTrainingClass)
}

// Start handles POST /trainings/{id}/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.Engine.StartTrainingClass)
}

// Complete handles POST /trainings/{id}/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.Engine.CompleteTrainingClass)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, op func(string) (models.TrainingClass, error)) {
	id := mux.Vars(r)["id"]
	class, err := op(id)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(class)
}

// AddLearner handles POST /trainings/{id}/learners.
func (h *Handler) AddLearner(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto addLearnerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(dto.Name) == "" {
		http.Error(w, "the 'name' field is required", http.StatusBadRequest)
		return
	}

	learner, err := h.Engine.AddLearner(id, dto.Name, dto.Email)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(learner)
}

// ListLearners handles GET /trainings/{id}/learners.
func (h *Handler) ListLearners(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := h.Engine.View()
	if _, ok := state.FindTrainingClass(id); !ok {
		http.Error(w, "training class not found", http.StatusNotFound)
		return
	}
	out := []models.Learner{}
	for _, l := range state.Learners {
		if l.TrainingID == id {
			out = append(out, l)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// IssueCertificate handles POST /learners/{id}/certificate. Re-issuance is
// rejected; the first certificate stands.
func (h *Handler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	learner, err := h.Engine.IssueCertificate(id)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}

	go notify.SendCertificateIssued(learner.Name, learner.CertificateID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(learner)
}
