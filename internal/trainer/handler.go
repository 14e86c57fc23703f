// internal/trainer/handler.go
package trainer

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/traindesk/api-crm/internal/auth"
	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler exposes trainer profiles over HTTP.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type slotDTO struct {
	Day       int    `json:"day"` // 0 = Sunday, matching time.Weekday
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type profileDTO struct {
	Skills       []string  `json:"skills"`
	Availability string    `json:"availability"`
	Bio          string    `json:"bio"`
	Courses      []string  `json:"courses"`
	Slots        []slotDTO `json:"availabilitySlots"`
}

// List handles GET /trainers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.View()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state.TrainerProfiles)
}

// GetByID handles GET /trainers/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := h.Engine.View()
	profile, ok := state.FindTrainerProfile(id)
	if !ok {
		http.Error(w, "trainer profile not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// UpdateProfile handles PUT /trainers/{id}/profile. Upsert; one activity
// entry is appended no matter which fields changed.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto profileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	slots := make([]models.AvailabilitySlot, 0, len(dto.Slots))
	for _, s := range dto.Slots {
		if s.Day < 0 || s.Day > 6 {
			http.Error(w, "slot day must be between 0 and 6", http.StatusBadRequest)
			return
		}
		slots = append(slots, models.AvailabilitySlot{
			Day:       time.Weekday(s.Day),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	availability := models.Availability(dto.Availability)
	if availability == "" {
		availability = models.AvailabilityAvailable
	}

	updatedBy := auth.UserID(r)
	profile, err := h.Engine.UpdateTrainerProfile(workflow.TrainerProfileInput{
		UserID:       id,
		Skills:       dto.Skills,
		Availability: availability,
		Bio:          dto.Bio,
		Courses:      dto.Courses,
		Slots:        slots,
	}, updatedBy)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}
