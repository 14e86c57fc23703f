// internal/user/handler.go
package user

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/utils"
	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler exposes staff onboarding and account maintenance over HTTP.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type createUserDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type createTrainerDTO struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Skills  []string `json:"skills"`
	Bio     string   `json:"bio"`
	Courses []string `json:"courses"`
}

type patchAvatarDTO struct {
	Avatar string `json:"avatar"`
}

// createdUserResponse returns the fresh account together with its
// temporary password, shown exactly once.
type createdUserResponse struct {
	User         models.User `json:"user"`
	TempPassword string      `json:"tempPassword"`
}

// salesRoles are the roles CreateSales may assign.
var salesRoles = map[models.Role]bool{
	models.RoleSalesRetail:       true,
	models.RoleSalesCorporate:    true,
	models.RoleSalesManager:      true,
	models.RoleTrainingManager:   true,
	models.RoleOperationsManager: true,
	models.RoleFinance:           true,
	models.RoleHR:                true,
}

// CreateTrainer handles POST /users/trainers: a Trainer account plus its
// profile, created together.
func (h *Handler) CreateTrainer(w http.ResponseWriter, r *http.Request) {
	var dto createTrainerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(dto.Name) == "" || strings.TrimSpace(dto.Email) == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		http.Error(w, "failed to generate password", http.StatusInternalServerError)
		return
	}
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	u, err := h.Engine.AddTrainerUser(workflow.UserInput{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
	}, workflow.TrainerProfileInput{
		Skills:  dto.Skills,
		Bio:     dto.Bio,
		Courses: dto.Courses,
	})
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createdUserResponse{User: u, TempPassword: tempPassword})
}

// CreateSales handles POST /users/sales: any non-trainer staff account.
func (h *Handler) CreateSales(w http.ResponseWriter, r *http.Request) {
	var dto createUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(dto.Name) == "" || strings.TrimSpace(dto.Email) == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}
	role := models.Role(dto.Role)
	if !salesRoles[role] {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		http.Error(w, "failed to generate password", http.StatusInternalServerError)
		return
	}
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	u, err := h.Engine.AddSalesUser(workflow.UserInput{
		Name:         dto.Name,
		Email:        dto.Email,
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createdUserResponse{User: u, TempPassword: tempPassword})
}

// List handles GET /users. Password hashes are stripped.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.View()
	out := make([]models.User, 0, len(state.Users))
	for _, u := range state.Users {
		u.PasswordHash = ""
		out = append(out, u)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// PatchAvatar handles PATCH /users/{id}/avatar.
func (h *Handler) PatchAvatar(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto patchAvatarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	u, err := h.Engine.UpdateUserAvatar(id, dto.Avatar)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	u.PasswordHash = ""
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// Deactivate handles PATCH /users/{id}/deactivate. Accounts are never
// hard-deleted.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, err := h.Engine.DeactivateUser(id)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	u.PasswordHash = ""
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}
