package auth

import (
	"encoding/json"
	"net/http"

	"github.com/traindesk/api-crm/internal/utils"
	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler serves login against the users in the workflow store.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

// Login handles POST /login: email + password against the bcrypt hash,
// returns an access token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	state := h.Engine.View()
	for _, u := range state.Users {
		if u.Email != req.Email {
			continue
		}
		if !u.Active || !utils.CheckPassword(u.PasswordHash, req.Password) {
			break
		}
		token, err := GenerateAccessToken(u.ID, u.Role)
		if err != nil {
			http.Error(w, "failed to issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{
			Token:  token,
			UserID: u.ID,
			Role:   string(u.Role),
			Name:   u.Name,
		})
		return
	}
	http.Error(w, "invalid credentials", http.StatusUnauthorized)
}
