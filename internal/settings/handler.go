// internal/settings/handler.go
package settings

import (
	"encoding/json"
	"net/http"

	"github.com/traindesk/api-crm/internal/storage"
)

// Handler persists UI preferences. Currently just the display theme.
type Handler struct {
	Storage storage.Adapter
}

func NewHandler(adapter storage.Adapter) *Handler {
	return &Handler{Storage: adapter}
}

type themeDTO struct {
	Theme string `json:"theme"`
}

// GetTheme handles GET /settings/theme.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.Storage.LoadTheme()
	if err != nil {
		http.Error(w, "failed to load theme", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(themeDTO{Theme: theme})
}

// PutTheme handles PUT /settings/theme.
func (h *Handler) PutTheme(w http.ResponseWriter, r *http.Request) {
	var dto themeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if dto.Theme != "light" && dto.Theme != "dark" {
		http.Error(w, "theme must be 'light' or 'dark'", http.StatusBadRequest)
		return
	}
	if err := h.Storage.SaveTheme(dto.Theme); err != nil {
		http.Error(w, "failed to save theme", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dto)
}
