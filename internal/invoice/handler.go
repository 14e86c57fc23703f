// internal/invoice/handler.go
package invoice

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/traindesk/api-crm/internal/workflow"
)

// Handler exposes invoices over HTTP.
type Handler struct {
	Engine *workflow.Engine
}

func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{Engine: engine}
}

type confirmPaymentDTO struct {
	PaymentMethod string `json:"paymentMethod"`
}

// List handles GET /invoices.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.View()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state.Invoices)
}

// GetByID handles GET /invoices/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := h.Engine.View()
	inv, ok := state.FindInvoice(id)
	if !ok {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(inv)
}

// ConfirmPayment handles POST /invoices/{id}/confirm-payment. Settles the
// invoice and drives the owning deal to PaymentConfirmed.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto confirmPaymentDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	inv, err := h.Engine.ConfirmPayment(id, dto.PaymentMethod)
	if err != nil {
		http.Error(w, err.Error(), workflow.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(inv)
}
