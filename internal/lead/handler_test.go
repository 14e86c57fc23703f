package lead

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/workflow"
)

func newRouter() (*mux.Router, *workflow.Engine) {
	engine := workflow.NewEngine(workflow.NewStore(models.State{}))
	h := NewHandler(engine)
	r := mux.NewRouter()
	r.HandleFunc("/leads", h.Create).Methods("POST")
	r.HandleFunc("/leads", h.List).Methods("GET")
	r.HandleFunc("/leads/{id}", h.GetByID).Methods("GET")
	r.HandleFunc("/leads/{id}/status", h.UpdateStatus).Methods("PATCH")
	return r, engine
}

func TestCreateLead(t *testing.T) {
	r, engine := newRouter()

	body := `{"name":"Ana","email":"ana@example.com","phone":"1199","source":"LinkedIn","type":"Retail","assignedTo":"rep-1"}`
	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, engine.View().Leads, 1)
}

func TestCreateLeadMissingFields(t *testing.T) {
	r, engine := newRouter()

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{"name":"Ana"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, engine.View().Leads)
}

func TestUpdateStatusUnknownLead(t *testing.T) {
	r, _ := newRouter()

	req := httptest.NewRequest(http.MethodPatch, "/leads/missing/status", strings.NewReader(`{"status":"Contacted"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
