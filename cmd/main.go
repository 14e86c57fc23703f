package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/traindesk/api-crm/internal/auth"
	"github.com/traindesk/api-crm/internal/deal"
	"github.com/traindesk/api-crm/internal/invoice"
	"github.com/traindesk/api-crm/internal/lead"
	"github.com/traindesk/api-crm/internal/models"
	"github.com/traindesk/api-crm/internal/proposal"
	"github.com/traindesk/api-crm/internal/settings"
	"github.com/traindesk/api-crm/internal/storage"
	"github.com/traindesk/api-crm/internal/trainer"
	"github.com/traindesk/api-crm/internal/training"
	"github.com/traindesk/api-crm/internal/user"
	"github.com/traindesk/api-crm/internal/utils"
	"github.com/traindesk/api-crm/internal/workflow"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	adapter, err := openStorage()
	if err != nil {
		log.Fatal("failed to open storage:", err)
	}

	state, err := adapter.LoadState()
	if err != nil {
		log.Fatal("failed to load snapshot:", err)
	}

	store := workflow.NewStore(state)
	store.OnCommit(func(s models.State) {
		if err := adapter.SaveState(s); err != nil {
			log.Printf("failed to persist snapshot: %v", err)
		}
	})
	engine := workflow.NewEngine(store)

	if err := seedDirector(engine); err != nil {
		log.Fatal("failed to seed director account:", err)
	}

	// Handlers
	authHandler := auth.NewHandler(engine)
	leadHandler := lead.NewHandler(engine)
	dealHandler := deal.NewHandler(engine)
	proposalHandler := proposal.NewHandler(engine)
	invoiceHandler := invoice.NewHandler(engine)
	trainingHandler := training.NewHandler(engine)
	trainerHandler := trainer.NewHandler(engine)
	userHandler := user.NewHandler(engine)
	settingsHandler := settings.NewHandler(adapter)

	// Router
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	// Everything below requires a valid token
	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware)

	sales := auth.RequireRole(
		models.RoleSalesRetail, models.RoleSalesCorporate, models.RoleSalesManager,
	)
	trainingMgmt := auth.RequireRole(
		models.RoleTrainingManager, models.RoleOperationsManager,
	)
	trainingDelivery := auth.RequireRole(
		models.RoleTrainingManager, models.RoleOperationsManager, models.RoleTrainer,
	)
	finance := auth.RequireRole(models.RoleFinance)
	hr := auth.RequireRole(models.RoleHR)

	// Lead routes
	api.Handle("/leads", sales(http.HandlerFunc(leadHandler.Create))).Methods("POST")
	api.HandleFunc("/leads", leadHandler.List).Methods("GET")
	api.HandleFunc("/leads/{id}", leadHandler.GetByID).Methods("GET")
	api.Handle("/leads/{id}/status", sales(http.HandlerFunc(leadHandler.UpdateStatus))).Methods("PATCH")

	// Deal routes
	api.Handle("/deals", sales(http.HandlerFunc(dealHandler.Create))).Methods("POST")
	api.HandleFunc("/deals", dealHandler.List).Methods("GET")
	api.HandleFunc("/deals/{id}", dealHandler.GetByID).Methods("GET")
	api.Handle("/deals/{id}/stage", sales(http.HandlerFunc(dealHandler.UpdateStage))).Methods("PATCH")

	// Proposal routes
	api.Handle("/proposals", sales(http.HandlerFunc(proposalHandler.Create))).Methods("POST")
	api.HandleFunc("/proposals", proposalHandler.List).Methods("GET")
	api.HandleFunc("/proposals/{id}", proposalHandler.GetByID).Methods("GET")
	api.Handle("/proposals/{id}/accept", sales(http.HandlerFunc(proposalHandler.Accept))).Methods("POST")
	api.Handle("/proposals/{id}/reject", sales(http.HandlerFunc(proposalHandler.Reject))).Methods("POST")

	// Invoice routes
	api.HandleFunc("/invoices", invoiceHandler.List).Methods("GET")
	api.HandleFunc("/invoices/{id}", invoiceHandler.GetByID).Methods("GET")
	api.Handle("/invoices/{id}/confirm-payment", finance(http.HandlerFunc(invoiceHandler.ConfirmPayment))).Methods("POST")

	// Training routes
	api.Handle("/trainings", trainingMgmt(http.HandlerFunc(trainingHandler.Schedule))).Methods("POST")
	api.HandleFunc("/trainings", trainingHandler.List).Methods("GET")
	api.HandleFunc("/trainings/{id}", trainingHandler.GetByID).Methods("GET")
	api.Handle("/trainings/{id}/reschedule", trainingMgmt(http.HandlerFunc(trainingHandler.Reschedule))).Methods("PATCH")
	api.Handle("/trainings/{id}/confirm", trainingMgmt(http.HandlerFunc(trainingHandler.Confirm))).Methods("POST")
	api.Handle("/trainings/{id}/start", trainingDelivery(http.HandlerFunc(trainingHandler.Start))).Methods("POST")
	api.Handle("/trainings/{id}/complete", trainingDelivery(http.HandlerFunc(trainingHandler.Complete))).Methods("POST")
	api.Handle("/trainings/{id}/learners", trainingMgmt(http.HandlerFunc(trainingHandler.AddLearner))).Methods("POST")
	api.HandleFunc("/trainings/{id}/learners", trainingHandler.ListLearners).Methods("GET")
	api.Handle("/learners/{id}/certificate", trainingMgmt(http.HandlerFunc(trainingHandler.IssueCertificate))).Methods("POST")

	// Trainer profile routes
	api.HandleFunc("/trainers", trainerHandler.List).Methods("GET")
	api.HandleFunc("/trainers/{id}", trainerHandler.GetByID).Methods("GET")
	api.Handle("/trainers/{id}/profile", trainingDelivery(http.HandlerFunc(trainerHandler.UpdateProfile))).Methods("PUT")

	// User routes
	api.Handle("/users/trainers", hr(http.HandlerFunc(userHandler.CreateTrainer))).Methods("POST")
	api.Handle("/users/sales", hr(http.HandlerFunc(userHandler.CreateSales))).Methods("POST")
	api.HandleFunc("/users", userHandler.List).Methods("GET")
	api.HandleFunc("/users/{id}/avatar", userHandler.PatchAvatar).Methods("PATCH")
	api.Handle("/users/{id}/deactivate", hr(http.HandlerFunc(userHandler.Deactivate))).Methods("PATCH")

	// Settings routes
	api.HandleFunc("/settings/theme", settingsHandler.GetTheme).Methods("GET")
	api.HandleFunc("/settings/theme", settingsHandler.PutTheme).Methods("PUT")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Println("Server running on http://localhost:" + port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

// openStorage picks the Postgres blob adapter when DATABASE_DSN is set,
// otherwise the local file adapter under DATA_DIR.
func openStorage() (storage.Adapter, error) {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return storage.NewPostgresAdapter(dsn)
	}
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "./data"
	}
	return storage.NewFileAdapter(dir)
}

// seedDirector creates the bootstrap Director account on an empty store so
// someone can log in. Controlled by ADMIN_EMAIL / ADMIN_PASSWORD.
func seedDirector(engine *workflow.Engine) error {
	if len(engine.View().Users) > 0 {
		return nil
	}
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("no users and no ADMIN_EMAIL/ADMIN_PASSWORD set; skipping director seed")
		return nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = engine.AddSalesUser(workflow.UserInput{
		Name:         "Director",
		Email:        email,
		Role:         models.RoleDirector,
		PasswordHash: hash,
	})
	return err
}
