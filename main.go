package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"loanpool/backend/database"
	"loanpool/backend/handlers"
	"loanpool/backend/middleware"
	"loanpool/backend/migrations"
)

func main() {
	// Parse command line flags
	noExit := flag.Bool("no-exit", false, "Don't exit after database reset")
	resetDB := flag.Bool("reset-db", false, "Force reset the database")
	flag.Parse()

	isResetDB := os.Getenv("RESET_DB") == "true" || *resetDB
	isPRDeployment := os.Getenv("PR_DEPLOYMENT") == "true"
	isDevelopment := os.Getenv("APP_ENV") != "production" &&
		os.Getenv("ENVIRONMENT") != "production" &&
		os.Getenv("ENV") != "production"

	if isResetDB {
		log.Println("Running in database reset mode")
	}
	if isPRDeployment {
		log.Println("Running in PR deployment mode")
	}
	if isDevelopment {
		log.Println("Running in development environment")
	}

	// Initialize database
	err := database.InitDB()
	if err != nil {
		log.Fatal(err)
	}

	// Run migrations (including test data seeding if in dev/PR environment)
	err = migrations.RunMigrations(database.DB)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// If running in reset mode, exit after database setup is complete
	// unless --no-exit flag is provided
	if isResetDB && !*noExit {
		log.Println("Database reset completed successfully. Exiting.")
		return
	}

	// Create router
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.EnableCORS)

	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET", "OPTIONS")

	apiRouter := r.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter)

	// Configure the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         ":" + port,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start the server
	log.Printf("Starting server on port %s...", port)
	log.Fatal(srv.ListenAndServe())
}

// registerRoutes sets up all API routes
func registerRoutes(r *mux.Router) {
	// Dataset routes
	r.HandleFunc("/datasets", handlers.GetDatasets).Methods("GET")
	r.HandleFunc("/datasets/{id}", handlers.GetDataset).Methods("GET")
	r.HandleFunc("/datasets/{id}/records", handlers.GetDatasetRecords).Methods("GET")

	// Pool selection routes
	r.HandleFunc("/pool-selection/filter", handlers.FilterPool).Methods("POST")
	r.HandleFunc("/pool-selection/optimize", handlers.OptimizePool).Methods("POST")
	r.HandleFunc("/pool-selection/save", handlers.SavePoolSelection).Methods("POST")
	r.HandleFunc("/pool-selection/list", handlers.ListPoolSelections).Methods("GET")
	r.HandleFunc("/pool-selection/{id}", handlers.GetPoolSelection).Methods("GET")
	r.HandleFunc("/pool-selection/{id}", handlers.DeletePoolSelection).Methods("DELETE")

	// Bucket summary routes
	r.HandleFunc("/datasets/{id}/bucket-configs", handlers.GetBucketConfigs).Methods("GET")
	r.HandleFunc("/datasets/{id}/bucket-configs", handlers.CreateBucketConfig).Methods("POST")
	r.HandleFunc("/bucket-configs/{id}", handlers.UpdateBucketConfig).Methods("PUT")
	r.HandleFunc("/bucket-configs/{id}", handlers.DeleteBucketConfig).Methods("DELETE")
	r.HandleFunc("/datasets/{id}/bucket-summary", handlers.GetBucketSummary).Methods("POST")

	// Saved filters routes
	r.HandleFunc("/filters", handlers.GetSavedFilters).Methods("GET")
	r.HandleFunc("/filters", handlers.CreateSavedFilter).Methods("POST")
	r.HandleFunc("/filters/validate", handlers.ValidateFilters).Methods("POST")
	r.HandleFunc("/filters/{id}", handlers.GetSavedFilter).Methods("GET")
	r.HandleFunc("/filters/{id}", handlers.UpdateSavedFilter).Methods("PUT")
	r.HandleFunc("/filters/{id}", handlers.DeleteSavedFilter).Methods("DELETE")
}
