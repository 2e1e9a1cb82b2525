package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/finware/finance-manager/app"
	"github.com/finware/finance-manager/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Auth-Token"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(deps.DB.DB, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.UserService, deps.Logger)
	transactionHandler := handlers.NewTransactionHandler(deps.TransactionService, deps.Logger)
	investmentHandler := handlers.NewInvestmentHandler(deps.InvestmentService, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		// Public routes: registration and login
		r.Post("/users", userHandler.HandleRegister)
		r.Post("/auth", userHandler.HandleLogin)

		// Everything else requires a session token
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)

			r.Get("/auth", userHandler.HandleGetCurrentUser)
			r.Put("/users/profile", userHandler.HandleUpdateProfile)
			r.Put("/users/monthly-income", userHandler.HandleUpdateMonthlyIncome)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", transactionHandler.HandleList)
				r.Post("/", transactionHandler.HandleCreate)
				r.Put("/{id}", transactionHandler.HandleUpdate)
				r.Delete("/{id}", transactionHandler.HandleDelete)
			})

			r.Route("/investments", func(r chi.Router) {
				r.Get("/", investmentHandler.HandleList)
				r.Post("/", investmentHandler.HandleCreate)
				r.Put("/{id}", investmentHandler.HandleUpdate)
				r.Delete("/{id}", investmentHandler.HandleDelete)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
