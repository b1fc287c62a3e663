package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/Uncouple/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/Uncouple/internal/api/middlewares"
	"github.com/markdave123-py/Uncouple/internal/config"
	"github.com/markdave123-py/Uncouple/internal/models"
	"github.com/markdave123-py/Uncouple/internal/services"
)

// Services groups what the HTTP layer depends on.
type Services struct {
	Users       *services.UserService
	Profiles    *services.ProfileService
	Chat        *services.ChatService
	Documents   *services.DocumentService
	Payments    *services.PaymentService
	Eligibility *services.EligibilityService
	Knowledge   *services.KnowledgeService
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewRouter wires all routes.
func NewRouter(cfg *config.Config, svc *Services) http.Handler {
	authHandler := handlers.NewAuthHandler(svc.Users, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(svc.Profiles)
	chatHandler := handlers.NewChatHandler(svc.Chat)
	docHandler := handlers.NewDocumentHandler(svc.Documents)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments)
	eligibilityHandler := handlers.NewEligibilityHandler(svc.Eligibility)
	knowledgeHandler := handlers.NewKnowledgeHandler(svc.Knowledge)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	// Serve the built front end when one is configured
	if cfg.WebDir != "" {
		if _, err := os.Stat(cfg.WebDir); err == nil {
			r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))
		} else {
			log.Printf("WARN: WEB_DIR %s not found, static files disabled", cfg.WebDir)
		}
	}

	// API routes
	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Get("/health", handlers.Health(svc.Payments.Configured(), svc.Chat.Configured()))
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)
		api.Get("/forms", docHandler.ListForms)
		api.Get("/eligibility/questions", eligibilityHandler.Questions)
		api.Post("/eligibility", eligibilityHandler.Assess)
		api.Get("/payments/config", paymentHandler.Config)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret))

			protected.Get("/profile", profileHandler.GetProfile)
			protected.Put("/profile", profileHandler.Submit)
			protected.Put("/profile/basic", profileHandler.SaveBasicInfo)
			protected.Post("/profile/validate", profileHandler.Validate)

			protected.Post("/chat", chatHandler.Ask)
			protected.Get("/chat/session", chatHandler.GetSession)
			protected.Delete("/chat/session", chatHandler.ClearSession)

			protected.Post("/payments/checkout", paymentHandler.CreateSession)
			protected.Get("/payments/confirm", paymentHandler.Confirm)
			protected.Get("/payments/status", paymentHandler.Status)

			protected.Get("/documents", docHandler.DownloadAll)
			protected.Post("/documents/generate", docHandler.Generate)
			protected.Get("/documents/{formID}", docHandler.DownloadOne)
			protected.Get("/documents/{formID}/preview", docHandler.Preview)
			protected.Get("/documents/{formID}/preview.pdf", docHandler.PreviewPDF)

			protected.Group(func(admin chi.Router) {
				admin.Use(appMiddleware.RequireRole(models.UserRoleAdmin))
				admin.Post("/knowledge/upload", knowledgeHandler.Upload)
				admin.Get("/knowledge", knowledgeHandler.List)
			})
		})
	})

	return r
}

// NewServer builds the HTTP server on cfg.Port.
func NewServer(cfg *config.Config, svc *Services) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
