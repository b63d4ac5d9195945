// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"baro/internal/config"
	"baro/internal/domain/chat"
	"baro/internal/domain/facility"
	"baro/internal/domain/feedback"
	"baro/internal/domain/party"
	"baro/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	natsConn *nats.Conn,
	recommender facility.Recommender,
	partyService party.Service,
	partyFinder party.Finder,
	feedbackService feedback.Service,
	chatStore chat.Store,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	recommendHandler := handlers.NewRecommendHandler(recommender)
	partyHandler := handlers.NewPartyHandler(partyService, partyFinder)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	chatHandler := handlers.NewChatHandler(chatStore)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Recommendation API
			r.Route("/recommend", func(r chi.Router) {
				r.Get("/facilities", recommendHandler.GetFacilities)
			})

			// Parties API
			r.Route("/parties", func(r chi.Router) {
				r.Get("/", partyHandler.ListParties)
				r.Post("/", partyHandler.CreateParty)
				r.Get("/nearby", partyHandler.GetNearbyParties)
				r.Get("/{id}", partyHandler.GetParty)
				r.Post("/{id}/join", partyHandler.JoinParty)
				r.Post("/{id}/leave", partyHandler.LeaveParty)

				// Post-party feedback
				r.Get("/{id}/feedback/targets", feedbackHandler.GetTargets)
				r.Post("/{id}/feedback", feedbackHandler.SubmitFeedback)
			})

			// Feedback API
			r.Route("/feedback", func(r chi.Router) {
				r.Get("/parties", feedbackHandler.GetMyParties)
			})

			// Chat API
			r.Route("/chat", func(r chi.Router) {
				r.Get("/rooms", chatHandler.GetRooms)
			})
		})
	})

	// WebSocket endpoint for real-time party chat
	router.Get("/ws/parties/{id}", handlers.PartyChatHandler(natsConn, chatStore, cfg.Chat))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
