package server

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/tutorlane/slotengine/internal/service"
	"go.uber.org/zap"
)

// Server assembles the HTTP query surface consumed by the booking UI and
// the payment collaborator's callbacks.
type Server struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService
	logger       *zap.Logger
}

func New(availability *service.AvailabilityService, bookings *service.BookingService, logger *zap.Logger) *Server {
	return &Server{
		availability: availability,
		bookings:     bookings,
		logger:       logger,
	}
}

// Handler builds the router with logging, panic recovery and CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	NewAvailabilityHandler(s.availability, s.logger).RegisterRoutes(api)
	NewBookingHandler(s.bookings, s.logger).RegisterRoutes(api)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return handlers.CombinedLoggingHandler(os.Stdout,
		handlers.RecoveryHandler()(cors(router)))
}
