package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventregistry/internal/delivery/http/controllers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes. The
// /rsvp surface and registration submission are public; everything else
// requires a Bearer token.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	registrationController *controllers.RegistrationController,
	rsvpController *controllers.RSVPController,
	attendanceController *controllers.AttendanceController,
	userController *controllers.UserController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Public surface
	mux.HandleFunc("POST /events/{slug}/register", registrationController.Submit)
	mux.HandleFunc("GET /rsvp/{registrationID}", rsvpController.GetRSVP)
	mux.HandleFunc("POST /rsvp/{registrationID}/confirm", rsvpController.Confirm)
	mux.HandleFunc("POST /rsvp/{registrationID}/decline", rsvpController.Decline)

	// Auth
	mux.HandleFunc("POST /auth/login", userController.Login)

	// Operator review
	mux.HandleFunc("POST /registrations/{registrationID}/accept", auth(registrationController.Accept))
	mux.HandleFunc("POST /registrations/{registrationID}/reject", auth(registrationController.Reject))
	mux.HandleFunc("GET /registrations/{registrationID}", auth(registrationController.Get))
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(registrationController.ListByEvent))

	// Attendance
	mux.HandleFunc("POST /attendance/check-in", auth(attendanceController.CheckIn))
	mux.HandleFunc("POST /attendance/bulk-check-in", auth(attendanceController.BulkCheckIn))
	mux.HandleFunc("GET /events/{eventID}/attendance/stats", auth(attendanceController.Stats))

	// Profile
	mux.HandleFunc("GET /profile", auth(userController.GetProfile))
	mux.HandleFunc("PUT /profile", auth(userController.UpdateProfile))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
