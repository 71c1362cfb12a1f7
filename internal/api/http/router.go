package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/security"
	"drivoro-backend/internal/service"
)

// Services bundles everything the router exposes.
type Services struct {
	Auth          service.AuthService
	Cars          service.CarService
	Bookings      service.BookingService
	Charges       service.ChargeService
	Claims        service.ClaimService
	Admin         service.AdminService
	Notifications service.NotificationService
}

// NewRouter wires every API route under /api/v1. Auth endpoints and car
// search are public; everything else requires a valid access token.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	root := mux.NewRouter()
	root.Use(LoggingMiddleware)

	api := root.PathPrefix("/api/v1").Subrouter()

	authH := NewAuthHandler(svcs.Auth)
	carH := NewCarHandler(svcs.Cars)
	bookingH := NewBookingHandler(svcs.Bookings)
	chargeH := NewChargeHandler(svcs.Charges)
	claimH := NewClaimHandler(svcs.Claims)
	adminH := NewAdminHandler(svcs.Admin)
	noteH := NewNotificationHandler(svcs.Notifications)

	// Public routes.
	api.HandleFunc("/auth/signup", authH.HandleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authH.HandleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authH.HandleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/cars/search", carH.HandleSearch).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id:[0-9]+}", carH.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Authenticated routes.
	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	authed.HandleFunc("/auth/password", authH.HandleChangePassword).Methods(http.MethodPut)

	// Host fleet management.
	authed.HandleFunc("/cars", RequireRole(domain.RoleHost, carH.HandleAdd)).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id:[0-9]+}", RequireRole(domain.RoleHost, carH.HandleUpdate)).Methods(http.MethodPut)
	authed.HandleFunc("/cars/{id:[0-9]+}", RequireRole(domain.RoleHost, carH.HandleDelete)).Methods(http.MethodDelete)
	authed.HandleFunc("/cars/{id:[0-9]+}/status", RequireRole(domain.RoleHost, carH.HandleSetStatus)).Methods(http.MethodPut)
	authed.HandleFunc("/fleet", RequireRole(domain.RoleHost, carH.HandleListFleet)).Methods(http.MethodGet)

	// Bookings and trip lifecycle.
	authed.HandleFunc("/bookings", bookingH.HandleCreate).Methods(http.MethodPost)
	authed.HandleFunc("/bookings", bookingH.HandleListMine).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/hosted", RequireRole(domain.RoleHost, bookingH.HandleListHosted)).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}", bookingH.HandleGet).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}/confirm", RequireRole(domain.RoleHost, bookingH.HandleConfirm)).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/cancel", bookingH.HandleCancel).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/start", RequireRole(domain.RoleHost, bookingH.HandleStartTrip)).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/complete", RequireRole(domain.RoleHost, bookingH.HandleCompleteTrip)).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/claims", claimH.HandleListForBooking).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}/messages", noteH.HandleListBookingMessages).Methods(http.MethodGet)

	// Trip charge review and adjustment. Admin only.
	authed.HandleFunc("/charges/{id:[0-9]+}", RequireRole(domain.RoleAdmin, chargeH.HandleGet)).Methods(http.MethodGet)
	authed.HandleFunc("/charges/{id:[0-9]+}/adjust", RequireRole(domain.RoleAdmin, chargeH.HandleAdjust)).Methods(http.MethodPost)
	authed.HandleFunc("/charges/{id:[0-9]+}/adjust", RequireRole(domain.RoleAdmin, chargeH.HandleHistory)).Methods(http.MethodGet)
	authed.HandleFunc("/charges/{id:[0-9]+}/retry", RequireRole(domain.RoleAdmin, chargeH.HandleRetry)).Methods(http.MethodPost)
	authed.HandleFunc("/charges/{id:[0-9]+}/refund", RequireRole(domain.RoleAdmin, chargeH.HandleRefund)).Methods(http.MethodPost)

	// Damage claims.
	authed.HandleFunc("/claims", claimH.HandleFile).Methods(http.MethodPost)
	authed.HandleFunc("/claims", RequireRole(domain.RoleAdmin, claimH.HandleList)).Methods(http.MethodGet)
	authed.HandleFunc("/claims/{id:[0-9]+}", claimH.HandleGet).Methods(http.MethodGet)
	authed.HandleFunc("/claims/{id:[0-9]+}/status", RequireRole(domain.RoleAdmin, claimH.HandleUpdateStatus)).Methods(http.MethodPut)

	// Host onboarding and account administration.
	authed.HandleFunc("/host-applications", adminH.HandleSubmitApplication).Methods(http.MethodPost)
	authed.HandleFunc("/host-applications", RequireRole(domain.RoleAdmin, adminH.HandleListApplications)).Methods(http.MethodGet)
	authed.HandleFunc("/host-applications/{id:[0-9]+}/review", RequireRole(domain.RoleAdmin, adminH.HandleReviewApplication)).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id:[0-9]+}/block", RequireRole(domain.RoleAdmin, adminH.HandleBlockUser)).Methods(http.MethodPut)

	// Notifications and messages.
	authed.HandleFunc("/notifications", RequireRole(domain.RoleAdmin, noteH.HandleList)).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", RequireRole(domain.RoleAdmin, noteH.HandleMarkRead)).Methods(http.MethodPut)
	authed.HandleFunc("/messages", noteH.HandleListMessages).Methods(http.MethodGet)
	authed.HandleFunc("/messages/{id:[0-9]+}/read", noteH.HandleMarkMessageRead).Methods(http.MethodPut)

	return root
}
