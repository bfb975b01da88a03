package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"fitpro/internal/adapters/http/middleware"
	"fitpro/internal/domain/account"
)

// registerRoutes attaches every endpoint to the router.
// Member routes act on the caller's own identity; admin routes are role-gated.
func registerRoutes(router *mux.Router) {
	// Public
	router.HandleFunc(middleware.HealthPath, handleHealth).Methods("GET")
	router.HandleFunc("/login", handleLoginPage).Methods("GET")
	router.HandleFunc("/login", handleLogin).Methods("POST")
	router.HandleFunc("/logout", handleLogout).Methods("POST")
	router.HandleFunc("/api/auth/signup", handleSignup).Methods("POST")
	router.HandleFunc("/api/auth/token", handleToken).Methods("POST")

	// Admin. Registered before /api so the prefixes cannot shadow each other.
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.RequireRole(account.RoleAdmin))
	admin.HandleFunc("/analytics", handleGetAnalytics).Methods("GET")
	admin.HandleFunc("/members", handleListMembers).Methods("GET")
	admin.HandleFunc("/members", handleProvisionMember).Methods("POST")
	admin.HandleFunc("/members/{id}/memberships", handleAssignMembership).Methods("POST")
	admin.HandleFunc("/members/{id}/memberships", handleCancelMembership).Methods("DELETE")
	admin.HandleFunc("/memberships/expire", handleExpireMemberships).Methods("POST")
	admin.HandleFunc("/users/{id}", handleGetUser).Methods("GET")
	admin.HandleFunc("/plans", handleListPlans).Methods("GET")
	admin.HandleFunc("/plans", handleCreatePlan).Methods("POST")
	admin.HandleFunc("/plans/{id}", handleUpdatePlan).Methods("PUT")
	admin.HandleFunc("/plans/{id}", handleDeletePlan).Methods("DELETE")
	admin.HandleFunc("/trainers", handleListTrainers).Methods("GET")
	admin.HandleFunc("/trainers", handleCreateTrainer).Methods("POST")
	admin.HandleFunc("/trainers/{id}", handleUpdateTrainer).Methods("PUT")
	admin.HandleFunc("/trainers/{id}", handleDeleteTrainer).Methods("DELETE")
	admin.HandleFunc("/classes", handleListClasses).Methods("GET")
	admin.HandleFunc("/classes", handleCreateClass).Methods("POST")
	admin.HandleFunc("/classes/{id}", handleUpdateClass).Methods("PUT")
	admin.HandleFunc("/classes/{id}", handleDeleteClass).Methods("DELETE")
	admin.HandleFunc("/schedules", handleListSchedules).Methods("GET")
	admin.HandleFunc("/schedules", handleCreateSchedule).Methods("POST")
	admin.HandleFunc("/schedules/{id}", handleDeleteSchedule).Methods("DELETE")
	admin.HandleFunc("/attendance", handleListAttendance).Methods("GET")
	admin.HandleFunc("/attendance/check-in", handleAdminCheckIn).Methods("POST")
	admin.HandleFunc("/attendance/check-out", handleAdminCheckOut).Methods("POST")
	admin.HandleFunc("/payments", handleListPayments).Methods("GET")
	admin.HandleFunc("/payments", handleRecordPayment).Methods("POST")
	admin.HandleFunc("/perf", handleGetPerf).Methods("GET")

	// Any signed-in role
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireAuth)
	api.HandleFunc("/me", handleGetMe).Methods("GET")
	api.HandleFunc("/me/profile", handleUpdateMyProfile).Methods("PUT")
	api.HandleFunc("/me/password", handleChangeMyPassword).Methods("PUT")
	api.HandleFunc("/plans", handleListActivePlans).Methods("GET")
	api.HandleFunc("/me/classes", handleGetMyClasses).Methods("GET")
	api.HandleFunc("/me/bookings", handleGetMyBookings).Methods("GET")
	api.HandleFunc("/me/bookings", handleBookClass).Methods("POST")
	api.HandleFunc("/me/bookings/{scheduleID}", handleCancelBooking).Methods("DELETE")
	api.HandleFunc("/me/attendance", handleGetMyAttendance).Methods("GET")
	api.HandleFunc("/me/attendance/check-in", handleMyCheckIn).Methods("POST")
	api.HandleFunc("/me/attendance/check-out", handleMyCheckOut).Methods("POST")
	api.HandleFunc("/me/payments", handleGetMyPayments).Methods("GET")
}

// panicLogger routes recovered panics into slog.
type panicLogger struct{}

func (panicLogger) Println(v ...interface{}) {
	slog.Error("panic_recovered", "error", fmt.Sprint(v...))
}

// handleHealth handles GET /healthz
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if healthCheck != nil {
		if err := healthCheck(r.Context()); err != nil {
			slog.Error("health_check_failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
