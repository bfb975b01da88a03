package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"fitpro/internal/adapters/http/middleware"
	planStore "fitpro/internal/adapters/storage/plan"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/application/projections"
	"fitpro/internal/domain/plan"
)

// caller returns the authenticated session. Routes using it sit behind RequireAuth.
func caller(r *http.Request) middleware.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}

func memberProfileDeps() projections.GetMemberProfileDeps {
	return projections.GetMemberProfileDeps{
		AccountStore:    stores.AccountStore,
		ProfileStore:    stores.ProfileStore,
		MembershipStore: stores.MembershipStore,
		PlanStore:       stores.PlanStore,
	}
}

func bookingDeps() orchestrators.BookingDeps {
	return orchestrators.BookingDeps{
		Tx:            stores.Tx,
		ScheduleStore: stores.ScheduleStore,
		BookingStore:  stores.BookingStore,
		Location:      gymLocation,
	}
}

func attendanceDeps() orchestrators.AttendanceDeps {
	return orchestrators.AttendanceDeps{
		AccountStore:    stores.AccountStore,
		AttendanceStore: stores.AttendanceStore,
	}
}

func attendanceLogDeps() projections.GetAttendanceLogDeps {
	return projections.GetAttendanceLogDeps{
		AttendanceStore: stores.AttendanceStore,
		ProfileStore:    stores.ProfileStore,
	}
}

func paymentListDeps() projections.GetPaymentListDeps {
	return projections.GetPaymentListDeps{
		PaymentStore: stores.PaymentStore,
		ProfileStore: stores.ProfileStore,
	}
}

// handleGetMe handles GET /api/me
func handleGetMe(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetMemberProfile(r.Context(), projections.GetMemberProfileQuery{UserID: caller(r).AccountID}, memberProfileDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type updateProfileRequest struct {
	FullName string `json:"FullName" validate:"required"`
	Phone    string `json:"Phone"`
}

// handleUpdateMyProfile handles PUT /api/me/profile
func handleUpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := orchestrators.ExecuteUpdateProfile(r.Context(), orchestrators.UpdateProfileInput{
		UserID:   caller(r).AccountID,
		FullName: req.FullName,
		Phone:    req.Phone,
	}, orchestrators.UpdateProfileDeps{ProfileStore: stores.ProfileStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"CurrentPassword" validate:"required"`
	NewPassword     string `json:"NewPassword" validate:"required,min=8"`
}

// handleChangeMyPassword handles PUT /api/me/password
func handleChangeMyPassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       caller(r).AccountID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListActivePlans handles GET /api/plans
func handleListActivePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := stores.PlanStore.List(r.Context(), planStore.ListFilter{ActiveOnly: true})
	if err != nil {
		internalError(w, err)
		return
	}
	if plans == nil {
		plans = []plan.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// handleGetMyClasses handles GET /api/me/classes
func handleGetMyClasses(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetUpcomingClasses(r.Context(), projections.GetUpcomingClassesQuery{UserID: caller(r).AccountID}, projections.GetUpcomingClassesDeps{
		ScheduleStore: stores.ScheduleStore,
		ClassStore:    stores.ClassStore,
		TrainerStore:  stores.TrainerStore,
		BookingStore:  stores.BookingStore,
		Location:      gymLocation,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetMyBookings handles GET /api/me/bookings
func handleGetMyBookings(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetMyBookings(r.Context(), projections.GetMyBookingsQuery{UserID: caller(r).AccountID}, projections.GetMyBookingsDeps{
		BookingStore:  stores.BookingStore,
		ScheduleStore: stores.ScheduleStore,
		ClassStore:    stores.ClassStore,
		TrainerStore:  stores.TrainerStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type bookClassRequest struct {
	ScheduleID string `json:"ScheduleID" validate:"required"`
}

// handleBookClass handles POST /api/me/bookings
func handleBookClass(w http.ResponseWriter, r *http.Request) {
	var req bookClassRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	b, err := orchestrators.ExecuteBookClass(r.Context(), orchestrators.BookClassInput{
		UserID:     caller(r).AccountID,
		ScheduleID: req.ScheduleID,
	}, bookingDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// handleCancelBooking handles DELETE /api/me/bookings/{scheduleID}
func handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteCancelBooking(r.Context(), orchestrators.BookClassInput{
		UserID:     caller(r).AccountID,
		ScheduleID: mux.Vars(r)["scheduleID"],
	}, bookingDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetMyAttendance handles GET /api/me/attendance
func handleGetMyAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetAttendanceLog(r.Context(), projections.GetAttendanceLogQuery{UserID: caller(r).AccountID}, attendanceLogDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMyCheckIn handles POST /api/me/attendance/check-in
func handleMyCheckIn(w http.ResponseWriter, r *http.Request) {
	a, err := orchestrators.ExecuteCheckIn(r.Context(), caller(r).AccountID, attendanceDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleMyCheckOut handles POST /api/me/attendance/check-out
func handleMyCheckOut(w http.ResponseWriter, r *http.Request) {
	a, err := orchestrators.ExecuteCheckOut(r.Context(), caller(r).AccountID, attendanceDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleGetMyPayments handles GET /api/me/payments
func handleGetMyPayments(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetPaymentList(r.Context(), projections.GetPaymentListQuery{UserID: caller(r).AccountID}, paymentListDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
