package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"fitpro/internal/adapters/http/perf"
	"fitpro/internal/adapters/storage"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/application/projections"
	"fitpro/internal/domain/gymtime"
)

// queryInt reads a non-negative integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest{errors.New(name + " must be a non-negative integer")}
	}
	return n, nil
}

func membershipDeps() orchestrators.MembershipDeps {
	return orchestrators.MembershipDeps{
		Tx:              stores.Tx,
		AccountStore:    stores.AccountStore,
		PlanStore:       stores.PlanStore,
		MembershipStore: stores.MembershipStore,
		Location:        gymLocation,
	}
}

// handleGetAnalytics handles GET /api/admin/analytics
func handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetAnalytics(r.Context(), projections.GetAnalyticsQuery{}, projections.GetAnalyticsDeps{
		Members:     stores.AccountStore,
		Memberships: stores.MembershipStore,
		Payments:    stores.PaymentStore,
		Attendance:  stores.AttendanceStore,
		Location:    gymLocation,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListMembers handles GET /api/admin/members?limit=&offset=
func handleListMembers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{Limit: limit, Offset: offset}, projections.GetMemberListDeps{
		AccountStore:    stores.AccountStore,
		ProfileStore:    stores.ProfileStore,
		MembershipStore: stores.MembershipStore,
		PlanStore:       stores.PlanStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type provisionMemberRequest struct {
	FullName string `json:"FullName" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Phone    string `json:"Phone"`
	Password string `json:"Password" validate:"required,min=8"`
	PlanID   string `json:"PlanID"`
}

// handleProvisionMember handles POST /api/admin/members
func handleProvisionMember(w http.ResponseWriter, r *http.Request) {
	var req provisionMemberRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := orchestrators.ExecuteProvisionMember(r.Context(), orchestrators.ProvisionMemberInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		PlanID:   req.PlanID,
	}, orchestrators.ProvisionMemberDeps{
		Tx:              stores.Tx,
		AccountStore:    stores.AccountStore,
		ProfileStore:    stores.ProfileStore,
		PlanStore:       stores.PlanStore,
		MembershipStore: stores.MembershipStore,
		Mailer:          emailSender,
		ReplyTo:         emailReplyTo,
		Location:        gymLocation,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type assignMembershipRequest struct {
	PlanID string `json:"PlanID" validate:"required"`
}

// handleAssignMembership handles POST /api/admin/members/{id}/memberships
func handleAssignMembership(w http.ResponseWriter, r *http.Request) {
	var req assignMembershipRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	m, err := orchestrators.ExecuteAssignMembership(r.Context(), orchestrators.AssignMembershipInput{
		UserID: mux.Vars(r)["id"],
		PlanID: req.PlanID,
	}, membershipDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleCancelMembership handles DELETE /api/admin/members/{id}/memberships
func handleCancelMembership(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteCancelMembership(r.Context(), mux.Vars(r)["id"], membershipDeps()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExpireMemberships handles POST /api/admin/memberships/expire
func handleExpireMemberships(w http.ResponseWriter, r *http.Request) {
	n, err := orchestrators.ExecuteExpireMemberships(r.Context(), membershipDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"Expired": n})
}

type userResponse struct {
	ID        string
	Email     string
	Role      string
	CreatedAt time.Time
}

// handleGetUser handles GET /api/admin/users/{id}
func handleGetUser(w http.ResponseWriter, r *http.Request) {
	a, err := stores.AccountStore.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, orchestrators.ErrMemberNotFound.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: a.ID, Email: a.Email, Role: a.Role, CreatedAt: a.CreatedAt})
}

// handleListAttendance handles GET /api/admin/attendance?user_id=&limit=
func handleListAttendance(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", projections.DefaultAttendanceLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := projections.QueryGetAttendanceLog(r.Context(), projections.GetAttendanceLogQuery{
		UserID: r.URL.Query().Get("user_id"),
		Limit:  limit,
	}, attendanceLogDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type memberRequest struct {
	UserID string `json:"UserID" validate:"required"`
}

// handleAdminCheckIn handles POST /api/admin/attendance/check-in
func handleAdminCheckIn(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	a, err := orchestrators.ExecuteCheckIn(r.Context(), req.UserID, attendanceDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleAdminCheckOut handles POST /api/admin/attendance/check-out
func handleAdminCheckOut(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	a, err := orchestrators.ExecuteCheckOut(r.Context(), req.UserID, attendanceDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleListPayments handles GET /api/admin/payments?user_id=&limit=
func handleListPayments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := projections.QueryGetPaymentList(r.Context(), projections.GetPaymentListQuery{
		UserID: r.URL.Query().Get("user_id"),
		Limit:  limit,
	}, paymentListDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type recordPaymentRequest struct {
	UserID        string     `json:"UserID" validate:"required"`
	Amount        flexAmount `json:"Amount"`
	PaymentMethod string     `json:"PaymentMethod" validate:"required"`
	Status        string     `json:"Status"`
	PaymentDate   string     `json:"PaymentDate"` // YYYY-MM-DD or RFC 3339; empty means now
}

// parsePaymentDate accepts a calendar date in the gym's zone or a full timestamp.
func parsePaymentDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) == len(gymtime.DateLayout) {
		return gymtime.ParseDate(s, gymLocation)
	}
	return time.Parse(time.RFC3339, s)
}

// handleRecordPayment handles POST /api/admin/payments
func handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if !req.Amount.Set {
		writeError(w, http.StatusBadRequest, "Amount is required")
		return
	}
	date, err := parsePaymentDate(req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "PaymentDate must be YYYY-MM-DD or RFC 3339")
		return
	}
	p, err := orchestrators.ExecuteRecordPayment(r.Context(), orchestrators.RecordPaymentInput{
		UserID:        req.UserID,
		Amount:        req.Amount.Cents,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		PaymentDate:   date,
	}, orchestrators.RecordPaymentDeps{
		AccountStore: stores.AccountStore,
		PaymentStore: stores.PaymentStore,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// DefaultPerfWindow is how far back GET /api/admin/perf looks by default.
const DefaultPerfWindow = time.Hour

// handleGetPerf handles GET /api/admin/perf?window=15m
func handleGetPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusOK, perf.Snapshot{})
		return
	}
	window := DefaultPerfWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive duration such as 15m")
			return
		}
		window = d
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(time.Now().Add(-window), 10))
}
