package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	planStore "fitpro/internal/adapters/storage/plan"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/application/projections"
	"fitpro/internal/domain/class"
	"fitpro/internal/domain/plan"
)

// includeInactive reports whether ?all=true was passed.
func includeInactive(r *http.Request) bool {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	return all
}

// --- Plans ---

func planDeps() orchestrators.PlanDeps {
	return orchestrators.PlanDeps{PlanStore: stores.PlanStore}
}

type planRequest struct {
	Name           string     `json:"Name" validate:"required"`
	Price          flexAmount `json:"Price"`
	DurationMonths flexInt    `json:"DurationMonths"`
}

// handleListPlans handles GET /api/admin/plans?all=true
func handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := stores.PlanStore.List(r.Context(), planStore.ListFilter{ActiveOnly: !includeInactive(r)})
	if err != nil {
		internalError(w, err)
		return
	}
	if plans == nil {
		plans = []plan.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func savePlan(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req planRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if !req.Price.Set {
		writeError(w, http.StatusBadRequest, "Price is required")
		return
	}
	p, err := orchestrators.ExecuteSavePlan(r.Context(), orchestrators.SavePlanInput{
		ID:             id,
		Name:           req.Name,
		Price:          req.Price.Cents,
		DurationMonths: req.DurationMonths.Or(0),
	}, planDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, p)
}

// handleCreatePlan handles POST /api/admin/plans
func handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	savePlan(w, r, "", http.StatusCreated)
}

// handleUpdatePlan handles PUT /api/admin/plans/{id}
func handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	savePlan(w, r, mux.Vars(r)["id"], http.StatusOK)
}

// handleDeletePlan handles DELETE /api/admin/plans/{id}
func handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeactivatePlan(r.Context(), mux.Vars(r)["id"], planDeps()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Trainers ---

func trainerDeps() orchestrators.TrainerDeps {
	return orchestrators.TrainerDeps{TrainerStore: stores.TrainerStore}
}

type trainerRequest struct {
	Name           string `json:"Name" validate:"required"`
	Email          string `json:"Email" validate:"required,email"`
	Phone          string `json:"Phone"`
	Specialization string `json:"Specialization"`
	Bio            string `json:"Bio"`
}

// handleListTrainers handles GET /api/admin/trainers?all=true
func handleListTrainers(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetTrainerList(r.Context(), projections.GetTrainerListQuery{IncludeInactive: includeInactive(r)}, projections.GetTrainerListDeps{
		TrainerStore: stores.TrainerStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func saveTrainer(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req trainerRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	t, err := orchestrators.ExecuteSaveTrainer(r.Context(), orchestrators.SaveTrainerInput{
		ID:             id,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Bio:            req.Bio,
	}, trainerDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, t)
}

// handleCreateTrainer handles POST /api/admin/trainers
func handleCreateTrainer(w http.ResponseWriter, r *http.Request) {
	saveTrainer(w, r, "", http.StatusCreated)
}

// handleUpdateTrainer handles PUT /api/admin/trainers/{id}
func handleUpdateTrainer(w http.ResponseWriter, r *http.Request) {
	saveTrainer(w, r, mux.Vars(r)["id"], http.StatusOK)
}

// handleDeleteTrainer handles DELETE /api/admin/trainers/{id}
func handleDeleteTrainer(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeactivateTrainer(r.Context(), mux.Vars(r)["id"], trainerDeps()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Classes ---

func classDeps() orchestrators.ClassDeps {
	return orchestrators.ClassDeps{ClassStore: stores.ClassStore, TrainerStore: stores.TrainerStore}
}

// classRequest accepts DurationMinutes and MaxCapacity as numbers or numeric text.
type classRequest struct {
	Name            string  `json:"Name" validate:"required"`
	Description     string  `json:"Description"`
	DurationMinutes flexInt `json:"DurationMinutes"`
	MaxCapacity     flexInt `json:"MaxCapacity"`
	TrainerID       string  `json:"TrainerID"`
}

// handleListClasses handles GET /api/admin/classes?all=true
func handleListClasses(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetClassList(r.Context(), projections.GetClassListQuery{IncludeInactive: includeInactive(r)}, projections.GetClassListDeps{
		ClassStore:   stores.ClassStore,
		TrainerStore: stores.TrainerStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func saveClass(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req classRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	c, err := orchestrators.ExecuteSaveClass(r.Context(), orchestrators.SaveClassInput{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes.Or(class.DefaultDurationMinutes),
		MaxCapacity:     req.MaxCapacity.Or(class.DefaultMaxCapacity),
		TrainerID:       req.TrainerID,
	}, classDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, c)
}

// handleCreateClass handles POST /api/admin/classes
func handleCreateClass(w http.ResponseWriter, r *http.Request) {
	saveClass(w, r, "", http.StatusCreated)
}

// handleUpdateClass handles PUT /api/admin/classes/{id}
func handleUpdateClass(w http.ResponseWriter, r *http.Request) {
	saveClass(w, r, mux.Vars(r)["id"], http.StatusOK)
}

// handleDeleteClass handles DELETE /api/admin/classes/{id}
func handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeactivateClass(r.Context(), mux.Vars(r)["id"], classDeps()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Schedules ---

func scheduleDeps() orchestrators.ScheduleDeps {
	return orchestrators.ScheduleDeps{ClassStore: stores.ClassStore, ScheduleStore: stores.ScheduleStore}
}

type scheduleRequest struct {
	ClassID       string `json:"ClassID" validate:"required"`
	ScheduledDate string `json:"ScheduledDate" validate:"required"`
	StartTime     string `json:"StartTime" validate:"required"`
	EndTime       string `json:"EndTime" validate:"required"`
}

// handleListSchedules handles GET /api/admin/schedules?limit=
func handleListSchedules(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := projections.QueryGetScheduleList(r.Context(), projections.GetScheduleListQuery{Limit: limit}, projections.GetScheduleListDeps{
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

// handleCreateSchedule handles POST /api/admin/schedules
func handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	s, err := orchestrators.ExecuteCreateSchedule(r.Context(), orchestrators.CreateScheduleInput{
		ClassID:       req.ClassID,
		ScheduledDate: req.ScheduledDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	}, scheduleDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// handleDeleteSchedule handles DELETE /api/admin/schedules/{id}
func handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteSchedule(r.Context(), mux.Vars(r)["id"], scheduleDeps()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
