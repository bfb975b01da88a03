package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/class"
	"fitpro/internal/domain/plan"
	"fitpro/internal/domain/schedule"
	"fitpro/internal/domain/trainer"
)

// --- Plans ---

// PlanStoreForCatalog defines the plan store interface needed by plan management.
type PlanStoreForCatalog interface {
	GetByID(ctx context.Context, id string) (plan.Plan, error)
	Save(ctx context.Context, p plan.Plan) error
	Count(ctx context.Context) (int, error)
}

// SavePlanInput carries input for creating (empty ID) or updating a plan.
type SavePlanInput struct {
	ID             string
	Name           string
	Price          int64
	DurationMonths int
}

// PlanDeps holds dependencies for plan management.
type PlanDeps struct {
	PlanStore  PlanStoreForCatalog
	GenerateID func() string
}

// ExecuteSavePlan creates or updates a plan. Updates keep the active flag.
// PRE: Plan exists when ID is set
// POST: Plan persisted
func ExecuteSavePlan(ctx context.Context, input SavePlanInput, deps PlanDeps) (plan.Plan, error) {
	p := plan.Plan{ID: input.ID, IsActive: true}
	if input.ID != "" {
		existing, err := deps.PlanStore.GetByID(ctx, input.ID)
		if err != nil {
			return plan.Plan{}, err
		}
		p = existing
	} else {
		p.ID = newID(deps.GenerateID)
	}
	p.Name = strings.TrimSpace(input.Name)
	p.Price = input.Price
	p.DurationMonths = input.DurationMonths
	if err := p.Validate(); err != nil {
		return plan.Plan{}, err
	}
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return plan.Plan{}, err
	}
	slog.Info("catalog_event", "event", "plan_saved", "plan_id", p.ID, "name", p.Name)
	return p, nil
}

// ExecuteDeactivatePlan soft-deletes a plan.
// POST: Plan no longer offered; existing memberships untouched
func ExecuteDeactivatePlan(ctx context.Context, id string, deps PlanDeps) error {
	p, err := deps.PlanStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Deactivate()
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return err
	}
	slog.Info("catalog_event", "event", "plan_deactivated", "plan_id", id)
	return nil
}

// ExecuteSeedPlans inserts the default catalog when no plans exist.
// POST: Returns the number of plans created
func ExecuteSeedPlans(ctx context.Context, deps PlanDeps) (int, error) {
	count, err := deps.PlanStore.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	seeded := 0
	for _, p := range plan.DefaultCatalog() {
		p.ID = newID(deps.GenerateID)
		if err := deps.PlanStore.Save(ctx, p); err != nil {
			return seeded, err
		}
		seeded++
	}
	slog.Info("catalog_event", "event", "plans_seeded", "count", seeded)
	return seeded, nil
}

// --- Trainers ---

// TrainerStoreForCatalog defines the trainer store interface needed by trainer management.
type TrainerStoreForCatalog interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	Save(ctx context.Context, t trainer.Trainer) error
}

// SaveTrainerInput carries input for creating (empty ID) or updating a trainer.
type SaveTrainerInput struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Specialization string
	Bio            string
}

// TrainerDeps holds dependencies for trainer management.
type TrainerDeps struct {
	TrainerStore TrainerStoreForCatalog
	GenerateID   func() string
}

// ExecuteSaveTrainer creates or updates a trainer.
// PRE: Trainer exists when ID is set
// POST: Trainer persisted
func ExecuteSaveTrainer(ctx context.Context, input SaveTrainerInput, deps TrainerDeps) (trainer.Trainer, error) {
	t := trainer.Trainer{IsActive: true}
	if input.ID != "" {
		existing, err := deps.TrainerStore.GetByID(ctx, input.ID)
		if err != nil {
			return trainer.Trainer{}, err
		}
		t = existing
	} else {
		t.ID = newID(deps.GenerateID)
	}
	t.Name = strings.TrimSpace(input.Name)
	t.Email = strings.TrimSpace(input.Email)
	t.Phone = strings.TrimSpace(input.Phone)
	t.Specialization = strings.TrimSpace(input.Specialization)
	t.Bio = input.Bio
	if err := t.Validate(); err != nil {
		return trainer.Trainer{}, err
	}
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return trainer.Trainer{}, err
	}
	slog.Info("catalog_event", "event", "trainer_saved", "trainer_id", t.ID)
	return t, nil
}

// ExecuteDeactivateTrainer soft-deletes a trainer.
func ExecuteDeactivateTrainer(ctx context.Context, id string, deps TrainerDeps) error {
	t, err := deps.TrainerStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Deactivate()
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return err
	}
	slog.Info("catalog_event", "event", "trainer_deactivated", "trainer_id", id)
	return nil
}

// --- Classes ---

// ClassStoreForCatalog defines the class store interface needed by class and schedule management.
type ClassStoreForCatalog interface {
	GetByID(ctx context.Context, id string) (class.Class, error)
	Save(ctx context.Context, c class.Class) error
}

// SaveClassInput carries input for creating (empty ID) or updating a class.
// Zero DurationMinutes or MaxCapacity means "use the default".
type SaveClassInput struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	MaxCapacity     int
	TrainerID       string
}

// ClassDeps holds dependencies for class management.
type ClassDeps struct {
	ClassStore   ClassStoreForCatalog
	TrainerStore TrainerStoreForCatalog
	GenerateID   func() string
}

var ErrTrainerNotFound = errors.New("trainer not found")

// ExecuteSaveClass creates or updates a class.
// PRE: TrainerID, when set, names an existing trainer
// POST: Class persisted with defaults applied
func ExecuteSaveClass(ctx context.Context, input SaveClassInput, deps ClassDeps) (class.Class, error) {
	c := class.Class{IsActive: true}
	if input.ID != "" {
		existing, err := deps.ClassStore.GetByID(ctx, input.ID)
		if err != nil {
			return class.Class{}, err
		}
		c = existing
	} else {
		c.ID = newID(deps.GenerateID)
	}
	c.Name = strings.TrimSpace(input.Name)
	c.Description = input.Description
	c.DurationMinutes = input.DurationMinutes
	c.MaxCapacity = input.MaxCapacity
	c.TrainerID = input.TrainerID
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return class.Class{}, err
	}

	if c.HasTrainer() {
		if _, err := deps.TrainerStore.GetByID(ctx, c.TrainerID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return class.Class{}, ErrTrainerNotFound
			}
			return class.Class{}, err
		}
	}

	if err := deps.ClassStore.Save(ctx, c); err != nil {
		return class.Class{}, err
	}
	slog.Info("catalog_event", "event", "class_saved", "class_id", c.ID, "trainer_id", c.TrainerID)
	return c, nil
}

// ExecuteDeactivateClass soft-deletes a class. Existing schedules stay bookable.
func ExecuteDeactivateClass(ctx context.Context, id string, deps ClassDeps) error {
	c, err := deps.ClassStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.Deactivate()
	if err := deps.ClassStore.Save(ctx, c); err != nil {
		return err
	}
	slog.Info("catalog_event", "event", "class_deactivated", "class_id", id)
	return nil
}

// --- Schedules ---

// ScheduleStoreForCatalog defines the schedule store interface needed by schedule management.
type ScheduleStoreForCatalog interface {
	Create(ctx context.Context, s schedule.Schedule) error
	Delete(ctx context.Context, id string) error
}

// CreateScheduleInput carries input for scheduling a class session.
type CreateScheduleInput struct {
	ClassID       string
	ScheduledDate string
	StartTime     string
	EndTime       string
}

// ScheduleDeps holds dependencies for schedule management.
type ScheduleDeps struct {
	ClassStore    ClassStoreForCatalog
	ScheduleStore ScheduleStoreForCatalog
	GenerateID    func() string
}

var ErrClassNotFound = errors.New("class not found")

// ExecuteCreateSchedule adds a dated session for an active class.
// PRE: Class exists and is active; end time after start time
// POST: Session persisted with zero bookings
func ExecuteCreateSchedule(ctx context.Context, input CreateScheduleInput, deps ScheduleDeps) (schedule.Schedule, error) {
	s := schedule.Schedule{
		ID:            newID(deps.GenerateID),
		ClassID:       strings.TrimSpace(input.ClassID),
		ScheduledDate: strings.TrimSpace(input.ScheduledDate),
		StartTime:     strings.TrimSpace(input.StartTime),
		EndTime:       strings.TrimSpace(input.EndTime),
	}
	if err := s.Validate(); err != nil {
		return schedule.Schedule{}, err
	}

	c, err := deps.ClassStore.GetByID(ctx, s.ClassID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return schedule.Schedule{}, ErrClassNotFound
		}
		return schedule.Schedule{}, err
	}
	if !c.IsActive {
		return schedule.Schedule{}, class.ErrInactive
	}

	if err := deps.ScheduleStore.Create(ctx, s); err != nil {
		return schedule.Schedule{}, err
	}
	slog.Info("catalog_event", "event", "schedule_created", "schedule_id", s.ID, "class_id", s.ClassID, "date", s.ScheduledDate)
	return s, nil
}

// ExecuteDeleteSchedule removes a session and its bookings.
func ExecuteDeleteSchedule(ctx context.Context, id string, deps ScheduleDeps) error {
	if err := deps.ScheduleStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("catalog_event", "event", "schedule_deleted", "schedule_id", id)
	return nil
}
