package projections

import (
	"context"
	"time"

	"fitpro/internal/adapters/storage/account"
	"fitpro/internal/adapters/storage/attendance"
	"fitpro/internal/adapters/storage/class"
	"fitpro/internal/adapters/storage/payment"
	"fitpro/internal/adapters/storage/plan"
	"fitpro/internal/adapters/storage/schedule"
	"fitpro/internal/adapters/storage/trainer"
	domainAccount "fitpro/internal/domain/account"
	domainAttendance "fitpro/internal/domain/attendance"
	domainBooking "fitpro/internal/domain/booking"
	domainClass "fitpro/internal/domain/class"
	domainMembership "fitpro/internal/domain/membership"
	domainPayment "fitpro/internal/domain/payment"
	domainPlan "fitpro/internal/domain/plan"
	domainProfile "fitpro/internal/domain/profile"
	domainSchedule "fitpro/internal/domain/schedule"
	domainTrainer "fitpro/internal/domain/trainer"
)

// AccountStore interface for identity queries.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (domainAccount.Account, error)
	List(ctx context.Context, filter account.ListFilter) ([]domainAccount.Account, error)
}

// ProfileStore interface for profile queries.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (domainProfile.Profile, error)
	GetMany(ctx context.Context, ids []string) (map[string]domainProfile.Profile, error)
}

// PlanStore interface for plan queries.
type PlanStore interface {
	GetByID(ctx context.Context, id string) (domainPlan.Plan, error)
	GetMany(ctx context.Context, ids []string) (map[string]domainPlan.Plan, error)
	List(ctx context.Context, filter plan.ListFilter) ([]domainPlan.Plan, error)
}

// MembershipStore interface for membership queries.
type MembershipStore interface {
	GetActiveByUser(ctx context.Context, userID string) (domainMembership.Membership, error)
	ListActiveByUsers(ctx context.Context, userIDs []string) (map[string]domainMembership.Membership, error)
}

// TrainerStore interface for trainer queries.
type TrainerStore interface {
	GetMany(ctx context.Context, ids []string) (map[string]domainTrainer.Trainer, error)
	List(ctx context.Context, filter trainer.ListFilter) ([]domainTrainer.Trainer, error)
}

// ClassStore interface for class queries.
type ClassStore interface {
	GetMany(ctx context.Context, ids []string) (map[string]domainClass.Class, error)
	List(ctx context.Context, filter class.ListFilter) ([]domainClass.Class, error)
}

// ScheduleStore interface for schedule queries.
type ScheduleStore interface {
	GetByID(ctx context.Context, id string) (domainSchedule.Schedule, error)
	List(ctx context.Context, filter schedule.ListFilter) ([]domainSchedule.Schedule, error)
}

// BookingStore interface for booking queries.
type BookingStore interface {
	ListByUser(ctx context.Context, userID string) ([]domainBooking.Booking, error)
	BookedScheduleIDs(ctx context.Context, userID string, scheduleIDs []string) (map[string]bool, error)
}

// AttendanceStore interface for attendance queries.
type AttendanceStore interface {
	List(ctx context.Context, filter attendance.ListFilter) ([]domainAttendance.Attendance, error)
	GetOpenByUser(ctx context.Context, userID string) (domainAttendance.Attendance, error)
}

// PaymentStore interface for payment queries.
type PaymentStore interface {
	List(ctx context.Context, filter payment.ListFilter) ([]domainPayment.Payment, error)
}

// UnknownMember is shown when a record's user has no profile.
const UnknownMember = "Unknown member"

// memberNames resolves display names for userIDs in one query.
func memberNames(ctx context.Context, profiles ProfileStore, userIDs []string) (map[string]string, error) {
	byID, err := profiles.GetMany(ctx, uniq(userIDs))
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(byID))
	for id, p := range byID {
		names[id] = p.FullName
	}
	return names, nil
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return UnknownMember
}

// uniq returns ids without duplicates or empties, preserving first-seen order.
func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func nowFrom(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
