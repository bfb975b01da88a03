package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/attendance"
)

// AttendanceStoreForCheckIn defines the store interface needed by check-in and check-out.
type AttendanceStoreForCheckIn interface {
	Create(ctx context.Context, a attendance.Attendance) error
	Save(ctx context.Context, a attendance.Attendance) error
	GetOpenByUser(ctx context.Context, userID string) (attendance.Attendance, error)
}

// AttendanceDeps holds dependencies for attendance orchestrators.
type AttendanceDeps struct {
	AccountStore    AccountLookup
	AttendanceStore AttendanceStoreForCheckIn
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteCheckIn opens a visit for the user.
// PRE: User exists and has no open visit
// POST: An open attendance record exists for the user
// INVARIANT: At most one open visit per user
func ExecuteCheckIn(ctx context.Context, userID string, deps AttendanceDeps) (attendance.Attendance, error) {
	if deps.AccountStore != nil {
		if _, err := deps.AccountStore.GetByID(ctx, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return attendance.Attendance{}, ErrMemberNotFound
			}
			return attendance.Attendance{}, err
		}
	}

	if _, err := deps.AttendanceStore.GetOpenByUser(ctx, userID); err == nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	} else if !errors.Is(err, storage.ErrNotFound) {
		return attendance.Attendance{}, err
	}

	a := attendance.Attendance{
		ID:          newID(deps.GenerateID),
		UserID:      userID,
		CheckInTime: nowFrom(deps.Now),
	}
	if err := a.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	if err := deps.AttendanceStore.Create(ctx, a); err != nil {
		// A concurrent check-in won the race for the open slot.
		if errors.Is(err, storage.ErrConflict) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, err
	}

	slog.Info("attendance_event", "event", "checked_in", "user_id", userID)
	return a, nil
}

// ExecuteCheckOut closes the user's open visit.
// PRE: User has an open visit
// POST: The visit has a check-out time
func ExecuteCheckOut(ctx context.Context, userID string, deps AttendanceDeps) (attendance.Attendance, error) {
	a, err := deps.AttendanceStore.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, err
	}
	if err := a.CheckOut(nowFrom(deps.Now)); err != nil {
		return attendance.Attendance{}, err
	}
	if err := deps.AttendanceStore.Save(ctx, a); err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("attendance_event", "event", "checked_out", "user_id", userID, "duration", a.FormatDuration())
	return a, nil
}
