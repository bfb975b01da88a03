package projections

import (
	"context"
	"errors"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/adapters/storage/attendance"
	domainAttendance "fitpro/internal/domain/attendance"
)

// DefaultAttendanceLimit is the size of the admin attendance log.
const DefaultAttendanceLimit = 50

// GetAttendanceLogQuery carries query parameters. An empty UserID lists every member.
type GetAttendanceLogQuery struct {
	UserID string
	Limit  int
}

// AttendanceRow is one visit in the log.
type AttendanceRow struct {
	ID           string
	UserID       string
	MemberName   string
	CheckInTime  time.Time
	CheckOutTime *time.Time
	Duration     string // "1h 45m" or "In progress"
}

// GetAttendanceLogResult carries the query result.
type GetAttendanceLogResult struct {
	Records []AttendanceRow
	Current *AttendanceRow // the open visit, only for a single-member query
}

// GetAttendanceLogDeps holds dependencies for GetAttendanceLog.
type GetAttendanceLogDeps struct {
	AttendanceStore AttendanceStore
	ProfileStore    ProfileStore
}

// QueryGetAttendanceLog returns the latest visits, newest first, with member names and durations.
// PRE: Limit <= 0 means DefaultAttendanceLimit
func QueryGetAttendanceLog(ctx context.Context, query GetAttendanceLogQuery, deps GetAttendanceLogDeps) (GetAttendanceLogResult, error) {
	if query.Limit <= 0 {
		query.Limit = DefaultAttendanceLimit
	}
	records, err := deps.AttendanceStore.List(ctx, attendance.ListFilter{UserID: query.UserID, Limit: query.Limit})
	if err != nil {
		return GetAttendanceLogResult{}, err
	}

	userIDs := make([]string, len(records))
	for i, r := range records {
		userIDs[i] = r.UserID
	}
	if query.UserID != "" {
		userIDs = append(userIDs, query.UserID)
	}
	names, err := memberNames(ctx, deps.ProfileStore, userIDs)
	if err != nil {
		return GetAttendanceLogResult{}, err
	}

	res := GetAttendanceLogResult{Records: make([]AttendanceRow, 0, len(records))}
	for _, r := range records {
		res.Records = append(res.Records, attendanceRow(r, names))
	}

	if query.UserID != "" {
		open, err := deps.AttendanceStore.GetOpenByUser(ctx, query.UserID)
		switch {
		case err == nil:
			row := attendanceRow(open, names)
			res.Current = &row
		case !errors.Is(err, storage.ErrNotFound):
			return GetAttendanceLogResult{}, err
		}
	}
	return res, nil
}

func attendanceRow(a domainAttendance.Attendance, names map[string]string) AttendanceRow {
	row := AttendanceRow{
		ID:          a.ID,
		UserID:      a.UserID,
		MemberName:  nameOr(names, a.UserID),
		CheckInTime: a.CheckInTime,
		Duration:    a.FormatDuration(),
	}
	if !a.IsOpen() {
		out := a.CheckOutTime
		row.CheckOutTime = &out
	}
	return row
}
