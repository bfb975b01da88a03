package projections

import (
	"context"
	"time"

	"fitpro/internal/adapters/storage/schedule"
	domainClass "fitpro/internal/domain/class"
	"fitpro/internal/domain/gymtime"
	domainSchedule "fitpro/internal/domain/schedule"
)

// SessionView is a scheduled session joined with its class.
type SessionView struct {
	ScheduleID      string
	ClassID         string
	ClassName       string
	TrainerName     string
	ScheduledDate   string
	StartTime       string
	EndTime         string
	DurationMinutes int
	MaxCapacity     int
	CurrentBookings int
	RemainingSpots  int
	IsFull          bool
	Booked          bool // member view only
}

// GetScheduleListQuery carries query parameters.
type GetScheduleListQuery struct {
	Limit int
}

// GetScheduleListResult carries the query result.
type GetScheduleListResult struct {
	Sessions []SessionView
}

// GetScheduleListDeps holds dependencies for GetScheduleList.
type GetScheduleListDeps struct {
	ScheduleStore ScheduleStore
	ClassStore    ClassStore
	TrainerStore  TrainerStore
}

// QueryGetScheduleList lists all sessions for the admin, newest date first and
// earliest start within a date.
func QueryGetScheduleList(ctx context.Context, query GetScheduleListQuery, deps GetScheduleListDeps) (GetScheduleListResult, error) {
	schedules, err := deps.ScheduleStore.List(ctx, schedule.ListFilter{Limit: query.Limit})
	if err != nil {
		return GetScheduleListResult{}, err
	}
	views, err := sessionViews(ctx, schedules, deps.ClassStore, deps.TrainerStore)
	if err != nil {
		return GetScheduleListResult{}, err
	}
	return GetScheduleListResult{Sessions: views}, nil
}

// GetUpcomingClassesQuery carries query parameters.
type GetUpcomingClassesQuery struct {
	UserID string
}

// GetUpcomingClassesResult carries the query result.
type GetUpcomingClassesResult struct {
	Sessions []SessionView
}

// GetUpcomingClassesDeps holds dependencies for GetUpcomingClasses.
type GetUpcomingClassesDeps struct {
	ScheduleStore ScheduleStore
	ClassStore    ClassStore
	TrainerStore  TrainerStore
	BookingStore  BookingStore
	Location      *time.Location
	Now           func() time.Time
}

// QueryGetUpcomingClasses lists sessions from today onward, soonest first,
// flagging those the member has booked.
// PRE: UserID is the caller
// POST: Every session has RemainingSpots = max(0, capacity - bookings)
func QueryGetUpcomingClasses(ctx context.Context, query GetUpcomingClassesQuery, deps GetUpcomingClassesDeps) (GetUpcomingClassesResult, error) {
	today := gymtime.Today(nowFrom(deps.Now), locOrUTC(deps.Location))
	schedules, err := deps.ScheduleStore.List(ctx, schedule.ListFilter{FromDate: today})
	if err != nil {
		return GetUpcomingClassesResult{}, err
	}
	views, err := sessionViews(ctx, schedules, deps.ClassStore, deps.TrainerStore)
	if err != nil {
		return GetUpcomingClassesResult{}, err
	}

	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ScheduleID
	}
	booked, err := deps.BookingStore.BookedScheduleIDs(ctx, query.UserID, ids)
	if err != nil {
		return GetUpcomingClassesResult{}, err
	}
	for i := range views {
		views[i].Booked = booked[views[i].ScheduleID]
	}
	return GetUpcomingClassesResult{Sessions: views}, nil
}

// sessionViews joins schedules with their classes and trainers in two batched lookups.
func sessionViews(ctx context.Context, schedules []domainSchedule.Schedule, classStore ClassStore, trainerStore TrainerStore) ([]SessionView, error) {
	classIDs := make([]string, len(schedules))
	for i, s := range schedules {
		classIDs[i] = s.ClassID
	}
	classes, err := classStore.GetMany(ctx, uniq(classIDs))
	if err != nil {
		return nil, err
	}
	trainerIDs := make([]string, 0, len(classes))
	for _, c := range classes {
		trainerIDs = append(trainerIDs, c.TrainerID)
	}
	trainers, err := trainerStore.GetMany(ctx, uniq(trainerIDs))
	if err != nil {
		return nil, err
	}

	views := make([]SessionView, 0, len(schedules))
	for _, s := range schedules {
		c := classes[s.ClassID]
		views = append(views, SessionView{
			ScheduleID:      s.ID,
			ClassID:         s.ClassID,
			ClassName:       c.Name,
			TrainerName:     domainClass.TrainerDisplayName(c.TrainerID, trainers[c.TrainerID].Name),
			ScheduledDate:   s.ScheduledDate,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: c.DurationMinutes,
			MaxCapacity:     c.MaxCapacity,
			CurrentBookings: s.CurrentBookings,
			RemainingSpots:  s.RemainingSpots(c.MaxCapacity),
			IsFull:          s.IsFull(c.MaxCapacity),
		})
	}
	return views, nil
}
