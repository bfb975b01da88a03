package projections

import (
	"context"
	"time"

	domainAccount "fitpro/internal/domain/account"
	"fitpro/internal/domain/gymtime"
)

// AnalyticsDays is the length of the trailing revenue and attendance series.
const AnalyticsDays = 7

// DayLabelLayout formats series labels such as "Jan 2".
const DayLabelLayout = "Jan 2"

// MemberCounter counts identities holding a role.
type MemberCounter interface {
	CountByRole(ctx context.Context, role string) (int, error)
}

// ActiveMembershipCounter counts active memberships.
type ActiveMembershipCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// RevenueSummer sums completed payments with payment_date in [from, to).
// A zero to means no upper bound.
type RevenueSummer interface {
	SumCompleted(ctx context.Context, from, to time.Time) (int64, error)
}

// CheckInCounter counts check-ins in [from, to).
type CheckInCounter interface {
	CountCheckIns(ctx context.Context, from, to time.Time) (int, error)
}

// GetAnalyticsQuery carries query parameters.
type GetAnalyticsQuery struct{}

// DayStat is one point in the trailing series.
type DayStat struct {
	Date       string // YYYY-MM-DD
	Label      string // "Jan 2"
	Revenue    int64  // cents
	Attendance int
}

// GetAnalyticsResult carries the admin dashboard figures.
type GetAnalyticsResult struct {
	TotalMembers      int
	ActiveMemberships int
	MonthlyRevenue    int64 // cents, completed payments dated on or after the first of this month
	TodayAttendance   int
	Days              []DayStat // oldest first
}

// GetAnalyticsDeps holds dependencies for GetAnalytics.
type GetAnalyticsDeps struct {
	Members     MemberCounter
	Memberships ActiveMembershipCounter
	Payments    RevenueSummer
	Attendance  CheckInCounter
	Location    *time.Location
	Now         func() time.Time
}

// QueryGetAnalytics computes dashboard totals and the trailing seven-day series.
// PRE: Location is the gym's time zone (UTC when nil)
// POST: Days has AnalyticsDays entries, oldest first, ending today
// INVARIANT: Day and month boundaries are midnight in Location
func QueryGetAnalytics(ctx context.Context, _ GetAnalyticsQuery, deps GetAnalyticsDeps) (GetAnalyticsResult, error) {
	loc := locOrUTC(deps.Location)
	now := nowFrom(deps.Now)
	today := gymtime.StartOfDay(now, loc)
	month := gymtime.StartOfMonth(now, loc)

	var res GetAnalyticsResult
	var err error
	if res.TotalMembers, err = deps.Members.CountByRole(ctx, domainAccount.RoleMember); err != nil {
		return GetAnalyticsResult{}, err
	}
	if res.ActiveMemberships, err = deps.Memberships.CountActive(ctx); err != nil {
		return GetAnalyticsResult{}, err
	}
	// Post-dated payments count toward the current month.
	if res.MonthlyRevenue, err = deps.Payments.SumCompleted(ctx, month, time.Time{}); err != nil {
		return GetAnalyticsResult{}, err
	}
	if res.TodayAttendance, err = deps.Attendance.CountCheckIns(ctx, today, today.AddDate(0, 0, 1)); err != nil {
		return GetAnalyticsResult{}, err
	}

	res.Days = make([]DayStat, 0, AnalyticsDays)
	for i := AnalyticsDays - 1; i >= 0; i-- {
		// AddDate keeps midnight across DST changes.
		from := today.AddDate(0, 0, -i)
		to := from.AddDate(0, 0, 1)

		revenue, err := deps.Payments.SumCompleted(ctx, from, to)
		if err != nil {
			return GetAnalyticsResult{}, err
		}
		visits, err := deps.Attendance.CountCheckIns(ctx, from, to)
		if err != nil {
			return GetAnalyticsResult{}, err
		}
		res.Days = append(res.Days, DayStat{
			Date:       from.Format(gymtime.DateLayout),
			Label:      from.Format(DayLabelLayout),
			Revenue:    revenue,
			Attendance: visits,
		})
	}
	return res, nil
}
