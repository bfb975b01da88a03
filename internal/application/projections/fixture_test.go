package projections

import (
	"context"
	"testing"
	"time"

	accountStorage "fitpro/internal/adapters/storage/account"
	attendanceStorage "fitpro/internal/adapters/storage/attendance"
	bookingStorage "fitpro/internal/adapters/storage/booking"
	classStorage "fitpro/internal/adapters/storage/class"
	membershipStorage "fitpro/internal/adapters/storage/membership"
	paymentStorage "fitpro/internal/adapters/storage/payment"
	planStorage "fitpro/internal/adapters/storage/plan"
	profileStorage "fitpro/internal/adapters/storage/profile"
	scheduleStorage "fitpro/internal/adapters/storage/schedule"
	"fitpro/internal/adapters/storage/storagetest"
	trainerStorage "fitpro/internal/adapters/storage/trainer"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/attendance"
	"fitpro/internal/domain/booking"
	"fitpro/internal/domain/class"
	"fitpro/internal/domain/membership"
	"fitpro/internal/domain/payment"
	"fitpro/internal/domain/plan"
	"fitpro/internal/domain/profile"
	"fitpro/internal/domain/schedule"
	"fitpro/internal/domain/trainer"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// gym bundles SQL stores over one seeded database.
type gym struct {
	accounts    *accountStorage.SQLStore
	profiles    *profileStorage.SQLStore
	plans       *planStorage.SQLStore
	memberships *membershipStorage.SQLStore
	trainers    *trainerStorage.SQLStore
	classes     *classStorage.SQLStore
	schedules   *scheduleStorage.SQLStore
	bookings    *bookingStorage.SQLStore
	attendance  *attendanceStorage.SQLStore
	payments    *paymentStorage.SQLStore
}

// seedGym creates:
//   - admin "admin"; members "ann" (Monthly, active) and "bob" (no membership, no profile)
//   - trainer "t1" (inactive); classes "yoga" (t1, capacity 2) and "hiit" (unassigned)
//   - sessions "s-past" (yesterday), "s-today" (yoga, 1 booked by ann), "s-next" (hiit, tomorrow)
//   - visits: ann closed 1h30m yesterday, ann open today
//   - payments: ann 49.99 completed, bob 10.00 pending
func seedGym(t *testing.T) gym {
	t.Helper()
	db := storagetest.Open(t)
	ctx := context.Background()
	g := gym{
		accounts:    accountStorage.NewSQLStore(db),
		profiles:    profileStorage.NewSQLStore(db),
		plans:       planStorage.NewSQLStore(db),
		memberships: membershipStorage.NewSQLStore(db),
		trainers:    trainerStorage.NewSQLStore(db),
		classes:     classStorage.NewSQLStore(db),
		schedules:   scheduleStorage.NewSQLStore(db),
		bookings:    bookingStorage.NewSQLStore(db),
		attendance:  attendanceStorage.NewSQLStore(db),
		payments:    paymentStorage.NewSQLStore(db),
	}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	for i, a := range []account.Account{
		{ID: "admin", Email: "admin@fitpro.test", Role: account.RoleAdmin},
		{ID: "ann", Email: "ann@fitpro.test", Role: account.RoleMember},
		{ID: "bob", Email: "bob@fitpro.test", Role: account.RoleMember},
	} {
		a.PasswordHash = "x"
		a.CreatedAt = fixedTime.Add(time.Duration(i) * time.Minute)
		must(g.accounts.Create(ctx, a))
	}
	must(g.profiles.Save(ctx, profile.Profile{ID: "admin", FullName: "Administrator"}))
	must(g.profiles.Save(ctx, profile.Profile{ID: "ann", FullName: "Ann Smith", Phone: "555-0001"}))

	must(g.plans.Save(ctx, plan.Plan{ID: "monthly", Name: "Monthly", Price: 4999, DurationMonths: 1, IsActive: true}))
	must(g.memberships.Create(ctx, membership.Membership{
		ID: "m-ann", UserID: "ann", PlanID: "monthly", StartDate: "2026-03-01", EndDate: "2026-04-01", Status: membership.StatusActive,
	}))

	must(g.trainers.Save(ctx, trainer.Trainer{ID: "t1", Name: "Tess", Email: "tess@fitpro.test", Bio: "*Yoga* for all", IsActive: false}))
	must(g.classes.Save(ctx, class.Class{ID: "yoga", Name: "Yoga", Description: "**Stretch**", DurationMinutes: 60, MaxCapacity: 2, TrainerID: "t1", IsActive: true}))
	must(g.classes.Save(ctx, class.Class{ID: "hiit", Name: "HIIT", DurationMinutes: 45, MaxCapacity: 10, IsActive: true}))

	for _, s := range []schedule.Schedule{
		{ID: "s-past", ClassID: "yoga", ScheduledDate: "2026-02-28", StartTime: "07:00", EndTime: "08:00"},
		{ID: "s-today", ClassID: "yoga", ScheduledDate: "2026-03-01", StartTime: "18:00", EndTime: "19:00"},
		{ID: "s-next", ClassID: "hiit", ScheduledDate: "2026-03-02", StartTime: "06:00", EndTime: "06:45"},
	} {
		must(g.schedules.Create(ctx, s))
	}
	if ok, err := g.schedules.TryIncrementBookings(ctx, "s-today"); err != nil || !ok {
		t.Fatalf("seed increment: ok=%v err=%v", ok, err)
	}
	must(g.bookings.Create(ctx, booking.Booking{ID: "b1", UserID: "ann", ScheduleID: "s-today", Status: booking.StatusConfirmed, CreatedAt: fixedTime}))

	yesterday := fixedTime.Add(-24 * time.Hour)
	must(g.attendance.Create(ctx, attendance.Attendance{ID: "v1", UserID: "ann", CheckInTime: yesterday, CheckOutTime: yesterday.Add(90 * time.Minute)}))
	must(g.attendance.Create(ctx, attendance.Attendance{ID: "v2", UserID: "ann", CheckInTime: fixedTime}))

	must(g.payments.Create(ctx, payment.Payment{ID: "p1", UserID: "ann", Amount: 4999, PaymentMethod: payment.MethodCard, Status: payment.StatusCompleted, PaymentDate: fixedTime}))
	must(g.payments.Create(ctx, payment.Payment{ID: "p2", UserID: "bob", Amount: 1000, PaymentMethod: payment.MethodCash, Status: payment.StatusPending, PaymentDate: fixedTime.Add(time.Hour)}))
	return g
}
