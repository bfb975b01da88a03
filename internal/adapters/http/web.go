package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"fitpro/internal/adapters/email"
	"fitpro/internal/adapters/http/middleware"
	"fitpro/internal/adapters/http/perf"
	"fitpro/internal/adapters/storage"
	accountStore "fitpro/internal/adapters/storage/account"
	attendanceStore "fitpro/internal/adapters/storage/attendance"
	bookingStore "fitpro/internal/adapters/storage/booking"
	classStore "fitpro/internal/adapters/storage/class"
	membershipStore "fitpro/internal/adapters/storage/membership"
	paymentStore "fitpro/internal/adapters/storage/payment"
	planStore "fitpro/internal/adapters/storage/plan"
	profileStore "fitpro/internal/adapters/storage/profile"
	scheduleStore "fitpro/internal/adapters/storage/schedule"
	trainerStore "fitpro/internal/adapters/storage/trainer"
	"fitpro/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	Tx              orchestrators.TxRunner
	AccountStore    accountStore.Store
	ProfileStore    profileStore.Store
	PlanStore       planStore.Store
	MembershipStore membershipStore.Store
	TrainerStore    trainerStore.Store
	ClassStore      classStore.Store
	ScheduleStore   scheduleStore.Store
	BookingStore    bookingStore.Store
	AttendanceStore attendanceStore.Store
	PaymentStore    paymentStore.Store
}

// NewStores builds the SQL-backed stores over db.
func NewStores(db storage.SQLDB) *Stores {
	return &Stores{
		Tx:              storage.NewTransactor(db),
		AccountStore:    accountStore.NewSQLStore(db),
		ProfileStore:    profileStore.NewSQLStore(db),
		PlanStore:       planStore.NewSQLStore(db),
		MembershipStore: membershipStore.NewSQLStore(db),
		TrainerStore:    trainerStore.NewSQLStore(db),
		ClassStore:      classStore.NewSQLStore(db),
		ScheduleStore:   scheduleStore.NewSQLStore(db),
		BookingStore:    bookingStore.NewSQLStore(db),
		AttendanceStore: attendanceStore.NewSQLStore(db),
		PaymentStore:    paymentStore.NewSQLStore(db),
	}
}

// Options configures the HTTP surface.
type Options struct {
	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	TrustedOrigins []string // hosts allowed to post forms, e.g. "app.fitpro.example"
	CORSOrigins    []string // browser origins allowed to call the API
	RateLimit      int      // requests per second per IP; zero disables limiting
	Tokens         *middleware.TokenIssuer
	Location       *time.Location // gym time zone for day and month boundaries
	Collector      *perf.Collector
	Health         func(ctx context.Context) error
	StaticDir      string // optional front-end bundle served at /
}

// Global stores instance (set by NewRouter)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global bearer token issuer
var tokens *middleware.TokenIssuer

// Global perf collector (set by NewRouter)
var perfCollector *perf.Collector

// gymLocation anchors "today" and "this month".
var gymLocation = time.UTC

var healthCheck func(ctx context.Context) error

var limiter *middleware.RateLimiter

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, replyTo string) {
	emailSender = sender
	emailReplyTo = replyTo
}

// NewRouter wires HTTP handlers for the app.
func NewRouter(s *Stores, opts Options) http.Handler {
	stores = s
	perfCollector = opts.Collector
	tokens = opts.Tokens
	healthCheck = opts.Health
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.SecureCookies
	if opts.Location != nil {
		gymLocation = opts.Location
	}

	router := mux.NewRouter()
	router.Use(middleware.Timing(opts.Collector))
	registerRoutes(router)
	if opts.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir)))
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Innermost first: RateLimit -> Auth -> CSRF -> SecurityHeaders -> CORS -> Recovery
	chain := []func(http.Handler) http.Handler{}
	if opts.RateLimit > 0 {
		Close()
		limiter = middleware.NewRateLimiter(opts.RateLimit, time.Second)
		chain = append(chain, middleware.RateLimit(limiter))
	}
	chain = append(chain,
		middleware.Auth(sessions, tokens),
		middleware.CSRF(opts.CSRFKey, middleware.CSRFOptions{
			Secure:         opts.SecureCookies,
			TrustedOrigins: opts.TrustedOrigins,
		}),
		middleware.SecurityHeaders,
	)
	if len(opts.CORSOrigins) > 0 {
		chain = append(chain, handlers.CORS(
			handlers.AllowedOrigins(opts.CORSOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
			handlers.AllowCredentials(),
			handlers.MaxAge(600),
		))
	}
	chain = append(chain, handlers.RecoveryHandler(
		handlers.RecoveryLogger(panicLogger{}),
		handlers.PrintRecoveryStack(false),
	))
	return middleware.Chain(router, chain...)
}

// Close stops background work started by NewRouter.
func Close() {
	if limiter != nil {
		limiter.Stop()
		limiter = nil
	}
}
