package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/application/orchestrators"
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

// validate checks request DTOs and reports fields by their JSON names.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_response", "error", err)
	}
}

// writeError answers with {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs err and answers with a generic 500.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields,
// then validates struct tags.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	if err := validate.Struct(v); err != nil {
		return badRequest{validationError(err)}
	}
	return nil
}

// badRequest marks a decode or validation failure.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

// validationError turns validator output into one readable message.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, field+" must be at least "+fe.Param()+" characters")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// statusFor maps domain, orchestrator and storage errors to HTTP status codes.
// Zero means the error is unexpected.
func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, orchestrators.ErrInvalidCredentials), errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, orchestrators.ErrMemberNotFound),
		errors.Is(err, orchestrators.ErrPlanNotFound),
		errors.Is(err, orchestrators.ErrTrainerNotFound),
		errors.Is(err, orchestrators.ErrClassNotFound),
		errors.Is(err, orchestrators.ErrScheduleNotFound),
		errors.Is(err, membership.ErrNoActive),
		errors.Is(err, booking.ErrNotBooked):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict),
		errors.Is(err, orchestrators.ErrEmailAlreadyExists),
		errors.Is(err, schedule.ErrFull),
		errors.Is(err, booking.ErrAlreadyBooked),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn):
		return http.StatusConflict
	case isValidation(err):
		return http.StatusBadRequest
	}
	return 0
}

// validationErrors are domain rule violations surfaced verbatim as 400s.
var validationErrors = []error{
	account.ErrInvalidEmail, account.ErrEmptyEmail, account.ErrEmailTooLong, account.ErrInvalidRole,
	account.ErrEmptyPassword, account.ErrPasswordTooShort,
	orchestrators.ErrCurrentPasswordWrong, orchestrators.ErrNewPasswordSame,
	profile.ErrEmptyFullName, profile.ErrNameTooLong, profile.ErrPhoneTooLong,
	plan.ErrEmptyName, plan.ErrNameTooLong, plan.ErrNegativePrice, plan.ErrInvalidDuration, plan.ErrInactive,
	membership.ErrInvalidDate, membership.ErrEndBeforeStart, membership.ErrNotActive,
	trainer.ErrEmptyName, trainer.ErrNameTooLong, trainer.ErrEmptyEmail, trainer.ErrInvalidEmail,
	trainer.ErrSpecTooLong, trainer.ErrBioTooLong, trainer.ErrInactive,
	class.ErrEmptyName, class.ErrNameTooLong, class.ErrDescTooLong, class.ErrInvalidDuration,
	class.ErrInvalidCapacity, class.ErrInactive,
	schedule.ErrEmptyClassID, schedule.ErrInvalidDate, schedule.ErrInvalidStartTime,
	schedule.ErrInvalidEndTime, schedule.ErrEndBeforeStart, schedule.ErrInPast,
	payment.ErrEmptyUserID, payment.ErrNegativeAmount, payment.ErrInvalidAmount,
	payment.ErrInvalidMethod, payment.ErrInvalidStatus,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeDomainError answers with the mapped status and the error text, or a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == 0 {
		internalError(w, err)
		return
	}
	writeError(w, status, err.Error())
}

// flexInt accepts a JSON number or a numeric string. Empty strings and null
// leave it unset so defaults can apply.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not a whole number", s)
	}
	f.Value, f.Set = n, true
	return nil
}

// Or returns the value, or def when unset.
func (f flexInt) Or(def int) int {
	if !f.Set {
		return def
	}
	return f.Value
}

// flexAmount accepts a currency amount as a JSON number or decimal string
// and holds it in cents.
type flexAmount struct {
	Cents int64
	Set   bool
}

func (f *flexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	cents, err := payment.ParseAmount(s)
	if err != nil {
		return err
	}
	f.Cents, f.Set = cents, true
	return nil
}
