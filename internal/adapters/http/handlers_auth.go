package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"fitpro/internal/adapters/http/middleware"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/domain/account"
)

//go:embed templates/*.html
var templateFS embed.FS

var loginTemplate = template.Must(template.ParseFS(templateFS, "templates/login.html"))

type loginPage struct {
	CSRFField template.HTML
	Email     string
	Error     string
}

func renderLogin(w http.ResponseWriter, r *http.Request, status int, page loginPage) {
	page.CSRFField = csrf.TemplateField(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := loginTemplate.Execute(w, page); err != nil {
		slog.Error("render_login", "error", err)
	}
}

func loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{AccountStore: stores.AccountStore}
}

// handleLoginPage handles GET /login
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderLogin(w, r, http.StatusOK, loginPage{})
}

// handleLogin handles POST /login. A form post starts a cookie session;
// a JSON post does the same and answers with the caller's identity.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	jsonRequest := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

	var input orchestrators.LoginInput
	if jsonRequest {
		var req credentialsRequest
		if err := strictDecode(r, &req); err != nil {
			writeDomainError(w, err)
			return
		}
		input = orchestrators.LoginInput{Email: req.Email, Password: req.Password}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{Email: r.FormValue("Email"), Password: r.FormValue("Password")}
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, loginDeps())
	if err != nil {
		if !jsonRequest && statusFor(err) == http.StatusUnauthorized {
			renderLogin(w, r, http.StatusUnauthorized, loginPage{Email: input.Email, Error: err.Error()})
			return
		}
		writeDomainError(w, err)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if jsonRequest {
		writeJSON(w, http.StatusOK, identityResponse{ID: result.AccountID, Email: result.Email, Role: result.Role})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "account_id", sess.AccountID)
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type credentialsRequest struct {
	Email    string `json:"Email" validate:"required,email"`
	Password string `json:"Password" validate:"required"`
}

type tokenResponse struct {
	Token     string    `json:"Token"`
	TokenType string    `json:"TokenType"`
	ExpiresAt time.Time `json:"ExpiresAt"`
	Role      string    `json:"Role"`
}

// handleToken handles POST /api/auth/token and issues a bearer JWT.
func handleToken(w http.ResponseWriter, r *http.Request) {
	if tokens == nil {
		writeError(w, http.StatusNotFound, "token issuance is disabled")
		return
	}
	var req credentialsRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{Email: req.Email, Password: req.Password}, loginDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	signed, exp, err := tokens.Issue(middleware.Session{AccountID: result.AccountID, Email: result.Email, Role: result.Role})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: signed, TokenType: "Bearer", ExpiresAt: exp, Role: result.Role})
}

type signupRequest struct {
	Email    string `json:"Email" validate:"required,email"`
	Password string `json:"Password" validate:"required,min=8"`
	FullName string `json:"FullName" validate:"required"`
	Phone    string `json:"Phone"`
}

type identityResponse struct {
	ID    string `json:"ID"`
	Email string `json:"Email"`
	Role  string `json:"Role"`
}

// handleSignup handles POST /api/auth/signup. Self-service sign-up always
// creates a member and signs them in.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := strictDecode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	id, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     account.RoleMember,
		FullName: req.FullName,
		Phone:    req.Phone,
	}, orchestrators.CreateAccountDeps{
		Tx:           stores.Tx,
		AccountStore: stores.AccountStore,
		ProfileStore: stores.ProfileStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmailAlreadyExists) {
			slog.Info("auth_event", "event", "signup_duplicate")
		}
		writeDomainError(w, err)
		return
	}

	email := account.NormalizeEmail(req.Email)
	if token, err := sessions.Create(id, email, account.RoleMember); err == nil {
		middleware.SetSessionCookie(w, token)
	} else {
		slog.Error("session_create_failed", "account_id", id, "error", err)
	}
	writeJSON(w, http.StatusCreated, identityResponse{ID: id, Email: email, Role: account.RoleMember})
}
