// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/flash"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/middleware"
	requestutil "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/request"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/respond"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/validate"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/web"
)

// # Definitions & Constructors

// Handler implements the authentication pages and form endpoints.
//
// # Scope
//
// Every submit endpoint ends in a flash message plus a redirect for
// browsers, or the JSON envelope for API/AJAX callers.
type Handler struct {
	authService *Service
	renderer    web.Renderer
	flashes     *flash.Store
	cookies     *Cookies
	limiter     *middleware.RateLimiter
}

// NewHandler constructs a new [Handler]. limiter may be nil to disable
// throttling of the credential endpoints.
func NewHandler(service *Service, renderer web.Renderer, flashes *flash.Store, cookies *Cookies, limiter *middleware.RateLimiter) *Handler {
	return &Handler{
		authService: service,
		renderer:    renderer,
		flashes:     flashes,
		cookies:     cookies,
		limiter:     limiter,
	}
}

// Routes returns a [chi.Router] with the authentication routes, mounted under /auth.
//
// # Endpoints
//   - GET/POST /register      : Account creation.
//   - GET/POST /login         : Credential login, optional remember-me.
//   - POST     /logout        : Ends the session and revokes remember-me.
//   - GET/POST /forgot        : Requests a reset link.
//   - GET/POST /reset/{token} : Chooses a new password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Guest-only pages
	router.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfAuthenticated)

		r.Get("/register", handler.registerPage)
		r.Post("/register", handler.register)
		r.Get("/login", handler.loginPage)
		r.Get("/forgot", handler.forgotPage)
		r.Get("/reset/{token}", handler.resetPage)

		// Credential submissions are throttled per IP
		r.Group(func(r chi.Router) {
			if handler.limiter != nil {
				r.Use(handler.limiter.Middleware)
			}
			r.Post("/login", handler.login)
			r.Post("/forgot", handler.forgotPassword)
			r.Post("/reset/{token}", handler.resetPassword)
		})
	})

	router.Post("/logout", handler.logout)

	return router
}

// # Pages

func (handler *Handler) registerPage(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, web.PageRegister, web.Page{Title: "Register"})
}

func (handler *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, web.PageLogin, web.Page{Title: "Log in"})
}

func (handler *Handler) forgotPage(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, web.PageForgot, web.Page{Title: "Forgot password"})
}

/*
resetPage shows the new-password form for a valid token.

GET /auth/reset/{token}

Response:
  - 200: Reset form
  - 302: /auth/forgot with an error flash when the token is invalid or expired
*/
func (handler *Handler) resetPage(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)

	if _, err := handler.authService.ValidateResetToken(request.Context(), token); err != nil {
		handler.fail(writer, request, err, resetFailureTarget(err, token))
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, web.PageReset, web.Page{
		Title: "Choose a new password",
		Data:  map[string]any{FieldToken: token},
	})
}

// # Submissions

/*
register handles the creation of a new account.

POST /auth/register

Request:
  - Form: username, email, phone, password, confirmPassword

Response:
  - 302: /auth/login with a success flash
  - 302: /auth/register with an error flash on validation failure or duplicate identity
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	form, err := requestutil.DecodeForm(writer, request)
	if err != nil {
		handler.fail(writer, request, err, constants.PathRegister)
		return
	}

	input := RegisterInput{
		Username: form.Get(FieldUsername),
		Email:    form.Get(FieldEmail),
		Phone:    form.Get(FieldPhone),
		Password: form.Raw(FieldPassword),
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLength).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Phone(FieldPhone, input.Phone)
	passwordRules(validator, input.Password, form.Raw(FieldConfirmPassword))

	if err := validator.Err(); err != nil {
		handler.fail(writer, request, err, constants.PathRegister)
		return
	}

	user, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err, constants.PathRegister)
		return
	}

	if requestutil.WantsJSON(request) {
		respond.Created(writer, map[string]any{
			FieldUser:     user,
			FieldMessage:  MessageRegistered,
			FieldRedirect: constants.PathLogin,
		})
		return
	}

	handler.flashes.Success(writer, MessageRegistered)
	respond.Redirect(writer, request, constants.PathLogin)
}

/*
login authenticates the user and opens a session.

POST /auth/login

Request:
  - Form: identifier (username or email), password, rememberMe

Response:
  - 302: returnTo location (or /) with a success flash; session cookie set,
    remember-me cookie set when requested
  - 302: /auth/login with "Invalid login credentials"
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	form, err := requestutil.DecodeForm(writer, request)
	if err != nil {
		handler.fail(writer, request, err, constants.PathLogin)
		return
	}

	input := LoginInput{
		Identifier: form.Get(FieldIdentifier),
		Password:   form.Raw(FieldPassword),
		RememberMe: form.Bool(FieldRememberMe),
	}

	validator := &validate.Validator{}
	validator.Required(FieldIdentifier, input.Identifier).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		handler.fail(writer, request, err, constants.PathLogin)
		return
	}

	result, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err, constants.PathLogin)
		return
	}

	http.SetCookie(writer, handler.cookies.Session(result.Session.ID))
	if result.RememberToken != "" {
		http.SetCookie(writer, handler.cookies.Remember(result.RememberToken))
	}

	destination := middleware.ReturnTo(request)
	if destination == "" {
		destination = constants.PathHome
	}
	middleware.ClearReturnTo(writer, handler.cookies.Secure())

	if requestutil.WantsJSON(request) {
		respond.OK(writer, map[string]any{
			FieldUser:     result.User.Identity(),
			FieldMessage:  MessageLoggedIn,
			FieldRedirect: destination,
		})
		return
	}

	handler.flashes.Success(writer, MessageLoggedIn)
	respond.Redirect(writer, request, destination)
}

/*
logout destroys the session and forgets the remember-me token.

POST /auth/logout

Response:
  - 302: / with a success flash; both auth cookies cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	sessionID, _, valid := handler.cookies.SessionID(request)
	if !valid {
		sessionID = ""
	}
	rememberToken, _ := handler.cookies.RememberToken(request)

	handler.authService.Logout(request.Context(), sessionID, rememberToken)

	http.SetCookie(writer, handler.cookies.ClearSession())
	http.SetCookie(writer, handler.cookies.ClearRemember())

	if requestutil.WantsJSON(request) {
		respond.OK(writer, map[string]any{
			FieldMessage:  MessageLoggedOut,
			FieldRedirect: constants.PathHome,
		})
		return
	}

	handler.flashes.Success(writer, MessageLoggedOut)
	respond.Redirect(writer, request, constants.PathHome)
}

/*
forgotPassword requests a reset link.

POST /auth/forgot

Description: Known and unknown emails get the same response.

Request:
  - Form: email

Response:
  - 302: /auth/login with an info flash
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	form, err := requestutil.DecodeForm(writer, request)
	if err != nil {
		handler.fail(writer, request, err, constants.PathForgot)
		return
	}

	email := form.Get(FieldEmail)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email)

	if err := validator.Err(); err != nil {
		handler.fail(writer, request, err, constants.PathForgot)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), email); err != nil {
		handler.fail(writer, request, err, constants.PathForgot)
		return
	}

	if requestutil.WantsJSON(request) {
		respond.OK(writer, map[string]any{
			FieldMessage:  MessageResetSent,
			FieldRedirect: constants.PathLogin,
		})
		return
	}

	handler.flashes.Info(writer, MessageResetSent)
	respond.Redirect(writer, request, constants.PathLogin)
}

/*
resetPassword consumes a reset token and sets the new password.

POST /auth/reset/{token}

Request:
  - Form: password, confirmPassword

Response:
  - 302: /auth/login with a success flash
  - 302: /auth/forgot when the token is invalid or expired
  - 302: back to the form on validation failure
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)
	formPath := constants.PathReset + url.PathEscape(token)

	form, err := requestutil.DecodeForm(writer, request)
	if err != nil {
		handler.fail(writer, request, err, formPath)
		return
	}

	input := ResetPasswordInput{
		Token:           token,
		Password:        form.Raw(FieldPassword),
		ConfirmPassword: form.Raw(FieldConfirmPassword),
	}

	// Mismatch is reported by the service with its own error code.
	validator := &validate.Validator{}
	validator.Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxBytes(FieldPassword, input.Password, passwordMaxBytes).
		StrongPassword(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		handler.fail(writer, request, err, formPath)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input); err != nil {
		handler.fail(writer, request, err, resetFailureTarget(err, token))
		return
	}

	if requestutil.WantsJSON(request) {
		respond.OK(writer, map[string]any{
			FieldMessage:  MessagePasswordReset,
			FieldRedirect: constants.PathLogin,
		})
		return
	}

	handler.flashes.Success(writer, MessagePasswordReset)
	respond.Redirect(writer, request, constants.PathLogin)
}

// # Helpers

// passwordMaxBytes is bcrypt's input limit.
const passwordMaxBytes = 72

func passwordRules(validator *validate.Validator, password, confirm string) {
	validator.Required(FieldPassword, password).
		MinLen(FieldPassword, password, PasswordMinLength).
		MaxBytes(FieldPassword, password, passwordMaxBytes).
		StrongPassword(FieldPassword, password).
		Equal(FieldConfirmPassword, confirm, password, "Passwords do not match")
}

// resetFailureTarget sends dead tokens to the request form and everything
// else back to the reset form.
func resetFailureTarget(err error, token string) string {
	if apperr.HasCode(err, apperr.CodeInvalidOrExpiredToken) {
		return constants.PathForgot
	}
	return constants.PathReset + url.PathEscape(token)
}

// fail reports err to the client.
//
// Client errors become an error flash and a redirect to back. Server
// faults render the error page. API/AJAX callers get the JSON envelope.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error, back string) {
	if requestutil.WantsJSON(request) {
		respond.Error(writer, request, err)
		return
	}

	appError := apperr.As(err)
	if appError == nil || appError.IsServerFault() {
		handler.renderer.Error(writer, request, err)
		return
	}

	handler.flashes.Error(writer, validate.Summary(appError))
	respond.Redirect(writer, request, back)
}
