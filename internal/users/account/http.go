// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/flash"
	requestutil "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/request"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/respond"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/validate"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/web"
)

// Handler implements the admin account endpoints.
//
// # Security
//
// The router must be mounted behind middleware.RequireAdmin.
type Handler struct {
	accountService *Service
	renderer       web.Renderer
	flashes        *flash.Store
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, renderer web.Renderer, flashes *flash.Store) *Handler {
	return &Handler{accountService: service, renderer: renderer, flashes: flashes}
}

// Routes returns a [chi.Router] with the account endpoints, mounted under /admin/users.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.getAccount)
	router.Post("/{id}/activate", handler.setActive(true))
	router.Post("/{id}/deactivate", handler.setActive(false))

	return router
}

/*
GET /admin/users/{id}.

Response:
  - 200: User: The account (JSON only)
  - 404: ErrNotFound
*/
func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := userIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetAccount(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
POST /admin/users/{id}/activate and /admin/users/{id}/deactivate.

Response:
  - 200: User (JSON callers)
  - 302: / with a flash (browsers)
  - 404: ErrNotFound
  - 409: Self-deactivation
*/
func (handler *Handler) setActive(active bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, err := userIDParam(request)
		if err != nil {
			handler.fail(writer, request, err)
			return
		}

		user, err := handler.accountService.SetActive(request.Context(), requestutil.Identity(request), userID, active)
		if err != nil {
			handler.fail(writer, request, err)
			return
		}

		if requestutil.WantsJSON(request) {
			respond.OK(writer, user)
			return
		}

		if active {
			handler.flashes.Success(writer, "Account "+user.Username+" activated")
		} else {
			handler.flashes.Success(writer, "Account "+user.Username+" deactivated")
		}
		respond.Redirect(writer, request, constants.PathHome)
	}
}

func userIDParam(request *http.Request) (string, error) {
	userID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.UUID("id", userID)

	return userID, validator.Err()
}

func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
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
	respond.Redirect(writer, request, constants.PathHome)
}
