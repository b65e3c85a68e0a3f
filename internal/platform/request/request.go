// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and the
form-decoding pattern used by every submit endpoint, and decides whether a
caller expects JSON or an HTML redirect.
*/
package requestutil

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxutil"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/validate"
)

/*
DecodeForm parses an application/x-www-form-urlencoded body (bounded by
constants.MaxFormBytes) and returns the trimmed values.

Returns:
  - Form: accessor over the posted fields
  - error: validate.ErrInvalidForm if the body cannot be parsed
*/
func DecodeForm(writer http.ResponseWriter, request *http.Request) (Form, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxFormBytes)
	if err := request.ParseForm(); err != nil {
		return nil, validate.ErrInvalidForm
	}
	return Form(request.PostForm), nil
}

// Form is a read-only view over posted form values.
type Form map[string][]string

// Get returns the first value for key with surrounding whitespace removed.
func (form Form) Get(key string) string {
	values := form[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// Raw returns the first value for key untouched. Passwords must not be trimmed.
func (form Form) Raw(key string) string {
	values := form[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Bool interprets checkbox-style values ("on", "true", "1").
func (form Form) Bool(key string) bool {
	switch strings.ToLower(form.Get(key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

/*
WantsJSON reports whether the caller is an API/AJAX client that should get a
JSON envelope instead of a redirect with a flash message.
*/
func WantsJSON(request *http.Request) bool {
	if strings.EqualFold(request.Header.Get(constants.HeaderXRequestedWith), "XMLHttpRequest") {
		return true
	}
	if strings.Contains(request.Header.Get(constants.HeaderAccept), "application/json") {
		return true
	}
	return strings.HasPrefix(request.URL.Path, "/api/")
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Identity extracts the resolved identity from the request context.

Returns nil if the request is anonymous.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated.

Returns:
  - *sec.Identity: The acting user
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return identity, nil
}
