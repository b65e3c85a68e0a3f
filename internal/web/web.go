// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web renders the server-side HTML pages.

Every page is rendered through [Renderer], which merges the handler's
[Page] with the request locals every template relies on: the acting user,
the flash messages consumed on this request and the current path.
*/
package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxutil"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/flash"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/logattr"
	requestutil "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/request"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/respond"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

//go:embed templates/*.html
var templateFS embed.FS

// # Page Names

const (
	PageHome     = "home"
	PageLogin    = "login"
	PageRegister = "register"
	PageForgot   = "forgot"
	PageReset    = "reset"
	PageError    = "error"
)

// Page is what a handler hands to the renderer.
type Page struct {
	Title string

	// Form echoes submitted values back into inputs. Passwords are never echoed.
	Form map[string]string

	// Errors maps a field name to its validation message.
	Errors map[string]string

	// Data carries page-specific values (e.g. the reset token).
	Data map[string]any
}

// view is the value the templates execute against.
type view struct {
	Page
	User            *sec.Identity
	IsAuthenticated bool
	IsAdmin         bool
	CurrentPath     string
	Flash           []flash.Message
	Status          int
	Message         string
}

// Renderer draws HTML pages and error pages.
type Renderer interface {
	Render(writer http.ResponseWriter, request *http.Request, status int, name string, page Page)
	Error(writer http.ResponseWriter, request *http.Request, err error)
}

// TemplateRenderer is the [Renderer] over the embedded html/template pages.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses every page against the shared layout.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	names := []string{PageHome, PageLogin, PageRegister, PageForgot, PageReset, PageError}
	pages := make(map[string]*template.Template, len(names))

	for _, name := range names {
		tmpl, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}

	return &TemplateRenderer{pages: pages}, nil
}

// Render executes the named page. Unknown pages and template failures become a 500.
func (renderer *TemplateRenderer) Render(writer http.ResponseWriter, request *http.Request, status int, name string, page Page) {
	renderer.execute(writer, request, status, name, renderer.locals(request, page))
}

/*
Error renders err for the client.

API/AJAX callers receive the JSON envelope. Browsers receive the error page
with the client-safe message; server faults are logged with full detail.
*/
func (renderer *TemplateRenderer) Error(writer http.ResponseWriter, request *http.Request, err error) {
	if requestutil.WantsJSON(request) {
		respond.Error(writer, request, err)
		return
	}

	appError := respond.Classify(request, err)
	data := renderer.locals(request, Page{Title: http.StatusText(appError.HTTPStatus)})
	data.Status = appError.HTTPStatus
	data.Message = appError.Message

	renderer.execute(writer, request, appError.HTTPStatus, PageError, data)
}

// NotFound renders the 404 page for unmatched routes.
func (renderer *TemplateRenderer) NotFound(writer http.ResponseWriter, request *http.Request) {
	renderer.Error(writer, request, apperr.NotFound("Page"))
}

func (renderer *TemplateRenderer) locals(request *http.Request, page Page) view {
	identity := ctxutil.GetIdentity(request.Context())
	return view{
		Page:            page,
		User:            identity,
		IsAuthenticated: identity != nil,
		IsAdmin:         identity.IsAdmin(),
		CurrentPath:     request.URL.Path,
		Flash:           flash.FromContext(request.Context()),
	}
}

func (renderer *TemplateRenderer) execute(writer http.ResponseWriter, request *http.Request, status int, name string, data view) {
	tmpl, ok := renderer.pages[name]
	if !ok {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "template_not_found", slog.String("page", name))
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// Buffer so a failing template never leaves a half-written 200.
	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, "layout", data); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "template_render_failed",
			slog.String("page", name), logattr.Err(err))
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buffer.WriteTo(writer)
}
