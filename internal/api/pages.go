// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/respond"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/web"
)

// ignoredPaths are probed by browsers and crawlers. They get an empty 204
// so they never reach the error page or the logs.
var ignoredPaths = map[string]struct{}{
	"/favicon.ico":          {},
	"/robots.txt":           {},
	"/sitemap.xml":          {},
	"/apple-touch-icon.png": {},
	"/.well-known/appspecific/com.chrome.devtools.json": {},
}

func homePage(renderer web.Renderer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		renderer.Render(writer, request, http.StatusOK, web.PageHome, web.Page{Title: "Home"})
	}
}

func notFound(renderer *web.TemplateRenderer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if _, ok := ignoredPaths[request.URL.Path]; ok {
			respond.NoContent(writer)
			return
		}
		renderer.NotFound(writer, request)
	}
}
