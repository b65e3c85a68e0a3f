// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	requestutil "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/request"
)

/*
TestWantsJSON covers the three signals of an API/AJAX caller.
*/
func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    bool
	}{
		{"browser_form", "/auth/login", map[string]string{"Accept": "text/html,application/xhtml+xml"}, false},
		{"xhr", "/auth/login", map[string]string{"X-Requested-With": "XMLHttpRequest"}, true},
		{"accept_json", "/auth/login", map[string]string{"Accept": "application/json"}, true},
		{"api_prefix", "/api/products", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}
			assert.Equal(t, tt.want, requestutil.WantsJSON(request))
		})
	}
}

/*
TestDecodeForm verifies trimming rules and checkbox parsing.
*/
func TestDecodeForm(t *testing.T) {
	body := strings.NewReader("identifier=+alice+&password=+Pass123+&rememberMe=on")
	request := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := requestutil.DecodeForm(httptest.NewRecorder(), request)
	require.NoError(t, err)

	assert.Equal(t, "alice", form.Get("identifier"))
	assert.Equal(t, " Pass123 ", form.Raw("password"))
	assert.True(t, form.Bool("rememberMe"))
	assert.False(t, form.Bool("missing"))
	assert.Empty(t, form.Get("missing"))
}
