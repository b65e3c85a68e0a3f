// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestMetrics_Observe verifies counters move per label.
*/
func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveResolution("session")
	m.ObserveResolution("session")
	m.ObserveResolution("anonymous")
	m.ObserveLogin(OutcomeInvalidCredentials)
	m.ObserveReset(ResetRequested)
	m.ObserveRegistration()

	assert.InDelta(t, 2, testutil.ToFloat64(m.resolutions.WithLabelValues("session")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.resolutions.WithLabelValues("anonymous")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeInvalidCredentials)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.resets.WithLabelValues(ResetRequested)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.registrations), 0)
}

/*
TestMetrics_NilSafe ensures uninstrumented components do not panic.
*/
func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResolution("anonymous")
		m.ObserveLogin(OutcomeSuccess)
		m.ObserveReset(ResetCompleted)
		m.ObserveRegistration()
	})
}

/*
TestHandler exposes registered series.
*/
func TestHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.ObserveLogin(OutcomeSuccess)

	recorder := httptest.NewRecorder()
	Handler(registry).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `auth_login_attempts_total{outcome="success"} 1`)
}
