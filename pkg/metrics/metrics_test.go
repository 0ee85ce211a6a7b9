package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("mybakup-wizard", reg)

	m.WizardStarted()
	m.WizardStarted()
	m.WizardTransition("advance", "0", "blocked")
	m.WizardSubmission("success")
	m.GeolocationLookup("stale")
	m.RequestStatusChanged("confirmed")
	m.ObserveHTTPRequest("POST", "/api/v1/wizards", "201", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.wizardsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wizardTransitions.WithLabelValues("advance", "0", "blocked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wizardSubmissions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.geolocationLookups.WithLabelValues("stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/wizards", "201")))
}

func TestMetrics_DB(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("mybakup-wizard", reg)

	m.ObserveDBQuery("select", 0.002, false)
	m.ObserveDBQuery("insert", 0.01, true)
	m.SetDBConnections(5, 2, 3)

	assert.Equal(t, 2, testutil.CollectAndCount(m.dbQueryDuration))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.dbConnections.WithLabelValues("open")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbConnections.WithLabelValues("in_use")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbConnections.WithLabelValues("idle")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.WizardStarted()
		m.WizardTransition("advance", "1", "ok")
		m.WizardSubmission("failed")
		m.GeolocationLookup("applied")
		m.RequestStatusChanged("rejected")
		m.ObserveHTTPRequest("GET", "/", "200", 0)
		m.ObserveDBQuery("select", 0, false)
		m.SetDBConnections(1, 0, 1)
	})
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "mybakup_wizard", sanitize("MyBakup-Wizard"))
}
