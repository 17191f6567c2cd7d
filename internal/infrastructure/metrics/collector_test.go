package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordDispatch("success")
	c.RecordDispatch("success")
	c.RecordDispatch("error")
	c.RecordAutomation("google", "done", 2*time.Second)
	c.RecordBrowserLaunch()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.dispatchTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dispatchTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.automationTotal.WithLabelValues("google", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.browserLaunches))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.RecordDispatch("llm_response")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `agent_daemon_dispatch_total{status="llm_response"} 1`)
}

func TestNewCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector(prometheus.NewRegistry())
		NewCollector(prometheus.NewRegistry())
	})
}
