package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/riskscope/internal/metrics"
)

func TestMetrics_CountAndExpose(t *testing.T) {
	m := metrics.New()
	m.Assessments.WithLabelValues("diabetes", "High").Inc()
	m.Assessments.WithLabelValues("diabetes", "High").Inc()
	m.Scores.WithLabelValues("diabetes").Observe(100)
	m.Errors.WithLabelValues("missing_factor").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Assessments.WithLabelValues("diabetes", "High")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("missing_factor")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `riskscope_assessments_total{condition="diabetes",tier="High"} 2`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
