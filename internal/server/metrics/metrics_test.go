package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLogin(t *testing.T) {
	m := New()

	m.RecordLogin(LoginSuccess)
	m.RecordLogin(LoginSuccess)
	m.RecordLogin(LoginRejected)
	m.RecordLogout()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.logins.WithLabelValues(LoginSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logins.WithLabelValues(LoginRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logouts))
}

func TestInFlight(t *testing.T) {
	m := New()

	m.IncrementInFlight()
	m.IncrementInFlight()
	m.DecrementInFlight()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpInFlight))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.RecordHTTPRequest(http.MethodPost, "/api/v1/auth/login", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `medinvest_auth_http_requests_total{method="POST",path="/api/v1/auth/login",status="200"} 1`)
	assert.Contains(t, string(body), "medinvest_auth_http_request_duration_seconds_bucket")
}

func TestNew_Independent(t *testing.T) {
	a, b := New(), New()
	a.RecordLogout()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.logouts))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.logouts))
}
