package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterMetrics(reg) })
	assert.Panics(t, func() { RegisterMetrics(reg) }, "double registration")
}

func TestRecordAuthAttempt(t *testing.T) {
	before := testutil.ToFloat64(AuthAttempts.WithLabelValues("SessionRevoked"))
	RecordAuthAttempt("SessionRevoked")
	assert.Equal(t, before+1, testutil.ToFloat64(AuthAttempts.WithLabelValues("SessionRevoked")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/tasks/{id}", "4xx"))
	RecordHTTPRequest("GET", "/tasks/{id}", 404, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/tasks/{id}", "4xx")))
}

func TestRecordNotification(t *testing.T) {
	before := testutil.ToFloat64(Notifications.WithLabelValues("welcome", NotificationDropped))
	RecordNotification("welcome", NotificationDropped)
	assert.Equal(t, before+1, testutil.ToFloat64(Notifications.WithLabelValues("welcome", NotificationDropped)))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(201))
	assert.Equal(t, "3xx", statusClass(304))
	assert.Equal(t, "4xx", statusClass(401))
	assert.Equal(t, "5xx", statusClass(503))
}
