package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/flash"
	"github.com/taoyao-code/msp-server/internal/tcpserver"
)

type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) Check(context.Context) CheckResult {
	return CheckResult{Status: m.status, Message: "mock", Latency: time.Millisecond}
}

func TestAggregator(t *testing.T) {
	tests := []struct {
		name   string
		status []Status
		want   Status
		ready  bool
	}{
		{"全部健康", []Status{StatusHealthy, StatusHealthy}, StatusHealthy, true},
		{"部分降级仍就绪", []Status{StatusHealthy, StatusDegraded}, StatusDegraded, true},
		{"任一不健康", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy, false},
		{"无检查器", nil, StatusHealthy, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			for i, s := range tt.status {
				agg.AddChecker(&mockChecker{name: string(rune('a' + i)), status: s})
			}
			rep := agg.Report(context.Background())
			assert.Equal(t, tt.want, rep.Status)
			assert.Len(t, rep.Checks, len(tt.status))
			assert.Equal(t, tt.ready, agg.Ready(context.Background()))
		})
	}
}

func TestHTTPRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHTTPRoutes(r, NewAggregator(&mockChecker{"db", StatusUnhealthy}))

	for path, code := range map[string]int{
		"/health":       http.StatusServiceUnavailable,
		"/health/ready": http.StatusServiceUnavailable,
		"/health/live":  http.StatusOK,
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, rr.Code, path)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	var rep HealthReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rep))
	assert.Equal(t, StatusUnhealthy, rep.Checks["db"].Status)
}

func TestFlashChecker(t *testing.T) {
	chip, err := flash.New(flash.Geometry{PageSize: 256, SectorSize: 1024, Sectors: 1})
	require.NoError(t, err)
	c := NewFlashChecker(chip)
	assert.Equal(t, StatusHealthy, c.Check(context.Background()).Status)

	_, _ = chip.Append(context.Background(), make([]byte, 1024))
	res := c.Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, "flash full", res.Message)
}

func TestTCPChecker(t *testing.T) {
	s := tcpserver.New(cfgpkg.TCPConfig{MaxConnections: 4}, nil, nil, nil)
	res := NewTCPChecker(s).Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, 4, res.Details["max_connections"])
}
