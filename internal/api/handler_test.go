package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/api/middleware"
	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/flash"
	"github.com/taoyao-code/msp-server/internal/gateway"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

type fakeLogs struct {
	rows    []models.CommandLog
	session string
	limit   int
}

func (f *fakeLogs) ListCommandLog(_ context.Context, sessionID string, limit int) ([]models.CommandLog, error) {
	f.session, f.limit = sessionID, limit
	return f.rows, nil
}

// resetWatcher 记录应答首次写出时模拟器已发生的重启次数
type resetWatcher struct {
	*httptest.ResponseRecorder
	sim           *fc.Simulator
	wrote         bool
	resetsAtWrite int
}

func (w *resetWatcher) Write(b []byte) (int, error) {
	if !w.wrote {
		w.wrote = true
		w.resetsAtWrite = w.sim.Calls.Reset
	}
	return w.ResponseRecorder.Write(b)
}

type rig struct {
	r    *gin.Engine
	sim  *fc.Simulator
	eng  *msp.Engine
	chip *flash.Chip
	logs *fakeLogs
}

func newRig(t *testing.T, opts RouteOptions) *rig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chip, err := flash.New(flash.Geometry{PageSize: 16, SectorSize: 64, Sectors: 2})
	require.NoError(t, err)
	sim := fc.NewSimulator(nil)
	fctx := fc.NewContext(fc.DefaultCapabilities(), fc.DefaultIdentity(), nil, sim.Services(fc.Services{Flash: chip}))
	sim.Bind(fctx)
	eng := msp.New(fctx)
	gw := gateway.New(eng, gateway.Options{}, nil, nil, nil)
	logs := &fakeLogs{rows: []models.CommandLog{{
		ID: 7, SessionID: "s1", Transport: "tcp", Cmd: msp.CmdSetName, CmdName: "SET_NAME",
		Result: int16(msp.ResultAck), Request: []byte("quad"), CreatedAt: time.Now(),
	}}}

	r := gin.New()
	RegisterRoutes(r, NewHandler(eng, gw, chip, logs, nil), opts, nil)
	return &rig{r: r, sim: sim, eng: eng, chip: chip, logs: logs}
}

func (g *rig) do(method, path string, body []byte, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	g.r.ServeHTTP(rr, req)
	return rr
}

func TestStatusAndConfig(t *testing.T) {
	g := newRig(t, RouteOptions{})

	rr := g.do(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var st StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, fc.DefaultIdentity().UIDString(), st.UID)
	assert.False(t, st.Armed)
	require.NotNil(t, st.Flash)
	assert.Equal(t, uint32(128), st.Flash.TotalSize)

	tests := []struct {
		name  string
		query string
		code  int
		ctype string
	}{
		{"默认 yaml", "", http.StatusOK, "application/yaml"},
		{"json", "?format=json", http.StatusOK, "application/json"},
		{"未知格式", "?format=xml", http.StatusBadRequest, "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := g.do(http.MethodGet, "/api/config"+tt.query, nil)
			assert.Equal(t, tt.code, rr.Code)
			assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), tt.ctype))
		})
	}

	t.Run("yaml 可回读为 profile", func(t *testing.T) {
		rr := g.do(http.MethodGet, "/api/config", nil)
		cfg, err := fc.ParseProfile(rr.Body.Bytes())
		require.NoError(t, err)
		assert.Equal(t, fc.Defaults().Features, cfg.Features)
	})
}

func TestCommand(t *testing.T) {
	g := newRig(t, RouteOptions{})

	rr := g.do(http.MethodPost, "/api/msp/11", []byte(`{"payload":"71756164"}`), "Content-Type", "application/json")
	require.Equal(t, http.StatusOK, rr.Code)

	tests := []struct {
		name   string
		path   string
		body   string
		code   int
		result string
		reply  string
	}{
		{"读取名称", "/api/msp/10", "", http.StatusOK, "ack", "71756164"},
		{"未知命令", "/api/msp/199", "", http.StatusOK, "error", ""},
		{"命令码越界", "/api/msp/300", "", http.StatusBadRequest, "", ""},
		{"非十六进制载荷", "/api/msp/11", `{"payload":"zz"}`, http.StatusBadRequest, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := g.do(http.MethodPost, tt.path, []byte(tt.body), "Content-Type", "application/json")
			require.Equal(t, tt.code, rr.Code)
			if tt.code != http.StatusOK {
				return
			}
			var resp CommandResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.result, resp.Result)
			assert.Equal(t, tt.reply, resp.Reply)
		})
	}

	t.Run("应答写出后才重启", func(t *testing.T) {
		rw := &resetWatcher{ResponseRecorder: httptest.NewRecorder(), sim: g.sim}
		g.r.ServeHTTP(rw, httptest.NewRequest(http.MethodPost, "/api/msp/68", nil))
		require.Equal(t, http.StatusOK, rw.Code)
		var resp CommandResponse
		require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &resp))
		assert.Equal(t, "reboot", resp.Action)
		assert.True(t, resp.Scheduled)
		assert.True(t, rw.wrote)
		assert.Zero(t, rw.resetsAtWrite)
		assert.True(t, rw.Flushed)
		assert.Equal(t, 1, g.sim.Calls.Reset)
	})

	t.Run("无动作不登记", func(t *testing.T) {
		rr := g.do(http.MethodPost, "/api/msp/1", nil)
		var resp CommandResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.Scheduled)
	})
}

func TestDataflash(t *testing.T) {
	g := newRig(t, RouteOptions{})

	rr := g.do(http.MethodPost, "/api/dataflash", bytes.Repeat([]byte{1}, 100))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint32(100), g.chip.Offset())

	rr = g.do(http.MethodPost, "/api/dataflash", bytes.Repeat([]byte{2}, 50))
	assert.Equal(t, http.StatusInsufficientStorage, rr.Code)
	assert.Contains(t, rr.Body.String(), `"written":28`)

	rr = g.do(http.MethodGet, "/api/dataflash", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var sum flash.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.Equal(t, uint32(128), sum.UsedSize)

	rr = g.do(http.MethodDelete, "/api/dataflash", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, g.chip.Offset())
}

func TestSessionsAndCommands(t *testing.T) {
	g := newRig(t, RouteOptions{})

	rr := g.do(http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":0`)

	rr = g.do(http.MethodDelete, "/api/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = g.do(http.MethodGet, "/api/commands?session=s1&limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "s1", g.logs.session)
	assert.Equal(t, 5, g.logs.limit)

	var body struct {
		Commands []CommandLogEntry `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Commands, 1)
	assert.Equal(t, "ack", body.Commands[0].Result)
	assert.Equal(t, "71756164", body.Commands[0].Request)
}

func TestRouteOptions(t *testing.T) {
	t.Run("认证", func(t *testing.T) {
		g := newRig(t, RouteOptions{Auth: middleware.AuthConfig{Enabled: true, APIKeys: []string{"k1"}}})
		assert.Equal(t, http.StatusUnauthorized, g.do(http.MethodGet, "/api/status", nil).Code)
		assert.Equal(t, http.StatusOK, g.do(http.MethodGet, "/api/status", nil, "X-API-Key", "k1").Code)
	})

	t.Run("调试命令限流", func(t *testing.T) {
		g := newRig(t, RouteOptions{CommandRate: 0.001, CommandBurst: 1})
		assert.Equal(t, http.StatusOK, g.do(http.MethodPost, "/api/msp/1", nil).Code)
		assert.Equal(t, http.StatusTooManyRequests, g.do(http.MethodPost, "/api/msp/1", nil).Code)
	})

	t.Run("swagger", func(t *testing.T) {
		g := newRig(t, RouteOptions{Swagger: true})
		rr := g.do(http.MethodGet, "/swagger/doc.json", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "/api/msp/{cmd}")
	})
}
