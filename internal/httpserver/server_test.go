package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/gateway"
	appmetrics "github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/protocol/mspwire"
)

func get(h http.Handler, path string) int {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr.Code
}

func TestProbesAndMetrics(t *testing.T) {
	cfg := cfgpkg.HTTPConfig{Addr: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second}
	ready := false
	srv := New(cfg, "/metrics", appmetrics.Handler(appmetrics.NewRegistry()), func() bool { return ready })

	assert.Equal(t, http.StatusOK, get(srv.Handler(), "/healthz"))
	assert.Equal(t, http.StatusServiceUnavailable, get(srv.Handler(), "/readyz"))
	ready = true
	assert.Equal(t, http.StatusOK, get(srv.Handler(), "/readyz"))
	assert.Equal(t, http.StatusOK, get(srv.Handler(), "/metrics"))
	assert.Equal(t, http.StatusNotFound, get(srv.Handler(), "/debug/pprof/"))

	t.Run("开启 pprof", func(t *testing.T) {
		cfg.Pprof = cfgpkg.HTTPPprof{Enable: true, Prefix: "/debug/pprof"}
		s := New(cfg, "", nil, nil)
		assert.Equal(t, http.StatusOK, get(s.Handler(), "/debug/pprof/"))
	})
}

func TestWebSocketSession(t *testing.T) {
	fctx := fc.NewContext(fc.DefaultCapabilities(), fc.DefaultIdentity(), nil, fc.Services{})
	gw := gateway.New(msp.New(fctx), gateway.Options{ReplyCapacity: 512, EnableV2: true}, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := New(cfgpkg.HTTPConfig{}, "", nil, nil)
	srv.Register(func(r *gin.Engine) { r.GET("/ws/msp", WebSocketHandler(ctx, gw, nil)) })
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/msp", nil)
	require.NoError(t, err)
	defer conn.Close()

	req, _ := mspwire.Encode(mspwire.Frame{Version: mspwire.V2, Direction: mspwire.DirRequest, Cmd: msp.CmdBoardInfo})
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, req))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)
	frames, err := mspwire.NewStreamDecoder(0, true).Feed(data)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, byte(mspwire.DirReply), frames[0].Direction)
	assert.Equal(t, mspwire.V2, frames[0].Version)
	assert.Equal(t, 1, gw.Len())
}
