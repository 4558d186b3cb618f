package gateway

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/protocol/mspwire"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

type fakeLog struct {
	mu   sync.Mutex
	rows []*models.CommandLog
}

func (f *fakeLog) InsertCommandLog(_ context.Context, l *models.CommandLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, l)
	return nil
}

func (f *fakeLog) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type client struct {
	t    *testing.T
	conn net.Conn
	dec  *mspwire.StreamDecoder
	buf  []*mspwire.Frame
}

func (c *client) send(f mspwire.Frame) {
	b, err := mspwire.Encode(f)
	require.NoError(c.t, err)
	_, err = c.conn.Write(b)
	require.NoError(c.t, err)
}

func (c *client) recv() *mspwire.Frame {
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	p := make([]byte, 512)
	for len(c.buf) == 0 {
		n, err := c.conn.Read(p)
		require.NoError(c.t, err)
		frames, _ := c.dec.Feed(p[:n])
		c.buf = append(c.buf, frames...)
	}
	f := c.buf[0]
	c.buf = c.buf[1:]
	return f
}

func newRig(t *testing.T, audit bool) (*Gateway, *client, *fakeLog, chan error) {
	sim := fc.NewSimulator(nil)
	fctx := fc.NewContext(fc.DefaultCapabilities(), fc.DefaultIdentity(), nil, sim.Services(fc.Services{}))
	sim.Bind(fctx)
	m := metrics.NewAppMetrics(metrics.NewRegistry())
	engine := msp.New(fctx, msp.WithObserver(m))

	logw := &fakeLog{}
	rec := NewRecorder(logw, 16, time.Second, nil, m)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go rec.Run(ctx)

	gw := New(engine, Options{ReplyCapacity: 1024, EnableV2: true, MaxRequestSize: 1024, Audit: audit}, nil, m, rec)
	srv, cli := net.Pipe()
	done := make(chan error, 1)
	go func() { done <- gw.Serve(ctx, TransportTCP, "pipe", srv) }()
	t.Cleanup(func() { _ = cli.Close() })
	return gw, &client{t: t, conn: cli, dec: mspwire.NewStreamDecoder(0, true)}, logw, done
}

func TestSessionRequests(t *testing.T) {
	gw, c, _, _ := newRig(t, false)

	c.send(mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirRequest, Cmd: msp.CmdAPIVersion})
	f := c.recv()
	assert.Equal(t, byte(mspwire.DirReply), f.Direction)
	assert.Equal(t, uint16(msp.CmdAPIVersion), f.Cmd)
	assert.Len(t, f.Payload, 3)

	tests := []struct {
		name string
		req  mspwire.Frame
		dir  byte
	}{
		{"v2 请求按 v2 应答", mspwire.Frame{Version: mspwire.V2, Direction: mspwire.DirRequest, Cmd: msp.CmdFCVariant}, mspwire.DirReply},
		{"v2 大命令码返回错误", mspwire.Frame{Version: mspwire.V2, Direction: mspwire.DirRequest, Cmd: 0x3001}, mspwire.DirError},
		{"未知命令返回错误", mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirRequest, Cmd: 199}, mspwire.DirError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.send(tt.req)
			f := c.recv()
			assert.Equal(t, tt.req.Version, f.Version)
			assert.Equal(t, tt.req.Cmd, f.Cmd)
			assert.Equal(t, tt.dir, f.Direction)
		})
	}

	t.Run("对端应答喂给电流计", func(t *testing.T) {
		// vbat, mAh=500, rssi, amperage=1234
		c.send(mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirReply, Cmd: msp.CmdAnalog,
			Payload: []byte{120, 0xF4, 0x01, 0, 0, 0xD2, 0x04}})
		c.send(mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirRequest, Cmd: msp.CmdAPIVersion})
		c.recv()
		gw.Engine().Locked(func(fctx *fc.Context) {
			assert.Equal(t, uint16(1234), fctx.State.MSPCurrent.Amperage)
			assert.Equal(t, uint16(500), fctx.State.MSPCurrent.MAhDrawn)
		})
	})

	sessions := gw.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, TransportTCP, sessions[0].Transport)
	assert.GreaterOrEqual(t, sessions[0].Frames, int64(5))
}

func TestSessionRebootEnds(t *testing.T) {
	gw, c, logw, done := newRig(t, true)

	c.send(mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirRequest, Cmd: msp.CmdSetName, Payload: []byte("quad")})
	assert.Equal(t, byte(mspwire.DirReply), c.recv().Direction)

	c.send(mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirRequest, Cmd: msp.CmdReboot})
	f := c.recv()
	assert.Equal(t, uint16(msp.CmdReboot), f.Cmd)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("重启后会话未结束")
	}
	assert.Zero(t, gw.Len())
	assert.Eventually(t, func() bool { return logw.len() == 2 }, time.Second, 10*time.Millisecond)
}

func TestKick(t *testing.T) {
	gw, c, _, done := newRig(t, false)
	c.send(mspwire.Frame{Version: mspwire.V1, Direction: mspwire.DirRequest, Cmd: msp.CmdAPIVersion})
	c.recv()

	id := gw.Sessions()[0].ID
	assert.True(t, gw.Kick(id))
	assert.False(t, gw.Kick("missing"))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("会话未关闭")
	}
}
