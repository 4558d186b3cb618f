package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/gateway"
)

var errWSClosed = errors.New("websocket closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsConn 二进制消息流，实现 io.ReadWriteCloser；文本消息被忽略
type wsConn struct {
	conn *websocket.Conn
	buf  []byte
	wmu  sync.Mutex
}

func (w *wsConn) Read(p []byte) (int, error) {
	for len(w.buf) == 0 {
		mt, data, err := w.conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return 0, errWSClosed
			}
			return 0, err
		}
		if mt == websocket.BinaryMessage {
			w.buf = data
		}
	}
	n := copy(p, w.buf)
	w.buf = w.buf[n:]
	return n, nil
}

func (w *wsConn) Write(p []byte) (int, error) {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error { return w.conn.Close() }

// WebSocketHandler 把每条 WebSocket 连接作为一个 MSP 会话；base 取消时会话关闭
func WebSocketHandler(base context.Context, gw *gateway.Gateway, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		err = gw.Serve(base, gateway.TransportWebSocket, c.ClientIP(), &wsConn{conn: conn})
		if err != nil && !errors.Is(err, errWSClosed) {
			logger.Debug("websocket session ended", zap.Error(err))
		}
	}
}
