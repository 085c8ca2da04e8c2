package transport

import (
	"context"

	"github.com/coder/websocket"
)

type wsTransport struct {
	conn *websocket.Conn
}

// NewWebSocketTransport は確立済みのwebsocket接続をTransportに適合させます。
func NewWebSocketTransport(conn *websocket.Conn) Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) Read(ctx context.Context) ([]byte, error) {
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (t *wsTransport) Write(ctx context.Context, data []byte) error {
	return t.conn.Write(ctx, websocket.MessageText, data)
}

func (t *wsTransport) Close(code int32, reason string) error {
	return t.conn.Close(websocket.StatusCode(code), reason)
}

// WebSocketDialer はwebsocketエンドポイントへのDialerです。
type WebSocketDialer struct{}

func (WebSocketDialer) Dial(ctx context.Context, endpoint string) (Transport, error) {
	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocketTransport(conn), nil
}
