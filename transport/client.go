package transport

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"skirmish/protocol"
)

// Receiver は受信メッセージと切断通知の配送先です。
type Receiver interface {
	HandleMessage(ctx context.Context, msg *protocol.GameMessage)
	ConnectionLost(err error)
}

var (
	// ErrNotConnected は未接続状態での送信に返されるエラーです。
	ErrNotConnected = errors.New("transport: not connected")
	// ErrBackpressure は書き込みチャネルが満杯の場合に返されるエラーです。
	ErrBackpressure = errors.New("transport: write channel is full, apply backpressure")
)

const (
	reconnectBase = 1 * time.Second
	reconnectCap  = 30 * time.Second

	closeStatusNormal = 1000

	writeBuffer = 256
)

// Client は単一エンドポイントへの永続的な双方向メッセージパイプです。
// 受信ループはフレームをデコードしてReceiverに配送します。デコード失敗は
// そのフレームのみを破棄します。読み取りエラー時は指数バックオフで
// 再接続します。
type Client struct {
	dialer   Dialer
	endpoint string

	mu        sync.Mutex
	receiver  Receiver
	transport Transport
	cancel    context.CancelFunc
	writeCh   chan []byte

	connected atomic.Bool
}

func NewClient(dialer Dialer, endpoint string) *Client {
	return &Client{
		dialer:   dialer,
		endpoint: endpoint,
	}
}

// SetReceiver は受信メッセージの配送先を設定します。Connectより前に呼びます。
func (c *Client) SetReceiver(receiver Receiver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiver = receiver
}

// Connect はエンドポイントに接続し、受信・送信ループを開始します。
func (c *Client) Connect(ctx context.Context) error {
	if !c.connected.CompareAndSwap(false, true) {
		return nil
	}

	tr, err := c.dialer.Dial(ctx, c.endpoint)
	if err != nil {
		c.connected.Store(false)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.transport = tr
	c.cancel = cancel
	c.writeCh = make(chan []byte, writeBuffer)
	c.mu.Unlock()

	go c.run(runCtx)
	return nil
}

// Disconnect は接続を閉じ、ループを停止します。
func (c *Client) Disconnect() {
	if !c.connected.CompareAndSwap(true, false) {
		return
	}
	c.mu.Lock()
	tr := c.transport
	cancel := c.cancel
	c.transport = nil
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if tr != nil {
		_ = tr.Close(closeStatusNormal, "client disconnect")
	}
}

// IsConnected は接続状態を返します。
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Send はメッセージをシリアライズして送信キューに積みます。
func (c *Client) Send(ctx context.Context, msg *protocol.GameMessage) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	writeCh := c.writeCh
	c.mu.Unlock()
	if !c.connected.Load() || writeCh == nil {
		return ErrNotConnected
	}

	select {
	case writeCh <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *Client) run(ctx context.Context) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		c.readLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		c.writeLoop(ctx)
		return nil
	})
	_ = eg.Wait()
}

func (c *Client) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tr := c.currentTransport()
		if tr == nil {
			return
		}

		data, err := tr.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || !c.connected.Load() {
				return
			}
			c.notifyLost(err)
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			slog.WarnContext(ctx, "transport: dropping undecodable frame", "err", err)
			continue
		}

		c.mu.Lock()
		receiver := c.receiver
		c.mu.Unlock()
		if receiver != nil {
			receiver.HandleMessage(ctx, msg)
		}
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	c.mu.Lock()
	writeCh := c.writeCh
	c.mu.Unlock()
	if writeCh == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-writeCh:
			tr := c.currentTransport()
			if tr == nil {
				return
			}
			if err := tr.Write(ctx, data); err != nil {
				slog.WarnContext(ctx, "transport: write failed, frame dropped", "err", err)
			}
		}
	}
}

// reconnect は接続が確立するまで指数バックオフで再ダイヤルします。
// コンテキストのキャンセルかDisconnectで中断した場合はfalseを返します。
func (c *Client) reconnect(ctx context.Context) bool {
	delay := reconnectBase
	for {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		if !c.connected.Load() {
			return false
		}

		tr, err := c.dialer.Dial(ctx, c.endpoint)
		if err != nil {
			slog.WarnContext(ctx, "transport: reconnect failed", "err", err, "retryIn", delay)
			delay = min(delay*2, reconnectCap)
			continue
		}

		c.mu.Lock()
		c.transport = tr
		c.mu.Unlock()
		slog.InfoContext(ctx, "transport: reconnected", "endpoint", c.endpoint)
		return true
	}
}

func (c *Client) currentTransport() Transport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport
}

func (c *Client) notifyLost(err error) {
	c.mu.Lock()
	receiver := c.receiver
	c.mu.Unlock()
	if receiver != nil {
		receiver.ConnectionLost(err)
	}
}
