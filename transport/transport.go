package transport

import "context"

//go:generate go tool mockgen -destination=./mocks/transport_mock.go -package=mocks . Transport,Dialer

// Transport は物理接続が依存するI/O境界です。
type Transport interface {
	Read(ctx context.Context) (data []byte, err error)
	Write(ctx context.Context, data []byte) error
	Close(code int32, reason string) error
}

// Dialer はエンドポイントへの接続を確立します。
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Transport, error)
}
