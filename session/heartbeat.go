package session

import (
	"context"
	"log/slog"
	"time"

	"skirmish/directory"
)

// Heartbeat は一定間隔で古いプレイヤー記録をDirectoryから取り除く
// 死活監視サービスです。セッション状態には触れません。
type Heartbeat struct {
	interval   time.Duration
	staleAfter time.Duration
	directory  directory.Directory
}

func NewHeartbeat(interval, staleAfter time.Duration, dir directory.Directory) *Heartbeat {
	return &Heartbeat{
		interval:   interval,
		staleAfter: staleAfter,
		directory:  dir,
	}
}

// Run はinterval間隔で期限切れの記録を削除します。
// ctxがキャンセルされると終了します。
func (h *Heartbeat) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, playerID := range h.directory.AllStale(h.staleAfter) {
				h.directory.Remove(playerID)
				slog.DebugContext(ctx, "heartbeat: stale player evicted", "playerID", playerID)
			}
		}
	}
}
