package directory

import (
	"time"

	"skirmish/domain"
)

// Directory は近隣プレイヤーの位置記録を保持するストアの境界です。
type Directory interface {
	// Upsert はプレイヤーの記録を挿入または更新します。
	Upsert(playerID string, location domain.Coordinate, heading float64)
	// Remove はプレイヤーの記録を削除します。
	Remove(playerID string)
	// All は全記録のスナップショットを返します。
	All() []domain.PlayerRecord
	// AllStale は指定期間より古い記録のプレイヤーIDを返します。
	AllStale(olderThan time.Duration) []string
}
